package api

import (
	"fmt"
	"strings"
	"time"
)

// User mirrors the tracker service's user payload.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Handler identifies the staff member who resolved an alert.
type Handler struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Meeting is the scheduled meeting attached to an evaluation.
type Meeting struct {
	Place string `json:"place"`
	Time  string `json:"time"`
	Day   string `json:"day"`
	Date  string `json:"date"`
}

// MeetingProposal is the place/time/day/date tuple an operator attaches to a
// flagged evaluation. All four fields are required before it may be sent.
type MeetingProposal struct {
	Place string `json:"place"`
	Time  string `json:"time"`
	Day   string `json:"day"`
	Date  string `json:"date"`
}

// Validate reports whether the proposal is complete enough to submit.
func (m MeetingProposal) Validate() error {
	var missing []string
	for field, value := range map[string]string{
		"place": m.Place,
		"time":  m.Time,
		"day":   m.Day,
		"date":  m.Date,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("meeting proposal incomplete: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Evaluation mirrors the tracker service's evaluation payload.
type Evaluation struct {
	ID           int            `json:"id"`
	SubmittedAt  string         `json:"submitted_at"`
	Date         string         `json:"date"`
	TotalScore   int            `json:"total_score"`
	NeedsSupport bool           `json:"needs_support"`
	User         *User          `json:"user"`
	Answers      map[string]int `json:"answers"`
	HandledBy    *Handler       `json:"handled_by"`
	HandledAt    *string        `json:"handled_at"`
	Meeting      *Meeting       `json:"meeting"`
}

// Submitted parses the submission timestamp, falling back to the zero time
// when the server sends a format the client does not recognize.
func (e Evaluation) Submitted() time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, e.SubmittedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Notification is a role-dependent message from the tracker service.
type Notification struct {
	Type         string   `json:"type"`
	EvaluationID int      `json:"evaluation_id"`
	Message      string   `json:"message"`
	Meeting      *Meeting `json:"meeting"`
}

// MeetingInfo is the latest scheduled meeting for the current student.
type MeetingInfo struct {
	Place        string `json:"place"`
	Time         string `json:"time"`
	Day          string `json:"day"`
	Date         string `json:"date"`
	EvaluationID int    `json:"evaluation_id"`
	ScheduledBy  *struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"scheduled_by"`
}

// LoginResult is the successful login response.
type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"access_token"`
	User    User   `json:"user"`
}

// SignupRequest is the account creation payload.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SubmitResult is the response to an evaluation submission.
type SubmitResult struct {
	Message    string     `json:"message"`
	Evaluation Evaluation `json:"evaluation"`
}
