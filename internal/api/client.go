// Package api is the client for the remote wellbeing tracker service. It
// owns the wire contract: bearer authentication on every call, structured
// `{"error": ...}` rejections surfaced verbatim, and a generic failure for
// anything the client cannot decode.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnauthorized marks a server-reported credential invalidity (401). The
// caller discards the stored credential when it sees this.
var ErrUnauthorized = errors.New("credential rejected by server")

// APIError is a structured rejection from the tracker service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap lets callers match 401s with errors.Is(err, ErrUnauthorized).
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client talks to the tracker service. The credential supplier is consulted
// per request so a login or logout between calls is always honored.
type Client struct {
	baseURL    string
	httpClient *http.Client
	credential func() string
}

// New creates a client for the service at baseURL. credential may return the
// empty string when no session is active.
func New(baseURL string, timeout time.Duration, credential func() string) *Client {
	if credential == nil {
		credential = func() string { return "" }
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		credential: credential,
	}
}

// do issues one request and decodes the response into out (when non-nil).
// Non-2xx responses become an *APIError carrying the server's error string
// when one is present, or a generic message otherwise.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.credential(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling tracker service: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// decodeError turns a rejection body into an APIError. A structured
// `{"error": string}` payload is surfaced verbatim; anything else gets a
// generic message so the workflow treats both shapes identically.
func decodeError(status int, data []byte) error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			return &APIError{StatusCode: status, Message: payload.Error}
		}
		if payload.Message != "" {
			return &APIError{StatusCode: status, Message: payload.Message}
		}
	}
	return &APIError{StatusCode: status, Message: fmt.Sprintf("request failed with status %d", status)}
}

// Login authenticates with a username or email plus password.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (*LoginResult, error) {
	body := map[string]string{
		"username_or_email": usernameOrEmail,
		"password":          password,
	}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Signup registers a new account. It does not log the user in.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*User, error) {
	var result struct {
		Message string `json:"message"`
		User    User   `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/signup", req, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// Logout invalidates the current credential server-side.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// ListEvaluations returns every evaluation record. Staff only.
func (c *Client) ListEvaluations(ctx context.Context) ([]Evaluation, error) {
	var evals []Evaluation
	if err := c.do(ctx, http.MethodGet, "/evaluations", nil, &evals); err != nil {
		return nil, err
	}
	return evals, nil
}

// MyEvaluations returns the current student's submissions.
func (c *Client) MyEvaluations(ctx context.Context) ([]Evaluation, error) {
	var evals []Evaluation
	if err := c.do(ctx, http.MethodGet, "/my-evaluations", nil, &evals); err != nil {
		return nil, err
	}
	return evals, nil
}

// EvaluationsByUsername returns a student's submissions by username. Staff only.
func (c *Client) EvaluationsByUsername(ctx context.Context, username string) ([]Evaluation, error) {
	var evals []Evaluation
	if err := c.do(ctx, http.MethodGet, "/evaluations/username/"+username, nil, &evals); err != nil {
		return nil, err
	}
	return evals, nil
}

// SubmitEvaluation sends the ten answers of a new self-assessment.
func (c *Client) SubmitEvaluation(ctx context.Context, answers [10]int) (*SubmitResult, error) {
	body := make(map[string]int, len(answers))
	for i, a := range answers {
		body[fmt.Sprintf("q%d", i+1)] = a
	}
	var result SubmitResult
	if err := c.do(ctx, http.MethodPost, "/evaluations", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetMeeting attaches meeting details to an evaluation. The server rejects
// proposals with missing fields; the client validates first so an incomplete
// proposal never reaches the wire.
func (c *Client) SetMeeting(ctx context.Context, evaluationID int, proposal MeetingProposal) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/evaluations/%d/set-meeting", evaluationID), proposal, nil)
}

// MarkHandled marks an evaluation as handled by the current operator. The
// server decides whether a repeat marking is acceptable; the client only
// relays the outcome.
func (c *Client) MarkHandled(ctx context.Context, evaluationID int) (string, error) {
	var result struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/evaluations/%d/handle", evaluationID), nil, &result); err != nil {
		return "", err
	}
	return result.Message, nil
}

// SendNotification dispatches a one-way message to the student behind an
// evaluation. Single call, no retry.
func (c *Client) SendNotification(ctx context.Context, evaluationID int, message string) error {
	body := map[string]any{
		"evaluation_id": evaluationID,
		"message":       message,
	}
	return c.do(ctx, http.MethodPost, "/notifications", body, nil)
}

// ListNotifications returns the role-dependent notifications for the current
// user.
func (c *Client) ListNotifications(ctx context.Context) ([]Notification, error) {
	var notes []Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// StudentMeeting returns the latest scheduled meeting for the current
// student, or nil when none has been scheduled.
func (c *Client) StudentMeeting(ctx context.Context) (*MeetingInfo, error) {
	var result struct {
		Message string       `json:"message"`
		Meeting *MeetingInfo `json:"meeting"`
	}
	if err := c.do(ctx, http.MethodGet, "/evaluations/student/meeting", nil, &result); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return result.Meeting, nil
}

// ListUsers returns all accounts. Staff only.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns one account by id. Staff only.
func (c *Client) GetUser(ctx context.Context, id int) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
