// Package alerts drives a flagged evaluation from detection to resolution.
// The resolution sequence is a small state machine: the meeting details are
// confirmed remotely first, and only a successful confirmation permits the
// handled-marking call. A failed second step leaves the record pending; the
// meeting may already be persisted remotely, which is accepted rather than
// rolled back.
package alerts

import (
	"context"
	"fmt"

	"github.com/wellbeing-project/wellctl/internal/api"
)

// Service is the slice of the tracker client the workflow drives.
type Service interface {
	SetMeeting(ctx context.Context, evaluationID int, proposal api.MeetingProposal) error
	MarkHandled(ctx context.Context, evaluationID int) (string, error)
	SendNotification(ctx context.Context, evaluationID int, message string) error
}

// State is the position of one flagged evaluation in the resolution sequence.
type State int

const (
	// StateFlagged is the initial state: needs support, nobody has acted.
	StateFlagged State = iota
	// StateMeetingProposed means the operator has opened a proposal locally.
	StateMeetingProposed
	// StateMeetingConfirmed means the meeting details are persisted remotely.
	StateMeetingConfirmed
	// StateHandled is terminal: the record carries an operator reference.
	StateHandled
)

func (s State) String() string {
	switch s {
	case StateFlagged:
		return "flagged"
	case StateMeetingProposed:
		return "meeting-proposed"
	case StateMeetingConfirmed:
		return "meeting-confirmed"
	case StateHandled:
		return "handled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Workflow owns the transitions of one flagged evaluation.
type Workflow struct {
	svc          Service
	evaluationID int
	state        State
	proposal     api.MeetingProposal
	hasMeeting   bool
}

// NewWorkflow starts in StateFlagged for the given evaluation.
func NewWorkflow(svc Service, evaluationID int) *Workflow {
	return &Workflow{svc: svc, evaluationID: evaluationID, state: StateFlagged}
}

// State returns the current position in the sequence.
func (w *Workflow) State() State {
	return w.state
}

// EvaluationID returns the record this workflow governs.
func (w *Workflow) EvaluationID() int {
	return w.evaluationID
}

// Propose records the operator's meeting proposal locally. No remote call is
// made; an incomplete proposal is accepted here and rejected at Confirm.
func (w *Workflow) Propose(proposal api.MeetingProposal) error {
	if w.state != StateFlagged {
		return fmt.Errorf("cannot propose a meeting from state %s", w.state)
	}
	w.proposal = proposal
	w.state = StateMeetingProposed
	return nil
}

// Confirm submits the proposal and, once the meeting is confirmed remotely,
// marks the record handled. The two calls are strictly ordered; the second
// is only attempted after the first succeeds. An incomplete proposal fails
// before any remote call. When the handled-marking fails the record stays in
// the operator's pending list even though the meeting fields may already be
// persisted; the caller retries from where the sequence stopped.
func (w *Workflow) Confirm(ctx context.Context) (string, error) {
	switch w.state {
	case StateMeetingProposed:
		if err := w.proposal.Validate(); err != nil {
			return "", err
		}
		if err := w.svc.SetMeeting(ctx, w.evaluationID, w.proposal); err != nil {
			return "", fmt.Errorf("scheduling meeting: %w", err)
		}
		w.state = StateMeetingConfirmed
		w.hasMeeting = true
		fallthrough
	case StateMeetingConfirmed:
		msg, err := w.svc.MarkHandled(ctx, w.evaluationID)
		if err != nil {
			return "", fmt.Errorf("marking handled: %w", err)
		}
		w.state = StateHandled
		return msg, nil
	default:
		return "", fmt.Errorf("cannot confirm a meeting from state %s", w.state)
	}
}

// MarkHandled resolves the record directly, without a meeting. Valid only
// from the initial state; no meeting fields are ever sent.
func (w *Workflow) MarkHandled(ctx context.Context) (string, error) {
	if w.state != StateFlagged {
		return "", fmt.Errorf("cannot mark handled from state %s", w.state)
	}
	msg, err := w.svc.MarkHandled(ctx, w.evaluationID)
	if err != nil {
		return "", fmt.Errorf("marking handled: %w", err)
	}
	w.state = StateHandled
	return msg, nil
}

// Notify sends the optional meeting notification to the student. Permitted
// only after the record is handled with a confirmed meeting, and only when
// the operator asked for it. A send failure is reported but changes nothing:
// the record stays handled.
func (w *Workflow) Notify(ctx context.Context) error {
	if w.state != StateHandled {
		return fmt.Errorf("cannot notify from state %s", w.state)
	}
	if !w.hasMeeting {
		return fmt.Errorf("no meeting to notify about")
	}
	if err := w.svc.SendNotification(ctx, w.evaluationID, MeetingMessage(w.proposal)); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	return nil
}

// MeetingMessage renders the notification body for a confirmed meeting.
func MeetingMessage(p api.MeetingProposal) string {
	return fmt.Sprintf("A meeting has been scheduled.\nPlace: %s\nTime: %s, %s %s",
		p.Place, p.Time, p.Day, p.Date)
}
