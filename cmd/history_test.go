package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/wellbeing-project/wellctl/internal/api"
	"github.com/wellbeing-project/wellctl/internal/output"
)

func TestHistory_Student(t *testing.T) {
	s := newTrackerStub(t)
	s.evals = sampleEvaluations()
	path := filepath.Join(t.TempDir(), "session.json")
	seedSession(t, path, "alice", "student")

	out, err := execCommand(t, s, path, "", "history", "--json")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	calls := s.calls()
	if len(calls) != 1 || calls[0] != "GET /my-evaluations" {
		t.Errorf("expected GET /my-evaluations, got %v", calls)
	}

	var evals []api.Evaluation
	if err := json.Unmarshal([]byte(out), &evals); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(evals) != 3 {
		t.Errorf("expected 3 evaluations, got %d", len(evals))
	}
}

func TestHistory_StaffLookup(t *testing.T) {
	s := newTrackerStub(t)
	s.evals = sampleEvaluations()
	path := filepath.Join(t.TempDir(), "session.json")
	seedSession(t, path, "carol", "staff")

	_, err := execCommand(t, s, path, "", "history", "--username", "alice")
	if err != nil {
		t.Fatalf("history --username failed: %v", err)
	}

	calls := s.calls()
	if len(calls) != 1 || calls[0] != "GET /evaluations/username/alice" {
		t.Errorf("expected GET /evaluations/username/alice, got %v", calls)
	}
}

func TestHistory_StudentCannotLookupOthers(t *testing.T) {
	s := newTrackerStub(t)
	path := filepath.Join(t.TempDir(), "session.json")
	seedSession(t, path, "alice", "student")

	_, err := execCommand(t, s, path, "", "history", "--username", "bob")
	assertExitCode(t, err, output.ExitForbidden)

	if got := s.calls(); len(got) != 0 {
		t.Errorf("expected no requests, got %v", got)
	}
}
