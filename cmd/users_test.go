package cmd

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/wellbeing-project/wellctl/internal/api"
	"github.com/wellbeing-project/wellctl/internal/output"
)

func sampleUsers() []api.User {
	return []api.User{
		{ID: 1, Username: "carol", Email: "carol@example.edu", Role: "staff"},
		{ID: 2, Username: "alice", Email: "alice@example.edu", Role: "student"},
		{ID: 3, Username: "bob", Email: "bob@example.edu", Role: "student"},
	}
}

func TestUsers_List(t *testing.T) {
	s := newTrackerStub(t)
	s.users = sampleUsers()
	path := filepath.Join(t.TempDir(), "session.json")
	seedSession(t, path, "carol", "staff")

	out, err := execCommand(t, s, path, "", "users", "--json")
	if err != nil {
		t.Fatalf("users failed: %v", err)
	}

	var users []api.User
	if err := json.Unmarshal([]byte(out), &users); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(users) != 3 {
		t.Errorf("expected 3 users, got %d", len(users))
	}
}

func TestUsers_RoleFilter(t *testing.T) {
	s := newTrackerStub(t)
	s.users = sampleUsers()
	path := filepath.Join(t.TempDir(), "session.json")
	seedSession(t, path, "carol", "staff")

	out, err := execCommand(t, s, path, "", "users", "--role", "student", "--json")
	if err != nil {
		t.Fatalf("users --role failed: %v", err)
	}

	var users []api.User
	if err := json.Unmarshal([]byte(out), &users); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 students, got %d", len(users))
	}
}

func TestUsers_Show(t *testing.T) {
	s := newTrackerStub(t)
	s.users = sampleUsers()
	path := filepath.Join(t.TempDir(), "session.json")
	seedSession(t, path, "carol", "staff")

	out, err := execCommand(t, s, path, "", "users", "show", "1", "--json")
	if err != nil {
		t.Fatalf("users show failed: %v", err)
	}

	var user api.User
	if err := json.Unmarshal([]byte(out), &user); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if user.Username != "carol" {
		t.Errorf("unexpected user: %+v", user)
	}
}

func TestUsers_Evals(t *testing.T) {
	s := newTrackerStub(t)
	s.evals = sampleEvaluations()
	path := filepath.Join(t.TempDir(), "session.json")
	seedSession(t, path, "carol", "staff")

	out, err := execCommand(t, s, path, "", "users", "evals", "alice", "--json")
	if err != nil {
		t.Fatalf("users evals failed: %v", err)
	}

	calls := s.calls()
	if len(calls) != 1 || calls[0] != "GET /evaluations/username/alice" {
		t.Errorf("expected GET /evaluations/username/alice, got %v", calls)
	}

	var evals []api.Evaluation
	if err := json.Unmarshal([]byte(out), &evals); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(evals) != 3 {
		t.Errorf("expected 3 evaluations, got %d", len(evals))
	}
}

func TestUsers_StudentForbidden(t *testing.T) {
	s := newTrackerStub(t)
	path := filepath.Join(t.TempDir(), "session.json")
	seedSession(t, path, "alice", "student")

	_, err := execCommand(t, s, path, "", "users")
	assertExitCode(t, err, output.ExitForbidden)
}
