package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wellbeing-project/wellctl/internal/session"
)

func TestLogout_NotLoggedIn(t *testing.T) {
	s := newTrackerStub(t)
	path := filepath.Join(t.TempDir(), "session.json")

	if _, err := execCommand(t, s, path, "", "logout"); err != nil {
		t.Fatalf("logout while logged out should succeed: %v", err)
	}
	if got := s.calls(); len(got) != 0 {
		t.Errorf("expected no requests, got %v", got)
	}
}

func TestLogout_ClearsSession(t *testing.T) {
	s := newTrackerStub(t)
	path := filepath.Join(t.TempDir(), "session.json")
	seedSession(t, path, "alice", "student")

	if _, err := execCommand(t, s, path, "", "logout"); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file should be removed after logout")
	}

	calls := s.calls()
	if len(calls) != 1 || calls[0] != "POST /logout" {
		t.Errorf("expected a single POST /logout, got %v", calls)
	}
}

func TestLogout_ServerUnreachable(t *testing.T) {
	s := newTrackerStub(t)
	path := filepath.Join(t.TempDir(), "session.json")
	seedSession(t, path, "alice", "student")

	// The remote call is best effort: logout still clears the session
	// when the service is down.
	s.server.Close()

	if _, err := execCommand(t, s, path, "", "logout"); err != nil {
		t.Fatalf("logout should not fail when the server is unreachable: %v", err)
	}

	restored := session.New(path)
	restored.Restore()
	if restored.Current() != nil {
		t.Error("session should be cleared even when the remote logout fails")
	}
}
