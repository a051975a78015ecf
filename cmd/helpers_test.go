package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wellbeing-project/wellctl/internal/api"
	"github.com/wellbeing-project/wellctl/internal/output"
	"github.com/wellbeing-project/wellctl/internal/session"
)

// trackerStub is a minimal in-memory tracker service for command tests.
// It records every request in arrival order so tests can assert on call
// sequencing.
type trackerStub struct {
	mu       sync.Mutex
	requests []string          // "METHOD /path"
	bodies   map[string][]byte // last body seen per "METHOD /path"

	loginRole  string
	evals      []api.Evaluation
	users      []api.User
	notes      []api.Notification
	meeting    *api.MeetingInfo
	handleErr  string // when set, PATCH handle fails with this {error}
	meetingErr string // when set, PATCH set-meeting fails with this {error}
	expired    bool   // when set, every authenticated call gets a 401

	server *httptest.Server
}

func newTrackerStub(t *testing.T) *trackerStub {
	t.Helper()
	s := &trackerStub{
		loginRole: "student",
		bodies:    make(map[string][]byte),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

func (s *trackerStub) record(r *http.Request) string {
	key := r.Method + " " + r.URL.Path
	body := new(bytes.Buffer)
	if r.Body != nil {
		_, _ = body.ReadFrom(r.Body)
	}
	s.mu.Lock()
	s.requests = append(s.requests, key)
	s.bodies[key] = body.Bytes()
	s.mu.Unlock()
	return key
}

func (s *trackerStub) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *trackerStub) body(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[key]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *trackerStub) handle(w http.ResponseWriter, r *http.Request) {
	key := s.record(r)

	if s.expired && r.URL.Path != "/login" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Token has expired"})
		return
	}

	switch {
	case key == "POST /login":
		var req struct {
			UsernameOrEmail string `json:"username_or_email"`
			Password        string `json:"password"`
		}
		_ = json.Unmarshal(s.body(key), &req)
		if req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message":      "Login successful",
			"access_token": "tok-abc",
			"user": api.User{
				ID:       1,
				Username: req.UsernameOrEmail,
				Email:    req.UsernameOrEmail + "@example.edu",
				Role:     s.loginRole,
			},
		})
	case key == "POST /signup":
		var u api.User
		_ = json.Unmarshal(s.body(key), &u)
		u.ID = 9
		writeJSON(w, http.StatusCreated, u)
	case key == "POST /logout":
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
	case key == "GET /evaluations":
		writeJSON(w, http.StatusOK, s.evals)
	case key == "GET /my-evaluations":
		writeJSON(w, http.StatusOK, s.evals)
	case strings.HasPrefix(key, "GET /evaluations/username/"):
		writeJSON(w, http.StatusOK, s.evals)
	case key == "POST /evaluations":
		var answers map[string]int
		_ = json.Unmarshal(s.body(key), &answers)
		total := 0
		for _, v := range answers {
			total += v
		}
		writeJSON(w, http.StatusCreated, api.SubmitResult{
			Message: "Evaluation submitted",
			Evaluation: api.Evaluation{
				ID:           99,
				TotalScore:   total,
				NeedsSupport: total >= 35,
			},
		})
	case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/set-meeting"):
		if s.meetingErr != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": s.meetingErr})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Meeting scheduled"})
	case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/handle"):
		if s.handleErr != "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": s.handleErr})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Evaluation marked as handled"})
	case key == "POST /notifications":
		writeJSON(w, http.StatusCreated, map[string]string{"message": "Notification sent"})
	case key == "GET /notifications":
		writeJSON(w, http.StatusOK, s.notes)
	case key == "GET /evaluations/student/meeting":
		if s.meeting == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "No meeting found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"meeting": s.meeting})
	case key == "GET /users":
		writeJSON(w, http.StatusOK, s.users)
	case strings.HasPrefix(key, "GET /users/"):
		if len(s.users) == 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})
			return
		}
		writeJSON(w, http.StatusOK, s.users[0])
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	}
}

// resetFlags restores all flag values to their defaults. Flag values stick
// to the shared command tree between Execute calls, so every test run starts
// from a clean slate.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execCommand runs wellctl against the stub with an isolated session file.
func execCommand(t *testing.T, s *trackerStub, sessionPath, stdin string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))

	full := append([]string{"--server", s.server.URL, "--session-file", sessionPath, "--no-color"}, args...)
	rootCmd.SetArgs(full)

	err := rootCmd.Execute()
	return buf.String(), err
}

// seedSession writes a valid session file so a command starts logged in.
func seedSession(t *testing.T, path, username, role string) {
	t.Helper()
	st := session.New(path)
	if err := st.Set(session.Identity{Username: username, Role: role, UserID: 1}, "tok-abc"); err != nil {
		t.Fatalf("seeding session: %v", err)
	}
}

// assertExitCode checks that err is a CLI error with the expected exit code.
func assertExitCode(t *testing.T, err error, want int) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error, got nil")
	}
	var cliErr *output.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected a CLI error, got %T: %v", err, err)
	}
	if cliErr.ExitCode != want {
		t.Errorf("exit code = %d, want %d", cliErr.ExitCode, want)
	}
}

func sampleEvaluations() []api.Evaluation {
	return []api.Evaluation{
		{
			ID:           1,
			SubmittedAt:  "2026-08-20T10:00:00",
			Date:         "2026-08-20",
			TotalScore:   42,
			NeedsSupport: true,
			User:         &api.User{ID: 2, Username: "alice", Email: "alice@example.edu", Role: "student"},
		},
		{
			ID:           2,
			SubmittedAt:  "2026-08-21T11:30:00",
			Date:         "2026-08-21",
			TotalScore:   38,
			NeedsSupport: true,
			User:         &api.User{ID: 3, Username: "bob", Email: "bob@example.edu", Role: "student"},
			HandledBy:    &api.Handler{ID: 1, Username: "carol", Email: "carol@example.edu"},
		},
		{
			ID:          3,
			SubmittedAt: "2026-08-22T09:15:00",
			Date:        "2026-08-22",
			TotalScore:  18,
			User:        &api.User{ID: 2, Username: "alice", Email: "alice@example.edu", Role: "student"},
		},
	}
}
