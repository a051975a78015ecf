package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestVersion_Short(t *testing.T) {
	s := newTrackerStub(t)
	out, err := execCommand(t, s, t.TempDir()+"/session.json", "", "version", "--short")
	if err != nil {
		t.Fatalf("version --short failed: %v", err)
	}
	if strings.TrimSpace(out) != "dev" {
		t.Errorf("expected 'dev', got %q", out)
	}
}

func TestVersion_JSON(t *testing.T) {
	s := newTrackerStub(t)
	out, err := execCommand(t, s, t.TempDir()+"/session.json", "", "version", "--json")
	if err != nil {
		t.Fatalf("version --json failed: %v", err)
	}

	var info map[string]string
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if info["version"] != "dev" {
		t.Errorf("expected version 'dev', got %q", info["version"])
	}
	if info["goVersion"] == "" {
		t.Error("expected a go version")
	}
}

func TestCompletion_Bash(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"completion", "--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("completion --help failed: %v", err)
	}
	if !strings.Contains(buf.String(), "bash") {
		t.Error("expected completion help to mention bash")
	}
}
