package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":         {"whoami", "alerts", "submit"},
	"logout":        {"login"},
	"signup":        {"login"},
	"whoami":        {"login", "logout"},
	"alerts":        {"users", "dashboard"},
	"submit":        {"history", "meeting"},
	"history":       {"submit", "meeting"},
	"meeting":       {"notifications"},
	"users":         {"alerts", "dashboard"},
	"dashboard":     {"alerts", "users"},
	"notifications": {"meeting", "alerts"},
	"config":        {"login"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "wellctl " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
