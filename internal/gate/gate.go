// Package gate decides whether the current identity may enter a protected
// view. The decision is a pure function of the required roles and the
// identity; it carries no state and must be re-evaluated on every entry.
package gate

import "github.com/wellbeing-project/wellctl/internal/session"

// Role is a capability label assigned by the tracker service.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

// Outcome classifies a gate decision.
type Outcome int

const (
	// Allow grants entry to the protected view.
	Allow Outcome = iota
	// RedirectLogin means no identity is present.
	RedirectLogin
	// RedirectUnauthorized means the identity's role is not permitted.
	RedirectUnauthorized
)

// Redirect targets. The gate names the destination; the caller decides how
// to render it.
const (
	LoginTarget        = "login"
	UnauthorizedTarget = "unauthorized"
)

// Decision is the outcome of an access check.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Allowed reports whether the decision grants entry.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

// Evaluate checks the identity against the required roles. A nil identity
// redirects to login. A role outside the required set, including any role the
// client does not recognize, redirects to the unauthorized target: unknown
// roles fail closed because they can never match a required role.
func Evaluate(required []Role, id *session.Identity) Decision {
	if id == nil {
		return Decision{Outcome: RedirectLogin, Target: LoginTarget}
	}
	for _, r := range required {
		if string(r) == id.Role {
			return Decision{Outcome: Allow}
		}
	}
	return Decision{Outcome: RedirectUnauthorized, Target: UnauthorizedTarget}
}
