package cmd

import (
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/wellbeing-project/wellctl/internal/api"
	"github.com/wellbeing-project/wellctl/internal/gate"
	"github.com/wellbeing-project/wellctl/internal/output"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a tracker service account",
	Long: `Register a new account with the tracker service.

Signing up does not start a session; run 'wellctl login' afterwards.

Examples:
  wellctl signup --username alice --email alice@example.edu
  wellctl signup --username bob --email bob@example.edu --role staff`,
	RunE: runSignup,
}

func init() {
	rootCmd.AddCommand(signupCmd)

	signupCmd.Flags().String("username", "", "account username")
	signupCmd.Flags().String("email", "", "account email address")
	signupCmd.Flags().String("role", string(gate.RoleStudent), "account role (student or staff)")
}

func runSignup(cmd *cobra.Command, args []string) error {
	printer := newPrinter()

	username, _ := cmd.Flags().GetString("username")
	email, _ := cmd.Flags().GetString("email")
	role, _ := cmd.Flags().GetString("role")

	var err error
	if username == "" {
		if username, err = promptLine(cmd, "Username: "); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = promptLine(cmd, "Email: "); err != nil {
			return err
		}
	}
	if username == "" || email == "" {
		return &output.CLIError{
			Summary:  "username and email are required",
			ExitCode: output.ExitUsageError,
		}
	}
	if role != string(gate.RoleStudent) && role != string(gate.RoleStaff) {
		return &output.CLIError{
			Summary:    "invalid role: " + role,
			Suggestion: "use 'student' or 'staff'",
			ExitCode:   output.ExitUsageError,
		}
	}

	password, err := promptPassword(cmd, "Password: ")
	if err != nil {
		return err
	}
	confirmPassword, err := promptPassword(cmd, "Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirmPassword {
		return &output.CLIError{
			Summary:  "passwords do not match",
			ExitCode: output.ExitUsageError,
		}
	}
	// Same rule the service enforces; checking here gives an immediate
	// local message, the server stays authoritative.
	if !strongPassword(password) {
		return &output.CLIError{
			Summary:    "password is too weak",
			Detail:     "passwords need at least 8 characters with an upper and lower case letter, a digit and a special character",
			ExitCode:   output.ExitUsageError,
			Suggestion: "pick a longer password mixing cases, digits and punctuation",
		}
	}

	user, err := client.Signup(cmd.Context(), api.SignupRequest{
		Username: username,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		return remoteError("signup", err)
	}

	printer.Success("Account created for %s (%s)", printer.Bold(user.Username), printer.RoleBadge(user.Role))
	printer.PrintHints("signup")
	return nil
}

// strongPassword mirrors the service's strength rule: at least 8 characters
// covering upper case, lower case, a digit and a special character.
func strongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			special = true
		}
	}
	return upper && lower && digit && special
}
