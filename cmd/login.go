package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wellbeing-project/wellctl/internal/output"
	"github.com/wellbeing-project/wellctl/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login [username-or-email]",
	Short: "Sign in to the tracker service",
	Long: `Authenticate against the tracker service and persist the session.

The session (identity plus bearer token) is written to the session file
and restored automatically on every later invocation, so a login
survives until logout or until the server stops honoring the token.

Examples:
  wellctl login                      # Prompt for username and password
  wellctl login alice                # Prompt for password only
  wellctl login alice --password-stdin < secret.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().Bool("password-stdin", false, "read the password from stdin")
}

func runLogin(cmd *cobra.Command, args []string) error {
	printer := newPrinter()

	var usernameOrEmail string
	if len(args) == 1 {
		usernameOrEmail = args[0]
	} else {
		var err error
		usernameOrEmail, err = promptLine(cmd, "Username or email: ")
		if err != nil {
			return err
		}
	}
	if usernameOrEmail == "" {
		return &output.CLIError{
			Summary:  "username or email is required",
			ExitCode: output.ExitUsageError,
		}
	}

	var password string
	var err error
	if fromStdin, _ := cmd.Flags().GetBool("password-stdin"); fromStdin {
		password, err = promptLine(cmd, "")
	} else {
		password, err = promptPassword(cmd, "Password: ")
	}
	if err != nil {
		return err
	}
	if password == "" {
		return &output.CLIError{
			Summary:  "password is required",
			ExitCode: output.ExitUsageError,
		}
	}

	result, err := client.Login(cmd.Context(), usernameOrEmail, password)
	if err != nil {
		// A 401 here means bad credentials, not an expired session.
		return &output.CLIError{
			Summary:    "login failed",
			Detail:     err.Error(),
			Suggestion: "check your username and password",
			ExitCode:   output.ExitAuthError,
		}
	}

	identity := session.Identity{
		Username: result.User.Username,
		Role:     result.User.Role,
		UserID:   result.User.ID,
	}
	if err := store.Set(identity, result.Token); err != nil {
		return &output.CLIError{
			Summary:  "failed to persist session",
			Detail:   err.Error(),
			ExitCode: output.ExitGeneral,
		}
	}

	printer.Success("Logged in as %s (%s)", printer.Bold(identity.Username), printer.RoleBadge(identity.Role))
	printer.PrintHints("login")
	return nil
}
