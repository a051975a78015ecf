package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wellbeing-project/wellctl/internal/output"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the stored session",
	Long: `End the current session.

The server is told about the logout on a best-effort basis; the local
session file is removed regardless, so a logout always succeeds even
when the service is unreachable. Running logout while already logged
out is a no-op.`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	printer := newPrinter()

	if store.Current() == nil {
		printer.Info("Not logged in")
		return nil
	}

	// Best effort: the local session is discarded even when the remote
	// call fails.
	if err := client.Logout(cmd.Context()); err != nil {
		logger.Debug("remote logout failed", "error", err)
	}

	if err := store.Clear(); err != nil {
		return &output.CLIError{
			Summary:  "failed to remove session file",
			Detail:   err.Error(),
			ExitCode: output.ExitGeneral,
		}
	}

	printer.Success("Logged out")
	return nil
}
