package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/wellbeing-project/wellctl/internal/output"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session identity",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)

	whoamiCmd.Flags().Bool("json", false, "output as JSON")
}

func runWhoami(cmd *cobra.Command, args []string) error {
	printer := newPrinter()

	identity := store.Current()
	if identity == nil {
		return &output.CLIError{
			Summary:    "not logged in",
			Suggestion: "run 'wellctl login' to sign in",
			ExitCode:   output.ExitAuthError,
		}
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(identity)
	}

	printer.Print("%s (%s), user id %d", printer.Bold(identity.Username), printer.RoleBadge(identity.Role), identity.UserID)
	return nil
}
