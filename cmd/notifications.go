package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/wellbeing-project/wellctl/internal/gate"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"inbox"},
	Short:   "Show notifications for the current user",
	Long: `Show notifications.

Students see meeting notices sent to them; staff see alerts for
assessments that still need attention.`,
	RunE: runNotifications,
}

func init() {
	rootCmd.AddCommand(notificationsCmd)

	notificationsCmd.Flags().Bool("json", false, "output as JSON")
}

func runNotifications(cmd *cobra.Command, args []string) error {
	if err := requireRole(gate.RoleStudent, gate.RoleStaff); err != nil {
		return err
	}
	printer := newPrinter()

	notes, err := client.ListNotifications(cmd.Context())
	if err != nil {
		return remoteError("fetching notifications", err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(notes)
	}

	if len(notes) == 0 {
		printer.Info("No notifications")
		return nil
	}

	printer.Header("Notifications")
	for _, n := range notes {
		printer.Print("%s", printer.Bold(n.Message))
		if n.Meeting != nil {
			printer.Print("  %s at %s, %s %s", n.Meeting.Place, n.Meeting.Time, n.Meeting.Day, n.Meeting.Date)
		}
		printer.Print("")
	}
	return nil
}
