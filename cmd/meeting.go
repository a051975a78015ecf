package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/wellbeing-project/wellctl/internal/gate"
)

var meetingCmd = &cobra.Command{
	Use:   "meeting",
	Short: "Show your scheduled support meeting (student)",
	Long: `Show the most recent support meeting scheduled for you, if any.

Examples:
  wellctl meeting
  wellctl meeting --json`,
	RunE: runMeeting,
}

func init() {
	rootCmd.AddCommand(meetingCmd)

	meetingCmd.Flags().Bool("json", false, "output as JSON")
}

func runMeeting(cmd *cobra.Command, args []string) error {
	if err := requireRole(gate.RoleStudent); err != nil {
		return err
	}
	printer := newPrinter()

	info, err := client.StudentMeeting(cmd.Context())
	if err != nil {
		return remoteError("fetching meeting", err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	if info == nil {
		printer.Info("No meeting scheduled")
		return nil
	}

	printer.Header("Scheduled Meeting")
	printer.Print("Place: %s", info.Place)
	printer.Print("Time:  %s, %s %s", info.Time, info.Day, info.Date)
	if info.ScheduledBy != nil {
		printer.Print("With:  %s (%s)", info.ScheduledBy.Name, info.ScheduledBy.Email)
	}
	return nil
}
