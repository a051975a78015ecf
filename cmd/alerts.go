package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wellbeing-project/wellctl/internal/alerts"
	"github.com/wellbeing-project/wellctl/internal/api"
	"github.com/wellbeing-project/wellctl/internal/gate"
	"github.com/wellbeing-project/wellctl/internal/output"
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Review and resolve flagged assessments (staff)",
	Long: `Work with assessments flagged as needing support.

Without a subcommand, lists the alerts that are still pending.

Examples:
  wellctl alerts                     # List pending alerts
  wellctl alerts --all               # Include handled assessments
  wellctl alerts schedule 42 --place "Room 101" --time 14:00 --day Monday --date 2026-09-07
  wellctl alerts handle 42           # Resolve without scheduling a meeting`,
	RunE: runAlertsList,
}

var alertsScheduleCmd = &cobra.Command{
	Use:   "schedule <evaluation-id>",
	Short: "Schedule a support meeting and resolve the alert",
	Long: `Attach a meeting to a flagged assessment and mark it handled.

The meeting is recorded first, then the alert is resolved; if the second
step fails the meeting stays recorded and the alert stays pending, and
'wellctl alerts handle' finishes the job. After a successful resolution
the student can optionally be notified about the meeting.`,
	Args: cobra.ExactArgs(1),
	RunE: runAlertsSchedule,
}

var alertsHandleCmd = &cobra.Command{
	Use:   "handle <evaluation-id>",
	Short: "Resolve an alert without scheduling a meeting",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsHandle,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsScheduleCmd)
	alertsCmd.AddCommand(alertsHandleCmd)

	alertsCmd.Flags().Bool("all", false, "include handled assessments")
	alertsCmd.Flags().Bool("json", false, "output as JSON")

	alertsScheduleCmd.Flags().String("place", "", "meeting place")
	alertsScheduleCmd.Flags().String("time", "", "meeting time, e.g. 14:00")
	alertsScheduleCmd.Flags().String("day", "", "meeting weekday, e.g. Monday")
	alertsScheduleCmd.Flags().String("date", "", "meeting date, e.g. 2026-09-07")
	alertsScheduleCmd.Flags().Bool("notify", false, "notify the student without asking")
	alertsScheduleCmd.Flags().Bool("no-notify", false, "skip the notification without asking")
}

func runAlertsList(cmd *cobra.Command, args []string) error {
	if err := requireRole(gate.RoleStaff); err != nil {
		return err
	}
	printer := newPrinter()

	evals, err := client.ListEvaluations(cmd.Context())
	if err != nil {
		return remoteError("listing alerts", err)
	}

	all, _ := cmd.Flags().GetBool("all")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	items := evals
	if !all {
		items = alerts.NewSnapshot(evals).Items()
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		printer.Info("No pending alerts")
		return nil
	}

	printer.Header("Pending Alerts")
	renderEvaluations(printer, items)
	printer.Info("Total: %d", len(items))
	printer.PrintHints("alerts")
	return nil
}

// renderEvaluations prints a staff-facing evaluation table.
func renderEvaluations(printer *output.Printer, evals []api.Evaluation) {
	table := output.NewTable([]string{"ID", "STUDENT", "SCORE", "SUBMITTED", "STATUS", "MEETING"})
	for _, e := range evals {
		student := "-"
		if e.User != nil {
			student = e.User.Username
		}
		status := printer.AlertBadge(e.NeedsSupport)
		if e.HandledBy != nil {
			status = "handled by " + e.HandledBy.Username
		}
		meeting := "-"
		if e.Meeting != nil {
			meeting = fmt.Sprintf("%s %s %s, %s", e.Meeting.Day, e.Meeting.Date, e.Meeting.Time, e.Meeting.Place)
		}
		table.AddRow([]string{
			strconv.Itoa(e.ID),
			student,
			strconv.Itoa(e.TotalScore),
			e.Date,
			status,
			meeting,
		})
	}
	table.Render()
}

func runAlertsSchedule(cmd *cobra.Command, args []string) error {
	if err := requireRole(gate.RoleStaff); err != nil {
		return err
	}
	printer := newPrinter()

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return &output.CLIError{
			Summary:  "invalid evaluation id: " + args[0],
			ExitCode: output.ExitUsageError,
		}
	}

	place, _ := cmd.Flags().GetString("place")
	meetingTime, _ := cmd.Flags().GetString("time")
	day, _ := cmd.Flags().GetString("day")
	date, _ := cmd.Flags().GetString("date")
	notify, _ := cmd.Flags().GetBool("notify")
	noNotify, _ := cmd.Flags().GetBool("no-notify")
	if notify && noNotify {
		return &output.CLIError{
			Summary:  "--notify and --no-notify are mutually exclusive",
			ExitCode: output.ExitUsageError,
		}
	}

	proposal := api.MeetingProposal{Place: place, Time: meetingTime, Day: day, Date: date}

	snapshot, err := pendingSnapshot(cmd)
	if err != nil {
		return err
	}
	if _, ok := snapshot.Get(id); !ok {
		return &output.CLIError{
			Summary:    fmt.Sprintf("no pending alert with id %d", id),
			Suggestion: "run 'wellctl alerts' to list pending alerts",
			ExitCode:   output.ExitUsageError,
		}
	}

	workflow := alerts.NewWorkflow(client, id)
	if err := workflow.Propose(proposal); err != nil {
		return &output.CLIError{
			Summary:  err.Error(),
			ExitCode: output.ExitUsageError,
		}
	}

	message, err := workflow.Confirm(cmd.Context())
	if err != nil {
		if workflow.State() == alerts.StateMeetingConfirmed {
			// The meeting was recorded but the alert is still pending.
			printer.Warning("Meeting recorded, but the alert could not be resolved")
			return &output.CLIError{
				Summary:    "resolving alert failed",
				Detail:     err.Error(),
				Suggestion: fmt.Sprintf("run 'wellctl alerts handle %d' to finish resolving", id),
				ExitCode:   output.ExitRemoteError,
			}
		}
		return remoteError("scheduling meeting", err)
	}

	snapshot.Remove(id)
	printer.Success("%s", message)
	printer.Info("Meeting: %s %s at %s, %s", day, date, meetingTime, place)
	printer.Info("Pending alerts remaining: %d", snapshot.Len())

	sendNotification := notify
	if !notify && !noNotify {
		sendNotification = confirm(cmd, "Notify the student about this meeting?")
	}
	if sendNotification {
		if err := workflow.Notify(cmd.Context()); err != nil {
			// The alert stays resolved; only the notification failed.
			printer.Warning("Notification could not be sent: %v", err)
		} else {
			printer.Success("Student notified")
		}
	}
	return nil
}

func runAlertsHandle(cmd *cobra.Command, args []string) error {
	if err := requireRole(gate.RoleStaff); err != nil {
		return err
	}
	printer := newPrinter()

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return &output.CLIError{
			Summary:  "invalid evaluation id: " + args[0],
			ExitCode: output.ExitUsageError,
		}
	}

	snapshot, err := pendingSnapshot(cmd)
	if err != nil {
		return err
	}
	hadAlert := false
	if _, ok := snapshot.Get(id); ok {
		hadAlert = true
	}

	workflow := alerts.NewWorkflow(client, id)
	message, err := workflow.MarkHandled(cmd.Context())
	if err != nil {
		return remoteError("resolving alert", err)
	}

	if hadAlert {
		snapshot.Remove(id)
	}
	printer.Success("%s", message)
	printer.Info("Pending alerts remaining: %d", snapshot.Len())
	return nil
}

// pendingSnapshot fetches the evaluation list once and materializes the
// pending alerts from it.
func pendingSnapshot(cmd *cobra.Command) (*alerts.Snapshot, error) {
	evals, err := client.ListEvaluations(cmd.Context())
	if err != nil {
		return nil, remoteError("listing alerts", err)
	}
	return alerts.NewSnapshot(evals), nil
}
