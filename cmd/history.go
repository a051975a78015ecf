package cmd

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wellbeing-project/wellctl/internal/api"
	"github.com/wellbeing-project/wellctl/internal/gate"
	"github.com/wellbeing-project/wellctl/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past assessments",
	Long: `Show assessment history.

Students see their own submissions. Staff can look up any student's
history with --username.

Examples:
  wellctl history                    # Own history (student)
  wellctl history --username alice   # A student's history (staff)
  wellctl history --json`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("username", "", "look up another student's history (staff only)")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	historyCmd.Flags().Bool("answers", false, "include per-question answers")
}

func runHistory(cmd *cobra.Command, args []string) error {
	username, _ := cmd.Flags().GetString("username")

	var evals []api.Evaluation
	var err error
	if username != "" {
		if err := requireRole(gate.RoleStaff); err != nil {
			return err
		}
		evals, err = client.EvaluationsByUsername(cmd.Context(), username)
	} else {
		if err := requireRole(gate.RoleStudent); err != nil {
			return err
		}
		evals, err = client.MyEvaluations(cmd.Context())
	}
	if err != nil {
		return remoteError("fetching history", err)
	}

	printer := newPrinter()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(evals)
	}

	if len(evals) == 0 {
		printer.Info("No assessments yet")
		return nil
	}

	showAnswers, _ := cmd.Flags().GetBool("answers")

	printer.Header("Assessment History")
	table := output.NewTable([]string{"ID", "DATE", "SCORE", "STATUS", "MEETING"})
	for _, e := range evals {
		status := printer.AlertBadge(e.NeedsSupport)
		if e.HandledBy != nil {
			status = "handled"
		}
		meeting := "-"
		if e.Meeting != nil {
			meeting = e.Meeting.Day + " " + e.Meeting.Date + " " + e.Meeting.Time
		}
		table.AddRow([]string{
			strconv.Itoa(e.ID),
			e.Date,
			strconv.Itoa(e.TotalScore),
			status,
			meeting,
		})
	}
	table.Render()

	if showAnswers {
		for _, e := range evals {
			printer.Print("")
			printer.Print("%s answers:", printer.Bold("#"+strconv.Itoa(e.ID)))
			for i := 1; i <= len(questions); i++ {
				key := "q" + strconv.Itoa(i)
				if v, ok := e.Answers[key]; ok {
					printer.Print("  %s: %d", key, v)
				}
			}
		}
	}
	return nil
}
