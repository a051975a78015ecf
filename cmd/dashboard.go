package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wellbeing-project/wellctl/internal/alerts"
	"github.com/wellbeing-project/wellctl/internal/api"
	"github.com/wellbeing-project/wellctl/internal/gate"
	"github.com/wellbeing-project/wellctl/internal/output"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Staff overview of accounts and alerts",
	Long: `Show a combined overview: account counts, assessment totals and the
alerts that still need attention. The underlying lists are fetched
concurrently.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if err := requireRole(gate.RoleStaff); err != nil {
		return err
	}
	printer := newPrinter()

	var (
		users []api.User
		evals []api.Evaluation
		notes []api.Notification
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		users, err = client.ListUsers(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		evals, err = client.ListEvaluations(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		notes, err = client.ListNotifications(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return remoteError("loading dashboard", err)
	}

	students, staff := 0, 0
	for _, u := range users {
		switch u.Role {
		case string(gate.RoleStudent):
			students++
		case string(gate.RoleStaff):
			staff++
		}
	}

	flagged, handled := 0, 0
	for _, e := range evals {
		if e.NeedsSupport {
			flagged++
		}
		if e.HandledBy != nil {
			handled++
		}
	}
	pending := alerts.NewSnapshot(evals)

	printer.Header("Tracker Overview")
	table := output.NewTable([]string{"METRIC", "COUNT"})
	table.AddRow([]string{"students", strconv.Itoa(students)})
	table.AddRow([]string{"staff", strconv.Itoa(staff)})
	table.AddRow([]string{"assessments", strconv.Itoa(len(evals))})
	table.AddRow([]string{"flagged", strconv.Itoa(flagged)})
	table.AddRow([]string{"handled", strconv.Itoa(handled)})
	table.AddRow([]string{"pending alerts", strconv.Itoa(pending.Len())})
	table.AddRow([]string{"notifications", strconv.Itoa(len(notes))})
	table.Render()

	if pending.Len() > 0 {
		printer.Print("")
		printer.Header("Pending Alerts")
		renderEvaluations(printer, pending.Items())
		printer.PrintHints("dashboard")
	}
	return nil
}
