package cmd

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wellbeing-project/wellctl/internal/gate"
	"github.com/wellbeing-project/wellctl/internal/output"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Browse tracker accounts (staff)",
	Long: `Browse the accounts registered with the tracker service.

Examples:
  wellctl users                      # List all accounts
  wellctl users show 7               # Show one account
  wellctl users evals alice          # A student's assessment history
  wellctl users --json`,
	RunE: runUsersList,
}

var usersShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a single account",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersShow,
}

var usersEvalsCmd = &cobra.Command{
	Use:   "evals <username>",
	Short: "Show a student's assessment history",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsersEvals,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersShowCmd)
	usersCmd.AddCommand(usersEvalsCmd)

	usersCmd.Flags().Bool("json", false, "output as JSON")
	usersCmd.Flags().String("role", "", "filter by role (student or staff)")
	usersShowCmd.Flags().Bool("json", false, "output as JSON")
	usersEvalsCmd.Flags().Bool("json", false, "output as JSON")
}

func runUsersList(cmd *cobra.Command, args []string) error {
	if err := requireRole(gate.RoleStaff); err != nil {
		return err
	}
	printer := newPrinter()

	users, err := client.ListUsers(cmd.Context())
	if err != nil {
		return remoteError("listing users", err)
	}

	if roleFilter, _ := cmd.Flags().GetString("role"); roleFilter != "" {
		filtered := users[:0]
		for _, u := range users {
			if u.Role == roleFilter {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(users)
	}

	if len(users) == 0 {
		printer.Info("No accounts found")
		return nil
	}

	printer.Header("Accounts")
	table := output.NewTable([]string{"ID", "USERNAME", "EMAIL", "ROLE"})
	for _, u := range users {
		table.AddRow([]string{
			strconv.Itoa(u.ID),
			u.Username,
			u.Email,
			printer.RoleBadge(u.Role),
		})
	}
	table.Render()
	printer.Info("Total: %d", len(users))
	return nil
}

func runUsersShow(cmd *cobra.Command, args []string) error {
	if err := requireRole(gate.RoleStaff); err != nil {
		return err
	}
	printer := newPrinter()

	id, err := strconv.Atoi(args[0])
	if err != nil {
		return &output.CLIError{
			Summary:  "invalid user id: " + args[0],
			ExitCode: output.ExitUsageError,
		}
	}

	user, err := client.GetUser(cmd.Context(), id)
	if err != nil {
		return remoteError("fetching user", err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(user)
	}

	printer.Print("%s (%s)", printer.Bold(user.Username), printer.RoleBadge(user.Role))
	printer.Print("  id:    %d", user.ID)
	printer.Print("  email: %s", user.Email)
	return nil
}

func runUsersEvals(cmd *cobra.Command, args []string) error {
	if err := requireRole(gate.RoleStaff); err != nil {
		return err
	}
	printer := newPrinter()

	evals, err := client.EvaluationsByUsername(cmd.Context(), args[0])
	if err != nil {
		return remoteError("fetching evaluations", err)
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(evals)
	}

	if len(evals) == 0 {
		printer.Info("No assessments for %s", args[0])
		return nil
	}

	printer.Header("Assessments by " + args[0])
	renderEvaluations(printer, evals)
	return nil
}
