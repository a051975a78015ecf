package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wellbeing-project/wellctl/internal/gate"
	"github.com/wellbeing-project/wellctl/internal/output"
)

// questions are asked in order; each answer is a 1-5 agreement rating.
var questions = [10]string{
	"I feel emotionally drained by my academic workload.",
	"I struggle to concentrate or stay focused on tasks.",
	"I feel physically exhausted even after a good night's sleep.",
	"I feel unmotivated to attend classes or complete assignments.",
	"I find myself procrastinating more than usual.",
	"I feel detached or indifferent toward my academic performance.",
	"I have been experiencing more stress or anxiety than normal.",
	"I feel overwhelmed by balancing school and other responsibilities.",
	"I've noticed changes in my appetite, sleep, or energy levels.",
	"I feel like I'm not making meaningful progress despite my efforts.",
}

var submitCmd = &cobra.Command{
	Use:   "submit [answers...]",
	Short: "Submit a wellbeing self-assessment (student)",
	Long: `Submit a ten-question wellbeing self-assessment.

Each answer is a rating from 1 (strongly disagree) to 5 (strongly
agree). Pass all ten answers as arguments, or pass none to be prompted
question by question.

Examples:
  wellctl submit                     # Interactive
  wellctl submit 3 4 2 5 3 3 4 2 3 4`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 10 {
			return &output.CLIError{
				Summary:  "expected exactly 10 answers",
				ExitCode: output.ExitUsageError,
			}
		}
		return nil
	},
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	if err := requireRole(gate.RoleStudent); err != nil {
		return err
	}
	printer := newPrinter()

	var answers [10]int
	if len(args) == 10 {
		for i, arg := range args {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 1 || n > 5 {
				return &output.CLIError{
					Summary:  "invalid answer: " + arg,
					Detail:   "answers must be whole numbers from 1 to 5",
					ExitCode: output.ExitUsageError,
				}
			}
			answers[i] = n
		}
	} else {
		printer.Header("Wellbeing Self-Assessment")
		printer.Print("Rate each statement from 1 (strongly disagree) to 5 (strongly agree).")
		for i, q := range questions {
			rating, err := promptRating(cmd, printer, i+1, q)
			if err != nil {
				return &output.CLIError{
					Summary:  "assessment canceled",
					Detail:   err.Error(),
					ExitCode: output.ExitUsageError,
				}
			}
			answers[i] = rating
		}
	}

	result, err := client.SubmitEvaluation(cmd.Context(), answers)
	if err != nil {
		return remoteError("submitting assessment", err)
	}

	printer.Success("%s", result.Message)
	printer.Info("Total score: %d", result.Evaluation.TotalScore)
	if result.Evaluation.NeedsSupport {
		printer.Warning("Your responses suggest you may benefit from support; a staff member may reach out to schedule a meeting.")
	}
	printer.PrintHints("submit")
	return nil
}

// promptRating asks one question until it gets a 1-5 answer.
func promptRating(cmd *cobra.Command, printer *output.Printer, number int, question string) (int, error) {
	for {
		answer, err := promptLine(cmd, strconv.Itoa(number)+". "+question+" [1-5]: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= 5 {
			return n, nil
		}
		printer.Warning("Please answer with a number from 1 to 5")
	}
}
