// Package cmd contains all CLI commands for wellctl
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wellbeing-project/wellctl/internal/api"
	"github.com/wellbeing-project/wellctl/internal/config"
	"github.com/wellbeing-project/wellctl/internal/gate"
	"github.com/wellbeing-project/wellctl/internal/output"
	"github.com/wellbeing-project/wellctl/internal/session"
)

var (
	cfgFile     string
	serverURL   string
	sessionFile string
	verbose     bool
	noColor     bool
	cfg         *config.Config
	logger      *slog.Logger
	store       *session.Store
	client      *api.Client
	version     = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wellctl",
	Short: "Student wellbeing tracker CLI",
	Long: `wellctl is a CLI client for the student wellbeing tracker service.

Students submit wellbeing self-assessments and check on scheduled
support meetings; staff review flagged assessments, schedule meetings,
and notify students once an alert is resolved.

Example usage:
  wellctl login                # Sign in and persist the session
  wellctl submit               # Submit a wellbeing self-assessment
  wellctl alerts               # List pending alerts (staff)
  wellctl alerts schedule 42 --place "Room 101" --time 14:00 --day Monday --date 2026-09-07
  wellctl dashboard            # Staff overview of users and alerts`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is wellctl.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "tracker service base URL")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "session file path (default: user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("server.url", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("session.file", rootCmd.PersistentFlags().Lookup("session-file"))
}

// initConfig reads in config file and ENV variables if set, then wires the
// session store and API client. The session restore is best effort: a missing
// or unreadable session file simply leaves the client logged out.
func initConfig() error {
	var err error

	// Setup logger
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Load configuration
	cfg, err = config.Load(cfgFile, serverURL, sessionFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Update logger based on config
	if cfg.Logging.Level == "debug" || verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	store = session.New(cfg.Session.File)
	store.Restore()

	client = api.New(cfg.Server.URL, cfg.Server.Timeout, store.Credential)

	logger.Debug("configuration loaded",
		"server_url", cfg.Server.URL,
		"session_file", cfg.Session.File,
		"logged_in", store.Current() != nil,
	)

	return nil
}

// newPrinter builds a printer honoring the config and the --no-color flag.
func newPrinter() *output.Printer {
	mode := output.ColorAuto
	if noColor {
		mode = output.ColorNever
	}
	return output.NewPrinter(output.ResolveColors(mode, cfg.Output.Colors))
}

// requireRole gates a command on the stored identity. Commands never reach
// the wire when the gate denies: a missing session maps to a login-required
// error and a role mismatch (including unrecognized roles) to a forbidden one.
func requireRole(roles ...gate.Role) error {
	decision := gate.Evaluate(roles, store.Current())
	switch decision.Outcome {
	case gate.Allow:
		return nil
	case gate.RedirectLogin:
		return &output.CLIError{
			Summary:    "authentication required",
			Detail:     "no active session was found",
			Suggestion: "run 'wellctl login' to sign in",
			ExitCode:   output.ExitAuthError,
		}
	default:
		return &output.CLIError{
			Summary:    "permission denied",
			Detail:     fmt.Sprintf("this command requires the %s role", rolesLabel(roles)),
			Suggestion: "sign in with an account that has the required role",
			ExitCode:   output.ExitForbidden,
		}
	}
}

func rolesLabel(roles []gate.Role) string {
	switch len(roles) {
	case 0:
		return "(none)"
	case 1:
		return string(roles[0])
	default:
		label := string(roles[0])
		for _, r := range roles[1:] {
			label += " or " + string(r)
		}
		return label
	}
}

// remoteError converts a transport or service failure into a CLI error.
// A 401 means the stored credential is no longer honored, so the session
// is discarded before reporting.
func remoteError(action string, err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		if clearErr := store.Clear(); clearErr != nil {
			logger.Warn("failed to discard session", "error", clearErr)
		}
		return &output.CLIError{
			Summary:    "session expired",
			Detail:     err.Error(),
			Suggestion: "run 'wellctl login' to sign in again",
			ExitCode:   output.ExitAuthError,
		}
	}
	return &output.CLIError{
		Summary:  action + " failed",
		Detail:   err.Error(),
		ExitCode: output.ExitRemoteError,
	}
}
