// Package main is the entry point for wellctl CLI
package main

import (
	"errors"
	"os"

	"github.com/wellbeing-project/wellctl/cmd"
	"github.com/wellbeing-project/wellctl/internal/output"
)

// version is set at build time via ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		printer := output.NewPrinter(output.ResolveColors(output.ColorAuto, true))
		var cliErr *output.CLIError
		if errors.As(err, &cliErr) {
			printer.FormatError(cliErr)
			code := cliErr.ExitCode
			if code == output.ExitSuccess {
				code = output.ExitGeneral
			}
			os.Exit(code)
		}
		printer.FormatError(&output.CLIError{Summary: err.Error()})
		os.Exit(output.ExitGeneral)
	}
}
