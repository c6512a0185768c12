package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"scilla/internal/checker"
	"scilla/internal/config"
	"scilla/internal/remote"
	"scilla/internal/report"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file> [file...]",
		Short: "Type-check contracts with scilla-checker or the remote debugging service",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	addCheckerFlags(cmd)
	cmd.Flags().Bool("type-info", false, "also print inferred types")
	cmd.Flags().Bool("gas", false, "print the gas report")
	return cmd
}

func addCheckerFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("remote", false, "use the remote debugging service")
	cmd.Flags().String("gas-limit", "", "gas limit passed to the checker (default from settings)")
}

// checkerSettings applies the command line on top of the loaded settings.
func checkerSettings(cmd *cobra.Command) (config.Settings, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return s, err
	}
	if flagBool(cmd, "remote") {
		s.RemoteDebugging = true
	}
	if gas, _ := cmd.Flags().GetString("gas-limit"); gas != "" {
		s.GasLimit = gas
	}
	if flagBool(cmd, "type-info") {
		s.TypeInfo = true
	}
	if flagBool(cmd, "gas") {
		s.GasReport = true
	}
	return s, s.Validate()
}

func newDiagnoser(s config.Settings, cashFlow bool) checker.Diagnoser {
	if s.RemoteDebugging {
		return remote.New(s.RemoteURL, s.GasLimit)
	}
	return &checker.Runner{
		BinDir:    s.BinariesPath,
		StdlibDir: s.StdlibPath,
		GasLimit:  s.GasLimit,
		CashFlow:  cashFlow,
		TypeInfo:  s.TypeInfo,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	settings, err := checkerSettings(cmd)
	if err != nil {
		return err
	}
	d := newDiagnoser(settings, false)
	out := cmd.OutOrStdout()

	start := time.Now()
	var failed error
	for _, path := range args {
		source, err := os.ReadFile(path)
		if err != nil {
			failed = multierr.Append(failed, err)
			continue
		}

		r, err := d.Diagnose(cmd.Context(), checker.Document{Path: path, Text: string(source)})
		if err != nil {
			failed = multierr.Append(failed, fmt.Errorf("%s: %w", path, err))
			continue
		}

		diags := r.Diagnostics(checker.Options{TypeInfo: settings.TypeInfo})
		errs, err := report.New(path, string(source)).Write(out, diags)
		if err != nil {
			return err
		}
		if errs > 0 {
			failed = multierr.Append(failed, fmt.Errorf("%s: %d errors", path, errs))
		}

		if settings.GasReport {
			if gas := gasReport(r); gas != "" {
				fmt.Fprintf(out, "%s: %s\n", path, gas)
			}
		}
	}

	duration := formatDuration(time.Since(start))
	if failed != nil {
		for _, err := range multierr.Errors(failed) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", color.RedString("check:"), err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("Check failed after %s", duration))
		return failed
	}

	if !flagBool(cmd, "quiet") {
		fmt.Fprintln(out, color.GreenString("Checked %d files in %s", len(args), duration))
	}
	return nil
}

func gasReport(r *checker.Report) string {
	switch {
	case r.GasUsage != "":
		return r.GasUsage + " of gas remaining"
	case r.GasRemaining != "":
		return r.GasRemaining + " of gas remaining"
	default:
		return ""
	}
}
