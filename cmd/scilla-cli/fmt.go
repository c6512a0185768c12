package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"scilla/internal/driver"
)

func newFmtCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [flags] <path> [path...]",
		Short: "Format Scilla contracts and libraries",
		Long:  "Format .scilla and .scillib files. Directories are searched recursively.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runFmt,
	}
	cmd.Flags().Bool("check", false, "report files that would change without rewriting them")
	cmd.Flags().Bool("stdout", false, "print formatted code to stdout instead of rewriting files")
	cmd.Flags().Int("jobs", 0, "files formatted in parallel (0 = number of CPUs)")
	return cmd
}

func runFmt(cmd *cobra.Command, args []string) error {
	check := flagBool(cmd, "check")
	toStdout := flagBool(cmd, "stdout")
	if check && toStdout {
		return fmt.Errorf("fmt: --stdout cannot be used with --check")
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := driver.FormatPaths(cmd.Context(), afero.NewOsFs(), args, driver.FormatOptions{
		Check:  check,
		Stdout: toStdout,
		Jobs:   jobs,
	})
	if err != nil {
		return err
	}

	changed, failed := renderFmt(cmd.OutOrStdout(), cmd.ErrOrStderr(), results, check, toStdout, flagBool(cmd, "quiet"))

	if flagBool(cmd, "timings") {
		fmt.Fprintf(cmd.ErrOrStderr(), "formatted %d files in %s\n", len(results), formatDuration(time.Since(start)))
	}

	if failed != nil {
		return fmt.Errorf("fmt: failed to format %d files", len(multierr.Errors(failed)))
	}
	if check && changed > 0 {
		return fmt.Errorf("fmt: %d files need formatting", changed)
	}
	return nil
}

// renderFmt prints one line per changed file, or the formatted text with
// --stdout, and returns the changed count and the combined per-file errors.
func renderFmt(out, errOut io.Writer, results []driver.FormatResult, check, toStdout, quiet bool) (int, error) {
	var (
		changed int
		failed  error
	)
	red := color.New(color.FgRed).SprintFunc()

	for _, res := range results {
		if res.Err != nil {
			failed = multierr.Append(failed, fmt.Errorf("%s: %w", res.Path, res.Err))
			fmt.Fprintf(errOut, "%s %s: %v\n", red("fmt:"), res.Path, res.Err)
			continue
		}

		if toStdout {
			_, _ = out.Write(res.Formatted)
			continue
		}

		if !res.Changed {
			continue
		}
		changed++
		if quiet {
			continue
		}
		if check {
			fmt.Fprintln(out, res.Path)
		} else {
			fmt.Fprintf(out, "reformatted %s\n", res.Path)
		}
	}

	return changed, failed
}
