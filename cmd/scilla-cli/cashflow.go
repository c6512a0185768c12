package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scilla/internal/checker"
	"scilla/internal/report"
)

func newCashflowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cashflow [flags] <file>",
		Short: "Show the cash-flow tags inferred for each contract field",
		Args:  cobra.ExactArgs(1),
		RunE:  runCashflow,
	}
	addCheckerFlags(cmd)
	return cmd
}

func runCashflow(cmd *cobra.Command, args []string) error {
	settings, err := checkerSettings(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	r, err := newDiagnoser(settings, true).Diagnose(cmd.Context(), checker.Document{Path: path, Text: string(source)})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if r.HasErrors() {
		if _, err := report.New(path, string(source)).Write(cmd.ErrOrStderr(), r.Diagnostics(checker.Options{})); err != nil {
			return err
		}
		return fmt.Errorf("%s: cash-flow analysis needs a contract that type-checks", path)
	}

	return report.WriteCashFlow(cmd.OutOrStdout(), r.CashFlow)
}
