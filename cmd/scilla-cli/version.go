package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scilla/internal/lsp"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tool and language server versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "scilla %s (language server %s)\n", version, lsp.Version)
			return err
		},
	}
}
