package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/lexctrace"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of lexctrace",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lexctrace version %s\n", lexctrace.Version)
		},
	}
}
