package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lexctrace/internal/presentation/tui"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph LEXICON [OUTPUT]",
		Short: "Export the class graph reachable from the root",
		Long:  `Draws every class reachable from the root, one edge per distinct continuation. Without OUTPUT the diagram goes to stdout.`,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{
				"format": "format",
				"dot":    "dot_binary",
			})
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			eng, err := newEngine(ctx, cfg, logger, args[0])
			if err != nil {
				return err
			}

			out := "-"
			if len(args) > 1 {
				out = args[1]
			}
			if err := writeDiagram(ctx, eng, cfg.Format, nil, out, cmd.OutOrStdout()); err != nil {
				return err
			}
			if out != "-" {
				tui.NewStatus(cmd.ErrOrStderr()).Success("wrote %s (%s)", out, cfg.Format)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "", "Diagram format: mermaid, dot, pdf, svg or png")
	cmd.Flags().String("dot", "", "Graphviz binary used for pdf, svg and png")
	return cmd
}
