package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/lexctrace/internal/presentation/tui"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate LEXICON",
		Short: "Check the lexicon for consistency",
		Long: `Parses the lexicon and crawls it from the root class, reporting
continuations into undefined classes (errors), classes the root never reaches
and cycles of rules that emit nothing, which can keep a trace from terminating.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, map[string]string{"report": "report"})
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			eng, err := newEngine(cmd.Context(), cfg, logger, args[0])
			if err != nil {
				return err
			}
			report, err := eng.Validate()
			if err != nil {
				return err
			}
			if err := writeReport(cmd.OutOrStdout(), cfg.Report, report, tui.ValidationMarkdown(report)); err != nil {
				return err
			}

			if err := report.Err(); err != nil {
				return err
			}
			status := tui.NewStatus(cmd.ErrOrStderr())
			if report.NonTerminating() {
				status.Warn("lexicon is valid but may not terminate without the search guards")
				return nil
			}
			status.Success("lexicon is valid")
			return nil
		},
	}
	cmd.Flags().StringP("report", "r", "", "Report format: text, json or yaml")
	return cmd
}
