package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/lexctrace"
	"github.com/aretw0/lexctrace/internal/presentation/tui"
	"github.com/aretw0/lexctrace/pkg/domain"
)

// diagramExtensions are the output extensions that select a format.
var diagramExtensions = map[string]bool{
	"mermaid": true, "mmd": true, "dot": true, "gv": true,
	"pdf": true, "svg": true, "png": true,
}

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace LEXICON OUTPUT UNDERLYING SURFACE",
		Short: "Trace a form pair and draw the highlighted class graph",
		Long: `Finds every path from the root class to end-of-word whose fragments spell
UNDERLYING on the input side and SURFACE on the output side, prints them, and
writes the graph of classes reachable from the root to OUTPUT with those paths
highlighted. Use "-" as OUTPUT to write the diagram to stdout.

Exits with status 2 when no derivation exists and 1 on any failure.`,
		Example: `  lexctrace trace eng.lexc nouns.pdf 'cat<N><Pl>' cats
  lexctrace trace --root Nouns --format mermaid eng.lexc - 'cat<N><Sg>' cat`,
		Args: cobra.ExactArgs(4),
		RunE: runTrace,
	}
	cmd.Flags().StringP("format", "f", "", "Diagram format: mermaid, dot, pdf, svg or png (default: from the OUTPUT extension)")
	cmd.Flags().StringP("report", "r", "", "Report format: text, json or yaml")
	cmd.Flags().String("dot", "", "Graphviz binary used for pdf, svg and png")
	return cmd
}

func runTrace(cmd *cobra.Command, args []string) error {
	lexPath, outPath, underlying, surface := args[0], args[1], args[2], args[3]

	cfg, err := loadConfig(cmd, map[string]string{
		"format": "format",
		"report": "report",
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
	eng, err := newEngine(ctx, cfg, logger, lexPath)
	if err != nil {
		return err
	}

	result, err := eng.Trace(ctx, underlying, surface)
	if err != nil {
		return fmt.Errorf("%s: %w", lexPath, err)
	}
	if err := writeReport(cmd.OutOrStdout(), cfg.Report, result, tui.TraceMarkdown(result)); err != nil {
		return err
	}

	format := cfg.Format
	if !cmd.Flags().Changed("format") {
		if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(outPath), ".")); diagramExtensions[ext] {
			format = ext
		}
	}
	if err := writeDiagram(ctx, eng, format, result, outPath, cmd.OutOrStdout()); err != nil {
		return err
	}
	if outPath != "-" {
		tui.NewStatus(cmd.ErrOrStderr()).Success("wrote %s (%s)", outPath, format)
	}

	if !result.Found() {
		return fmt.Errorf("%w for %q -> %q from %s", ErrNoDerivation, underlying, surface, eng.Root())
	}
	return nil
}

// writeDiagram exports to path through a temporary file; path is only ever
// replaced by a complete document.
func writeDiagram(ctx context.Context, eng *lexctrace.Engine, format string, result *domain.TraceResult, path string, stdout io.Writer) error {
	if path == "-" {
		return eng.Export(ctx, format, result, stdout)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := eng.Export(ctx, format, result, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
