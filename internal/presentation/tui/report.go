package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/lexctrace/internal/compiler"
	"github.com/aretw0/lexctrace/internal/validator"
	"github.com/aretw0/lexctrace/pkg/domain"
)

// TraceMarkdown describes every derivation of result as a Markdown document,
// one table per path with the escape markers removed.
func TraceMarkdown(result *domain.TraceResult) string {
	q := result.Query
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s : %s\n\n", code(q.Input), code(q.Output))
	fmt.Fprintf(&sb, "Root `%s`, %d rules evaluated, deepest path %d.\n\n", q.Root, result.Stats.Steps, result.Stats.MaxDepth)

	if !result.Found() {
		sb.WriteString("**No derivation found.**\n")
		return sb.String()
	}

	for i, path := range result.Paths {
		fmt.Fprintf(&sb, "## Derivation %d\n\n", i+1)
		sb.WriteString("| Step | Class | Input | Output |\n")
		sb.WriteString("|---:|---|---|---|\n")
		for j, step := range path {
			fmt.Fprintf(&sb, "| %d | %s | %s | %s |\n", j, cell(step.Class), code(step.Input), code(step.Output))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ValidationMarkdown lists the findings of a static analysis.
func ValidationMarkdown(report *validator.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Lexicon analysis from `%s`\n\n", report.Root)
	fmt.Fprintf(&sb, "%d reachable classes, %d unreachable.\n\n", len(report.Reachable), len(report.Unreachable))

	if len(report.Diagnostics) == 0 {
		sb.WriteString("No findings.\n")
		return sb.String()
	}

	sb.WriteString("| Severity | Line | Class | Message |\n")
	sb.WriteString("|---|---:|---|---|\n")
	for _, d := range report.Diagnostics {
		line := ""
		if d.Line > 0 {
			line = fmt.Sprint(d.Line)
		}
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", d.Severity, line, cell(d.Class), cell(d.Message))
	}
	return sb.String()
}

// code renders a fragment for display, spelling epsilon as "0".
func code(fragment string) string {
	if fragment == "" {
		return "`" + domain.Epsilon + "`"
	}
	return "`" + cell(compiler.UnescapeDisplay(fragment)) + "`"
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
