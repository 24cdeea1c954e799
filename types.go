package lexctrace

import (
	"github.com/aretw0/lexctrace/internal/presentation/graph"
	"github.com/aretw0/lexctrace/internal/validator"
)

// Format names a text diagram syntax accepted by Engine.Diagram.
type Format = graph.Format

// Diagram text formats.
const (
	FormatMermaid = graph.FormatMermaid
	FormatDOT     = graph.FormatDOT
)

// ParseFormat resolves a format name or file extension ("mmd", "gv"),
// case-insensitively.
func ParseFormat(name string) (Format, bool) {
	return graph.ParseFormat(name)
}

// Report is the outcome of Engine.Validate.
type Report = validator.Report

// Reference is a rule continuing into a class the lexicon does not define.
type Reference = validator.Reference
