package domain

import "fmt"

// Severity grades a Diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a non-fatal finding about a lexicon, such as a rule skipped in
// lenient mode or a cycle that could keep the searcher from terminating.
type Diagnostic struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"`
	Class    string   `json:"class,omitempty" yaml:"class,omitempty"`
	Message  string   `json:"message" yaml:"message"`
}

func (d Diagnostic) String() string {
	loc := ""
	if d.Line > 0 {
		loc = fmt.Sprintf("line %d: ", d.Line)
	}
	if d.Class != "" {
		loc += fmt.Sprintf("LEXICON %s: ", d.Class)
	}
	return fmt.Sprintf("%s: %s%s", d.Severity, loc, d.Message)
}
