package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrParse marks every failure to turn lexicon text into a rule graph.
	ErrParse = errors.New("parse error")

	// ErrReplacementDecode is returned when a replacement token does not split
	// into exactly one input and one output part.
	ErrReplacementDecode = errors.New("malformed replacement")

	// ErrUnknownRoot is returned when the requested root class is not defined.
	ErrUnknownRoot = errors.New("unknown root class")

	// ErrUnknownClass is returned when a rule continues into an undefined class.
	ErrUnknownClass = errors.New("unknown continuation class")

	// ErrDepthExceeded is returned when a derivation grows past the depth guard.
	ErrDepthExceeded = errors.New("search depth limit exceeded")

	// ErrStepBudgetExceeded is returned when the searcher runs out of steps.
	ErrStepBudgetExceeded = errors.New("search step budget exceeded")
)

// ParseError locates a parse failure in the source text.
type ParseError struct {
	Line   int
	Class  string
	Rule   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("parse error")
	if e.Line > 0 {
		fmt.Fprintf(&sb, " at line %d", e.Line)
	}
	if e.Class != "" {
		fmt.Fprintf(&sb, " in LEXICON %s", e.Class)
	}
	if e.Rule != "" {
		fmt.Fprintf(&sb, " (rule %q)", e.Rule)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Is lets errors.Is match ErrParse for every ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReplacementDecodeError describes a replacement token that split into the
// wrong number of parts.
type ReplacementDecodeError struct {
	Token string
	Parts int
}

func (e *ReplacementDecodeError) Error() string {
	return fmt.Sprintf("replacement %q splits into %d parts, want 2", e.Token, e.Parts)
}

func (e *ReplacementDecodeError) Is(target error) bool {
	return target == ErrReplacementDecode
}

// UnknownRootError names the missing root class.
type UnknownRootError struct {
	Root string
}

func (e *UnknownRootError) Error() string {
	return fmt.Sprintf("root class %q is not defined", e.Root)
}

func (e *UnknownRootError) Is(target error) bool {
	return target == ErrUnknownRoot
}

// AggregateError represents multiple findings reported together.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ErrCacheMiss is returned by a trace cache that holds no entry for a key.
var ErrCacheMiss = errors.New("trace cache miss")
