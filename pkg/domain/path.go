package domain

import "strings"

// Step is one hop of a derivation: the fragments contributed on entering Class.
type Step struct {
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
	Class  string `json:"class" yaml:"class"`
}

// Path is an ordered derivation from the root step to the end-of-word step.
type Path []Step

// InputString concatenates every input fragment.
func (p Path) InputString() string {
	var sb strings.Builder
	for _, s := range p {
		sb.WriteString(s.Input)
	}
	return sb.String()
}

// OutputString concatenates every output fragment.
func (p Path) OutputString() string {
	var sb strings.Builder
	for _, s := range p {
		sb.WriteString(s.Output)
	}
	return sb.String()
}

// Classes lists the class names visited, end-of-word included.
func (p Path) Classes() []string {
	names := make([]string, len(p))
	for i, s := range p {
		names[i] = s.Class
	}
	return names
}

// Query is a trace request against a lexicon. Forms are already escaped.
type Query struct {
	Root   string `json:"root" yaml:"root"`
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// SearchStats summarises the work a search performed.
type SearchStats struct {
	Steps    int `json:"steps" yaml:"steps"`
	MaxDepth int `json:"max_depth" yaml:"max_depth"`
	Skipped  int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// TraceResult is the read-only output of the searcher.
type TraceResult struct {
	Query Query       `json:"query" yaml:"query"`
	Paths []Path      `json:"paths" yaml:"paths"`
	Stats SearchStats `json:"stats" yaml:"stats"`
}

// Found reports whether at least one derivation was accepted.
func (r *TraceResult) Found() bool {
	return r != nil && len(r.Paths) > 0
}
