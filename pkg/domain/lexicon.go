package domain

import "sort"

// Reserved tokens of the lexicon format.
const (
	// EndOfWord is the continuation that terminates a derivation.
	EndOfWord = "#"
	// DefaultRoot is the class a trace starts from when no root is given.
	DefaultRoot = "Root"
	// Epsilon is the literal that decodes to the empty string in a replacement.
	Epsilon = "0"

	// SymbolsHeader opens the multichar symbol declarations.
	SymbolsHeader = "Multichar_Symbols"
	// LexiconPrefix opens a continuation class section.
	LexiconPrefix = "LEXICON"
)

// Rule is one production inside a continuation class.
//
// A continuation-only rule has an empty Replacement and simply moves to Next.
// A replacement rule carries the raw token (escapes kept) and its decoded
// Input and Output fragments, where the literal "0" has become "".
type Rule struct {
	Replacement string `json:"replacement,omitempty" yaml:"replacement,omitempty"`
	Input       string `json:"input" yaml:"input"`
	Output      string `json:"output" yaml:"output"`
	Next        string `json:"next" yaml:"next"`

	// Line is the 1-based source line on which the rule ends (0 if unknown).
	Line int `json:"line,omitempty" yaml:"line,omitempty"`
}

// IsContinuation reports whether the rule has no explicit replacement.
func (r Rule) IsContinuation() bool {
	return r.Replacement == ""
}

// IsTerminal reports whether the rule ends the word.
func (r Rule) IsTerminal() bool {
	return r.Next == EndOfWord
}

// Grows reports whether following the rule extends either accumulated string.
func (r Rule) Grows() bool {
	return r.Input != "" || r.Output != ""
}

// Lexicon is the parsed rule graph: continuation classes keyed by name, each
// owning its rules in declaration order.
//
// A Lexicon is never mutated after construction. Transformations such as
// trimming return a new value that shares the underlying rule slices.
type Lexicon struct {
	Multichar []string          `json:"multichar_symbols" yaml:"multichar_symbols"`
	Classes   map[string][]Rule `json:"classes" yaml:"classes"`

	// Order lists class names in the order their first section appeared.
	Order []string `json:"order" yaml:"order"`

	// Diagnostics holds the findings of a lenient parse.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Has reports whether a class is defined.
func (l *Lexicon) Has(name string) bool {
	_, ok := l.Classes[name]
	return ok
}

// Rules returns the rules of a class, or nil when the class is undefined.
func (l *Lexicon) Rules(name string) []Rule {
	return l.Classes[name]
}

// Names lists the class names in declaration order. Lexicons assembled by
// hand without an Order fall back to sorted names.
func (l *Lexicon) Names() []string {
	if len(l.Order) == len(l.Classes) {
		return l.Order
	}
	names := make([]string, 0, len(l.Classes))
	for name := range l.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Restrict returns a new Lexicon holding only the named classes, keeping the
// declaration order of the receiver.
func (l *Lexicon) Restrict(keep map[string]bool) *Lexicon {
	out := &Lexicon{
		Multichar:   l.Multichar,
		Diagnostics: l.Diagnostics,
		Classes:     make(map[string][]Rule, len(keep)),
		Order:       make([]string, 0, len(keep)),
	}
	for _, name := range l.Names() {
		if !keep[name] {
			continue
		}
		out.Classes[name] = l.Classes[name]
		out.Order = append(out.Order, name)
	}
	return out
}
