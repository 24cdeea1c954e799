package dsl

import (
	"fmt"

	"github.com/aretw0/lexctrace/pkg/adapters/memory"
	"github.com/aretw0/lexctrace/pkg/domain"
)

// Builder manages the lexicon construction.
type Builder struct {
	symbols []string
	classes map[string]*LexiconBuilder
	order   []string
}

// New creates a new lexicon builder.
func New() *Builder {
	return &Builder{
		classes: make(map[string]*LexiconBuilder),
	}
}

// Symbols declares multichar symbols.
func (b *Builder) Symbols(symbols ...string) *Builder {
	b.symbols = append(b.symbols, symbols...)
	return b
}

// Lexicon opens a continuation class.
// If the class already exists, it returns the existing builder.
func (b *Builder) Lexicon(name string) *LexiconBuilder {
	if lb, ok := b.classes[name]; ok {
		return lb
	}
	lb := &LexiconBuilder{name: name}
	b.classes[name] = lb
	b.order = append(b.order, name)
	return lb
}

// Build compiles the classes into a Lexicon, in the order they were opened.
func (b *Builder) Build() (*domain.Lexicon, error) {
	lex := &domain.Lexicon{
		Multichar: append([]string(nil), b.symbols...),
		Classes:   make(map[string][]domain.Rule, len(b.classes)),
		Order:     append([]string(nil), b.order...),
	}
	for _, name := range b.order {
		if name == "" || name == domain.EndOfWord {
			return nil, fmt.Errorf("invalid class name %q", name)
		}
		lb := b.classes[name]
		for i, r := range lb.rules {
			if r.Next == "" {
				return nil, fmt.Errorf("LEXICON %s: rule %d has no continuation", name, i+1)
			}
		}
		lex.Classes[name] = append([]domain.Rule{}, lb.rules...)
	}
	return lex, nil
}

// Source builds the lexicon and serves its lexc text from memory.
func (b *Builder) Source(name string) (*memory.Source, error) {
	lex, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build lexicon: %w", err)
	}
	return memory.NewSource(name, Format(lex)), nil
}

// LexiconBuilder provides a fluent API for the rules of one class.
// Fragments are written in lexc spelling, escapes included.
type LexiconBuilder struct {
	name  string
	rules []domain.Rule
}

// Rule adds a replacement rule emitting input:output and moving to next.
func (l *LexiconBuilder) Rule(input, output, next string) *LexiconBuilder {
	l.rules = append(l.rules, domain.Rule{
		Replacement: spell(input) + ":" + spell(output),
		Input:       input,
		Output:      output,
		Next:        next,
	})
	return l
}

// Go adds a continuation-only rule.
func (l *LexiconBuilder) Go(next string) *LexiconBuilder {
	l.rules = append(l.rules, domain.Rule{Next: next})
	return l
}

// End adds a replacement rule that ends the word.
func (l *LexiconBuilder) End(input, output string) *LexiconBuilder {
	return l.Rule(input, output, domain.EndOfWord)
}

// Accept adds a bare end-of-word rule.
func (l *LexiconBuilder) Accept() *LexiconBuilder {
	return l.Go(domain.EndOfWord)
}

func spell(fragment string) string {
	if fragment == "" {
		return domain.Epsilon
	}
	return fragment
}
