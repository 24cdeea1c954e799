package dsl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lexctrace/internal/compiler"
	"github.com/aretw0/lexctrace/pkg/domain"
)

func nouns() *Builder {
	b := New()
	b.Symbols("%<N%>", "%<Pl%>")
	b.Lexicon("Root").Go("Nouns")
	b.Lexicon("Nouns").
		Rule("cat", "cat", "Num").
		Rule("dog", "dog", "Num")
	b.Lexicon("Num").
		End("%<N%>%<Pl%>", "s").
		End("%<N%>", "")
	return b
}

func TestBuilder_Build(t *testing.T) {
	lex, err := nouns().Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"Root", "Nouns", "Num"}, lex.Names())
	assert.Equal(t, []string{"%<N%>", "%<Pl%>"}, lex.Multichar)

	root := lex.Rules("Root")
	require.Len(t, root, 1)
	assert.True(t, root[0].IsContinuation())

	num := lex.Rules("Num")
	require.Len(t, num, 2)
	assert.Equal(t, "%<N%>:0", num[1].Replacement)
	assert.True(t, num[1].IsTerminal())
	assert.True(t, num[1].Grows())
}

func TestBuilder_LexiconReopen(t *testing.T) {
	b := New()
	b.Lexicon("Root").Go("A")
	b.Lexicon("A").Accept()
	b.Lexicon("Root").Go("B")
	b.Lexicon("B").Accept()

	lex, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"Root", "A", "B"}, lex.Names())
	assert.Len(t, lex.Rules("Root"), 2)
}

func TestBuilder_Errors(t *testing.T) {
	t.Run("Empty Class Name", func(t *testing.T) {
		b := New()
		b.Lexicon("").Accept()
		_, err := b.Build()
		assert.Error(t, err)
	})

	t.Run("Missing Continuation", func(t *testing.T) {
		b := New()
		b.Lexicon("Root").Rule("a", "b", "")
		_, err := b.Build()
		assert.ErrorContains(t, err, "LEXICON Root: rule 1")

		_, err = b.Source("x.lexc")
		assert.Error(t, err)
	})
}

func TestFormat_RoundTrip(t *testing.T) {
	built, err := nouns().Build()
	require.NoError(t, err)

	text := Format(built)
	assert.Contains(t, text, "Multichar_Symbols\n%<N%> %<Pl%>\n")
	assert.Contains(t, text, "LEXICON Num\n%<N%>%<Pl%>:s # ;\n%<N%>:0 # ;\n")

	parsed, err := compiler.NewParser().Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, built.Names(), parsed.Names())
	assert.Equal(t, built.Multichar, parsed.Multichar)
	for _, name := range built.Names() {
		assert.Equal(t, stripLines(parsed.Rules(name)), built.Rules(name), name)
	}
}

func TestBuilder_Source(t *testing.T) {
	src, err := nouns().Source("nouns.lexc")
	require.NoError(t, err)
	assert.Equal(t, "nouns.lexc", src.Name())

	data, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Contains(t, string(data), "LEXICON Root\nNouns ;\n")
}

func stripLines(rules []domain.Rule) []domain.Rule {
	out := make([]domain.Rule, len(rules))
	for i, r := range rules {
		r.Line = 0
		out[i] = r
	}
	return out
}
