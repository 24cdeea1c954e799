package compiler

import (
	"errors"
	"testing"

	"github.com/aretw0/lexctrace/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicLexicon = `! A tiny noun lexicon
Multichar_Symbols
+N +Pl

LEXICON Root
a:b Noun ;     ! first rule

LEXICON Noun
# ;
`

func TestParser_Basic(t *testing.T) {
	lex, err := NewParser().Parse([]byte(basicLexicon))
	require.NoError(t, err)

	assert.Equal(t, []string{"+N", "+Pl"}, lex.Multichar)
	assert.Equal(t, []string{"Root", "Noun"}, lex.Order)
	assert.Equal(t, []domain.Rule{
		{Replacement: "a:b", Input: "a", Output: "b", Next: "Noun", Line: 6},
	}, lex.Classes["Root"])
	assert.Equal(t, []domain.Rule{{Next: "#", Line: 9}}, lex.Classes["Noun"])
	assert.Empty(t, lex.Diagnostics)
}

func TestParser_Escaping(t *testing.T) {
	src := `LEXICON Root
cat%!:cat Noun ; ! bang is literal
a%;b:c Noun ;
x%:y:z Noun ;
a% b:c Noun ;
%<n%>:0 # ;
`
	lex, err := NewParser().Parse([]byte(src))
	require.NoError(t, err)

	rules := lex.Classes["Root"]
	require.Len(t, rules, 5)
	assert.Equal(t, "cat%!", rules[0].Input)
	assert.Equal(t, "cat", rules[0].Output)
	assert.Equal(t, "a%;b", rules[1].Input)
	assert.Equal(t, "x%:y", rules[2].Input)
	assert.Equal(t, "z", rules[2].Output)
	assert.Equal(t, "a% b", rules[3].Input)
	assert.Equal(t, "%<n%>", rules[4].Input)
	assert.Equal(t, "", rules[4].Output)
	assert.True(t, rules[4].IsTerminal())
}

func TestParser_RuleSpanningLines(t *testing.T) {
	src := "LEXICON Root\na:b\n   Noun ; c:d # ;\nLEXICON Noun\n# ;\n"
	lex, err := NewParser().Parse([]byte(src))
	require.NoError(t, err)

	rules := lex.Classes["Root"]
	require.Len(t, rules, 2)
	assert.Equal(t, domain.Rule{Replacement: "a:b", Input: "a", Output: "b", Next: "Noun", Line: 3}, rules[0])
	assert.Equal(t, "#", rules[1].Next)
}

func TestParser_Sections(t *testing.T) {
	src := `Multichar_Symbols
+N
+V +Pl
LEXICON Root
Noun ;
Multichar_Symbols
+Ignored
LEXICON Noun
cat:cat # ;
LEXICON Root
Verb ;
LEXICON   Verb
`
	lex, err := NewParser().Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"+N", "+V", "+Pl"}, lex.Multichar)
	assert.Equal(t, []string{"Root", "Noun", "Verb"}, lex.Order)
	require.Len(t, lex.Classes["Root"], 2)
	assert.Equal(t, "Noun", lex.Classes["Root"][0].Next)
	assert.Equal(t, "Verb", lex.Classes["Root"][1].Next)
	assert.True(t, lex.Has("Verb"))
	assert.Empty(t, lex.Classes["Verb"])
	require.Len(t, lex.Diagnostics, 1)
	assert.Contains(t, lex.Diagnostics[0].Message, "repeated Multichar_Symbols")
}

func TestParser_EmptyRulesDiscarded(t *testing.T) {
	lex, err := NewParser().Parse([]byte("LEXICON Root\n; ;  ;\n# ;\n"))
	require.NoError(t, err)
	assert.Equal(t, []domain.Rule{{Next: "#", Line: 3}}, lex.Classes["Root"])
}

func TestParser_StrictErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		line     int
		isDecode bool
	}{
		{"Too Many Tokens", "LEXICON Root\na:b Noun extra ;\n", 2, false},
		{"Malformed Replacement", "LEXICON Root\na:b:c Noun ;\n", 2, true},
		{"Missing Colon", "LEXICON Root\nabc Noun ;\n", 2, true},
		{"Content Before Header", "stray ;\nLEXICON Root\n# ;\n", 1, false},
		{"Unterminated Rule", "LEXICON Root\n# ;\na:b Noun\n", 3, false},
		{"Nameless Header", "LEXICON\n# ;\n", 1, false},
		{"Dangling Escape", "LEXICON Root\na:b%\n", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser().Parse([]byte(tt.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrParse))
			assert.Equal(t, tt.isDecode, errors.Is(err, domain.ErrReplacementDecode))

			var parseErr *domain.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.line, parseErr.Line)
		})
	}
}

func TestParser_Lenient(t *testing.T) {
	src := `stray text
LEXICON Root
a:b:c Noun ;
a:b Noun extra ;
abc Noun ;
d:e Noun ;
LEXICON Noun
#
`
	lex, err := NewParser(WithLenient(true)).Parse([]byte(src))
	require.NoError(t, err)

	require.Len(t, lex.Classes["Root"], 1)
	assert.Equal(t, "d", lex.Classes["Root"][0].Input)
	assert.Equal(t, []domain.Rule{{Next: "#", Line: 8}}, lex.Classes["Noun"])

	require.Len(t, lex.Diagnostics, 5)
	for _, d := range lex.Diagnostics {
		assert.Equal(t, domain.SeverityWarning, d.Severity)
	}
	assert.Equal(t, 1, lex.Diagnostics[0].Line)
	assert.Equal(t, "Root", lex.Diagnostics[1].Class)
}
