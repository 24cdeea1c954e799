package dsl

import (
	"strings"

	"github.com/aretw0/lexctrace/pkg/domain"
)

// Format writes lex back as lexc text: the symbols section, then every class
// in declaration order with one rule per line.
func Format(lex *domain.Lexicon) string {
	var sb strings.Builder
	if len(lex.Multichar) > 0 {
		sb.WriteString(domain.SymbolsHeader + "\n")
		sb.WriteString(strings.Join(lex.Multichar, " "))
		sb.WriteString("\n\n")
	}

	for i, name := range lex.Names() {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(domain.LexiconPrefix + " " + name + "\n")
		for _, r := range lex.Rules(name) {
			if r.IsContinuation() {
				sb.WriteString(r.Next + " ;\n")
				continue
			}
			sb.WriteString(spell(r.Input) + ":" + spell(r.Output) + " " + r.Next + " ;\n")
		}
	}
	return sb.String()
}
