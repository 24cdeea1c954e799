package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lexctrace/pkg/domain"
)

// GenerateDOT produces a Graphviz digraph of the continuation classes, styled
// like the historical PDF output: boxes, red filled classes and thick red
// arrows for highlighted derivations.
func GenerateDOT(lex *domain.Lexicon, overlay *Overlay) string {
	h := newHighlight(overlay)

	var sb strings.Builder
	sb.WriteString("digraph lexicon {\n")
	sb.WriteString("    node [shape=box];\n")

	for _, name := range lex.Names() {
		label := name
		for _, l := range h.labels[name] {
			label += "\n" + l
		}
		attrs := fmt.Sprintf("label=%s", quoteDOT(label))
		if h.nodes[name] {
			attrs += ", color=red, style=filled"
		}
		sb.WriteString(fmt.Sprintf("    %s [%s];\n", quoteDOT(name), attrs))
	}

	for _, e := range edges(lex) {
		attrs := ""
		if h.edges[e] {
			attrs = " [color=red, arrowsize=2.0]"
		}
		sb.WriteString(fmt.Sprintf("    %s -> %s%s;\n", quoteDOT(e.from), quoteDOT(e.to), attrs))
	}

	sb.WriteString("}\n")
	return sb.String()
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func quoteDOT(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}
