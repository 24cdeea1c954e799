package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lexctrace/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of the continuation classes.
// Each class is a box; each distinct class-to-class continuation is one arrow.
// Classes and transitions on a highlighted derivation get the derivation
// style and their boxes carry the input:output fragments of that derivation.
func GenerateMermaid(lex *domain.Lexicon, overlay *Overlay) string {
	h := newHighlight(overlay)
	ids := newIDSet()

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, name := range lex.Names() {
		label := escapeMermaid(name)
		for _, l := range h.labels[name] {
			label += "<br/>" + escapeMermaid(l)
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", ids.id(name), label))
	}

	var highlighted []int
	for i, e := range edges(lex) {
		arrow := "-->"
		if h.edges[e] {
			arrow = "==>"
			highlighted = append(highlighted, i)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", ids.id(e.from), arrow, ids.id(e.to)))
	}

	if len(h.nodes) > 0 {
		sb.WriteString("\n    %% Derivation Overlay\n")
		// Force black text for contrast regardless of theme
		sb.WriteString("    classDef derivation fill:#ffcdd2,stroke:#c62828,stroke-width:2px,color:#000;\n")
		for _, name := range lex.Names() {
			if h.nodes[name] {
				sb.WriteString(fmt.Sprintf("    class %s derivation;\n", ids.id(name)))
			}
		}
		for _, i := range highlighted {
			sb.WriteString(fmt.Sprintf("    linkStyle %d stroke:#c62828,stroke-width:3px;\n", i))
		}
	}

	return sb.String()
}

func escapeMermaid(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	s = strings.ReplaceAll(s, "<", "#lt;")
	return strings.ReplaceAll(s, ">", "#gt;")
}
