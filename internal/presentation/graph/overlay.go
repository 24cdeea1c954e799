package graph

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/lexctrace/internal/compiler"
	"github.com/aretw0/lexctrace/pkg/domain"
)

// Overlay contains the derivations to highlight on the graph.
type Overlay struct {
	Paths []domain.Path
}

type edge struct {
	from, to string
}

// highlight is the per-render view of an Overlay.
type highlight struct {
	nodes  map[string]bool
	edges  map[edge]bool
	labels map[string][]string
}

func newHighlight(overlay *Overlay) *highlight {
	h := &highlight{
		nodes:  make(map[string]bool),
		edges:  make(map[edge]bool),
		labels: make(map[string][]string),
	}
	if overlay == nil {
		return h
	}

	for _, path := range overlay.Paths {
		for i, step := range path {
			if step.Class != domain.EndOfWord {
				h.nodes[step.Class] = true
			}
			if i == 0 {
				continue
			}
			prev := path[i-1].Class
			if step.Class == domain.EndOfWord {
				// The closing fragment belongs to the class that ended the word.
				if step.Input != "" || step.Output != "" {
					h.addLabel(prev, fragmentLabel(step)+" #")
				}
				continue
			}
			h.edges[edge{from: prev, to: step.Class}] = true
			if step.Input != "" || step.Output != "" {
				h.addLabel(step.Class, fragmentLabel(step))
			}
		}
	}
	return h
}

func (h *highlight) addLabel(class, label string) {
	for _, l := range h.labels[class] {
		if l == label {
			return
		}
	}
	h.labels[class] = append(h.labels[class], label)
}

func fragmentLabel(step domain.Step) string {
	return compiler.UnescapeDisplay(step.Input) + ":" + compiler.UnescapeDisplay(step.Output)
}

// edges lists each distinct (class, next-class) pair once, end-of-word
// excluded, in declaration order. The seen set lives only for this call.
func edges(lex *domain.Lexicon) []edge {
	seen := make(map[edge]bool)
	var out []edge
	for _, name := range lex.Names() {
		for _, rule := range lex.Rules(name) {
			if rule.Next == domain.EndOfWord {
				continue
			}
			e := edge{from: name, to: rule.Next}
			if seen[e] {
				continue
			}
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}

// Format names a text diagram syntax.
type Format string

const (
	FormatMermaid Format = "mermaid"
	FormatDOT     Format = "dot"
)

// ParseFormat resolves a format name or file extension, case-insensitively.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(name) {
	case "mermaid", "mmd":
		return FormatMermaid, true
	case "dot", "gv":
		return FormatDOT, true
	}
	return "", false
}

// Generate renders the lexicon graph in the requested syntax.
func Generate(format Format, lex *domain.Lexicon, overlay *Overlay) (string, error) {
	f, ok := ParseFormat(string(format))
	if !ok {
		return "", fmt.Errorf("unsupported diagram format %q", format)
	}
	if f == FormatDOT {
		return GenerateDOT(lex, overlay), nil
	}
	return GenerateMermaid(lex, overlay), nil
}

var unsafeID = regexp.MustCompile(`[^A-Za-z0-9_]`)

// idSet hands out stable, collision-free identifiers for class names.
type idSet struct {
	byName map[string]string
	taken  map[string]bool
}

func newIDSet() *idSet {
	return &idSet{byName: make(map[string]string), taken: make(map[string]bool)}
}

func (s *idSet) id(name string) string {
	if id, ok := s.byName[name]; ok {
		return id
	}
	base := unsafeID.ReplaceAllString(name, "_")
	if base == "" || strings.EqualFold(base, "end") || (base[0] >= '0' && base[0] <= '9') {
		base = "c_" + base
	}
	id := base
	for n := 2; s.taken[id]; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	s.taken[id] = true
	s.byName[name] = id
	return id
}
