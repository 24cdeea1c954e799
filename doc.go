/*
Package lexctrace reconstructs how a lexc lexicon derives a surface form.

A lexicon is a graph of continuation classes joined by rules that each emit an
input:output fragment. Given an underlying form and a surface form, the Engine
finds every path from the root class to end-of-word whose concatenated
fragments spell exactly that pair, and can draw the root's reachable subgraph
with those paths highlighted.

# Usage

	src := file.NewSource("nouns.lexc")
	eng, err := lexctrace.New(ctx, src, lexctrace.WithRoot("Root"))
	if err != nil {
		log.Fatal(err)
	}

	result, err := eng.Trace(ctx, "cat<N><Pl>", "cats")
	if err != nil {
		log.Fatal(err)
	}
	if !result.Found() {
		log.Println("no derivation found")
	}

	diagram, err := eng.Diagram(lexctrace.FormatMermaid, result)

Parsing is strict by default: malformed rules fail with a *domain.ParseError
naming the line and class. WithLenient restores the tolerance of the legacy
tooling, skipping such rules while recording a domain.Diagnostic for each.

The search walks the graph with an explicit stack and prunes any branch whose
accumulated strings stop being prefixes of the targets. A cycle made only of
rules that emit nothing never terminates on its own; Validate reports these
and the depth guard and step budget bound the search.
*/
package lexctrace
