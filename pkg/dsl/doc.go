/*
Package dsl provides a Go DSL for programmatically constructing lexicons.

It allows developers to define continuation classes with a fluent builder
instead of writing lexc text, which is handy for generated grammars and unit
tests. Fragments keep their lexc spelling, so a literal angle bracket is
written "%<".

Example usage:

	b := dsl.New()
	b.Symbols("%<N%>", "%<Pl%>")

	b.Lexicon("Root").Go("Nouns")
	b.Lexicon("Nouns").
		Rule("cat", "cat", "Num").
		Rule("dog", "dog", "Num")
	b.Lexicon("Num").
		End("%<N%>%<Pl%>", "s").
		End("%<N%>", "")

	// The source can be handed to lexctrace.New.
	src, err := b.Source("nouns.lexc")

Format writes any Lexicon back as lexc text.
*/
package dsl
