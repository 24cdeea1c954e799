/*
Package domain contains the core models of the lexc trace engine.

It defines the rule graph produced by parsing a lexicon, the derivation paths
produced by the searcher, and the error taxonomy shared by every layer. The
package is pure and free of I/O.

# Key Entities

  - Lexicon: continuation classes keyed by name, each with its ordered Rules.
  - Rule: an optional input:output replacement plus the next class (or "#").
  - Step / Path: one hop and a full derivation from the root to end-of-word.
  - TraceResult: every accepted Path for a Query, with search statistics.
  - Diagnostic: a non-fatal finding (skipped rule, zero-growth cycle).
*/
package domain
