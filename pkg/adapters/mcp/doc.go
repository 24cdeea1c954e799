// Package mcp exposes a lexicon to Model Context Protocol clients through
// the trace_form, get_graph and validate_lexicon tools.
package mcp
