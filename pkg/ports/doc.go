/*
Package ports defines the interfaces between the trace engine and the outside
world: where lexicon text comes from, where trace results are cached and how
diagrams become documents.

Reusable contract tests for adapters live in the tests subpackage.
*/
package ports
