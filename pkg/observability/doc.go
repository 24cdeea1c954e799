/*
Package observability exposes Prometheus metrics for the trace engine.

Metrics.Hooks plugs the collectors into the engine lifecycle hooks so every
search is counted by outcome, with its duration and number of rules evaluated.
*/
package observability
