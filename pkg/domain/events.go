package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTraceStart EventType = "trace_start"
	EventTraceEnd   EventType = "trace_end"
)

// TraceEvent describes one search over the rule graph.
type TraceEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      EventType     `json:"type"`
	Query     Query         `json:"query"`
	Paths     int           `json:"paths"`
	Steps     int           `json:"steps"`
	Elapsed   time.Duration `json:"elapsed,omitempty"`
	Err       error         `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnTraceStart func(context.Context, *TraceEvent)
	OnTraceEnd   func(context.Context, *TraceEvent)
}
