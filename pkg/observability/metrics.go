package observability

import (
	"context"
	"errors"

	"github.com/aretw0/lexctrace/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Trace outcomes used as the "outcome" label.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeBudget   = "budget_exceeded"
)

// Metrics holds the Prometheus collectors of the trace engine.
type Metrics struct {
	Traces   *prometheus.CounterVec
	Steps    prometheus.Histogram
	Duration prometheus.Histogram
	Cache    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Traces: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexctrace_traces_total",
				Help: "Total number of trace searches by outcome",
			},
			[]string{"outcome"},
		),
		Steps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lexctrace_trace_steps",
			Help:    "Rules evaluated per trace search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lexctrace_trace_duration_seconds",
			Help:    "Duration of trace searches",
			Buckets: prometheus.DefBuckets,
		}),
		Cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexctrace_cache_lookups_total",
				Help: "Trace cache lookups by result",
			},
			[]string{"result"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Traces, m.Steps, m.Duration, m.Cache)
	}
	return m
}

// Hooks adapts the collectors to the engine lifecycle hooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTraceEnd: func(_ context.Context, ev *domain.TraceEvent) {
			m.Traces.WithLabelValues(outcome(ev)).Inc()
			m.Duration.Observe(ev.Elapsed.Seconds())
			if ev.Err == nil {
				m.Steps.Observe(float64(ev.Steps))
			}
		},
	}
}

// ObserveCache counts one cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if hit {
		m.Cache.WithLabelValues("hit").Inc()
		return
	}
	m.Cache.WithLabelValues("miss").Inc()
}

func outcome(ev *domain.TraceEvent) string {
	switch {
	case errors.Is(ev.Err, domain.ErrStepBudgetExceeded), errors.Is(ev.Err, domain.ErrDepthExceeded):
		return OutcomeBudget
	case ev.Err != nil:
		return OutcomeError
	case ev.Paths > 0:
		return OutcomeFound
	default:
		return OutcomeNotFound
	}
}
