package ports

import (
	"context"

	"github.com/aretw0/lexctrace/pkg/domain"
)

// TraceCache stores trace results by domain.Fingerprint.
// Traces are pure, so a cached result never needs invalidation; adapters may
// still expire entries to bound memory.
type TraceCache interface {
	// Get returns domain.ErrCacheMiss when the key is absent.
	Get(ctx context.Context, key string) (*domain.TraceResult, error)

	// Put stores a copy of result under key.
	Put(ctx context.Context, key string, result *domain.TraceResult) error
}
