package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/lexctrace/pkg/domain"
	"github.com/aretw0/lexctrace/pkg/ports"
)

// LexiconSourceContractTest verifies that an adapter complies with ports.LexiconSource.
func LexiconSourceContractTest(t *testing.T, source ports.LexiconSource, expected []byte) {
	t.Helper()

	t.Run("Name", func(t *testing.T) {
		if source.Name() == "" {
			t.Error("expected a non-empty name")
		}
	})

	t.Run("Load", func(t *testing.T) {
		data, err := source.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading lexicon: %v", err)
		}
		if string(data) != string(expected) {
			t.Errorf("content mismatch. got %q, want %q", data, expected)
		}
	})
}

// TraceCacheContractTest verifies that an adapter complies with ports.TraceCache.
func TraceCacheContractTest(t *testing.T, cache ports.TraceCache) {
	t.Helper()
	ctx := context.Background()

	t.Run("Miss", func(t *testing.T) {
		_, err := cache.Get(ctx, "absent")
		if !errors.Is(err, domain.ErrCacheMiss) {
			t.Fatalf("expected ErrCacheMiss, got %v", err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		result := &domain.TraceResult{
			Query: domain.Query{Root: "Root", Input: "a", Output: "b"},
			Paths: []domain.Path{{
				{Class: "Root"},
				{Input: "a", Output: "b", Class: "Noun"},
				{Class: domain.EndOfWord},
			}},
			Stats: domain.SearchStats{Steps: 2, MaxDepth: 2},
		}
		if err := cache.Put(ctx, "k1", result); err != nil {
			t.Fatalf("unexpected error storing result: %v", err)
		}

		// Mutating the original must not leak into the cache.
		result.Paths[0][1].Class = "Mutated"

		got, err := cache.Get(ctx, "k1")
		if err != nil {
			t.Fatalf("unexpected error reading result: %v", err)
		}
		if got.Query != (domain.Query{Root: "Root", Input: "a", Output: "b"}) {
			t.Errorf("query mismatch: %+v", got.Query)
		}
		if len(got.Paths) != 1 || got.Paths[0][1].Class != "Noun" {
			t.Errorf("paths mismatch: %+v", got.Paths)
		}
		if got.Stats.Steps != 2 {
			t.Errorf("stats mismatch: %+v", got.Stats)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		empty := &domain.TraceResult{Paths: []domain.Path{}}
		if err := cache.Put(ctx, "k1", empty); err != nil {
			t.Fatalf("unexpected error storing result: %v", err)
		}
		got, err := cache.Get(ctx, "k1")
		if err != nil {
			t.Fatalf("unexpected error reading result: %v", err)
		}
		if len(got.Paths) != 0 {
			t.Errorf("expected overwritten entry, got %+v", got.Paths)
		}
	})
}
