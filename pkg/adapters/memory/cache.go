package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aretw0/lexctrace/pkg/domain"
)

// Cache implements ports.TraceCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewCache creates a new in-memory cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Put stores an encoded copy so later mutations of result do not leak in.
func (c *Cache) Put(ctx context.Context, key string, result *domain.TraceResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal trace result: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

// Get decodes a fresh copy of the cached result.
func (c *Cache) Get(ctx context.Context, key string) (*domain.TraceResult, error) {
	c.mu.RLock()
	data, ok := c.data[key]
	c.mu.RUnlock()
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	var result domain.TraceResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trace result: %w", err)
	}
	return &result, nil
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
