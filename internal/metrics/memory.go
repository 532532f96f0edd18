package metrics

import (
	"context"

	"github.com/patrickmn/go-cache"

	"github.com/sundayezeilo/tweets/internal/errx"
)

// MemoryCounter keeps counters in process memory. Values are lost on restart.
type MemoryCounter struct {
	cache *cache.Cache
}

// NewMemoryCounter creates an empty in-memory counter store.
func NewMemoryCounter() *MemoryCounter {
	// no expiry and no janitor goroutine
	return &MemoryCounter{cache: cache.New(cache.NoExpiration, 0)}
}

func (c *MemoryCounter) Increment(ctx context.Context, name string, delta int64) error {
	const op = "metrics.memory.Increment"

	// Add fails when the key already exists, which is fine.
	_ = c.cache.Add(name, int64(0), cache.NoExpiration)

	if _, err := c.cache.IncrementInt64(name, delta); err != nil {
		return errx.E(op, errx.Internal, err)
	}
	return nil
}

func (c *MemoryCounter) Snapshot(ctx context.Context) (map[string]int64, error) {
	items := c.cache.Items()
	out := make(map[string]int64, len(items))
	for name, item := range items {
		if v, ok := item.Object.(int64); ok {
			out[name] = v
		}
	}
	return out, nil
}

func (c *MemoryCounter) Close() error { return nil }
