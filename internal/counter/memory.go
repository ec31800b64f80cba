package counter

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
)

var _ ReadCounter = (*MemoryCounter)(nil)

// MemoryCounter keeps the record in process memory. For tests and local runs.
type MemoryCounter struct {
	mu    sync.Mutex
	key   string
	cache *cache.Cache
}

func NewMemoryCounter(table string) *MemoryCounter {
	return &MemoryCounter{
		key:   table + ":" + Key,
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Seed sets the stored value, as if earlier visits had happened.
func (c *MemoryCounter) Seed(n int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Set(c.key, n, cache.NoExpiration)
}

func (c *MemoryCounter) Up(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.cache.Add(c.key, int64(1), cache.NoExpiration); err == nil {
		return 1, nil
	}
	n, err := c.cache.IncrementInt64(c.key, 1)
	if err != nil {
		return 0, Unexpected("cache.IncrementInt64", err)
	}
	return n, nil
}

func (c *MemoryCounter) Get(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.cache.Get(c.key)
	if !ok {
		return 0, nil
	}
	n, ok := v.(int64)
	if !ok {
		return 0, Unexpected("cache.Get", nil)
	}
	return n, nil
}
