package cache

import (
	"log/slog"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/kv"
)

// MemoryCache holds the entry in process memory. It stores the encoded bytes
// rather than the slice so callers never share backing arrays with it.
type MemoryCache struct {
	store  *kv.Store[string, []byte]
	logger *slog.Logger
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache(logger *slog.Logger) *MemoryCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryCache{
		store:  kv.New[string, []byte](),
		logger: logger.With("component", "memory_cache"),
	}
}

// Save implements Cache.
func (c *MemoryCache) Save(tasks []domain.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return err
	}
	c.store.Set(Key, data)
	return nil
}

// Load implements Cache.
func (c *MemoryCache) Load() ([]domain.Task, bool) {
	data, ok := c.store.Get(Key)
	if !ok {
		return nil, false
	}
	tasks, err := decode(data)
	if err != nil {
		c.logger.Warn("discarding unreadable cache entry", "error", err)
		return nil, false
	}
	return tasks, true
}

// SetRaw stores data under Key without encoding it.
func (c *MemoryCache) SetRaw(data []byte) {
	c.store.Set(Key, data)
}
