package cache

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nutsdb/nutsdb"
	"github.com/phrazzld/tasktracker/internal/domain"
)

// NutsCache persists the entry in a NutsDB directory so it survives restarts.
type NutsCache struct {
	db     *nutsdb.DB
	logger *slog.Logger
}

var _ Cache = (*NutsCache)(nil)

// OpenNutsCache opens (or creates) the database in dir and makes sure the
// bucket exists. Callers must Close it.
func OpenNutsCache(dir string, logger *slog.Logger) (*NutsCache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := nutsdb.DefaultOptions
	opts.Dir = dir
	db, err := nutsdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", dir, err)
	}

	if err := db.Update(func(tx *nutsdb.Tx) error {
		return tx.NewBucket(nutsdb.DataStructureBTree, Bucket)
	}); err != nil && !errors.Is(err, nutsdb.ErrBucketAlreadyExist) {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &NutsCache{
		db:     db,
		logger: logger.With("component", "nuts_cache"),
	}, nil
}

// Save implements Cache.
func (c *NutsCache) Save(tasks []domain.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return err
	}
	return c.put(data)
}

// Load implements Cache.
func (c *NutsCache) Load() ([]domain.Task, bool) {
	var data []byte
	err := c.db.View(func(tx *nutsdb.Tx) error {
		v, err := tx.Get(Bucket, []byte(Key))
		if err != nil {
			return err
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		c.logger.Debug("cache entry not available", "error", err)
		return nil, false
	}

	tasks, err := decode(data)
	if err != nil {
		c.logger.Warn("discarding unreadable cache entry", "error", err)
		return nil, false
	}
	return tasks, true
}

// Close releases the database.
func (c *NutsCache) Close() error {
	return c.db.Close()
}

func (c *NutsCache) put(data []byte) error {
	if err := c.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Put(Bucket, []byte(Key), data, 0)
	}); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
