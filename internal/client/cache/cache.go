// Package cache keeps the last known task list on the client so reads can fall
// back to it when the server is unreachable.
//
// There is one entry under a fixed key. It is not partitioned per account, so
// a different user on the same machine sees the previous user's tasks until the
// next successful fetch overwrites them.
package cache

import "github.com/phrazzld/tasktracker/internal/domain"

// Key is the name of the single cache entry.
const Key = "tasks"

// Bucket is the NutsDB bucket holding the entry.
const Bucket = "local_storage"

// Cache is a write-through mirror of the last successful remote read or write.
type Cache interface {
	// Save overwrites the stored list.
	Save(tasks []domain.Task) error

	// Load returns the stored list. A missing or unreadable entry yields
	// (nil, false); Load never fails.
	Load() ([]domain.Task, bool)
}
