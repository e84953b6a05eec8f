package cache

import (
	"log/slog"
	"testing"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTasks() []domain.Task {
	return []domain.Task{
		{
			ID:          "1",
			Title:       "Buy milk",
			Description: "semi-skimmed",
			Date:        "2024-03-05",
			Priority:    domain.PriorityLow,
			Status:      domain.StatusPending,
			Progress:    "0%",
		},
		{
			ID:       "2",
			Title:    "Ship release",
			Date:     "next week",
			Priority: domain.PriorityHigh,
			Status:   domain.StatusInProgress,
			Progress: "abc",
		},
	}
}

func testLogger(t *testing.T) *slog.Logger {
	l, _ := logger.GetTestLogger(t)
	return l
}

// implementations returns a fresh instance of every Cache plus a way to plant
// raw bytes under Key.
func implementations(t *testing.T) map[string]func(t *testing.T) (Cache, func([]byte)) {
	t.Helper()
	return map[string]func(t *testing.T) (Cache, func([]byte)){
		"memory": func(t *testing.T) (Cache, func([]byte)) {
			c := NewMemoryCache(testLogger(t))
			return c, c.SetRaw
		},
		"nutsdb": func(t *testing.T) (Cache, func([]byte)) {
			c, err := OpenNutsCache(t.TempDir(), testLogger(t))
			require.NoError(t, err)
			t.Cleanup(func() { _ = c.Close() })
			return c, func(data []byte) { require.NoError(t, c.put(data)) }
		},
	}
}

func TestCache_RoundTrip(t *testing.T) {
	lists := map[string][]domain.Task{
		"empty":         {},
		"single":        sampleTasks()[:1],
		"many":          sampleTasks(),
		"blank enums":   {{ID: "m1", Title: "From mongo"}},
		"unknown enums": {{ID: "m2", Title: "Legacy", Priority: "Urgent", Status: "Done"}},
	}

	for implName, newCache := range implementations(t) {
		for listName, list := range lists {
			t.Run(implName+"/"+listName, func(t *testing.T) {
				c, _ := newCache(t)

				require.NoError(t, c.Save(list))
				got, ok := c.Load()

				require.True(t, ok)
				assert.Equal(t, list, got)
			})
		}
	}
}

func TestCache_SaveOverwrites(t *testing.T) {
	for implName, newCache := range implementations(t) {
		t.Run(implName, func(t *testing.T) {
			c, _ := newCache(t)

			require.NoError(t, c.Save(sampleTasks()))
			require.NoError(t, c.Save(sampleTasks()[1:]))

			got, ok := c.Load()
			require.True(t, ok)
			assert.Equal(t, sampleTasks()[1:], got)
		})
	}
}

func TestCache_LoadMissing(t *testing.T) {
	for implName, newCache := range implementations(t) {
		t.Run(implName, func(t *testing.T) {
			c, _ := newCache(t)

			got, ok := c.Load()
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestCache_LoadCorrupt(t *testing.T) {
	payloads := map[string]string{
		"not json":        `{"tasks":`,
		"object":          `{"_id":"1"}`,
		"null status":     `[{"_id":"1","title":"A","priority":"Low","status":null}]`,
		"missing title":   `[{"_id":"1","priority":"Low","status":"Pending"}]`,
		"wrong type":      `[{"_id":1,"title":"A","priority":"Low","status":"Pending"}]`,
		"array of string": `["a"]`,
	}

	for implName, newCache := range implementations(t) {
		for name, payload := range payloads {
			t.Run(implName+"/"+name, func(t *testing.T) {
				c, plant := newCache(t)
				plant([]byte(payload))

				got, ok := c.Load()
				assert.False(t, ok)
				assert.Nil(t, got)
			})
		}
	}
}

func TestCache_SaveNilStoresEmptyList(t *testing.T) {
	c := NewMemoryCache(nil)

	require.NoError(t, c.Save(nil))
	got, ok := c.Load()

	require.True(t, ok)
	assert.Equal(t, []domain.Task{}, got)
}

// One fixed key means a second account reads the first account's entry.
func TestCache_SharedAcrossAccounts(t *testing.T) {
	dir := t.TempDir()

	first, err := OpenNutsCache(dir, nil)
	require.NoError(t, err)
	require.NoError(t, first.Save(sampleTasks()))
	require.NoError(t, first.Close())

	second, err := OpenNutsCache(dir, nil)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	got, ok := second.Load()
	require.True(t, ok)
	assert.Equal(t, sampleTasks(), got)
}

func TestCache_LoadedSliceIsIndependent(t *testing.T) {
	c := NewMemoryCache(nil)
	require.NoError(t, c.Save(sampleTasks()))

	got, _ := c.Load()
	got[0].Title = "mutated"

	again, _ := c.Load()
	assert.Equal(t, "Buy milk", again[0].Title)
}
