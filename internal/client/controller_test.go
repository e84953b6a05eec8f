package client_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/tasktracker/internal/client"
	"github.com/phrazzld/tasktracker/internal/client/cache"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory server. Any Fn field set replaces the default
// behaviour of that call.
type fakeRemote struct {
	mu     sync.Mutex
	tasks  []domain.Task
	nextID int
	calls  []string

	ListFn   func(ctx context.Context) ([]domain.Task, error)
	CreateFn func(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateFn func(ctx context.Context, id string, patch domain.TaskPatch) (domain.TaskPatch, error)
	DeleteFn func(ctx context.Context, id string) error
}

var _ client.Remote = (*fakeRemote)(nil)

func newFakeRemote(seed ...domain.Task) *fakeRemote {
	return &fakeRemote{tasks: append([]domain.Task{}, seed...)}
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRemote) List(ctx context.Context) ([]domain.Task, error) {
	f.record("list")
	if f.ListFn != nil {
		return f.ListFn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Task{}, f.tasks...), nil
}

func (f *fakeRemote) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	f.record("create")
	if f.CreateFn != nil {
		return f.CreateFn(ctx, task)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	task.ID = fmt.Sprintf("srv-%d", f.nextID)
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeRemote) Update(ctx context.Context, id string, patch domain.TaskPatch) (domain.TaskPatch, error) {
	f.record("update")
	if f.UpdateFn != nil {
		return f.UpdateFn(ctx, id, patch)
	}
	patch.ID = &id
	return patch, nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	f.record("delete")
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRemote) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.calls...)
}

// failingCache fails every Save and never has an entry.
type failingCache struct{}

func (failingCache) Save([]domain.Task) error    { return errors.New("disk full") }
func (failingCache) Load() ([]domain.Task, bool) { return nil, false }

var errUnreachable = &client.NetworkError{Method: http.MethodGet, URL: "http://tasks.test/api/tasks", Err: errors.New("connection refused")}

func testLogger(t *testing.T) *slog.Logger {
	l, _ := logger.GetTestLogger(t)
	return l
}

func newController(t *testing.T, remote client.Remote, store cache.Cache, opts ...client.Option) *client.Controller {
	t.Helper()
	opts = append([]client.Option{client.WithLogger(testLogger(t))}, opts...)
	return client.NewController(remote, store, opts...)
}

func task(id, title string) domain.Task {
	t := domain.NewDraft()
	t.ID = id
	t.Title = title
	return t
}

func cachedTasks(t *testing.T, c cache.Cache) []domain.Task {
	t.Helper()
	tasks, ok := c.Load()
	require.True(t, ok, "expected a cache entry")
	return tasks
}

func TestController_LoadFromRemote(t *testing.T) {
	remote := newFakeRemote(task("1", "A"), task("2", "B"))
	store := cache.NewMemoryCache(nil)
	c := newController(t, remote, store)

	freshness := c.Load(context.Background())

	assert.Equal(t, client.FreshnessRemote, freshness)
	assert.Equal(t, client.FreshnessRemote, c.Freshness())
	assert.Equal(t, []string{"1", "2"}, ids(c.Tasks()))
	assert.Equal(t, c.Tasks(), cachedTasks(t, store))
	_, hasNotice := c.Notice()
	assert.False(t, hasNotice)
}

func TestController_LoadFallsBackToCache(t *testing.T) {
	remote := newFakeRemote()
	remote.ListFn = func(context.Context) ([]domain.Task, error) { return nil, errUnreachable }
	store := cache.NewMemoryCache(nil)
	require.NoError(t, store.Save([]domain.Task{task("9", "Cached")}))
	c := newController(t, remote, store)

	freshness := c.Load(context.Background())

	assert.Equal(t, client.FreshnessCached, freshness)
	assert.Equal(t, []domain.Task{task("9", "Cached")}, c.Tasks())
}

func TestController_LoadWithEmptyCache(t *testing.T) {
	remote := newFakeRemote()
	remote.ListFn = func(context.Context) ([]domain.Task, error) { return nil, errUnreachable }
	c := newController(t, remote, cache.NewMemoryCache(nil))

	freshness := c.Load(context.Background())

	assert.Equal(t, client.FreshnessNone, freshness)
	assert.Equal(t, []domain.Task{}, c.Tasks())

	notice, ok := c.Notice()
	require.True(t, ok)
	assert.Equal(t, "load", notice.Op)
	assert.ErrorIs(t, notice.Err, client.ErrCacheMiss)
	var netErr *client.NetworkError
	assert.ErrorAs(t, notice.Err, &netErr)

	c.DismissNotice()
	_, ok = c.Notice()
	assert.False(t, ok)
}

func TestController_LoadWithCorruptCache(t *testing.T) {
	remote := newFakeRemote()
	remote.ListFn = func(context.Context) ([]domain.Task, error) { return nil, errUnreachable }
	store := cache.NewMemoryCache(nil)
	store.SetRaw([]byte(`[{"_id":"1","priority":"Low","status":"Pending"}]`))
	c := newController(t, remote, store)

	assert.Equal(t, client.FreshnessNone, c.Load(context.Background()))
	assert.Empty(t, c.Tasks())
}

// A server task without priority, status or progress is mirrored as is and
// must still come back from the cache when the server is unreachable.
func TestController_LoadCachedTaskWithMissingFields(t *testing.T) {
	sparse := domain.Task{ID: "m1", Title: "From mongo"}
	store := cache.NewMemoryCache(nil)

	online := newController(t, newFakeRemote(sparse), store)
	require.Equal(t, client.FreshnessRemote, online.Load(context.Background()))

	offlineRemote := newFakeRemote()
	offlineRemote.ListFn = func(context.Context) ([]domain.Task, error) { return nil, errUnreachable }
	offline := newController(t, offlineRemote, store)

	assert.Equal(t, client.FreshnessCached, offline.Load(context.Background()))
	assert.Equal(t, []domain.Task{sparse}, offline.Tasks())
}

// The cache has one entry for every account, so a user whose first fetch
// fails sees the previous user's tasks.
func TestController_CacheIsSharedAcrossAccounts(t *testing.T) {
	store := cache.NewMemoryCache(nil)

	alice := newController(t, newFakeRemote(task("a1", "Alice's task")), store)
	alice.Load(context.Background())

	offline := newFakeRemote()
	offline.ListFn = func(context.Context) ([]domain.Task, error) { return nil, errUnreachable }
	bob := newController(t, offline, store)

	assert.Equal(t, client.FreshnessCached, bob.Load(context.Background()))
	assert.Equal(t, []string{"a1"}, ids(bob.Tasks()))

	bob2 := newController(t, newFakeRemote(task("b1", "Bob's task")), store)
	bob2.Load(context.Background())
	assert.Equal(t, []string{"b1"}, ids(cachedTasks(t, store)))
}

func TestController_CreateAppendsServerTask(t *testing.T) {
	remote := newFakeRemote(task("1", "A"))
	store := cache.NewMemoryCache(nil)
	c := newController(t, remote, store)
	c.Load(context.Background())

	require.NoError(t, c.SetField(client.FieldTitle, "Buy milk"))
	require.NoError(t, c.SetField(client.FieldPriority, "Low"))
	require.NoError(t, c.SetField(client.FieldStatus, "Pending"))
	require.NoError(t, c.SetField(client.FieldProgress, "0%"))

	outcome, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, client.OutcomeApplied, outcome)

	tasks := c.Tasks()
	require.Len(t, tasks, 2)
	created := tasks[1]
	assert.Equal(t, "srv-1", created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, domain.PriorityLow, created.Priority)
	assert.Equal(t, tasks, cachedTasks(t, store))

	assert.Equal(t, client.ModeCreate, c.Form().Mode())
	assert.Equal(t, domain.NewDraft(), c.Form().Draft())
}

func TestController_CreateRejectsBlankTitle(t *testing.T) {
	remote := newFakeRemote()
	store := cache.NewMemoryCache(nil)
	c := newController(t, remote, store)

	_, err := c.Create(context.Background(), task("", "  "))

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, remote.Calls())
	assert.Empty(t, c.Tasks())
	notice, ok := c.Notice()
	require.True(t, ok)
	assert.Equal(t, "create", notice.Op)
}

func TestController_CreateFailureLeavesStateUnchanged(t *testing.T) {
	remote := newFakeRemote(task("1", "A"))
	remote.CreateFn = func(context.Context, domain.Task) (domain.Task, error) {
		return domain.Task{}, &client.APIError{StatusCode: http.StatusInternalServerError}
	}
	store := cache.NewMemoryCache(nil)
	c := newController(t, remote, store)
	c.Load(context.Background())
	require.NoError(t, c.SetField(client.FieldTitle, "New"))

	_, err := c.Submit(context.Background())

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, []string{"1"}, ids(c.Tasks()))
	assert.Equal(t, []string{"1"}, ids(cachedTasks(t, store)))
	assert.Equal(t, "New", c.Form().Draft().Title, "draft survives a failed submit")

	notice, ok := c.Notice()
	require.True(t, ok)
	assert.Equal(t, "create", notice.Op)
	assert.ErrorAs(t, notice.Err, &apiErr)
}

func TestController_UpdateThroughForm(t *testing.T) {
	remote := newFakeRemote(task("1", "A"))
	store := cache.NewMemoryCache(nil)
	c := newController(t, remote, store)
	c.Load(context.Background())

	require.Equal(t, client.OutcomeApplied, c.BeginEdit("1"))
	assert.Equal(t, client.ModeEdit, c.Form().Mode())
	require.NoError(t, c.SetField(client.FieldTitle, "B"))
	assert.Equal(t, "A", c.Tasks()[0].Title, "draft edits do not touch the list")

	outcome, err := c.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, client.OutcomeApplied, outcome)
	assert.Equal(t, []domain.Task{task("1", "B")}, c.Tasks())
	assert.Equal(t, c.Tasks(), cachedTasks(t, store))
	assert.Equal(t, client.ModeCreate, c.Form().Mode())
}

func TestController_UpdateMergesPartialResponse(t *testing.T) {
	local := task("1", "A")
	local.Description = "keep me"
	remote := newFakeRemote(local)
	remote.UpdateFn = func(_ context.Context, id string, _ domain.TaskPatch) (domain.TaskPatch, error) {
		title := "Server title"
		return domain.TaskPatch{ID: &id, Title: &title}, nil
	}
	c := newController(t, remote, cache.NewMemoryCache(nil))
	c.Load(context.Background())

	draft := local
	draft.Description = "changed locally"
	outcome, err := c.Update(context.Background(), "1", draft)

	require.NoError(t, err)
	assert.Equal(t, client.OutcomeApplied, outcome)
	got := c.Tasks()[0]
	assert.Equal(t, "Server title", got.Title)
	assert.Equal(t, "keep me", got.Description, "keys absent from the response keep the prior local value")
}

func TestController_UpdateNoMatch(t *testing.T) {
	remote := newFakeRemote(task("1", "A"))
	store := cache.NewMemoryCache(nil)
	c := newController(t, remote, store)
	c.Load(context.Background())
	require.NoError(t, store.Save([]domain.Task{task("sentinel", "untouched")}))

	outcome, err := c.Update(context.Background(), "404", task("", "X"))

	require.NoError(t, err)
	assert.Equal(t, client.OutcomeNoMatch, outcome)
	assert.Equal(t, []domain.Task{task("1", "A")}, c.Tasks())
	assert.Equal(t, []string{"sentinel"}, ids(cachedTasks(t, store)), "no cache write on no match")
}

func TestController_UpdateFailure(t *testing.T) {
	remote := newFakeRemote(task("1", "A"))
	remote.UpdateFn = func(context.Context, string, domain.TaskPatch) (domain.TaskPatch, error) {
		return domain.TaskPatch{}, &client.APIError{StatusCode: http.StatusNotFound, Message: "Task not found"}
	}
	c := newController(t, remote, cache.NewMemoryCache(nil))
	c.Load(context.Background())
	c.BeginEdit("1")
	require.NoError(t, c.SetField(client.FieldTitle, "B"))

	_, err := c.Submit(context.Background())

	assert.True(t, client.IsNotFound(err))
	assert.Equal(t, []domain.Task{task("1", "A")}, c.Tasks())
	assert.Equal(t, client.ModeEdit, c.Form().Mode(), "form stays in edit mode after a failed update")
}

func TestController_BeginEditUnknownID(t *testing.T) {
	c := newController(t, newFakeRemote(task("1", "A")), cache.NewMemoryCache(nil))
	c.Load(context.Background())
	require.NoError(t, c.SetField(client.FieldTitle, "half typed"))
	before := c.Form()

	outcome := c.BeginEdit("missing")

	assert.Equal(t, client.OutcomeNoMatch, outcome)
	assert.Equal(t, before, c.Form())
	assert.Equal(t, []domain.Task{task("1", "A")}, c.Tasks())
}

func TestController_CancelEdit(t *testing.T) {
	c := newController(t, newFakeRemote(task("1", "A")), cache.NewMemoryCache(nil))
	c.Load(context.Background())
	c.BeginEdit("1")

	c.CancelEdit()

	assert.Equal(t, client.ModeCreate, c.Form().Mode())
	assert.Equal(t, domain.NewDraft(), c.Form().Draft())
	assert.Equal(t, []domain.Task{task("1", "A")}, c.Tasks())
}

func TestController_Delete(t *testing.T) {
	remote := newFakeRemote(task("1", "A"), task("2", "B"))
	store := cache.NewMemoryCache(nil)
	c := newController(t, remote, store)
	c.Load(context.Background())

	outcome, err := c.Delete(context.Background(), "1")

	require.NoError(t, err)
	assert.Equal(t, client.OutcomeApplied, outcome)
	assert.Equal(t, []string{"2"}, ids(c.Tasks()))
	assert.Equal(t, []string{"2"}, ids(cachedTasks(t, store)))
}

func TestController_DeleteMissingIDIsNotAnError(t *testing.T) {
	c := newController(t, newFakeRemote(task("1", "A")), cache.NewMemoryCache(nil))
	c.Load(context.Background())

	outcome, err := c.Delete(context.Background(), "missing")

	require.NoError(t, err)
	assert.Equal(t, client.OutcomeNoMatch, outcome)
	assert.Equal(t, []string{"1"}, ids(c.Tasks()))
}

func TestController_DeleteFailure(t *testing.T) {
	remote := newFakeRemote(task("1", "A"))
	remote.DeleteFn = func(context.Context, string) error { return errUnreachable }
	c := newController(t, remote, cache.NewMemoryCache(nil))
	c.Load(context.Background())

	_, err := c.Delete(context.Background(), "1")

	assert.ErrorIs(t, err, errUnreachable)
	assert.Equal(t, []string{"1"}, ids(c.Tasks()))
	notice, ok := c.Notice()
	require.True(t, ok)
	assert.Equal(t, "delete", notice.Op)
}

func TestController_CacheSaveFailureKeepsServerResult(t *testing.T) {
	now := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	c := newController(t, newFakeRemote(), failingCache{}, client.WithClock(func() time.Time { return now }))

	created, err := c.Create(context.Background(), task("", "A"))

	require.NoError(t, err)
	assert.Equal(t, []domain.Task{created}, c.Tasks())
	notice, ok := c.Notice()
	require.True(t, ok)
	assert.Equal(t, now, notice.At)
	assert.Contains(t, notice.Err.Error(), "disk full")
}

func TestController_Visible(t *testing.T) {
	high := task("2", "Write report")
	high.Priority = domain.PriorityHigh
	c := newController(t, newFakeRemote(task("1", "Buy milk"), high, task("3", "Report bug")), cache.NewMemoryCache(nil))
	c.Load(context.Background())

	assert.Equal(t, []string{"1", "2", "3"}, ids(c.Visible()))

	c.SetSearch("REPORT")
	assert.Equal(t, []string{"2", "3"}, ids(c.Visible()))

	c.SetPriorityFilter(client.PriorityFilter(domain.PriorityHigh))
	assert.Equal(t, []string{"2"}, ids(c.Visible()))

	c.SetSearch("")
	c.SetPriorityFilter(client.PriorityAll)
	assert.Equal(t, c.Tasks(), c.Visible())
}

// gate holds a fake remote call until released.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) error {
	close(g.entered)
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// A create that resolves after a delete of the id it will be given puts the
// task back: the last response wins.
func TestController_SlowCreateResurrectsDeletedTask(t *testing.T) {
	createGate := newGate()
	remote := newFakeRemote()
	remote.CreateFn = func(ctx context.Context, draft domain.Task) (domain.Task, error) {
		if err := createGate.wait(ctx); err != nil {
			return domain.Task{}, err
		}
		draft.ID = "future-1"
		return draft, nil
	}
	store := cache.NewMemoryCache(nil)
	c := newController(t, remote, store)

	type result struct {
		task domain.Task
		err  error
	}
	createDone := make(chan result, 1)
	go func() {
		created, err := c.Create(context.Background(), task("", "Slow"))
		createDone <- result{created, err}
	}()
	<-createGate.entered

	outcome, err := c.Delete(context.Background(), "future-1")
	require.NoError(t, err)
	assert.Equal(t, client.OutcomeNoMatch, outcome)

	close(createGate.release)
	res := <-createDone
	require.NoError(t, res.err)

	assert.Equal(t, []string{"future-1"}, ids(c.Tasks()))
	assert.Equal(t, []string{"future-1"}, ids(cachedTasks(t, store)))
}

// Two updates of the same task: the one whose response arrives last wins,
// even though it was sent first.
func TestController_ConcurrentUpdatesLastResponseWins(t *testing.T) {
	firstGate := newGate()
	remote := newFakeRemote(task("1", "A"))
	var calls sync.Mutex
	n := 0
	remote.UpdateFn = func(ctx context.Context, id string, patch domain.TaskPatch) (domain.TaskPatch, error) {
		calls.Lock()
		n++
		first := n == 1
		calls.Unlock()
		if first {
			if err := firstGate.wait(ctx); err != nil {
				return domain.TaskPatch{}, err
			}
		}
		patch.ID = &id
		return patch, nil
	}
	c := newController(t, remote, cache.NewMemoryCache(nil))
	c.Load(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.Update(context.Background(), "1", task("", "first sent"))
		done <- err
	}()
	<-firstGate.entered

	_, err := c.Update(context.Background(), "1", task("", "second sent"))
	require.NoError(t, err)
	assert.Equal(t, "second sent", c.Tasks()[0].Title)

	close(firstGate.release)
	require.NoError(t, <-done)
	assert.Equal(t, "first sent", c.Tasks()[0].Title)
}

func TestController_InFlightGuard(t *testing.T) {
	updateGate := newGate()
	remote := newFakeRemote(task("1", "A"), task("2", "B"))
	remote.UpdateFn = func(ctx context.Context, id string, patch domain.TaskPatch) (domain.TaskPatch, error) {
		if id == "1" {
			if err := updateGate.wait(ctx); err != nil {
				return domain.TaskPatch{}, err
			}
		}
		patch.ID = &id
		return patch, nil
	}
	c := newController(t, remote, cache.NewMemoryCache(nil), client.WithInFlightGuard())
	c.Load(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.Update(context.Background(), "1", task("", "A2"))
		done <- err
	}()
	<-updateGate.entered

	_, err := c.Delete(context.Background(), "1")
	assert.ErrorIs(t, err, client.ErrInFlight)
	_, err = c.Update(context.Background(), "1", task("", "A3"))
	assert.ErrorIs(t, err, client.ErrInFlight)

	_, err = c.Update(context.Background(), "2", task("", "B2"))
	assert.NoError(t, err, "other tasks are not blocked")

	close(updateGate.release)
	require.NoError(t, <-done)

	_, err = c.Delete(context.Background(), "1")
	assert.NoError(t, err, "guard is released once the response is applied")
	assert.Equal(t, []string{"2"}, ids(c.Tasks()))
}

func TestController_LateResponseAfterCloseIsDiscarded(t *testing.T) {
	listGate := newGate()
	remote := newFakeRemote(task("1", "A"))
	remote.ListFn = func(ctx context.Context) ([]domain.Task, error) {
		if err := listGate.wait(ctx); err != nil {
			return nil, err
		}
		return []domain.Task{task("1", "A")}, nil
	}
	store := cache.NewMemoryCache(nil)
	c := newController(t, remote, store)

	done := make(chan client.Freshness, 1)
	go func() { done <- c.Load(context.Background()) }()
	<-listGate.entered

	c.Close()
	close(listGate.release)

	assert.Equal(t, client.FreshnessNone, <-done)
	assert.Empty(t, c.Tasks())
	_, ok := store.Load()
	assert.False(t, ok, "nothing is written after close")

	_, err := c.Create(context.Background(), task("", "B"))
	assert.ErrorIs(t, err, client.ErrClosed)
	_, err = c.Delete(context.Background(), "1")
	assert.ErrorIs(t, err, client.ErrClosed)
	assert.Equal(t, []string{"list"}, remote.Calls())
}
