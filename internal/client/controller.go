package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/tasktracker/internal/client/cache"
	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/kv"
)

// Freshness says where the current task list came from.
type Freshness int

const (
	// FreshnessNone means nothing has been loaded, or the last load found
	// neither the server nor a cached copy.
	FreshnessNone Freshness = iota
	// FreshnessRemote means the list reflects the last successful server call.
	FreshnessRemote
	// FreshnessCached means the server was unreachable and the list came from
	// the local cache. It may be stale.
	FreshnessCached
)

func (f Freshness) String() string {
	switch f {
	case FreshnessNone:
		return "none"
	case FreshnessRemote:
		return "remote"
	case FreshnessCached:
		return "cached"
	default:
		return fmt.Sprintf("Freshness(%d)", int(f))
	}
}

// Outcome reports whether a successful server call changed the local list.
type Outcome int

const (
	// OutcomeApplied means a matching task was found and updated or removed.
	OutcomeApplied Outcome = iota
	// OutcomeNoMatch means the server call succeeded but no local task had
	// the id, so the list was left as it was.
	OutcomeNoMatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeNoMatch:
		return "no match"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Notice is the last failure, kept until dismissed or replaced.
type Notice struct {
	Op  string
	Err error
	At  time.Time
}

func (n Notice) String() string {
	return fmt.Sprintf("%s failed: %v", n.Op, n.Err)
}

// Controller owns the client-side task state: the list, the form, the search
// and priority filters, where the list came from and the last failure.
//
// Server calls run without holding the lock, so several may be in flight at
// once and each applies its result when it returns. Without the in-flight
// guard the last response to arrive wins.
type Controller struct {
	remote Remote
	cache  cache.Cache
	logger *slog.Logger
	now    func() time.Time

	// pending holds ids with a mutation in flight; nil when the guard is off.
	pending *kv.Store[string, struct{}]

	mu        sync.Mutex
	tasks     []domain.Task
	form      Form
	search    string
	priority  PriorityFilter
	freshness Freshness
	notice    *Notice
	closed    bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithInFlightGuard makes updates and deletes fail with ErrInFlight while
// another mutation of the same task is waiting on the server.
func WithInFlightGuard() Option {
	return func(c *Controller) {
		c.pending = kv.New[string, struct{}]()
	}
}

// WithClock replaces time.Now for notice timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController creates a controller with an empty list and a create-mode form.
func NewController(remote Remote, store cache.Cache, opts ...Option) *Controller {
	c := &Controller{
		remote:   remote,
		cache:    store,
		logger:   slog.Default(),
		now:      time.Now,
		tasks:    []domain.Task{},
		form:     NewForm(),
		priority: PriorityAll,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "task_controller")
	return c
}

// Tasks returns a copy of the full list.
func (c *Controller) Tasks() []domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Task{}, c.tasks...)
}

// Visible returns the tasks passing the current search and priority filter.
func (c *Controller) Visible() []domain.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.tasks, c.search, c.priority)
}

// Form returns a copy of the form.
func (c *Controller) Form() Form {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Freshness reports where the current list came from.
func (c *Controller) Freshness() Freshness {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freshness
}

// Notice returns the last recorded failure.
func (c *Controller) Notice() (Notice, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notice == nil {
		return Notice{}, false
	}
	return *c.notice, true
}

// DismissNotice clears the recorded failure.
func (c *Controller) DismissNotice() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notice = nil
}

// SetSearch sets the title search text.
func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = text
}

// SetPriorityFilter sets the priority filter.
func (c *Controller) SetPriorityFilter(f PriorityFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.priority = f
}

// SetField edits the form draft. The task list is not touched.
func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form.SetField(name, value)
}

// BeginEdit loads the task with id into the form. When no task has that id
// the form is left as it was and OutcomeNoMatch is returned.
func (c *Controller) BeginEdit(id string) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return OutcomeNoMatch
	}
	c.form.Load(c.tasks[i])
	return OutcomeApplied
}

// CancelEdit drops the draft and returns the form to create mode.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Reset()
}

// Close detaches the controller. Responses arriving afterwards are discarded
// and new operations fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Load fetches the list from the server and mirrors it into the cache. When
// the server cannot be reached the cached list is used instead; when there is
// none the list is emptied and a notice wrapping ErrCacheMiss is recorded.
// Load itself never fails; the returned Freshness says what happened.
func (c *Controller) Load(ctx context.Context) Freshness {
	if c.isClosed() {
		return FreshnessNone
	}

	tasks, err := c.remote.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return c.freshness
	}

	if err == nil {
		c.tasks = append([]domain.Task{}, tasks...)
		c.freshness = FreshnessRemote
		c.saveLocked("load")
		return c.freshness
	}

	c.logger.WarnContext(ctx, "remote list failed, falling back to cache", "error", err)
	if cached, ok := c.cache.Load(); ok {
		c.tasks = cached
		c.freshness = FreshnessCached
		return c.freshness
	}

	c.tasks = []domain.Task{}
	c.freshness = FreshnessNone
	c.failLocked(ctx, "load", fmt.Errorf("%w: %w", ErrCacheMiss, err))
	return c.freshness
}

// Create validates draft, sends it to the server and appends the created
// task. On failure the list is unchanged, a notice is recorded and the error
// is returned.
func (c *Controller) Create(ctx context.Context, draft domain.Task) (domain.Task, error) {
	if c.isClosed() {
		return domain.Task{}, ErrClosed
	}
	if err := draft.Validate(); err != nil {
		c.fail(ctx, "create", err)
		return domain.Task{}, err
	}

	created, err := c.remote.Create(ctx, draft)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return created, ErrClosed
	}
	if err != nil {
		c.failLocked(ctx, "create", err)
		return domain.Task{}, err
	}

	c.tasks = append(c.tasks, created)
	c.saveLocked("create")
	c.form.Reset()
	return created, nil
}

// Update sends draft as the new content of task id and merges the response
// over the local copy. OutcomeNoMatch means the server accepted the update
// but no local task had that id.
func (c *Controller) Update(ctx context.Context, id string, draft domain.Task) (Outcome, error) {
	if c.isClosed() {
		return OutcomeNoMatch, ErrClosed
	}
	if err := draft.Validate(); err != nil {
		c.fail(ctx, "update", err)
		return OutcomeNoMatch, err
	}
	release, err := c.acquire(id)
	if err != nil {
		c.fail(ctx, "update", err)
		return OutcomeNoMatch, err
	}
	defer release()

	resp, err := c.remote.Update(ctx, id, domain.PatchFromTask(draft))

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return OutcomeNoMatch, ErrClosed
	}
	if err != nil {
		c.failLocked(ctx, "update", err)
		return OutcomeNoMatch, err
	}

	c.form.Reset()
	i := c.indexOf(id)
	if i < 0 {
		c.logger.InfoContext(ctx, "updated task is not in the local list", "task_id", id)
		return OutcomeNoMatch, nil
	}
	c.tasks[i] = Merge(c.tasks[i], resp)
	c.saveLocked("update")
	return OutcomeApplied, nil
}

// Delete removes task id on the server and then locally. A task missing
// locally is not an error; the result is OutcomeNoMatch.
func (c *Controller) Delete(ctx context.Context, id string) (Outcome, error) {
	if c.isClosed() {
		return OutcomeNoMatch, ErrClosed
	}
	release, err := c.acquire(id)
	if err != nil {
		c.fail(ctx, "delete", err)
		return OutcomeNoMatch, err
	}
	defer release()

	err = c.remote.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return OutcomeNoMatch, ErrClosed
	}
	if err != nil {
		c.failLocked(ctx, "delete", err)
		return OutcomeNoMatch, err
	}

	outcome := OutcomeNoMatch
	if i := c.indexOf(id); i >= 0 {
		c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
		outcome = OutcomeApplied
	}
	c.saveLocked("delete")
	return outcome, nil
}

// Submit sends the form: a create in create mode, an update of the edited
// task in edit mode.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	form := c.Form()
	id, editing := form.EditingID()
	if !editing {
		if _, err := c.Create(ctx, form.Draft()); err != nil {
			return OutcomeNoMatch, err
		}
		return OutcomeApplied, nil
	}
	return c.Update(ctx, id, form.Draft())
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// acquire marks id as in flight when the guard is on.
func (c *Controller) acquire(id string) (func(), error) {
	if c.pending == nil {
		return func() {}, nil
	}
	if !c.pending.SetIfAbsent(id, struct{}{}) {
		return nil, fmt.Errorf("task %s: %w", id, ErrInFlight)
	}
	return func() { c.pending.Delete(id) }, nil
}

func (c *Controller) indexOf(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// saveLocked mirrors the list into the cache. The server call already
// succeeded, so a cache failure is recorded but not returned.
func (c *Controller) saveLocked(op string) {
	if err := c.cache.Save(c.tasks); err != nil {
		c.logger.Error("failed to save tasks to cache", "op", op, "error", err)
		c.notice = &Notice{Op: op, Err: fmt.Errorf("cache save: %w", err), At: c.now()}
	}
}

func (c *Controller) fail(ctx context.Context, op string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failLocked(ctx, op, err)
}

func (c *Controller) failLocked(ctx context.Context, op string, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, ErrInFlight) {
		c.logger.InfoContext(ctx, "operation rejected", "op", op, "error", err)
	} else {
		c.logger.ErrorContext(ctx, "operation failed", "op", op, "error", err)
	}
	c.notice = &Notice{Op: op, Err: err, At: c.now()}
}
