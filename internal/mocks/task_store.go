package mocks

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/store"
)

// MockTaskStore implements store.TaskStore for testing.
// Without function fields it behaves like an ordered in-memory table.
type MockTaskStore struct {
	ListFn    func(ctx context.Context) ([]domain.Task, error)
	CreateFn  func(ctx context.Context, task domain.Task) (domain.Task, error)
	GetByIDFn func(ctx context.Context, id string) (domain.Task, error)
	UpdateFn  func(ctx context.Context, task domain.Task) (domain.Task, error)
	DeleteFn  func(ctx context.Context, id string) error

	// WithTxCalls counts how often a transactional copy was requested
	WithTxCalls int

	mu     sync.Mutex
	tasks  []domain.Task
	nextID int
}

// NewMockTaskStore creates a mock seeded with the given tasks.
func NewMockTaskStore(seed ...domain.Task) *MockTaskStore {
	return &MockTaskStore{tasks: append([]domain.Task(nil), seed...)}
}

var _ store.TaskStore = (*MockTaskStore)(nil)

func (m *MockTaskStore) List(ctx context.Context) ([]domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Task{}, m.tasks...), nil
}

func (m *MockTaskStore) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	task.ID = fmt.Sprintf("task-%d", m.nextID)
	m.tasks = append(m.tasks, task)
	return task, nil
}

func (m *MockTaskStore) GetByID(ctx context.Context, id string) (domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Task{}, store.ErrTaskNotFound
}

func (m *MockTaskStore) Update(ctx context.Context, task domain.Task) (domain.Task, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, task)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == task.ID {
			m.tasks[i] = task
			return task, nil
		}
	}
	return domain.Task{}, store.ErrTaskNotFound
}

func (m *MockTaskStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tasks {
		if t.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return store.ErrTaskNotFound
}

// WithTx returns the same mock so that transactional calls hit the same data.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	m.mu.Lock()
	m.WithTxCalls++
	m.mu.Unlock()
	return m
}
