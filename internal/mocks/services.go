package mocks

import (
	"context"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/service"
)

// MockTaskService implements service.TaskService for handler tests.
type MockTaskService struct {
	ListTasksFn  func(ctx context.Context) ([]domain.Task, error)
	CreateTaskFn func(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateTaskFn func(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)
	DeleteTaskFn func(ctx context.Context, id string) error
}

var _ service.TaskService = (*MockTaskService)(nil)

func (m *MockTaskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx)
	}
	return []domain.Task{}, nil
}

func (m *MockTaskService) CreateTask(ctx context.Context, task domain.Task) (domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, task)
	}
	task.ID = "created"
	return task, nil
}

func (m *MockTaskService) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, id, patch)
	}
	return patch.ApplyTo(domain.Task{ID: id}), nil
}

func (m *MockTaskService) DeleteTask(ctx context.Context, id string) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return nil
}

// MockUserService implements service.UserService for handler tests.
type MockUserService struct {
	RegisterFn     func(ctx context.Context, input service.RegisterInput) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, input)
	}
	return domain.NewUser(input.Username, input.Email, input.Password)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return nil, service.ErrInvalidCredentials
}
