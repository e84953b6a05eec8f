package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/store"
)

// MockUserStore implements store.UserStore for testing.
type MockUserStore struct {
	CreateFn     func(ctx context.Context, user *domain.User) error
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)

	// HashFn turns a plaintext password into the stored hash. Defaults to "hashed:"+password.
	HashFn func(password string) (string, error)

	mu    sync.Mutex
	Users map[string]*domain.User
}

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{Users: make(map[string]*domain.User)}
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if err := user.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.Users[user.Email]; exists {
		return store.ErrEmailExists
	}

	hash := "hashed:" + user.Password
	if m.HashFn != nil {
		var err error
		if hash, err = m.HashFn(user.Password); err != nil {
			return err
		}
	}
	user.HashedPassword = hash
	user.Password = ""

	stored := *user
	m.Users[user.Email] = &stored
	return nil
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.Users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// WithTx implements the UserStore interface
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}
