package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/service/auth"
	"github.com/phrazzld/tasktracker/internal/store"
)

// RegisterInput is the register form as submitted.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// UserService covers registration and credential checks.
type UserService interface {
	// Register creates an account. Returns ErrPasswordMismatch, a domain
	// validation error, or store.ErrEmailExists.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// Authenticate returns the user when email and password match.
	// Unknown emails and wrong passwords both yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
}

type userServiceImpl struct {
	userStore store.UserStore
	verifier  auth.PasswordVerifier
	db        *sql.DB
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	userStore store.UserStore,
	verifier auth.PasswordVerifier,
	db *sql.DB,
	logger *slog.Logger,
) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userServiceImpl{
		userStore: userStore,
		verifier:  verifier,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}
}

func (s *userServiceImpl) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	user, err := domain.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			s.logger.Debug("attempted to register an existing email")
			return nil, err
		}
		return nil, NewUserServiceError("register", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *userServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, NewUserServiceError("authenticate", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
