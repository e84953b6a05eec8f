package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// PostgresUserStore implements store.UserStore on PostgreSQL.
// Passwords are hashed with bcrypt before they reach the database.
type PostgresUserStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresUserStore creates a user store on a connection or transaction.
// A bcryptCost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewPostgresUserStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, bcryptCost: s.bcryptCost, logger: s.logger}
}

// Create implements store.UserStore.Create
// The plaintext password is cleared from the user once hashed.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}
	if user.Password == "" {
		return domain.ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, hashed_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Username, user.Email, string(hash), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("attempt to create user with existing email")
			return store.ErrEmailExists
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	user.HashedPassword = string(hash)
	user.Password = ""

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, hashed_password, created_at, updated_at
		FROM users
		WHERE email = lower($1)`, email,
	).Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "query failed", MapError(err))
	}

	return &user, nil
}
