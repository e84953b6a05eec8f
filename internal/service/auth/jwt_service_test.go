package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/phrazzld/tasktracker/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "thisisasecretkeythatis32charslong!!"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60}
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	_, err := auth.NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc, err := auth.NewJWTService(testAuthConfig())
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt, time.Second)
}

func TestValidateTokenErrors(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := auth.NewJWTServiceWithClock(testAuthConfig(), func() time.Time { return issuedAt })
	require.NoError(t, err)
	token, err := issuer.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later, err := auth.NewJWTServiceWithClock(testAuthConfig(), func() time.Time {
			return issuedAt.Add(2 * time.Hour)
		})
		require.NoError(t, err)

		_, err = later.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := auth.NewJWTServiceWithClock(
			config.AuthConfig{JWTSecret: strings.Repeat("z", 40), TokenLifetimeMinutes: 60},
			func() time.Time { return issuedAt },
		)
		require.NoError(t, err)

		_, err = other.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := issuer.ValidateToken(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = issuer.ValidateToken(context.Background(), unsigned)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestBcryptVerifier(t *testing.T) {
	hash, err := auth.HashPassword("password123", 4)
	require.NoError(t, err)

	v := auth.NewBcryptVerifier()
	assert.NoError(t, v.Compare(hash, "password123"))
	assert.Error(t, v.Compare(hash, "password124"))
}
