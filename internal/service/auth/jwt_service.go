package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService issues and validates the access token returned by login.
type JWTService interface {
	// GenerateToken creates a signed access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies the token signature and expiry and returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the application view of a validated token.
type Claims struct {
	UserID    uuid.UUID `json:"uid,omitempty"`
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
