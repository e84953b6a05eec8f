package auth

import "errors"

// Token errors returned by JWTService and reported by the auth middleware.
var (
	ErrInvalidToken     = errors.New("invalid authentication token")
	ErrExpiredToken     = errors.New("authentication token has expired")
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken is logged when a protected task route is called
	// without a bearer token.
	ErrMissingToken = errors.New("authentication token is missing")
)
