// Package common defines shared constants and sentinel errors used across
// the Batteries backend. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Credential errors.
	ErrorEmptyPassword = errors.New("password is empty")
	ErrorWeakPassword  = errors.New("password does not meet the policy")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidRefreshToken marks a presented refresh token that does not
	// match the stored one. Security-significant: never folded into
	// ErrorNotFound and never treated as an expired token.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)
