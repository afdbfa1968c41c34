package apperrors

import (
	"errors"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")

	// Covers unknown email and wrong password alike, so a caller can't
	// probe which emails are registered
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Covers malformed, badly signed and expired tokens
	// Distinguish the cause via error wrapping for logs only
	ErrInvalidToken = errors.New("invalid token")

	ErrTokenRevoked = errors.New("token has been revoked")

	ErrStoreUnavailable = errors.New("store unavailable")
)
