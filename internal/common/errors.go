// Package common defines shared constants and sentinel errors used across
// vidstream components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Input validation errors.
	ErrorValidation = errors.New("validation error")

	// Service-level errors (generic/internal flow control).
	ErrorInternal       = errors.New("internal error")
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Credential errors.
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token verification errors.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenWrongKind = errors.New("wrong token kind")

	// Session lifecycle errors.
	ErrTokenIssuance       = errors.New("token issuance failed")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenStale   = errors.New("refresh token stale")
)
