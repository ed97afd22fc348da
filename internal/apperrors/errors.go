package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token verification errors
	// Expired token error always wrapped together with ErrTokenInvalid,
	// so callers that don't care about the reason may check ErrTokenInvalid only
	ErrTokenMissing = errors.New("token is missing")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")

	ErrLayoutNotFound = errors.New("layout not found")

	// Store could not be reached or answered with unexpected error
	ErrStoreUnavailable = errors.New("store unavailable")
)
