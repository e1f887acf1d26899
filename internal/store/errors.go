package store

import "errors"

var (
	// ErrUsernameConflict is returned when a local login already exists
	ErrUsernameConflict = errors.New("username already exists")

	// ErrRecordNotFound wraps GORM's not found error for consistency
	ErrRecordNotFound = errors.New("record not found")

	// ErrStoreUnavailable wraps connection, timeout and write failures
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrUnknownProvider is returned for provider names without an id column
	ErrUnknownProvider = errors.New("unknown identity provider")
)
