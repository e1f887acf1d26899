package services

import "errors"

var (
	ErrDuplicateUsername   = errors.New("username already registered")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUsernameTooLong     = errors.New("username is too long")
	ErrPasswordTooLong     = errors.New("password is too long")
	ErrStoreUnavailable    = errors.New("store unavailable")
	ErrAuthProviderFailure = errors.New("authentication provider failed")
	ErrUserNotFound        = errors.New("user not found")
	ErrGateDenied          = errors.New("gate password rejected")
	ErrInvalidSecret       = errors.New("secret must be between 1 and 1000 characters")
)
