package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooLong    = errors.New("password exceeds 72 bytes")

	// Federated login errors
	ErrProviderNotConfigured = errors.New("identity provider not configured")
	ErrProfileIncomplete     = errors.New("provider profile has no user id")
	ErrMissingIDToken        = errors.New("token response has no id_token")
	ErrIDTokenMismatch       = errors.New("id_token subject does not match profile")
)
