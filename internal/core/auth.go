package core

import (
	"context"

	"github.com/go-authgate/secrets/internal/models"
)

// AuthResult holds the outcome of an authentication attempt.
type AuthResult struct {
	User    *models.User
	Success bool
}

// AuthProvider is the interface that password-based authentication
// backends must implement.
type AuthProvider interface {
	Authenticate(ctx context.Context, username, password string) (*AuthResult, error)
	Name() string
}
