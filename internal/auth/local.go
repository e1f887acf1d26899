package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/models"
	"github.com/go-authgate/secrets/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

// credentialLookup is the part of the user store local login reads.
type credentialLookup interface {
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming spends one bcrypt comparison so unknown logins take as long
// as wrong passwords.
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// HashPassword derives a salted bcrypt hash of password
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compile-time interface check.
var _ core.AuthProvider = (*LocalAuthProvider)(nil)

// LocalAuthProvider handles local database authentication
type LocalAuthProvider struct {
	store credentialLookup
}

// NewLocalAuthProvider creates a new local authentication provider
func NewLocalAuthProvider(s credentialLookup) *LocalAuthProvider {
	return &LocalAuthProvider{store: s}
}

// Authenticate verifies credentials against local database. Unknown logins,
// OAuth-only accounts and wrong passwords all yield ErrInvalidCredentials;
// store failures are returned wrapped.
func (p *LocalAuthProvider) Authenticate(
	ctx context.Context,
	username, password string,
) (*core.AuthResult, error) {
	user, err := p.store.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			equalizeTiming(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.PasswordHash == "" {
		equalizeTiming(password)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(
		[]byte(user.PasswordHash),
		[]byte(password),
	); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &core.AuthResult{
		User:    user,
		Success: true,
	}, nil
}

// Name returns provider name for logging
func (p *LocalAuthProvider) Name() string {
	return "local"
}
