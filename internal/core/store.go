package core

import (
	"context"

	"github.com/go-authgate/secrets/internal/models"
)

// UserStore is the persistence surface used by authentication.
type UserStore interface {
	CreateLocalUser(ctx context.Context, user *models.User) error
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	FindOrCreateUserByProvider(
		ctx context.Context,
		provider, providerUserID, displayName string,
	) (*models.User, bool, error)
}

// SecretStore is the persistence surface for the shared secrets board.
type SecretStore interface {
	CreateSecret(ctx context.Context, secret *models.Secret) error
	ListSecrets(ctx context.Context) ([]models.Secret, error)
}

// CountStore supplies the totals reported by gauge metrics.
type CountStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountSecrets(ctx context.Context) (int64, error)
}
