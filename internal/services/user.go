package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-authgate/secrets/internal/auth"
	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/logutil"
	"github.com/go-authgate/secrets/internal/metrics"
	"github.com/go-authgate/secrets/internal/models"
	"github.com/go-authgate/secrets/internal/store"
)

const (
	AuthModeLocal = "local"

	// MaxUsernameLength bounds local login names
	MaxUsernameLength = 64

	userCacheKeyPrefix = "user:"
)

type UserService struct {
	store         core.UserStore
	localProvider core.AuthProvider
	metrics       core.Recorder
	userCache     core.Cache[models.User]
	userCacheTTL  time.Duration
}

func NewUserService(
	s core.UserStore,
	localProvider core.AuthProvider,
	m core.Recorder,
	userCache core.Cache[models.User],
	userCacheTTL time.Duration,
) *UserService {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &UserService{
		store:         s,
		localProvider: localProvider,
		metrics:       m,
		userCache:     userCache,
		userCacheTTL:  userCacheTTL,
	}
}

// storeError wraps a store failure as ErrStoreUnavailable keeping the cause.
func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// Register creates a local account. The username is trimmed and must be
// unique among local accounts.
func (s *UserService) Register(
	ctx context.Context,
	username, password string,
) (user *models.User, err error) {
	defer func() { s.metrics.RecordRegistration(err == nil) }()

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, ErrUsernameTooLong)
	}

	if _, err := s.store.GetUserByLogin(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, storeError("check username", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: %w: %w", ErrInvalidInput, ErrPasswordTooLong, err)
		}
		return nil, err
	}

	login := username
	user = &models.User{
		Username:     username,
		Login:        &login,
		PasswordHash: hash,
	}
	if err := s.store.CreateLocalUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameConflict) {
			return nil, ErrDuplicateUsername
		}
		return nil, storeError("create user", err)
	}

	log := logutil.GetOrDefault(ctx)
	log.Info().Str("user_id", user.ID).Msg("local user registered")
	return user, nil
}

// Authenticate verifies a local username and password. No session state is
// touched here; callers establish the session only after a nil error.
func (s *UserService) Authenticate(
	ctx context.Context,
	username, password string,
) (*models.User, error) {
	start := time.Now()
	user, err := s.authenticate(ctx, strings.TrimSpace(username), password)
	s.metrics.RecordLogin(AuthModeLocal, err == nil, time.Since(start))
	return user, err
}

func (s *UserService) authenticate(
	ctx context.Context,
	username, password string,
) (*models.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	result, err := s.localProvider.Authenticate(ctx, username, password)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrInvalidCredentials):
		return nil, ErrInvalidCredentials
	case errors.Is(err, store.ErrStoreUnavailable):
		return nil, storeError("authenticate", err)
	default:
		return nil, fmt.Errorf("%w: %s: %w", ErrAuthProviderFailure, s.localProvider.Name(), err)
	}

	if result == nil || !result.Success || result.User == nil {
		return nil, ErrInvalidCredentials
	}
	return result.User, nil
}

// AuthenticateWithOAuth maps a federated profile onto a user, creating the
// user on first login. Repeated and concurrent calls for the same provider id
// resolve to the same user.
func (s *UserService) AuthenticateWithOAuth(
	ctx context.Context,
	profile *core.OAuthProfile,
) (*models.User, error) {
	if profile == nil || profile.ProviderUserID == "" {
		return nil, fmt.Errorf("%w: %w", ErrAuthProviderFailure, auth.ErrProfileIncomplete)
	}

	user, created, err := s.store.FindOrCreateUserByProvider(
		ctx,
		profile.Provider,
		profile.ProviderUserID,
		profile.DisplayName,
	)
	if err != nil {
		if errors.Is(err, store.ErrUnknownProvider) {
			return nil, fmt.Errorf("%w: %w", ErrAuthProviderFailure, err)
		}
		return nil, storeError("find or create user", err)
	}

	if created {
		log := logutil.GetOrDefault(ctx)
		log.Info().
			Str("user_id", user.ID).
			Str("provider", profile.Provider).
			Msg("federated user created")
	}
	return user, nil
}

// GetUserByID resolves a session's user id through the user cache.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if id == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.userCache.GetWithFetch(
		ctx,
		userCacheKeyPrefix+id,
		s.userCacheTTL,
		func(ctx context.Context, _ string) (models.User, error) {
			u, err := s.store.GetUserByID(ctx, id)
			if err != nil {
				return models.User{}, err
			}
			return *u, nil
		},
	)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeError("get user", err)
	}
	return &user, nil
}
