package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/metrics"
	"github.com/go-authgate/secrets/internal/models"
)

// SecretService manages the shared, unfiltered secrets board.
type SecretService struct {
	store   core.SecretStore
	metrics core.Recorder
}

func NewSecretService(s core.SecretStore, m core.Recorder) *SecretService {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &SecretService{store: s, metrics: m}
}

// Submit stores text, as submitted, as a secret authored by authorID. Text
// that is blank once trimmed is rejected.
func (s *SecretService) Submit(
	ctx context.Context,
	authorID, text string,
) (*models.Secret, error) {
	if authorID == "" {
		return nil, fmt.Errorf("%w: author is required", ErrInvalidInput)
	}

	if strings.TrimSpace(text) == "" || utf8.RuneCountInString(text) > models.MaxSecretLength {
		s.metrics.RecordSecretSubmitted(false)
		return nil, ErrInvalidSecret
	}

	secret := &models.Secret{
		Text:     text,
		AuthorID: authorID,
	}
	if err := s.store.CreateSecret(ctx, secret); err != nil {
		s.metrics.RecordSecretSubmitted(false)
		return nil, storeError("create secret", err)
	}

	s.metrics.RecordSecretSubmitted(true)
	return secret, nil
}

// List returns every secret from every author, newest first.
func (s *SecretService) List(ctx context.Context) ([]models.Secret, error) {
	secrets, err := s.store.ListSecrets(ctx)
	if err != nil {
		return nil, storeError("list secrets", err)
	}
	return secrets, nil
}
