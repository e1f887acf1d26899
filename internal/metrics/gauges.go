package metrics

import (
	"context"

	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/logutil"
)

// UpdateGauges refreshes the user and secret totals from the store. A failed
// count is recorded and leaves the previous gauge value in place.
func UpdateGauges(ctx context.Context, s core.CountStore, m Recorder) {
	log := logutil.GetOrDefault(ctx)

	if users, err := s.CountUsers(ctx); err != nil {
		m.RecordDatabaseQueryError("count_users")
		log.Warn().Err(err).Msg("failed to count users")
	} else {
		m.SetUsersCount(users)
	}

	if secrets, err := s.CountSecrets(ctx); err != nil {
		m.RecordDatabaseQueryError("count_secrets")
		log.Warn().Err(err).Msg("failed to count secrets")
	} else {
		m.SetSecretsCount(secrets)
	}
}
