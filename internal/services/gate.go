package services

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/go-authgate/secrets/internal/core"
	"github.com/go-authgate/secrets/internal/metrics"
)

// GateService guards a single static message behind a shared password.
type GateService struct {
	digest     [sha256.Size]byte
	configured bool
	message    string
	metrics    core.Recorder
}

// NewGateService returns a gate for password. An empty password disables
// the gate: every attempt is denied.
func NewGateService(password, message string, m core.Recorder) *GateService {
	if m == nil {
		m = metrics.NewNoopMetrics()
	}
	return &GateService{
		digest:     sha256.Sum256([]byte(password)),
		configured: password != "",
		message:    message,
		metrics:    m,
	}
}

// Enabled reports whether a gate password is configured.
func (g *GateService) Enabled() bool {
	return g.configured
}

// Reveal returns the configured message when submitted matches the password.
// SHA-256 digests are compared in constant time.
func (g *GateService) Reveal(submitted string) (string, error) {
	candidate := sha256.Sum256([]byte(submitted))
	ok := subtle.ConstantTimeCompare(candidate[:], g.digest[:]) == 1 && g.configured

	g.metrics.RecordGateAttempt(ok)
	if !ok {
		return "", ErrGateDenied
	}
	return g.message, nil
}
