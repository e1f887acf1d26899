package core

import "time"

// Recorder defines the interface for recording application metrics.
// Implementations include Metrics (Prometheus-based) and NoopMetrics (no-op).
type Recorder interface {
	// Authentication
	RecordLogin(method string, success bool, duration time.Duration)
	RecordRegistration(success bool)
	RecordOAuthCallback(provider string, success bool)
	RecordLogout()

	// Secrets board
	RecordSecretSubmitted(success bool)
	RecordGateAttempt(success bool)

	// Gauge Setters (for periodic updates)
	SetUsersCount(count int64)
	SetSecretsCount(count int64)

	// Database Operations
	RecordDatabaseQueryError(operation string)
}
