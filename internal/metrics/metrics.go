package metrics

import (
	"sync"
	"time"

	"github.com/go-authgate/secrets/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the metrics surface used throughout the application.
type Recorder = core.Recorder

// Ensure Metrics implements Recorder interface at compile time
var _ Recorder = (*Metrics)(nil)

const namespace = "secrets"

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Authentication Metrics
	AuthLoginTotal         *prometheus.CounterVec
	AuthLoginDuration      *prometheus.HistogramVec
	AuthRegistrationTotal  *prometheus.CounterVec
	AuthOAuthCallbackTotal *prometheus.CounterVec
	AuthLogoutTotal        prometheus.Counter

	// Board Metrics
	SecretsSubmittedTotal *prometheus.CounterVec
	GateAttemptsTotal     *prometheus.CounterVec
	UsersTotal            prometheus.Gauge
	SecretsTotal          prometheus.Gauge

	// HTTP Request Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Database Query Metrics
	DatabaseQueryErrorsTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Init initializes metrics based on enabled flag
// If enabled=true, returns Prometheus-based Metrics
// If enabled=false, returns NoopMetrics (zero overhead)
// Uses sync.Once to ensure Prometheus metrics are only registered once
func Init(enabled bool) Recorder {
	if !enabled {
		return NewNoopMetrics()
	}
	return GetMetrics()
}

// GetMetrics returns the process-wide Prometheus metrics, registering them
// on first use.
func GetMetrics() *Metrics {
	once.Do(func() {
		defaultMetrics = newMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// newMetrics creates all collectors and registers them with reg
func newMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AuthLoginTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_total",
				Help:      "Total number of login attempts",
			},
			[]string{"method", "result"}, // method: local, google, facebook
		),
		AuthLoginDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "login_duration_seconds",
				Help:      "Time taken to verify credentials",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		AuthRegistrationTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registrations_total",
				Help:      "Total number of local registration attempts",
			},
			[]string{"result"},
		),
		AuthOAuthCallbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "oauth_callbacks_total",
				Help:      "Total number of OAuth callbacks",
			},
			[]string{"provider", "result"},
		),
		AuthLogoutTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logouts_total",
				Help:      "Total number of logouts",
			},
		),

		SecretsSubmittedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "secrets_submitted_total",
				Help:      "Total number of secret submissions",
			},
			[]string{"result"},
		),
		GateAttemptsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gate_attempts_total",
				Help:      "Total number of extra gate password attempts",
			},
			[]string{"result"},
		),
		UsersTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "users_total",
				Help:      "Current number of registered users",
			},
		),
		SecretsTotal: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "secrets_total",
				Help:      "Current number of stored secrets",
			},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
		),

		DatabaseQueryErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "database_query_errors_total",
				Help:      "Total number of database query errors",
			},
			[]string{"operation"},
		),
	}
}

func resultLabel(success bool, failure string) string {
	if success {
		return resultSuccess
	}
	return failure
}

// RecordLogin records a login attempt and how long verification took
func (m *Metrics) RecordLogin(method string, success bool, duration time.Duration) {
	m.AuthLoginTotal.WithLabelValues(method, resultLabel(success, resultFailure)).Inc()
	m.AuthLoginDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordRegistration records a local registration attempt
func (m *Metrics) RecordRegistration(success bool) {
	m.AuthRegistrationTotal.WithLabelValues(resultLabel(success, resultFailure)).Inc()
}

// RecordOAuthCallback records OAuth callback
func (m *Metrics) RecordOAuthCallback(provider string, success bool) {
	m.AuthOAuthCallbackTotal.WithLabelValues(provider, resultLabel(success, resultError)).Inc()
}

// RecordLogout records logout
func (m *Metrics) RecordLogout() {
	m.AuthLogoutTotal.Inc()
}

// RecordSecretSubmitted records a secret submission
func (m *Metrics) RecordSecretSubmitted(success bool) {
	m.SecretsSubmittedTotal.WithLabelValues(resultLabel(success, resultError)).Inc()
}

// RecordGateAttempt records an extra gate attempt
func (m *Metrics) RecordGateAttempt(success bool) {
	m.GateAttemptsTotal.WithLabelValues(resultLabel(success, resultFailure)).Inc()
}

// SetUsersCount sets the current count of users (for periodic updates)
func (m *Metrics) SetUsersCount(count int64) {
	m.UsersTotal.Set(float64(count))
}

// SetSecretsCount sets the current count of secrets (for periodic updates)
func (m *Metrics) SetSecretsCount(count int64) {
	m.SecretsTotal.Set(float64(count))
}

// RecordDatabaseQueryError records a database query error
func (m *Metrics) RecordDatabaseQueryError(operation string) {
	m.DatabaseQueryErrorsTotal.WithLabelValues(operation).Inc()
}
