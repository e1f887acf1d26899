package metrics

import "time"

// NoopMetrics is a no-operation implementation of Recorder
// All methods are empty and do nothing, providing zero overhead when metrics are disabled
type NoopMetrics struct{}

// Ensure NoopMetrics implements Recorder interface at compile time
var _ Recorder = (*NoopMetrics)(nil)

// NewNoopMetrics creates a new no-operation metrics recorder
func NewNoopMetrics() Recorder {
	return &NoopMetrics{}
}

func (n *NoopMetrics) RecordLogin(method string, success bool, duration time.Duration) {}
func (n *NoopMetrics) RecordRegistration(success bool)                                  {}
func (n *NoopMetrics) RecordOAuthCallback(provider string, success bool)                {}
func (n *NoopMetrics) RecordLogout()                                                    {}
func (n *NoopMetrics) RecordSecretSubmitted(success bool)                               {}
func (n *NoopMetrics) RecordGateAttempt(success bool)                                   {}
func (n *NoopMetrics) SetUsersCount(count int64)                                        {}
func (n *NoopMetrics) SetSecretsCount(count int64)                                      {}
func (n *NoopMetrics) RecordDatabaseQueryError(operation string)                        {}
