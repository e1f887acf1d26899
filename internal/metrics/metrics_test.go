package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-authgate/secrets/internal/mocks"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return newMetrics(prometheus.NewRegistry())
}

func TestInit(t *testing.T) {
	m := Init(true)
	require.NotNil(t, m)

	metrics, ok := m.(*Metrics)
	assert.True(t, ok, "Init(true) should return *Metrics")
	assert.NotNil(t, metrics.AuthLoginTotal)
	assert.NotNil(t, metrics.HTTPRequestsTotal)

	// Registering twice would panic; Init must reuse the same instance
	assert.Same(t, metrics, Init(true))
	assert.Same(t, metrics, GetMetrics())
}

func TestInitNoop(t *testing.T) {
	m := Init(false)
	_, ok := m.(*NoopMetrics)
	assert.True(t, ok, "Init(false) should return *NoopMetrics")
}

func TestRecordLogin(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordLogin("local", true, 10*time.Millisecond)
	m.RecordLogin("local", false, 10*time.Millisecond)
	m.RecordLogin("local", false, 10*time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthLoginTotal.WithLabelValues("local", "success")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.AuthLoginTotal.WithLabelValues("local", "failure")), 0)
}

func TestRecordBoardEvents(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRegistration(true)
	m.RecordOAuthCallback("google", false)
	m.RecordLogout()
	m.RecordSecretSubmitted(true)
	m.RecordGateAttempt(false)
	m.SetUsersCount(7)
	m.SetSecretsCount(11)
	m.RecordDatabaseQueryError("count_users")

	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthRegistrationTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthOAuthCallbackTotal.WithLabelValues("google", "error")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthLogoutTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.SecretsSubmittedTotal.WithLabelValues("success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.GateAttemptsTotal.WithLabelValues("failure")), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(m.UsersTotal), 0)
	assert.InDelta(t, 11, testutil.ToFloat64(m.SecretsTotal), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.DatabaseQueryErrorsTotal.WithLabelValues("count_users")), 0)
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newTestMetrics(t)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(m))
	r.GET("/secrets", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/secrets", "/secrets", "/health", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/secrets", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unknown", "404")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/health", "200")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.HTTPRequestsInFlight), 0)
}

func TestHTTPMetricsMiddleware_Noop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(HTTPMetricsMiddleware(NewNoopMetrics()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUpdateGauges(t *testing.T) {
	ctrl := gomock.NewController(t)
	counts := mocks.NewMockCountStore(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)

	counts.EXPECT().CountUsers(gomock.Any()).Return(int64(3), nil)
	counts.EXPECT().CountSecrets(gomock.Any()).Return(int64(0), errors.New("db down"))
	recorder.EXPECT().SetUsersCount(int64(3))
	recorder.EXPECT().RecordDatabaseQueryError("count_secrets")

	UpdateGauges(context.Background(), counts, recorder)
}
