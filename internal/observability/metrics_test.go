package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordAuthEvent(t *testing.T) {
	m := NewMetrics()

	m.RecordAuthEvent("login", OutcomeSuccess)
	m.RecordAuthEvent("login", OutcomeSuccess)
	m.RecordAuthEvent("login", OutcomeRejected)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.AuthEvents.WithLabelValues("login", OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.AuthEvents.WithLabelValues("login", OutcomeRejected)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAuthEvent("login", OutcomeSuccess)
		m.RecordRequest(http.MethodGet, "/health", 200, time.Millisecond)
		m.RecordRateLimitHit("/api/auth/login")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest(http.MethodPost, "/api/auth/login", 200, 20*time.Millisecond)
	m.RecordRateLimitHit("/api/auth/login")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "edulytics_http_requests_total")
	assert.Contains(t, string(body), "edulytics_http_rate_limit_hits_total")
	assert.Contains(t, string(body), "go_goroutines")
}
