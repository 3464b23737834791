package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveToolCall("get-issue", "ok", 20*time.Millisecond)
	m.ObserveToolCall("get-issue", "NOT_FOUND", time.Millisecond)
	m.ObserveRemoteAttempt("GET", "5xx")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `redmcp_tool_calls_total{code="NOT_FOUND",tool="get-issue"} 1`)
	assert.Contains(t, string(body), `redmcp_remote_attempts_total{method="GET",outcome="5xx"} 1`)
	assert.Contains(t, string(body), `redmcp_tool_duration_seconds_count{tool="get-issue"} 2`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveToolCall("x", "ok", time.Second)
	m.ObserveRemoteAttempt("GET", "2xx")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", StatusClass(204))
	assert.Equal(t, "4xx", StatusClass(429))
	assert.Equal(t, "5xx", StatusClass(503))
}
