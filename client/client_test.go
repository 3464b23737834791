package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redmcp/auth"
	mcpctx "github.com/redmcp/context"
	"github.com/redmcp/mcperrors"
	"github.com/redmcp/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "test-api-key"

func newTestClient(t *testing.T, url string, policy RetryPolicy, opts ...Option) *Client {
	t.Helper()
	cred, err := auth.Parse(testKey, time.Now())
	require.NoError(t, err)
	conf := DefaultConf()
	conf.BaseURL = url
	conf.Policy = policy
	c, err := New(conf, cred, opts...)
	require.NoError(t, err)
	return c
}

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: time.Millisecond, Timeout: 5 * time.Second}
}

func TestCall_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testKey, r.Header.Get(auth.APIKeyHeader))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "/issues/7.json", r.URL.Path)
		assert.Equal(t, "journals", r.URL.Query().Get("include"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"issue":{"id":7,"subject":"Crash","estimated_hours":12345678901234567890}}`)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL, fastPolicy())
	res, err := c.Get(context.Background(), "/issues/7.json", map[string][]string{"include": {"journals"}})
	require.NoError(t, err)

	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"issue":{"id":7,"subject":"Crash","estimated_hours":12345678901234567890}}`, string(out))
	assert.Contains(t, string(out), "12345678901234567890")
}

func TestCall_RetriesServerErrorsWithExponentialBackoff(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	var mu sync.Mutex
	var delays []time.Duration
	policy := fastPolicy()
	c := newTestClient(t, ts.URL, policy, WithBackoffObserver(func(_ uint, d time.Duration) {
		mu.Lock()
		delays = append(delays, d)
		mu.Unlock()
	}))

	_, err := c.Get(context.Background(), "/issues.json", nil)
	require.Error(t, err)

	var transient *mcperrors.TransientFailureError
	require.True(t, errors.As(err, &transient), "got %T: %v", err, err)
	assert.Equal(t, policy.Attempts(), transient.Attempts)
	assert.Equal(t, int32(policy.MaxRetries+1), hits.Load())
	assert.Equal(t, mcperrors.KindTransientFailure, mcperrors.KindOf(err))

	require.Len(t, delays, policy.MaxRetries)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, delays)
	for i := 1; i < len(delays); i++ {
		assert.GreaterOrEqual(t, delays[i], delays[i-1])
	}
}

func TestCall_ZeroRetries(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL, RetryPolicy{MaxRetries: 0, BaseDelay: time.Millisecond, Timeout: time.Second})
	_, err := c.Get(context.Background(), "/issues.json", nil)
	assert.Equal(t, mcperrors.KindTransientFailure, mcperrors.KindOf(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestCall_ClientErrorsAreNotRetried(t *testing.T) {
	cases := map[int]mcperrors.Kind{
		http.StatusNotFound:            mcperrors.KindNotFound,
		http.StatusUnauthorized:        mcperrors.KindAuth,
		http.StatusForbidden:           mcperrors.KindAuth,
		http.StatusUnprocessableEntity: mcperrors.KindUnknown,
	}
	for status, kind := range cases {
		t.Run(http.StatusText(status), func(t *testing.T) {
			var hits atomic.Int32
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(status)
			}))
			defer ts.Close()

			c := newTestClient(t, ts.URL, fastPolicy())
			_, err := c.Get(context.Background(), "/issues/1.json", nil)

			var remote *mcperrors.RemoteError
			require.True(t, errors.As(err, &remote))
			assert.Equal(t, status, remote.StatusCode)
			assert.Equal(t, kind, mcperrors.KindOf(err))
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

func TestCall_RecoversAfterTransientFailures(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch hits.Add(1) {
		case 1:
			w.WriteHeader(http.StatusServiceUnavailable)
		case 2:
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			io.WriteString(w, `{"projects":[]}`)
		}
	}))
	defer ts.Close()

	m := metrics.New()
	c := newTestClient(t, ts.URL, fastPolicy(), WithMetrics(m))
	res, err := c.Get(context.Background(), "/projects.json", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"projects": []any{}}, res)
	assert.Equal(t, int32(3), hits.Load())
}

func TestCall_ConnectionFailureIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := newTestClient(t, url, RetryPolicy{MaxRetries: 1, BaseDelay: time.Millisecond, Timeout: 5 * time.Second})
	_, err := c.Get(context.Background(), "/issues.json", nil)

	var transient *mcperrors.TransientFailureError
	require.True(t, errors.As(err, &transient), "got %T: %v", err, err)
	assert.Equal(t, uint(2), transient.Attempts)
}

func TestCall_TimeoutBoundsAllAttempts(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	c := newTestClient(t, ts.URL, RetryPolicy{MaxRetries: 5, BaseDelay: time.Millisecond, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Get(context.Background(), "/issues.json", nil)

	var timeout *mcperrors.TimeoutError
	require.True(t, errors.As(err, &timeout), "got %T: %v", err, err)
	assert.Equal(t, uint(1), timeout.Attempts)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, mcperrors.KindTransientFailure, mcperrors.KindOf(err))
}

func TestCall_TimeoutDuringBackoff(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL, RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, Timeout: 100 * time.Millisecond})
	_, err := c.Get(context.Background(), "/issues.json", nil)

	var timeout *mcperrors.TimeoutError
	require.True(t, errors.As(err, &timeout), "got %T: %v", err, err)
	var remote *mcperrors.RemoteError
	require.True(t, errors.As(timeout.Err, &remote))
	assert.Equal(t, 500, remote.StatusCode)
}

func TestCall_PostSendsBodyAndHandlesEmptyResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"issue":{"subject":"new"}}`, string(body))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL, fastPolicy())
	res, err := c.Put(context.Background(), "/issues/3.json", map[string]any{"issue": map[string]any{"subject": "new"}})
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestCall_ParsesErrorEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"errors":["Subject cannot be blank","Tracker is not included in the list"]}`)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL, fastPolicy())
	_, err := c.Post(context.Background(), "/issues.json", map[string]any{"issue": map[string]any{}})

	var remote *mcperrors.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, []string{"Subject cannot be blank", "Tracker is not included in the list"}, remote.Errors)
	assert.Equal(t, http.MethodPost, remote.Method)
	assert.Equal(t, "/issues.json", remote.Path)
}

func TestCall_InvalidJSONIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		io.WriteString(w, `<html>maintenance</html>`)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL, fastPolicy())
	_, err := c.Get(context.Background(), "/issues.json", nil)
	assert.Error(t, err)
	assert.Equal(t, mcperrors.KindUnknown, mcperrors.KindOf(err))
	assert.Equal(t, int32(1), hits.Load())
}

func TestCall_OversizedResponseIsRejected(t *testing.T) {
	defer func(limit int64) { maxResponseBytes = limit }(maxResponseBytes)
	maxResponseBytes = 16

	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/small.json" {
			io.WriteString(w, `{"n":1234567890}`)
			return
		}
		io.WriteString(w, `{"n":12345678901}`)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL, fastPolicy())
	out, err := c.Get(context.Background(), "/small.json", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": json.Number("1234567890")}, out)

	_, err = c.Get(context.Background(), "/issues.json", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "response too large")
	assert.Equal(t, mcperrors.KindUnknown, mcperrors.KindOf(err))
	assert.Equal(t, int32(2), hits.Load())
}

func TestCall_SendsTraceID(t *testing.T) {
	rc := mcpctx.NewRequest(`"1"`, "get-issue")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, rc.TraceID, r.Header.Get("X-Request-Id"))
		io.WriteString(w, `{}`)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL, fastPolicy())
	_, err := c.Get(mcpctx.WithRequest(context.Background(), rc), "/issues/1.json", nil)
	require.NoError(t, err)
}

func TestBackoff(t *testing.T) {
	p := RetryPolicy{MaxRetries: 3, BaseDelay: 100 * time.Millisecond, Timeout: time.Second}
	assert.Equal(t, 100*time.Millisecond, p.Backoff(0))
	assert.Equal(t, 200*time.Millisecond, p.Backoff(1))
	assert.Equal(t, 800*time.Millisecond, p.Backoff(3))
	assert.Greater(t, p.Backoff(200), time.Duration(0))
	assert.Equal(t, uint(4), p.Attempts())
}

func TestConfValidate(t *testing.T) {
	conf := DefaultConf()
	_, err := conf.Validate()
	assert.Error(t, err, "missing URL")

	conf.BaseURL = "tracker.local"
	_, err = conf.Validate()
	assert.Error(t, err, "relative URL")

	conf.BaseURL = "https://tracker.local/redmine/"
	u, err := conf.Validate()
	require.NoError(t, err)
	assert.Equal(t, "https://tracker.local/redmine", u.String())

	conf.Policy.MaxRetries = -1
	_, err = conf.Validate()
	assert.Error(t, err)

	conf = DefaultConf()
	conf.BaseURL = "https://tracker.local"
	conf.Policy.BaseDelay = 0
	_, err = conf.Validate()
	assert.Error(t, err)

	conf = DefaultConf()
	conf.BaseURL = "https://tracker.local"
	conf.Policy.Timeout = 0
	_, err = conf.Validate()
	assert.Error(t, err)
}

func TestBaseURLPathPrefix(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/redmine/users/current.json", r.URL.Path)
		io.WriteString(w, `{"user":{"id":1}}`)
	}))
	defer ts.Close()

	c := newTestClient(t, ts.URL+"/redmine/", fastPolicy())
	_, err := c.Get(context.Background(), "/users/current.json", nil)
	require.NoError(t, err)
}
