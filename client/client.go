// Package client talks to the remote tracker's REST API. Every call is a
// self-contained unit: it carries its own timeout and retry budget and shares
// nothing with other calls except the underlying connection pool.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"

	"github.com/redmcp/auth"
	mcpctx "github.com/redmcp/context"
	"github.com/redmcp/logger"
	"github.com/redmcp/mcperrors"
	"github.com/redmcp/metrics"
)

const userAgent = "redmcp/1.0"

// maxResponseBytes bounds a single response body. Larger bodies are rejected
// rather than truncated.
var maxResponseBytes int64 = 32 << 20

// Client issues HTTP calls against the remote API.
type Client struct {
	baseURL    string
	cred       auth.Credential
	httpClient *http.Client
	policy     RetryPolicy
	pageSize   int
	metrics    *metrics.Metrics
	onBackoff  func(attempt uint, delay time.Duration)
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client, e.g. with httptest's.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithBackoffObserver is called with every delay the client is about to wait.
func WithBackoffObserver(fn func(attempt uint, delay time.Duration)) Option {
	return func(c *Client) { c.onBackoff = fn }
}

func New(conf Conf, cred auth.Credential, opts ...Option) (*Client, error) {
	base, err := conf.Validate()
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base.String(),
		cred:    cred,
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		},
		policy:   conf.Policy,
		pageSize: conf.PageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (any, error) {
	return c.Call(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (any, error) {
	return c.Call(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (any, error) {
	return c.Call(ctx, http.MethodPut, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) (any, error) {
	return c.Call(ctx, http.MethodDelete, path, nil, nil)
}

// Call performs one logical API call and returns the decoded JSON payload, or
// nil when the response has no body.
//
// Transient failures (transport errors, 5xx, 429) are retried up to
// MaxRetries times with exponential backoff. Other 4xx responses are returned
// at once as *mcperrors.RemoteError. Exhausted retries yield
// *mcperrors.TransientFailureError; running past the policy timeout yields
// *mcperrors.TimeoutError.
func (c *Client) Call(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, errors.Wrapf(err, "encode %s %s body", method, path)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.policy.Timeout)
	defer cancel()
	log := logger.FromContext(ctx)

	var (
		attempts uint
		result   any
		lastErr  error
	)
	err := retry.Do(
		func() error {
			attempts++
			res, err := c.attempt(ctx, method, path, query, payload)
			if err != nil {
				lastErr = err
				return err
			}
			result = res
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.policy.Attempts()),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return ctx.Err() == nil && isTransient(err)
		}),
		retry.DelayType(func(n uint, err error, _ *retry.Config) time.Duration {
			d := c.policy.Backoff(n)
			log.Warn().Err(err).
				Str("method", method).
				Str("path", path).
				Uint("attempt", n+1).
				Dur("backoff", d).
				Msg("remote call failed, retrying")
			if c.onBackoff != nil {
				c.onBackoff(n, d)
			}
			return d
		}),
	)
	if err == nil {
		return result, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &mcperrors.TimeoutError{Timeout: c.policy.Timeout, Attempts: attempts, Err: lastErr}
	}
	if ctx.Err() != nil {
		return nil, errors.Wrapf(ctx.Err(), "%s %s", method, path)
	}
	if lastErr == nil {
		lastErr = err
	}
	if !isTransient(lastErr) {
		return nil, lastErr
	}
	log.Error().Err(lastErr).Str("method", method).Str("path", path).Uint("attempts", attempts).Msg("remote call exhausted retries")
	return nil, &mcperrors.TransientFailureError{Attempts: attempts, Err: lastErr}
}

// transportError marks a failure below HTTP: refused or reset connections,
// DNS failures, network timeouts, truncated bodies.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }

func (e *transportError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var remote *mcperrors.RemoteError
	if errors.As(err, &remote) {
		return remote.StatusCode >= http.StatusInternalServerError || remote.StatusCode == http.StatusTooManyRequests
	}
	var te *transportError
	return errors.As(err, &te)
}

func (c *Client) endpoint(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) attempt(ctx context.Context, method, path string, query url.Values, payload []byte) (any, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if rc, ok := mcpctx.FromContext(ctx); ok {
		req.Header.Set("X-Request-Id", rc.TraceID)
	}
	c.cred.Apply(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRemoteAttempt(method, "network")
		return nil, &transportError{err: errors.Wrapf(err, "%s %s", method, path)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		c.metrics.ObserveRemoteAttempt(method, "network")
		return nil, &transportError{err: errors.Wrapf(err, "read %s %s response", method, path)}
	}
	c.metrics.ObserveRemoteAttempt(method, metrics.StatusClass(resp.StatusCode))
	if int64(len(data)) > maxResponseBytes {
		return nil, errors.Errorf("%s %s: response too large, exceeds %d bytes", method, path, maxResponseBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newRemoteError(resp.StatusCode, method, path, data)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var out any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, errors.Wrapf(err, "decode %s %s response", method, path)
	}
	return out, nil
}

const maxErrorBody = 512

func newRemoteError(status int, method, path string, body []byte) *mcperrors.RemoteError {
	e := &mcperrors.RemoteError{StatusCode: status, Method: method, Path: path}

	var envelope struct {
		Errors json.RawMessage `json:"errors"`
	}
	if json.Unmarshal(body, &envelope) == nil && len(envelope.Errors) > 0 {
		var list []string
		var single string
		switch {
		case json.Unmarshal(envelope.Errors, &list) == nil:
			e.Errors = list
		case json.Unmarshal(envelope.Errors, &single) == nil:
			e.Errors = []string{single}
		}
	}
	if len(e.Errors) == 0 {
		text := strings.TrimSpace(string(body))
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody] + "..."
		}
		if text == "" {
			text = http.StatusText(status)
		}
		e.Body = text
	}
	return e
}

// String identifies the client in logs without leaking the credential.
func (c *Client) String() string {
	return fmt.Sprintf("client(%s, %s)", c.baseURL, c.cred)
}
