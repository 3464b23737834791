// Package context carries per-request values through a tool call: the caller's
// request id, a generated trace id and the tool name. Import it as mcpctx.
package context

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Request describes the request currently being served.
type Request struct {
	// ID is the caller supplied correlation token, rendered as raw JSON text.
	ID        string
	TraceID   string
	Tool      string
	StartedAt time.Time
}

type requestKey struct{}

// NewRequest returns request values with a fresh trace id.
func NewRequest(id, tool string) Request {
	return Request{
		ID:        id,
		TraceID:   uuid.NewString(),
		Tool:      tool,
		StartedAt: time.Now().UTC(),
	}
}

// WithRequest returns a copy of ctx carrying req.
func WithRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// FromContext returns the request carried by ctx, if any.
func FromContext(ctx context.Context) (Request, bool) {
	req, ok := ctx.Value(requestKey{}).(Request)
	return req, ok
}

// Elapsed reports how long the request has been running.
func (r Request) Elapsed() time.Duration {
	return time.Since(r.StartedAt)
}
