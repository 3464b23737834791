package transport

import (
	"context"

	"github.com/redmcp/codec"
)

// Handler answers one request line. Implementations must always return a
// response, reporting failures inside it.
type Handler interface {
	Handle(ctx context.Context, line []byte) codec.Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, line []byte) codec.Response

func (f HandlerFunc) Handle(ctx context.Context, line []byte) codec.Response {
	return f(ctx, line)
}

// Interface for the transport layer.
type Interface interface {
	// Serve reads requests and writes one response per request until the input
	// ends or ctx is cancelled. Serve should only be called once.
	Serve(ctx context.Context, h Handler) error
}
