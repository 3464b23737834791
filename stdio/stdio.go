// Package stdio serves requests over a line-delimited byte stream, normally the
// process's stdin and stdout.
package stdio

import (
	"bufio"
	"bytes"
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"

	"github.com/redmcp/codec"
	"github.com/redmcp/logger"
	"github.com/redmcp/transport"
)

// Transport reads one request per line from in and writes one response per line
// to out. With a single worker requests are answered strictly in order; with
// more, up to that many run at once and responses may be reordered.
type Transport struct {
	in      *bufio.Reader
	enc     *codec.Encoder
	workers int
	log     *logger.Logger
}

var _ transport.Interface = (*Transport)(nil)

func New(in io.Reader, out io.Writer, workers int, log *logger.Logger) *Transport {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Transport{
		in:      bufio.NewReader(in),
		enc:     codec.NewEncoder(out),
		workers: workers,
		log:     log,
	}
}

type lineResult struct {
	line []byte
	err  error
}

// Serve runs until the input reaches EOF or ctx is cancelled. It returns nil on
// EOF and ctx.Err() on cancellation. In worker mode it waits for requests in
// flight before returning.
//
// With a single worker no line is read until the previous one has been
// answered.
func (t *Transport) Serve(ctx context.Context, h transport.Handler) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		p    *pool.Pool
		more chan struct{}
	)
	if t.workers > 1 {
		p = pool.New().WithMaxGoroutines(t.workers)
		defer p.Wait()
	} else {
		more = make(chan struct{})
	}

	lines := make(chan lineResult)
	go t.read(ctx, lines, more)
	t.log.Info().Int("workers", t.workers).Msg("serving requests")

	for {
		var next lineResult
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next = <-lines:
		}

		if len(bytes.TrimSpace(next.line)) > 0 {
			line := next.line
			if p == nil {
				if err := t.respond(ctx, h, line); err != nil {
					return err
				}
			} else {
				p.Go(func() {
					if err := t.respond(ctx, h, line); err != nil {
						t.log.Error().Err(err).Msg("write response")
					}
				})
			}
		}

		if next.err == io.EOF {
			t.log.Info().Msg("input closed")
			return nil
		}
		if next.err != nil {
			return errors.Wrap(next.err, "read request")
		}

		if more != nil {
			select {
			case more <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (t *Transport) respond(ctx context.Context, h transport.Handler, line []byte) error {
	resp := h.Handle(ctx, line)
	if err := t.enc.Encode(resp); err != nil {
		return errors.Wrap(err, "write response")
	}
	return nil
}

// read delivers lines until the first read error, which is sent along with
// whatever partial line preceded it. When more is non-nil it waits for a
// signal on it before reading each following line.
func (t *Transport) read(ctx context.Context, out chan<- lineResult, more <-chan struct{}) {
	for {
		line, err := t.in.ReadBytes('\n')
		select {
		case out <- lineResult{line: line, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
		if more == nil {
			continue
		}
		select {
		case <-more:
		case <-ctx.Done():
			return
		}
	}
}
