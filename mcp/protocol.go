package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/pkg/errors"

	"github.com/redmcp/codec"
	mcpctx "github.com/redmcp/context"
	"github.com/redmcp/logger"
	"github.com/redmcp/mcperrors"
	"github.com/redmcp/metrics"
	"github.com/redmcp/validate"
)

// unknownTool labels metrics for requests that never resolved to a registered
// tool, keeping label cardinality bounded.
const unknownTool = "unknown"

// Dispatcher turns one request line into exactly one response. It holds no
// per-request state and is safe for concurrent use once the registry is sealed.
type Dispatcher struct {
	registry *Registry
	log      *logger.Logger
	metrics  *metrics.Metrics
}

func NewDispatcher(registry *Registry, log *logger.Logger, m *metrics.Metrics) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{registry: registry, log: log, metrics: m}
}

// Handle decodes, validates and runs one request. Every failure is reported in
// the returned response; Handle itself never fails.
func (d *Dispatcher) Handle(ctx context.Context, line []byte) codec.Response {
	start := time.Now()

	req, err := codec.DecodeRequest(line)
	if err != nil {
		d.log.Warn().Err(err).Int("bytes", len(line)).Msg("malformed request line")
		e := mcperrors.Translate(&mcperrors.ParseError{Err: err})
		d.metrics.ObserveToolCall(unknownTool, e.Code, time.Since(start))
		var id json.RawMessage
		if req != nil {
			id = req.ID
		}
		return codec.NewError(id, e)
	}

	name, rawParams := req.Tool()
	rc := mcpctx.NewRequest(string(req.ID), name)
	log := d.log.With().
		RawJSON("request_id", idOrNull(req.ID)).
		Str("trace_id", rc.TraceID).
		Str("tool", name).
		Logger()
	ctx = mcpctx.WithRequest(log.WithContext(ctx), rc)

	label := unknownTool
	result, err := d.call(ctx, name, rawParams, &label)
	elapsed := rc.Elapsed()
	if err != nil {
		e := mcperrors.Translate(err)
		d.metrics.ObserveToolCall(label, e.Code, elapsed)
		log.Info().Str("code", e.Code).Dur("elapsed", elapsed).Msg(e.Message)
		return codec.NewError(req.ID, e)
	}

	d.metrics.ObserveToolCall(label, "ok", elapsed)
	log.Debug().Dur("elapsed", elapsed).Msg("tool call succeeded")
	return codec.NewResult(req.ID, result)
}

// call resolves the tool and runs it. label is set to the tool name once the
// lookup succeeded.
func (d *Dispatcher) call(ctx context.Context, name string, rawParams json.RawMessage, label *string) (json.RawMessage, error) {
	def, err := d.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	*label = def.Name

	raw, err := codec.DecodeParams(rawParams)
	if err != nil {
		return nil, &mcperrors.TypeMismatchError{
			ParamHint: mcperrors.ParamHint{Tool: def.Name, Accepted: def.Params.Names(), Example: def.Example()},
			Name:      "params",
			Expected:  "object",
			Got:       jsonKind(rawParams),
		}
	}
	params, err := def.Validate(raw)
	if err != nil {
		return nil, err
	}

	result, err := invoke(ctx, def, params)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s result", def.Name)
	}
	return out, nil
}

// invoke runs the handler, converting a panic into an error so one bad call
// cannot take the server down.
func invoke(ctx context.Context, def *ToolDefinition, params validate.Params) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.FromContext(ctx).Error().
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("tool handler panicked")
			result, err = nil, fmt.Errorf("tool %q failed: %v", def.Name, r)
		}
	}()
	return def.Handler(ctx, params)
}

func idOrNull(id json.RawMessage) []byte {
	if len(id) == 0 {
		return []byte("null")
	}
	return id
}

// jsonKind names the JSON type of a raw value.
func jsonKind(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "nothing"
	}
	switch trimmed[0] {
	case '"':
		return "string"
	case '[':
		return "array"
	case '{':
		return "object"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	}
	return "number"
}
