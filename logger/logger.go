// Package logger builds the zerolog loggers used across the server. Loggers are
// values passed explicitly or carried on a request context; nothing here keeps
// per-request state in globals.
package logger

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with the component helpers used by the server.
type Logger struct {
	zerolog.Logger
}

// New builds the root logger writing to w. Diagnostics must never share the
// response stream, so callers pass stderr or a test buffer here.
func New(conf Conf, w io.Writer) (*Logger, error) {
	level := zerolog.InfoLevel
	if conf.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(conf.Level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", conf.Level, err)
		}
		level = l
	}

	switch conf.Format {
	case "", FormatJSON:
	case FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return nil, fmt.Errorf("invalid log format %q", conf.Format)
	}

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{Logger: zl}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// NewLogger returns a child logger tagged with a component name and an
// instance id.
func (l *Logger) NewLogger(component, id string) *Logger {
	return &Logger{Logger: l.With().Str("component", component).Str("instance", id).Logger()}
}

// Component is NewLogger with a fresh random instance id.
func (l *Logger) Component(name string) *Logger {
	return l.NewLogger(name, uuid.NewString())
}

// WithContext attaches l to ctx.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or a disabled logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
