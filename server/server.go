// Package server runs the optional status endpoint next to the stdio transport.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/redmcp/logger"
	"github.com/redmcp/mcp"
	"github.com/redmcp/metrics"
)

type Server struct {
	StartTime time.Time
	Svr       *http.Server
	conf      Conf
	log       *logger.Logger
	registry  *mcp.Registry
	metrics   *metrics.Metrics
}

func NewServer(conf Conf, registry *mcp.Registry, m *metrics.Metrics, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		StartTime: time.Now().UTC(),
		conf:      conf,
		log:       log.Component("Server"),
		registry:  registry,
		metrics:   m,
	}
	s.Svr = &http.Server{
		Handler:      s.SetupRoutes(),
		Addr:         conf.Addr,
		ReadTimeout:  conf.TimeoutRead,
		WriteTimeout: conf.TimeoutWrite,
		IdleTimeout:  conf.TimeoutIdle,
	}
	return s
}

func secondsToTimeStr(seconds float64) string {
	duration := time.Duration(int64(seconds)) * time.Second
	timeValue := time.Time{}.Add(duration)
	return timeValue.Format("15:04:05")
}

// returns the current run time of the server
// as a HH:MM:SS formatted string.
func (s *Server) RunTime() string {
	return secondsToTimeStr(time.Since(s.StartTime).Seconds())
}

// forcibly shuts down server and returns total run time.
func (s *Server) Shutdown() (string, error) {
	if err := s.Svr.Close(); err != nil && err != http.ErrServerClosed {
		return "0", fmt.Errorf("server shutdown failed: %v", err)
	}
	return s.RunTime(), nil
}

// Run serves until ctx is cancelled, then shuts down gracefully. A shutdown
// that outlives the grace period is forced.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.conf.Addr)
	if err != nil {
		return fmt.Errorf("status server listen on %s: %w", s.conf.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("starting server...")
		if err := s.Svr.Serve(ln); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.conf.ShutdownTimeout)
	defer cancel()

	s.log.Info().Msg("shutting down server...")
	if err := s.Svr.Shutdown(shutdownCtx); err != nil {
		s.log.Warn().Err(err).Msg("shutdown timed out. forcing exit.")
		if _, err := s.Shutdown(); err != nil {
			return err
		}
	}
	s.log.Info().Str("run_time", s.RunTime()).Msg("server stopped")
	return <-errc
}
