package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redmcp/auth"
	"github.com/redmcp/client"
	"github.com/redmcp/handlers"
	"github.com/redmcp/logger"
	"github.com/redmcp/mcp"
	"github.com/redmcp/metrics"
	"github.com/redmcp/server"
	"github.com/redmcp/stdio"
)

var (
	serverCmd = &cobra.Command{
		Use:   "serve",
		Short: "serve tool requests on stdin and write responses to stdout",
		RunE:  runServerCmd,
	}
)

func init() {
	flags := serverCmd.Flags()
	flags.String("url", "", "base URL of the tracker (REDMINE_URL)")
	flags.Int("workers", 1, "requests served concurrently; 1 keeps responses in request order")
	flags.String("status-addr", "", "listen address of the status server, e.g. 127.0.0.1:9090 (disabled when empty)")
	flags.String("log-level", "", "log level (REDMINE_LOG_LEVEL)")

	for key, flag := range map[string]string{
		keyURL:        "url",
		keyWorkers:    "workers",
		keyStatusAddr: "status-addr",
		keyLogLevel:   "log-level",
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}

	rootCmd.AddCommand(serverCmd)
}

func runServerCmd(cmd *cobra.Command, args []string) error {
	conf, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	log, err := logger.New(conf.Log, os.Stderr)
	if err != nil {
		return err
	}

	a, err := newApp(conf, log, time.Now())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()
	return a.run(ctx, os.Stdin, os.Stdout)
}

// app is the wired server: one registry, one client and one dispatcher shared
// by every request.
type app struct {
	conf       config
	log        *logger.Logger
	metrics    *metrics.Metrics
	registry   *mcp.Registry
	dispatcher *mcp.Dispatcher
}

func newApp(conf config, log *logger.Logger, now time.Time) (*app, error) {
	cred, err := auth.Parse(conf.APIKey, now)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	api, err := client.New(conf.Client, cred, client.WithMetrics(m))
	if err != nil {
		return nil, err
	}

	reg := mcp.NewRegistry()
	if err := mcp.RegisterIntrospection(reg); err != nil {
		return nil, err
	}
	if err := handlers.Register(reg, api); err != nil {
		return nil, err
	}
	reg.Seal()

	log.Info().
		Str("client", api.String()).
		Str("credential", cred.Scheme().String()).
		Int("tools", reg.Len()).
		Msg("registered tools")

	return &app{
		conf:       conf,
		log:        log,
		metrics:    m,
		registry:   reg,
		dispatcher: mcp.NewDispatcher(reg, log.Component("Dispatcher"), m),
	}, nil
}

// run serves the transport until the input ends or ctx is cancelled. The status
// server, when enabled, lives exactly as long as the transport.
func (a *app) run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg conc.WaitGroup
	if a.conf.StatusAddr != "" {
		srv := server.NewServer(server.ServerConfigs(a.conf.StatusAddr), a.registry, a.metrics, a.log)
		wg.Go(func() {
			if err := srv.Run(ctx); err != nil {
				a.log.Error().Err(err).Msg("status server failed")
			}
		})
	}

	tr := stdio.New(in, out, a.conf.Workers, a.log.Component("Transport"))
	err := tr.Serve(ctx, a.dispatcher)
	cancel()
	wg.Wait()

	if errors.Is(err, context.Canceled) {
		a.log.Info().Msg("interrupted")
		return nil
	}
	return err
}
