package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hl7lint/internal/logging"
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/httpapi"
)

type serveFlags struct {
	addr      string
	bodyLimit int
	logLevel  string
}

func newServeCommand(info BuildInfo) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve parsing and linting over HTTP",
		Long: `Start an HTTP server that parses and lints messages posted to it.

Endpoints:
  POST /parse     message body -> parse tree (?path=PID-3 selects nodes,
                  ?depth=N limits descent, ?format=cbor returns CBOR)
  POST /lint      message body -> diagnostics (?fix=true also returns
                  the fixed message)
  GET  /rules     available rules
  GET  /healthz   liveness probe

Every response carries an X-Request-ID header. Requests are logged as JSON
to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, info, flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default "+config.DefaultServeAddr+")")
	cmd.Flags().IntVar(&flags.bodyLimit, "body-limit", 0, "maximum request body in bytes")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "request log level: debug, info, warn, error")

	return cmd
}

func runServe(cmd *cobra.Command, info BuildInfo, flags *serveFlags) error {
	cfg, _, err := loadConfig(cmd, &config.Config{
		Serve: config.ServeConfig{Addr: flags.addr, BodyLimit: flags.bodyLimit},
	})
	if err != nil {
		return err
	}

	logger := logging.NewServer(os.Stderr, flags.logLevel)

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = logging.WithLogger(ctx, logger)

	app := httpapi.New(httpapi.Options{
		Version: info.Version,
		Config:  cfg,
		Logger:  logger,
	})

	return httpapi.Serve(ctx, app, cfg.Serve.Addr)
}
