// Package httpapi serves parsing and linting over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/yaklabco/hl7lint/internal/logging"
	"github.com/yaklabco/hl7lint/pkg/config"
	"github.com/yaklabco/hl7lint/pkg/lint"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// DefaultBodyLimit caps request bodies when the configuration sets none.
const DefaultBodyLimit = 4 * 1024 * 1024

// shutdownTimeout bounds the drain of in-flight requests.
const shutdownTimeout = 5 * time.Second

// Options configures New.
type Options struct {
	Version  string
	Config   *config.Config
	Registry *lint.Registry

	// Logger receives one record per request. Nil means logging.Default().
	Logger *log.Logger
}

// New builds the fiber app with all routes registered.
func New(opts Options) *fiber.App {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	bodyLimit := cfg.Serve.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}

	app := fiber.New(fiber.Config{
		AppName:               "hl7lint",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return applyErrorToResponse(c, "Unexpected error", err)
		},
	})

	app.Use(requestLogger(logger))

	service := NewService(cfg, opts.Registry)

	(&ParseAPI{Router: app, Service: service}).Register()
	(&LintAPI{Router: app, Service: service}).Register()
	(&MetaAPI{Router: app, Service: service, Version: opts.Version}).Register()

	return app
}

// requestLogger assigns a request ID, attaches a logger carrying it to the
// user context and logs the outcome of each request.
func requestLogger(logger *log.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		id := c.Get(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}

		c.Locals(localRequestID, id)
		c.Set(HeaderRequestID, id)

		reqLogger := logger.With(logging.FieldRequestID, id)
		c.SetUserContext(logging.WithLogger(c.UserContext(), reqLogger))

		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		reqLogger.Info("request",
			logging.FieldMethod, c.Method(),
			logging.FieldRoute, c.Route().Path,
			logging.FieldStatus, c.Response().StatusCode(),
			logging.FieldBytes, len(c.Body()),
			logging.FieldDuration, time.Since(start))

		return nil
	}
}

// Serve listens on addr until ctx is cancelled, then drains in-flight
// requests.
func Serve(ctx context.Context, app *fiber.App, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	return ServeListener(ctx, app, ln)
}

// ServeListener is Serve on an existing listener.
func ServeListener(ctx context.Context, app *fiber.App, ln net.Listener) error {
	logging.FromContext(ctx).Info("serving", logging.FieldAddr, ln.Addr().String())

	errCh := make(chan error, 1)

	go func() {
		errCh <- app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("serve: %w", err)
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
