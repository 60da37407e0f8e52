// Package httpserver builds the echo instance and http.Server shared by the
// API services.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Skotchmaster/facility_platform/pkg/apperr"
	loggingmw "github.com/Skotchmaster/facility_platform/pkg/middleware/logging"
	"github.com/Skotchmaster/facility_platform/pkg/middleware/metrics"
	"github.com/Skotchmaster/facility_platform/pkg/validation"
)

const bodyLimit = "1M"

type Options struct {
	Logger         *slog.Logger
	Metrics        *metrics.HTTPMetrics
	AllowedOrigins []string
}

// New returns echo with the common middleware chain, the request validator
// and the JSON error handler installed.
func New(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler()

	for _, m := range Common(opts) {
		e.Use(m)
	}
	return e
}

func Common(opts Options) []echo.MiddlewareFunc {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mws := []echo.MiddlewareFunc{
		echomw.Recover(),
		echomw.RequestID(),
	}
	if opts.Metrics != nil {
		mws = append(mws, opts.Metrics.Middleware())
	}
	return append(mws,
		loggingmw.RequestLogger(opts.Logger),
		echomw.Secure(),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: origins,
			AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		}),
		echomw.Gzip(),
		echomw.BodyLimit(bodyLimit),
	)
}

// NewServer wraps h with server spans and the usual timeouts.
func NewServer(port int, service string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           otelhttp.NewHandler(h, service),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down within grace.
func Serve(ctx context.Context, srv *http.Server, l *slog.Logger, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("http_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	l.Info("http_shutting_down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
