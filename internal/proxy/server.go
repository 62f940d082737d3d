// Package proxy implements the privileged proxy process: a loopback HTTP
// server that performs outbound calls on behalf of the dashboard client with
// its own credentials and trusted default headers.
package proxy

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/volunteerhub/dashboard/internal/pkg/validation"
	"github.com/volunteerhub/dashboard/internal/transport"
)

const shutdownTimeout = 5 * time.Second

// Options configure the proxy server.
type Options struct {
	// UserAgent identifies the client to the upstream API.
	UserAgent string
	// Timeout bounds each forwarded call. Zero means no timeout.
	Timeout time.Duration
	// Upstream is probed by the readiness endpoint.
	Upstream string
	// LoopbackOnly restricts the proxy channel to local callers.
	LoopbackOnly bool
	// Forward overrides the outbound transport. Tests only.
	Forward transport.DirectOptions
}

// NewServer builds and returns the Echo instance with all routes registered.
func NewServer(opts Options, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	// Each server owns its HTTP metrics registry so several servers can
	// coexist in one process; /metrics also gathers the default registry.
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "volunteer_proxy",
		Registerer: reg,
	}))
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			log.Debug().
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("proxy request")
			return nil
		},
	}))

	// --- Dependencies ---
	fwdOpts := opts.Forward
	fwdOpts.Headers = transport.MergeHeaders(transport.ProxyDefaultHeaders(opts.UserAgent), fwdOpts.Headers)
	fwdOpts.AcceptAllStatus = true
	if fwdOpts.Timeout == 0 {
		fwdOpts.Timeout = opts.Timeout
	}
	forward := transport.NewDirectTransport(fwdOpts, log)
	requestHandler := NewRequestHandler(forward, log)

	// --- Proxy channel ---
	var guard []echo.MiddlewareFunc
	if opts.LoopbackOnly {
		guard = append(guard, LoopbackOnly())
	}
	e.POST(transport.ProxyRequestPath, requestHandler.Forward, guard...)

	// --- Health probes and metrics ---
	e.GET("/health", NewHealthHandler().Liveness)
	e.GET("/health/ready", NewReadinessHandler(opts.Upstream, nil).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))

	return e
}

// Run serves e on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("proxy listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info().Msg("proxy shutting down")
	return e.Shutdown(shutdownCtx)
}
