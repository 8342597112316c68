package bapp

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/advdv/bapi"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ServerConfig holds optional configuration for the HTTP server.
type ServerConfig struct {
	// HealthHandler answers the health check path, it defaults to an empty 200 response.
	HealthHandler func(http.ResponseWriter, *http.Request)
}

// ServerParams holds the dependencies of [NewServer].
type ServerParams struct {
	fx.In

	Env        Environment
	Mux        *Mux
	Logger     *zap.Logger
	TracerProv trace.TracerProvider
	Propagator propagation.TextMapPropagator
}

// NewServer installs the request logger and the request timeout on the mux, registers the health check
// and returns a server that traces every request except health checks.
func NewServer(params ServerParams, cfg ServerConfig) *http.Server {
	env := params.Env

	params.Mux.Use(
		withRequestLogger(params.Logger),
		WithRequestTimeout(env.requestTimeout()),
	)

	health := cfg.HealthHandler
	if health == nil {
		health = func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
	}

	params.Mux.HandleFunc(env.healthCheckPath(), func(_ context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
		health(w, r.Request)
		return nil
	})

	srv := &http.Server{
		Addr:    net.JoinHostPort("", strconv.Itoa(env.port())),
		Handler: withTracing(params.TracerProv, params.Propagator, env.serviceName(), env.healthCheckPath())(params.Mux),
	}

	srv.ReadHeaderTimeout, srv.ReadTimeout, srv.WriteTimeout, srv.IdleTimeout =
		TimeoutConfig{RequestTimeout: env.requestTimeout()}.ServerTimeouts()

	return srv
}

// startServerHook serves in the background once the app starts and shuts down gracefully when it stops.
func startServerHook(lc fx.Lifecycle, server *http.Server, logger *zap.Logger) {
	lc.Append(fx.StartStopHook(
		func() {
			logger.Info("starting server", zap.String("addr", server.Addr))

			go func() {
				if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped unexpectedly", zap.Error(err))
				}
			}()
		},
		func(ctx context.Context) error {
			logger.Info("stopping server")
			return errors.Wrap(server.Shutdown(ctx), "shutdown")
		},
	))
}
