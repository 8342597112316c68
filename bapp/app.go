package bapp

import (
	"context"
	"net/http"

	"github.com/advdv/bapi"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// App runs the fx application built by [NewApp].
type App struct {
	app *fx.App
}

// AppConfig collects what the [Option]s configure.
type AppConfig struct {
	ServerConfig
	FxOptions []fx.Option
}

// Option configures the App.
type Option func(*AppConfig)

// WithFx adds fx options, typically the providers of the handlers the routing function needs.
func WithFx(fxOpts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, fxOpts...)
	}
}

// WithHealthHandler replaces the default health check, which answers with an empty 200.
func WithHealthHandler(h func(http.ResponseWriter, *http.Request)) Option {
	return func(c *AppConfig) {
		c.HealthHandler = h
	}
}

// WithSettings replaces the negotiation settings that are otherwise built from the environment.
func WithSettings(s bapi.Settings) Option {
	return WithFx(fx.Decorate(func(bapi.Settings) bapi.Settings { return s }))
}

type runtimeParams[E Environment] struct {
	fx.In

	Env       E
	Mux       *Mux
	Transport http.RoundTripper
}

func provideRuntime[E Environment](p runtimeParams[E]) *Runtime[E] {
	return NewRuntime(p.Env, p.Mux, RuntimeParams{
		RequestBuilder: newRequestBuilder(p.Transport, p.Env.serviceName()),
	})
}

// FxOptions returns the options that make up the app. The routing function is invoked last and may
// depend on anything provided, at least the *Mux.
func FxOptions[E Environment](routing any, opts ...Option) []fx.Option {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	config := fx.Options(
		fx.Provide(ParseEnv[E]()),
		fx.Provide(func(e E) Environment { return e }),
		fx.Provide(func(e E) (*zap.Logger, error) { return NewLogger(e) }),
		fx.Provide(NewSettings),
	)

	telemetry := fx.Options(
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(NewHTTPTransport),
	)

	serving := fx.Options(
		fx.Provide(NewMux),
		fx.Supply(cfg.ServerConfig),
		fx.Provide(NewServer),
		fx.Provide(provideRuntime[E]),
		fx.Invoke(startServerHook),
	)

	return append([]fx.Option{fx.NopLogger, config, telemetry, serving}, append(cfg.FxOptions, fx.Invoke(routing))...)
}

// NewApp builds the app for environment E. The routing function registers the handlers:
//
//	bapp.NewApp[Env](func(m *bapp.Mux, h *Handlers) {
//	    m.HandleFunc("POST /items", h.CreateItem, "create-item")
//	},
//	    bapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
func NewApp[E Environment](routing any, opts ...Option) *App {
	return &App{app: fx.New(FxOptions[E](routing, opts...)...)}
}

// Run starts the app and blocks until it receives a shutdown signal.
func (a *App) Run() {
	a.app.Run()
}

// Start starts the app and stops it again once ctx is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.app.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.app.StopTimeout())
	defer cancel()

	return a.app.Stop(stopCtx)
}
