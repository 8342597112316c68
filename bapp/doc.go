// Package bapp provides a batteries-included application around the bapi ServeMux.
//
// # Overview
//
// bapp handles the boilerplate of running a content negotiating HTTP service: environment
// parsing, structured logging, OpenTelemetry tracing, an instrumented HTTP client and graceful
// shutdown. A complete application can be created in a single call:
//
//	bapp.NewApp[Env](func(m *bapp.Mux, h *Handlers) {
//	    m.HandleFunc("GET /items", h.ListItems)
//	    m.HandleFunc("GET /items/{id}", h.GetItem, "get-item")
//	},
//	    bapp.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment Configuration
//
// Define your environment by embedding [BaseEnvironment]:
//
//	type Env struct {
//	    bapp.BaseEnvironment
//	    UpstreamURL string `env:"UPSTREAM_URL,required"`
//	}
//
// BaseEnvironment provides the following environment variables:
//
//	| Variable               | Required | Default             | Description                                  |
//	|------------------------|----------|---------------------|----------------------------------------------|
//	| BAPI_PORT              | Yes      | -                   | Port the HTTP server listens on              |
//	| BAPI_SERVICE_NAME      | Yes      | -                   | Service name for logging and tracing         |
//	| BAPI_HEALTH_CHECK_PATH | No       | /healthz            | Health check endpoint path                   |
//	| BAPI_LOG_LEVEL         | No       | info                | Log level (debug, info, warn, error)         |
//	| BAPI_OTEL_EXPORTER     | No       | stdout              | Trace exporter: "stdout", "otlp" or "none"   |
//	| BAPI_PARSERS           | No       | json,form,multipart | Request body parsers in order of priority    |
//	| BAPI_RENDERERS         | No       | json,html           | Response renderers in order of priority      |
//	| BAPI_BUFFER_LIMIT      | No       | -1                  | Response buffer limit in bytes, -1 unlimited |
//	| BAPI_MAX_BODY_BYTES    | No       | 10485760            | Largest accepted request Content-Length      |
//	| BAPI_REQUEST_TIMEOUT   | No       | 30s                 | Deadline on every request context            |
//
// # Negotiation
//
// The parsers and renderers named in the environment become the [bapi.Settings] of the mux.
// Replace them entirely with [WithSettings], or per route with [bapi.WithParsers] and
// [bapi.WithRenderers]. Handlers read the body through [bapi.Request.Data] and respond with
// [bapi.Respond]:
//
//	func (h *Handlers) CreateItem(ctx context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
//	    data, err := r.Data()
//	    if err != nil {
//	        return err
//	    }
//
//	    bapp.Log(ctx).Info("creating item")
//	    return bapi.Respond(w, r, http.StatusCreated, data)
//	}
//
// The parser names are "json", "form", "multipart" and "yaml", the renderer names "json", "plain",
// "html" and "yaml". The otlp exporter reads the standard OTEL_EXPORTER_OTLP_* variables.
//
// # Runtime
//
// [Runtime] provides access to app-scoped dependencies and should be injected into handler
// constructors via fx:
//   - [Runtime.Env] returns the typed environment configuration
//   - [Runtime.Reverse] generates URLs for named routes and [Runtime.RouteNames] lists them
//   - [Runtime.Settings] returns the negotiation settings
//   - [Runtime.NewRequest] builds traced outbound requests that accept JSON and carry the
//     service name as User-Agent
//
// # Context
//
// [Log] returns a trace-correlated zap logger and [Span] the current span. Use [WithLogger] to
// unit-test handlers that log, together with [bapptest.CallHandler]:
//
//	ctx := bapp.WithLogger(context.Background(), zap.NewNop())
//	req := httptest.NewRequest(http.MethodGet, "/items", nil).WithContext(ctx)
//	rec := bapptest.CallHandler(h.ListItems, req)
//
// # HTTP Client
//
// The instrumented [http.RoundTripper] can be injected directly, [NewHTTPClient] wraps it in a
// client and [Runtime.NewRequest] returns a [github.com/carlmjohnson/requests] builder that uses
// it. Outbound requests become child spans of the active trace.
//
// # Timeouts
//
// BAPI_REQUEST_TIMEOUT sets the server timeouts (see [TimeoutConfig]) and a deadline on every
// request context. Use [RequestRemainingTime] to check how much of it is left.
//
// # Testing
//
// For integration tests that need the full DI graph, use [bapptest.New]:
//
//	bapptest.SetBaseEnv(t, 18081)
//	app := bapptest.New[Env](t, routing, bapp.WithFx(fx.Provide(NewHandlers)))
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package bapp
