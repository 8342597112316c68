package bapi

import (
	"context"
	"log"
	"net/http"
)

// ServeMux routes requests like [http.ServeMux] and serves them through buffered responses, negotiated
// rendering and error handling. Routes can be named for [ServeMux.Reverse].
type ServeMux struct {
	std      *http.ServeMux
	routes   *Reverser
	settings Settings
	logs     Logger
	bufLimit int

	middleware []Middleware
	sealed     bool // a route was registered, middleware is fixed
}

// NewServeMux returns a mux with the [DefaultSettings], an unlimited response buffer and the standard
// logger.
func NewServeMux() *ServeMux {
	return NewServeMuxWith(DefaultSettings(), -1, NewStdLogger(log.Default()), http.NewServeMux(), NewReverser())
}

// NewServeMuxWith returns a mux that registers routes on baseMux and names them in reverser.
func NewServeMuxWith(
	settings Settings, bufLimit int, logger Logger, baseMux *http.ServeMux, reverser *Reverser,
) *ServeMux {
	return &ServeMux{
		std:      baseMux,
		routes:   reverser,
		settings: settings,
		logs:     logger,
		bufLimit: bufLimit,
	}
}

// Settings returns the settings requests served by the mux start with.
func (m *ServeMux) Settings() Settings { return m.settings }

// Reverse builds the URL of a named route.
func (m *ServeMux) Reverse(name string, vals ...string) (string, error) {
	return m.routes.Reverse(name, vals...)
}

// RouteNames returns the names of all named routes, sorted.
func (m *ServeMux) RouteNames() []string { return m.routes.Names() }

// Use appends middleware. It panics once a route has been registered.
func (m *ServeMux) Use(mw ...Middleware) {
	if m.sealed {
		panic("bapi: cannot call Use() after calling Handle")
	}

	m.middleware = append(m.middleware, mw...)
}

// Handle registers handler for pattern. An optional name makes the route reversible.
func (m *ServeMux) Handle(pattern string, handler Handler, name ...string) {
	bare := Wrap(handler, m.settings, m.logs, m.middleware...)
	m.handle(pattern, ToStd(bare, m.bufLimit, m.logs), name...)
}

// HandleFunc is [ServeMux.Handle] for a [HandlerFunc].
func (m *ServeMux) HandleFunc(pattern string, handler HandlerFunc, name ...string) {
	m.Handle(pattern, handler, name...)
}

// HandleStd registers a standard library handler. Middleware still applies but the handler owns its
// response, nothing it writes is negotiated or rendered.
func (m *ServeMux) HandleStd(pattern string, handler http.Handler, name ...string) {
	m.Handle(pattern, HandlerFunc(func(_ context.Context, w ResponseWriter, r *Request) error {
		handler.ServeHTTP(w, r.Request)
		return nil
	}), name...)
}

func (m *ServeMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.std.ServeHTTP(w, r)
}

func (m *ServeMux) handle(pattern string, handler http.Handler, name ...string) {
	m.sealed = true

	if len(name) > 0 {
		pattern = m.routes.Named(name[0], pattern)
	}

	m.std.Handle(pattern, handler)
}
