package bapp

import (
	"github.com/advdv/bapi"
	"github.com/carlmjohnson/requests"
)

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
// Example:
//
//	type Handlers struct {
//	    rt *bapp.Runtime[Env]
//	}
//
//	func NewHandlers(rt *bapp.Runtime[Env]) *Handlers {
//	    return &Handlers{rt: rt}
//	}
//
//	func (h *Handlers) GetItem(ctx context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
//	    env := h.rt.Env()
//	    url, _ := h.rt.Reverse("get-item", id)
//	    // ...
//	}
type Runtime[E Environment] struct {
	env     E
	mux     *Mux
	builder *requests.Builder
}

// RuntimeParams holds optional dependencies for Runtime.
type RuntimeParams struct {
	RequestBuilder *requests.Builder
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, mux *Mux, params RuntimeParams) *Runtime[E] {
	builder := params.RequestBuilder
	if builder == nil {
		builder = requests.New()
	}

	return &Runtime[E]{
		env:     env,
		mux:     mux,
		builder: builder,
	}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Settings returns the negotiation settings requests are served with.
func (r *Runtime[E]) Settings() bapi.Settings {
	return r.mux.Settings()
}

// Reverse returns the URL for a named route with the given parameters.
// The route must have been registered with a name using Handle/HandleFunc.
func (r *Runtime[E]) Reverse(name string, params ...string) (string, error) {
	return r.mux.Reverse(name, params...)
}

// RouteNames returns the names of all named routes, sorted.
func (r *Runtime[E]) RouteNames() []string {
	return r.mux.RouteNames()
}

// NewRequest returns a request builder for outbound calls. It uses the traced transport so calls made
// with a request context become child spans. Each call returns an independent copy.
//
//	var out map[string]any
//	err := h.rt.NewRequest().BaseURL(upstream).Path("/items").ToJSON(&out).Fetch(ctx)
func (r *Runtime[E]) NewRequest() *requests.Builder {
	return r.builder.Clone()
}
