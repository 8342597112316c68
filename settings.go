package bapi

import (
	"context"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Settings configure how requests are negotiated. They are copied into every [Request] when handling
// starts and must not be modified while requests are in flight.
type Settings struct {
	// Parsers in order of priority.
	Parsers []Parser
	// Renderers in order of priority, the order breaks ties between equally acceptable renderers.
	Renderers []Renderer
	// Negotiator defaults to [DefaultNegotiator] when nil.
	Negotiator Negotiator
	// MaxBodyBytes rejects bodies declaring a larger Content-Length, zero or negative disables the check.
	MaxBodyBytes int64
}

// DefaultSettings parse JSON, url encoded and multipart bodies and render JSON and HTML.
func DefaultSettings() Settings {
	return Settings{
		Parsers:    []Parser{JSONParser{}, URLEncodedParser{}, MultiPartParser{}},
		Renderers:  []Renderer{JSONRenderer{}, HTMLRenderer{}},
		Negotiator: DefaultNegotiator{},
	}
}

func (s Settings) negotiator() Negotiator {
	if s.Negotiator == nil {
		return DefaultNegotiator{}
	}

	return s.Negotiator
}

// WithParsers returns a copy of the settings with the given parsers.
func (s Settings) WithParsers(ps ...Parser) Settings {
	s.Parsers = slices.Clone(ps)
	return s
}

// WithRenderers returns a copy of the settings with the given renderers.
func (s Settings) WithRenderers(rs ...Renderer) Settings {
	s.Renderers = slices.Clone(rs)
	return s
}

// WithParsers wraps h so that requests it serves are parsed with the given parsers instead of the
// configured ones.
func WithParsers(h Handler, ps ...Parser) Handler {
	return HandlerFunc(func(ctx context.Context, w ResponseWriter, r *Request) error {
		return h.ServeBAPI(ctx, w, r.withSettings(r.settings.WithParsers(ps...)))
	})
}

// WithRenderers wraps h so that responses (including error responses) it produces are rendered with the
// given renderers instead of the configured ones.
func WithRenderers(h Handler, rs ...Renderer) Handler {
	return HandlerFunc(func(ctx context.Context, w ResponseWriter, r *Request) error {
		r.settings = r.settings.WithRenderers(rs...)
		return h.ServeBAPI(ctx, w, r)
	})
}

var (
	parserRegistry = map[string]Parser{
		"json":      JSONParser{},
		"form":      URLEncodedParser{},
		"multipart": MultiPartParser{},
		"yaml":      YAMLParser{},
	}

	rendererRegistry = map[string]Renderer{
		"json":  JSONRenderer{},
		"plain": PlainTextRenderer{},
		"html":  HTMLRenderer{},
		"yaml":  YAMLRenderer{},
	}
)

// LookupParsers returns the built-in parsers by name: "json", "form", "multipart" and "yaml".
func LookupParsers(names ...string) ([]Parser, error) {
	return lookup(parserRegistry, "parser", names)
}

// LookupRenderers returns the built-in renderers by name: "json", "plain", "html" and "yaml".
func LookupRenderers(names ...string) ([]Renderer, error) {
	return lookup(rendererRegistry, "renderer", names)
}

func lookup[T any](reg map[string]T, kind string, names []string) ([]T, error) {
	res := make([]T, 0, len(names))
	for _, name := range names {
		v, ok := reg[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			known := lo.Keys(reg)
			slices.Sort(known)

			return nil, errors.Newf("unknown %s %q, known: %v", kind, name, known)
		}

		res = append(res, v)
	}

	return res, nil
}
