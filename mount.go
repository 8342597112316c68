package bapi

import (
	"net/http"
	"strings"
)

// Mount serves handler for every path below pattern. The handler sees the path with the mount prefix
// removed, while middleware registered with [ServeMux.Use] still sees the full path. Responses and coded
// errors are negotiated with the mux settings.
func (m *ServeMux) Mount(pattern string, handler Handler) {
	m.MountBare(pattern, ToBare(handler, m.settings, m.logs))
}

// MountFunc is [ServeMux.Mount] for a [HandlerFunc].
func (m *ServeMux) MountFunc(pattern string, handler HandlerFunc) {
	m.Mount(pattern, handler)
}

// MountStd mounts a standard library handler. It owns its responses, including error responses, so the
// negotiation of the mux does not apply to it.
func (m *ServeMux) MountStd(pattern string, handler http.Handler) {
	m.MountBare(pattern, BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
		handler.ServeHTTP(w, r)
		return nil
	}))
}

// MountBare mounts a [BareHandler]. The pattern may start with a method, as in "GET /static".
func (m *ServeMux) MountBare(pattern string, handler BareHandler) {
	method, prefix := splitMethodPattern(pattern)

	std := ToStd(wrapBare(trimMountPrefix(prefix, handler), m.middleware...), m.bufLimit, m.logs)

	m.handle(method+prefix, std)
	m.handle(method+prefix+"/", std)
}

// splitMethodPattern splits "GET /a" into "GET " and "/a". Patterns without a method return an empty
// method.
func splitMethodPattern(pattern string) (method, path string) {
	before, after, found := strings.Cut(pattern, " ")
	if !found || strings.Contains(before, "/") {
		return "", pattern
	}

	return before + " ", strings.TrimLeft(after, " ")
}

func trimMountPrefix(prefix string, next BareHandler) BareHandler {
	trim := func(p string) string {
		if p = strings.TrimPrefix(p, prefix); p == "" {
			return "/"
		}

		return p
	}

	return BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
		u := *r.URL
		u.Path = trim(u.Path)
		if u.RawPath != "" {
			u.RawPath = trim(u.RawPath)
		}

		sub := r.WithContext(r.Context())
		sub.URL = &u

		return next.ServeBareBAPI(w, sub)
	})
}
