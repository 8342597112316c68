// Package example implements example middleware and handlers in an outside package.
package example

import (
	"context"
	"net/http"

	"github.com/advdv/bapi"
	"go.uber.org/zap"
)

// ctxKey type scopes middlware values.
type ctxKey string

// Middleware provides an example for middleware that adds a logger to the context.
func Middleware(logs *zap.Logger) bapi.Middleware {
	return func(n bapi.BareHandler) bapi.BareHandler {
		return bapi.BareHandlerFunc(func(w bapi.ResponseWriter, r *http.Request) error {
			logs := logs.With(zap.String("method", r.Method), zap.String("content_type", r.Header.Get("Content-Type")))

			return n.ServeBareBAPI(w, r.WithContext(context.WithValue(r.Context(), ctxKey("zap"), logs)))
		})
	}
}

// Log returns the logger added by [Middleware], or a no-op logger.
func Log(ctx context.Context) *zap.Logger {
	if v, ok := ctx.Value(ctxKey("zap")).(*zap.Logger); ok {
		return v
	}

	return zap.NewNop()
}

// Echo responds with the parsed request body, and the names of uploaded files if there are any.
func Echo(ctx context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
	data, err := r.Data()
	if err != nil {
		return err
	}

	files, err := r.Files()
	if err != nil {
		return err
	}

	names := map[string]string{}
	for field := range files {
		names[field] = files.Get(field).Filename
	}

	Log(ctx).Info("echo", zap.Int("num_files", len(names)))

	return bapi.Respond(w, r, http.StatusOK, map[string]any{"data": data, "files": names})
}
