package bapp

import (
	"context"
	"net/http"

	"github.com/advdv/bapi"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const requestScopeKey ctxKey = iota

// requestScope holds what a request served by the app carries in its context. App-scoped values are
// reached through the [Runtime] instead.
type requestScope struct {
	logger *zap.Logger
}

// withRequestLogger puts a logger annotated with the request method and path into every request context.
func withRequestLogger(logger *zap.Logger) bapi.Middleware {
	return func(next bapi.BareHandler) bapi.BareHandler {
		return bapi.BareHandlerFunc(func(w bapi.ResponseWriter, r *http.Request) error {
			scoped := logger.With(zap.String("http.method", r.Method), zap.String("http.path", r.URL.Path))
			return next.ServeBareBAPI(w, r.WithContext(WithLogger(r.Context(), scoped)))
		})
	}
}

// WithLogger returns a context that carries logger for [Log]. Requests served by the app already carry
// one, this is for calling handlers directly, as in tests.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, requestScopeKey, &requestScope{logger: logger})
}

// Log returns the request logger with the trace and span id of ctx added. It panics when ctx does not
// come from a request served by the app or from [WithLogger].
func Log(ctx context.Context) *zap.Logger {
	scope, ok := ctx.Value(requestScopeKey).(*requestScope)
	if !ok {
		panic("bapp: no request logger in context, use bapp.WithLogger outside of the app")
	}

	return scope.logger.With(traceFields(ctx)...)
}

// Span returns the span of the current request.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

func traceFields(ctx context.Context) []zap.Field {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}

	return []zap.Field{
		zap.Stringer("trace_id", sc.TraceID()),
		zap.Stringer("span_id", sc.SpanID()),
	}
}
