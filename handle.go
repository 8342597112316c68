package bapi

import (
	"context"
	"net/http"
)

// ResponseWriter implements the http.ResponseWriter but the underlying bytes are buffered. This allows
// middleware to reset the writer and formulate a completely new response.
type ResponseWriter interface {
	http.ResponseWriter
	Reset()
	Free()
	FlushBuffer() error
}

// Handler mirrors http.Handler but it receives the negotiating [Request] and a buffered response, and it
// may return an error.
type Handler interface {
	ServeBAPI(ctx context.Context, w ResponseWriter, r *Request) error
}

// HandlerFunc allow casting a function to imple [Handler].
type HandlerFunc func(context.Context, ResponseWriter, *Request) error

// ServeBAPI implements the [Handler] interface.
func (f HandlerFunc) ServeBAPI(ctx context.Context, w ResponseWriter, r *Request) error {
	return f(ctx, w, r)
}

// BareHandler describes how middleware servers HTTP requests. In this library the signature for
// handling middleware [BareHandler] is different from the signature of "leaf" handlers: [Handler].
type BareHandler interface {
	ServeBareBAPI(w ResponseWriter, r *http.Request) error
}

// BareHandlerFunc allow casting a function to an implementation of [BareHandler].
type BareHandlerFunc func(ResponseWriter, *http.Request) error

// ServeBareBAPI implements the [BareHandler] interface.
func (f BareHandlerFunc) ServeBareBAPI(w ResponseWriter, r *http.Request) error {
	return f(w, r)
}

// ToBare converts 'h' into a bare buffered handler. Each request is wrapped in a [Request] that is
// assigned the given settings. Errors that carry a [Code] are rendered as a response through the
// negotiated renderer, other errors are passed on.
func ToBare(h Handler, settings Settings, logs Logger) BareHandler {
	return BareHandlerFunc(func(w ResponseWriter, r *http.Request) error {
		req := NewRequest(r, settings)

		err := h.ServeBAPI(r.Context(), w, req)
		if err == nil {
			return nil
		}

		return handleError(w, req, err, logs)
	})
}

// ToStd converts a bare handler into a standard library http.Handler. The implementation
// creates a buffered response writer and flushes it implicitly after serving the request.
func ToStd(h BareHandler, bufLimit int, logs Logger) http.Handler {
	return http.HandlerFunc(func(resp http.ResponseWriter, req *http.Request) {
		bresp := newBufferResponse(resp, bufLimit)
		defer bresp.Free()

		if err := h.ServeBareBAPI(bresp, req); err != nil {
			logs.LogUnhandledServeError(err)

			// if all fails we don't want the client to end up with a white screen so
			// we render a 500 error with the standard text. When part of the response
			// was flushed already there is nothing left to replace.
			if !bresp.flushed {
				bresp.Reset()
				http.Error(bresp,
					http.StatusText(http.StatusInternalServerError),
					http.StatusInternalServerError)
			}
		}

		if err := bresp.FlushBuffer(); err != nil {
			logs.LogImplicitFlushError(err)
		}
	})
}
