package bapp

import (
	"context"
	"net/http"
	"time"

	"github.com/advdv/bapi"
)

// DefaultWriteGrace is the time the server keeps the connection open for writing after the request
// deadline passed, so a handler that stops at its deadline can still send an error response.
const DefaultWriteGrace = 500 * time.Millisecond

// TimeoutConfig holds timeout configuration for the HTTP server.
type TimeoutConfig struct {
	// RequestTimeout bounds how long a single request may be handled.
	RequestTimeout time.Duration

	// WriteGrace is added to the write timeout. Defaults to DefaultWriteGrace.
	WriteGrace time.Duration
}

// ServerTimeouts returns the http.Server timeout values for the request timeout. Bodies are parsed
// within the handler so the read timeout equals the request timeout.
func (tc TimeoutConfig) ServerTimeouts() (readHeaderTimeout, readTimeout, writeTimeout, idleTimeout time.Duration) {
	grace := tc.WriteGrace
	if grace <= 0 {
		grace = DefaultWriteGrace
	}

	timeout := tc.RequestTimeout
	if timeout <= 0 {
		return 0, 0, 0, 0
	}

	readHeaderTimeout = min(timeout, 5*time.Second)
	readTimeout = timeout
	writeTimeout = timeout + grace
	idleTimeout = timeout

	return
}

// WithRequestTimeout returns middleware that puts a deadline of d on the request context.
// A zero or negative d passes the context through unchanged.
func WithRequestTimeout(d time.Duration) bapi.Middleware {
	return func(next bapi.BareHandler) bapi.BareHandler {
		if d <= 0 {
			return next
		}

		return bapi.BareHandlerFunc(func(w bapi.ResponseWriter, r *http.Request) error {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			return next.ServeBareBAPI(w, r.WithContext(ctx))
		})
	}
}

// RequestRemainingTime returns the duration until the request context deadline.
// Returns 0 if no deadline is set or if the deadline has passed.
func RequestRemainingTime(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}
