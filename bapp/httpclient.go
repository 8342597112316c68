package bapp

import (
	"net/http"

	"github.com/carlmjohnson/requests"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// NewHTTPTransport wraps the default transport so that outbound requests become client spans and carry
// the trace context of the request that made them.
func NewHTTPTransport(tp trace.TracerProvider, prop propagation.TextMapPropagator) http.RoundTripper {
	return otelhttp.NewTransport(http.DefaultTransport,
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithPropagators(prop),
		otelhttp.WithSpanNameFormatter(outboundSpanName),
	)
}

// outboundSpanName names client spans after the method and the host called, e.g. "GET api.example.com".
func outboundSpanName(_ string, r *http.Request) string {
	return r.Method + " " + r.URL.Host
}

// NewHTTPClient returns a client on the given transport, typically the one from [NewHTTPTransport].
func NewHTTPClient(t http.RoundTripper) *http.Client {
	return &http.Client{Transport: t}
}

// newRequestBuilder is the base of [Runtime.NewRequest]. Calls identify the service in their User-Agent
// and ask for JSON, the default rendering of bapi services.
func newRequestBuilder(t http.RoundTripper, serviceName string) *requests.Builder {
	return requests.New().
		Transport(t).
		UserAgent(serviceName).
		Accept("application/json")
}
