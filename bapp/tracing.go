package bapp

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
)

// NewTracerProvider creates and configures the OpenTelemetry TracerProvider.
// Supported exporters via BAPI_OTEL_EXPORTER: "stdout" (default), "otlp" and "none". The otlp
// exporter is configured with the standard OTEL_EXPORTER_OTLP_* variables.
// Shutdown is handled automatically via fx.Lifecycle.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	exporterType := env.otelExporter()
	if exporterType == "none" {
		return noop.NewTracerProvider(), nil
	}

	exporter, err := newExporter(context.Background(), exporterType)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(newSpanProcessor(exporterType, exporter)),
		sdktrace.WithResource(newResource(env.serviceName())),
	)

	lc.Append(fx.StopHook(tp.Shutdown))

	return tp, nil
}

// NewPropagator creates the W3C TraceContext + Baggage composite propagator.
func NewPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// newExporter creates a span exporter based on the exporter type.
func newExporter(ctx context.Context, exporterType string) (sdktrace.SpanExporter, error) {
	switch exporterType {
	case "stdout", "":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, errors.Wrap(err, "stdout exporter")
		}

		return exp, nil
	case "otlp":
		exp, err := otlptracehttp.New(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "otlp exporter")
		}

		return exp, nil
	default:
		return nil, errors.Newf("unsupported BAPI_OTEL_EXPORTER: %q (supported: stdout, otlp, none)", exporterType)
	}
}

// newSpanProcessor batches spans for the otlp exporter and exports them synchronously otherwise.
func newSpanProcessor(exporterType string, exp sdktrace.SpanExporter) sdktrace.SpanProcessor {
	if exporterType == "otlp" {
		return sdktrace.NewBatchSpanProcessor(exp)
	}

	return sdktrace.NewSimpleSpanProcessor(exp)
}

func newResource(serviceName string) *resource.Resource {
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)
}

// withTracing starts a server span named "METHOD /path" for every request except those to skipPaths.
// The span records what the request negotiates with, its Accept header and Content-Type.
func withTracing(
	tp trace.TracerProvider, prop propagation.TextMapPropagator, serviceName string, skipPaths ...string,
) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		annotated := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			trace.SpanFromContext(r.Context()).SetAttributes(
				attribute.String("bapi.request.accept", r.Header.Get("Accept")),
				attribute.String("bapi.request.content_type", r.Header.Get("Content-Type")),
			)

			next.ServeHTTP(w, r)
		})

		return otelhttp.NewHandler(annotated, serviceName,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithPropagators(prop),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
			otelhttp.WithFilter(func(r *http.Request) bool { return !skip[r.URL.Path] }),
		)
	}
}
