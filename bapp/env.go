package bapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	healthCheckPath() string
	logLevel() zapcore.Level
	otelExporter() string
	parsers() []string
	renderers() []string
	bufferLimit() int
	maxBodyBytes() int64
	requestTimeout() time.Duration
}

// BaseEnvironment contains the environment variables every app reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port            int           `env:"BAPI_PORT,required"`
	ServiceName     string        `env:"BAPI_SERVICE_NAME,required"`
	HealthCheckPath string        `env:"BAPI_HEALTH_CHECK_PATH" envDefault:"/healthz"`
	LogLevel        zapcore.Level `env:"BAPI_LOG_LEVEL" envDefault:"info"`
	OtelExporter    string        `env:"BAPI_OTEL_EXPORTER" envDefault:"stdout"`
	// Parsers and Renderers name the built-in parsers and renderers in order of priority, see
	// [bapi.LookupParsers] and [bapi.LookupRenderers].
	Parsers   []string `env:"BAPI_PARSERS" envDefault:"json,form,multipart"`
	Renderers []string `env:"BAPI_RENDERERS" envDefault:"json,html"`
	// BufferLimit bounds the buffered response body, -1 disables the limit.
	BufferLimit  int   `env:"BAPI_BUFFER_LIMIT" envDefault:"-1"`
	MaxBodyBytes int64 `env:"BAPI_MAX_BODY_BYTES" envDefault:"10485760"`
	// RequestTimeout bounds the server timeouts and sets a deadline on every request context.
	RequestTimeout time.Duration `env:"BAPI_REQUEST_TIMEOUT" envDefault:"30s"`
}

func (e BaseEnvironment) port() int {
	return e.Port
}

func (e BaseEnvironment) serviceName() string {
	return e.ServiceName
}

func (e BaseEnvironment) healthCheckPath() string {
	return e.HealthCheckPath
}

func (e BaseEnvironment) logLevel() zapcore.Level {
	return e.LogLevel
}

func (e BaseEnvironment) otelExporter() string {
	return e.OtelExporter
}

func (e BaseEnvironment) parsers() []string {
	return e.Parsers
}

func (e BaseEnvironment) renderers() []string {
	return e.Renderers
}

func (e BaseEnvironment) bufferLimit() int {
	return e.BufferLimit
}

func (e BaseEnvironment) maxBodyBytes() int64 {
	return e.MaxBodyBytes
}

func (e BaseEnvironment) requestTimeout() time.Duration {
	return e.RequestTimeout
}

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}
		return e, nil
	}
}
