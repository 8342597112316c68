package bapp

import (
	"github.com/advdv/bapi"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a JSON production logger at BAPI_LOG_LEVEL with ISO8601 timestamps. Every entry
// carries the service name.
func NewLogger(env Environment, opts ...zap.Option) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build(append(opts, zap.Fields(zap.String("service", env.serviceName())))...)
}

// zapLogger reports what the mux could not hand to a client. Rendered client errors are logged at info
// level with their status, server side failures at error level.
type zapLogger struct{ l *zap.Logger }

func newZapBAPILogger(l *zap.Logger) bapi.Logger {
	return zapLogger{l.Named("bapi")}
}

func (z zapLogger) LogUnhandledServeError(err error) {
	z.l.Error("unhandled server error", zap.Error(err))
}

func (z zapLogger) LogImplicitFlushError(err error) {
	z.l.Error("error while flushing implicitly", zap.Error(err))
}

func (z zapLogger) LogClientError(err error) {
	z.l.Info("client error", zap.Int("status", int(bapi.CodeOf(err))), zap.Error(err))
}
