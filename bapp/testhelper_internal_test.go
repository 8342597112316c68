package bapp

import (
	"time"

	"go.uber.org/zap/zapcore"
)

type testEnv struct {
	level   zapcore.Level
	otelExp string
}

func (e testEnv) port() int                     { return 8080 }
func (e testEnv) serviceName() string           { return "test" }
func (e testEnv) healthCheckPath() string       { return "/health" }
func (e testEnv) logLevel() zapcore.Level       { return e.level }
func (e testEnv) otelExporter() string          { return e.otelExp }
func (e testEnv) parsers() []string             { return []string{"json"} }
func (e testEnv) renderers() []string           { return []string{"json"} }
func (e testEnv) bufferLimit() int              { return -1 }
func (e testEnv) maxBodyBytes() int64           { return 1024 }
func (e testEnv) requestTimeout() time.Duration { return 30 * time.Second }
