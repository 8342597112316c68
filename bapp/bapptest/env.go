package bapptest

import (
	"strconv"
	"strings"
	"testing"
)

// Env provides a chainable builder for setting [bapp.BaseEnvironment] env vars
// via t.Setenv. Create one with [SetBaseEnv].
type Env struct {
	t testing.TB
}

// SetBaseEnv sets the [bapp.BaseEnvironment] env vars to test defaults.
// Port is required because each test must use a unique port to avoid collisions.
//
// Defaults:
//   - BAPI_SERVICE_NAME: "test"
//   - BAPI_HEALTH_CHECK_PATH: "/health"
//   - BAPI_OTEL_EXPORTER: "none"
//   - BAPI_REQUEST_TIMEOUT: "30s"
//
// Use the returned [Env] to override individual values:
//
//	bapptest.SetBaseEnv(t, 18085).Renderers("plain").MaxBodyBytes(16)
func SetBaseEnv(t testing.TB, port int) *Env {
	t.Helper()
	t.Setenv("BAPI_PORT", strconv.Itoa(port))
	t.Setenv("BAPI_SERVICE_NAME", "test")
	t.Setenv("BAPI_HEALTH_CHECK_PATH", "/health")
	t.Setenv("BAPI_OTEL_EXPORTER", "none")
	t.Setenv("BAPI_REQUEST_TIMEOUT", "30s")
	return &Env{t: t}
}

// ServiceName overrides BAPI_SERVICE_NAME.
func (e *Env) ServiceName(name string) *Env {
	e.t.Helper()
	e.t.Setenv("BAPI_SERVICE_NAME", name)
	return e
}

// HealthCheckPath overrides BAPI_HEALTH_CHECK_PATH.
func (e *Env) HealthCheckPath(path string) *Env {
	e.t.Helper()
	e.t.Setenv("BAPI_HEALTH_CHECK_PATH", path)
	return e
}

// Parsers overrides BAPI_PARSERS.
func (e *Env) Parsers(names ...string) *Env {
	e.t.Helper()
	e.t.Setenv("BAPI_PARSERS", strings.Join(names, ","))
	return e
}

// Renderers overrides BAPI_RENDERERS.
func (e *Env) Renderers(names ...string) *Env {
	e.t.Helper()
	e.t.Setenv("BAPI_RENDERERS", strings.Join(names, ","))
	return e
}

// MaxBodyBytes overrides BAPI_MAX_BODY_BYTES.
func (e *Env) MaxBodyBytes(n int64) *Env {
	e.t.Helper()
	e.t.Setenv("BAPI_MAX_BODY_BYTES", strconv.FormatInt(n, 10))
	return e
}

// RequestTimeout overrides BAPI_REQUEST_TIMEOUT.
func (e *Env) RequestTimeout(d string) *Env {
	e.t.Helper()
	e.t.Setenv("BAPI_REQUEST_TIMEOUT", d)
	return e
}
