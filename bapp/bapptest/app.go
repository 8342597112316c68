// Package bapptest provides test helpers for bapp applications.
//
// It constructs the identical DI graph as [bapp.NewApp] but uses
// [fxtest.App] which fails the test immediately on DI errors.
//
// Example:
//
//	bapptest.SetBaseEnv(t, 18081)
//	app := bapptest.New[TestEnv](t, routing, bapp.WithFx(fx.Provide(NewHandlers)))
//	app.RequireStart()
//	t.Cleanup(app.RequireStop)
package bapptest

import (
	"testing"

	"github.com/advdv/bapi/bapp"
	"go.uber.org/fx/fxtest"
)

// App embeds *fxtest.App for testing bapp applications.
type App struct {
	*fxtest.App
}

// New creates a test app with the same DI graph as [bapp.NewApp].
func New[E bapp.Environment](t testing.TB, routing any, opts ...bapp.Option) *App {
	return &App{App: fxtest.New(t, bapp.FxOptions[E](routing, opts...)...)}
}
