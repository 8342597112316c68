package bapp_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/advdv/bapi"
	"github.com/advdv/bapi/bapp"
	"github.com/advdv/bapi/bapp/bapptest"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// TestEnv is a test environment with app-specific fields beyond BaseEnvironment.
type TestEnv struct {
	bapp.BaseEnvironment
	MainTableName string `env:"MAIN_TABLE_NAME,required"`
}

// Handlers serve the routes of the test app.
type Handlers struct {
	rt *bapp.Runtime[TestEnv]
}

func NewHandlers(rt *bapp.Runtime[TestEnv]) *Handlers {
	return &Handlers{rt: rt}
}

func (h *Handlers) TestContext(ctx context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
	env := h.rt.Env()

	itemURL, err := h.rt.Reverse("get-item", "test-123")
	if err != nil {
		return err
	}

	bapp.Span(ctx).AddEvent("context-test")
	bapp.Log(ctx).Info("testing context features")

	return bapi.Respond(w, r, http.StatusOK, map[string]any{
		"table":         env.MainTableName,
		"service_name":  env.ServiceName,
		"reversed_url":  itemURL,
		"has_deadline":  bapp.RequestRemainingTime(ctx) > 0,
		"num_renderers": len(h.rt.Settings().Renderers),
		"routes":        h.rt.RouteNames(),
	})
}

func (h *Handlers) CreateItem(ctx context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
	data, err := r.Data()
	if err != nil {
		return err
	}

	files, err := r.Files()
	if err != nil {
		return err
	}

	bapp.Log(ctx).Info("creating item", zap.Int("num_files", len(files)))

	return bapi.Respond(w, r, http.StatusCreated, map[string]any{
		"id":   "item-123",
		"data": data,
	})
}

func (h *Handlers) GetItem(_ context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
	id := r.PathValue("id")
	if id == "missing" {
		return bapi.NewError(bapi.CodeNotFound, errors.Newf("item %q does not exist", id))
	}

	selfURL, _ := h.rt.Reverse("get-item", id)

	return bapi.Respond(w, r, http.StatusOK, map[string]any{
		"id":       id,
		"self_url": selfURL,
	})
}

type signup struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

func (h *Handlers) Signup(_ context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
	var in signup
	if err := bapi.Bind(r, &in); err != nil {
		return err
	}

	return bapi.Respond(w, r, http.StatusCreated, in)
}

func routing(m *bapp.Mux, h *Handlers) {
	m.HandleFunc("GET /context", h.TestContext)
	m.HandleFunc("POST /signups", h.Signup)
	m.HandleFunc("POST /items", h.CreateItem)
	m.HandleFunc("GET /items/{id}", h.GetItem, "get-item")
}

// setTestEnvForTestEnv is a convenience that calls SetBaseEnv and sets the TestEnv specific vars.
func setTestEnvForTestEnv(t *testing.T, port int) *bapptest.Env {
	t.Helper()
	env := bapptest.SetBaseEnv(t, port)
	t.Setenv("MAIN_TABLE_NAME", "test-table")
	return env
}
