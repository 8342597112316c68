package bapp_test

import (
	"context"
	"net/http"

	"github.com/advdv/bapi"
	"github.com/advdv/bapi/bapp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Env defines the environment variables for the application.
// Embed bapp.BaseEnvironment to get the server fields.
type Env struct {
	bapp.BaseEnvironment
	UpstreamURL string `env:"UPSTREAM_URL,required"`
}

// ItemHandlers contains the HTTP handlers for item operations.
type ItemHandlers struct {
	rt *bapp.Runtime[Env]
}

func NewItemHandlers(rt *bapp.Runtime[Env]) *ItemHandlers {
	return &ItemHandlers{rt: rt}
}

// ListItems fetches items from the upstream service and renders them in the negotiated format.
// Demonstrates: Log for trace-correlated logging, Runtime.NewRequest for traced outbound calls.
func (h *ItemHandlers) ListItems(ctx context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
	env := h.rt.Env()
	bapp.Log(ctx).Info("listing items", zap.String("upstream", env.UpstreamURL))

	var items []map[string]any
	if err := h.rt.NewRequest().
		BaseURL(env.UpstreamURL).
		Path("/items").
		ToJSON(&items).
		Fetch(ctx); err != nil {
		return bapi.NewError(bapi.CodeBadGateway, err)
	}

	return bapi.Respond(w, r, http.StatusOK, items)
}

// CreateItem accepts JSON, form and multipart bodies alike.
// Demonstrates: Request.Data for negotiated parsing, Runtime.Reverse for URL generation.
func (h *ItemHandlers) CreateItem(ctx context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
	data, err := r.Data()
	if err != nil {
		return err
	}

	bapp.Span(ctx).AddEvent("creating item")

	self, _ := h.rt.Reverse("get-item", "item-1")
	w.Header().Set("Location", self)

	return bapi.Respond(w, r, http.StatusCreated, data)
}

// GetItem returns a single item by ID.
func (h *ItemHandlers) GetItem(_ context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
	return bapi.Respond(w, r, http.StatusOK, map[string]any{"id": r.PathValue("id")})
}

func Example() {
	bapp.NewApp[Env](
		func(m *bapp.Mux, h *ItemHandlers) {
			m.HandleFunc("GET /items", h.ListItems)
			m.HandleFunc("POST /items", h.CreateItem)
			m.HandleFunc("GET /items/{id}", h.GetItem, "get-item")
		},
		bapp.WithFx(fx.Provide(NewItemHandlers)),
	).Run()
}

func ExampleWithSettings() {
	bapp.NewApp[Env](
		func(m *bapp.Mux, h *ItemHandlers) {
			m.HandleFunc("POST /items", h.CreateItem)
		},
		bapp.WithFx(fx.Provide(NewItemHandlers)),
		bapp.WithSettings(bapi.DefaultSettings().WithRenderers(bapi.JSONRenderer{})),
	).Run()
}
