package bapp

import (
	"net/http"

	"github.com/advdv/bapi"
	"go.uber.org/zap"
)

// Mux is an alias for bapi.ServeMux.
type Mux = bapi.ServeMux

// NewMux creates a Mux that negotiates with the given settings and reports to the zap logger.
func NewMux(env Environment, settings bapi.Settings, logger *zap.Logger) *Mux {
	return bapi.NewServeMuxWith(
		settings,
		env.bufferLimit(),
		newZapBAPILogger(logger),
		http.NewServeMux(),
		bapi.NewReverser(),
	)
}
