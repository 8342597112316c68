package bapp

import (
	"github.com/advdv/bapi"
	"github.com/cockroachdb/errors"
)

// NewSettings builds the negotiation settings from the parser and renderer names in the environment.
func NewSettings(env Environment) (bapi.Settings, error) {
	parsers, err := bapi.LookupParsers(env.parsers()...)
	if err != nil {
		return bapi.Settings{}, errors.Wrap(err, "BAPI_PARSERS")
	}

	renderers, err := bapi.LookupRenderers(env.renderers()...)
	if err != nil {
		return bapi.Settings{}, errors.Wrap(err, "BAPI_RENDERERS")
	}

	if len(renderers) == 0 {
		return bapi.Settings{}, errors.New("BAPI_RENDERERS: at least one renderer is required")
	}

	return bapi.Settings{
		Parsers:      parsers,
		Renderers:    renderers,
		Negotiator:   bapi.DefaultNegotiator{},
		MaxBodyBytes: env.maxBodyBytes(),
	}, nil
}
