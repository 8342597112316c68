package bapi_test

import (
	"testing"

	"github.com/advdv/bapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := bapi.DefaultSettings()
	assert.Equal(t, []bapi.Parser{bapi.JSONParser{}, bapi.URLEncodedParser{}, bapi.MultiPartParser{}}, s.Parsers)
	assert.Equal(t, []bapi.Renderer{bapi.JSONRenderer{}, bapi.HTMLRenderer{}}, s.Renderers)
	assert.Equal(t, bapi.DefaultNegotiator{}, s.Negotiator)
	assert.Zero(t, s.MaxBodyBytes)
}

func TestSettingsCopies(t *testing.T) {
	orig := bapi.DefaultSettings()
	parsers := []bapi.Parser{bapi.JSONParser{}}

	s := orig.WithParsers(parsers...).WithRenderers(bapi.PlainTextRenderer{})
	parsers[0] = bapi.URLEncodedParser{}

	assert.Equal(t, []bapi.Parser{bapi.JSONParser{}}, s.Parsers)
	assert.Equal(t, []bapi.Renderer{bapi.PlainTextRenderer{}}, s.Renderers)
	assert.Len(t, orig.Parsers, 3)
	assert.Len(t, orig.Renderers, 2)
}

func TestLookup(t *testing.T) {
	ps, err := bapi.LookupParsers("json", " Form ", "multipart")
	require.NoError(t, err)
	assert.Equal(t, []bapi.Parser{bapi.JSONParser{}, bapi.URLEncodedParser{}, bapi.MultiPartParser{}}, ps)

	rs, err := bapi.LookupRenderers("plain", "HTML", "json")
	require.NoError(t, err)
	assert.Equal(t, []bapi.Renderer{bapi.PlainTextRenderer{}, bapi.HTMLRenderer{}, bapi.JSONRenderer{}}, rs)

	_, err = bapi.LookupParsers("json", "xml")
	require.EqualError(t, err, `unknown parser "xml", known: [form json multipart yaml]`)

	_, err = bapi.LookupRenderers("xml")
	require.EqualError(t, err, `unknown renderer "xml", known: [html json plain yaml]`)

	rs, err = bapi.LookupRenderers()
	require.NoError(t, err)
	assert.Empty(t, rs)
}
