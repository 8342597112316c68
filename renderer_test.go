package bapi_test

import (
	"html/template"
	"net/http"
	"testing"

	"github.com/advdv/bapi"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONRenderer(t *testing.T) {
	data := map[string]any{"example": "example"}

	for _, tt := range []struct {
		name     string
		mt       string
		opts     bapi.RenderOptions
		data     any
		expected string
	}{
		{name: "compact", mt: "application/json", data: data, expected: `{"example": "example"}`},
		{name: "indent", mt: "application/json; indent=4", data: data, expected: "{\n    \"example\": \"example\"\n}"},
		{name: "indent option", mt: "application/json", opts: bapi.RenderOptions{Indent: 2}, data: data, expected: "{\n  \"example\": \"example\"\n}"},
		{name: "indent capped", mt: "application/json; indent=100", data: []int{1}, expected: "[\n        1\n]"},
		{name: "ignore invalid indent", mt: "application/json; indent=abc", data: data, expected: `{"example": "example"}`},
		{name: "ignore unknown params", mt: "application/json; foo=bar", data: []any{1, "a"}, expected: `[1, "a"]`},
		{name: "separators inside strings", mt: "application/json", data: map[string]string{"a": `x:y,"z`}, expected: `{"a": "x:y,\"z"}`},
		{name: "no html escaping", mt: "application/json", data: "<b>&</b>", expected: `"<b>&</b>"`},
		{name: "null", mt: "application/json", data: nil, expected: `null`},
	} {
		t.Run(tt.name, func(t *testing.T) {
			out, err := bapi.JSONRenderer{}.Render(tt.data, mustMediaType(t, tt.mt), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(out))
		})
	}

	t.Run("unencodable", func(t *testing.T) {
		_, err := bapi.JSONRenderer{}.Render(make(chan int), mustMediaType(t, "application/json"), bapi.RenderOptions{})
		require.Error(t, err)
	})
}

func TestBaseRenderer(t *testing.T) {
	_, err := bapi.BaseRenderer{}.Render("x", mustMediaType(t, "text/plain"), bapi.RenderOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bapi.ErrNotImplemented))
	assert.Equal(t, "`Render()` method must be implemented for renderer \"BaseRenderer\"", err.Error())
	assert.Equal(t, bapi.CodeUnknown, bapi.CodeOf(err))

	csv := bapi.BaseRenderer{Name: "CSVRenderer", Type: mustMediaType(t, "text/csv")}
	_, err = csv.Render("x", csv.MediaType(), bapi.RenderOptions{})
	assert.True(t, errors.Is(err, bapi.ErrNotImplemented))
	assert.Contains(t, err.Error(), `"CSVRenderer"`)
	assert.Equal(t, "text/csv", csv.MediaType().String())
}

func TestPlainTextRenderer(t *testing.T) {
	mt := bapi.PlainTextRenderer{}.MediaType()
	assert.Equal(t, "text/plain; charset=utf-8", mt.String())

	for _, tt := range []struct {
		data     any
		expected string
	}{
		{"hello", "hello"},
		{[]byte("raw"), "raw"},
		{errors.New("boom"), "boom"},
		{42, "42"},
		{nil, ""},
	} {
		out, err := bapi.PlainTextRenderer{}.Render(tt.data, mt, bapi.RenderOptions{})
		require.NoError(t, err)
		assert.Equal(t, tt.expected, string(out))
	}
}

func TestHTMLRenderer(t *testing.T) {
	mt := bapi.HTMLRenderer{}.MediaType()
	assert.Equal(t, "text/html; charset=utf-8", mt.String())

	out, err := bapi.HTMLRenderer{}.Render("<p>hi</p>", mt, bapi.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(out))

	out, err = bapi.HTMLRenderer{}.Render(template.HTML("<p>hi</p>"), mt, bapi.RenderOptions{})
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(out))

	out, err = bapi.HTMLRenderer{}.Render(map[string]string{"a": "<b>"}, mt, bapi.RenderOptions{
		StatusCode: http.StatusNotFound,
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>404 Not Found</title>")
	assert.Contains(t, string(out), "&#34;a&#34;: &#34;\\u003cb\\u003e&#34;")
}
