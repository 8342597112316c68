package bapi_test

import (
	"testing"

	"github.com/advdv/bapi"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name  string   `json:"name"  validate:"required,min=2"`
	Email string   `json:"email" validate:"required,email"`
	Plan  string   `json:"plan"  validate:"omitempty,oneof=free pro"`
	Tags  []string `json:"tag"`
}

func TestBind(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		req := newRequest(t, bapi.DefaultSettings(), "application/json",
			`{"name": "Ada", "email": "ada@example.com", "plan": "pro", "tag": ["a"]}`)

		var v signup
		require.NoError(t, bapi.Bind(req, &v))
		assert.Equal(t, signup{Name: "Ada", Email: "ada@example.com", Plan: "pro", Tags: []string{"a"}}, v)
	})

	t.Run("form", func(t *testing.T) {
		req := newRequest(t, bapi.DefaultSettings(), "application/x-www-form-urlencoded",
			"name=Ada&email=ada%40example.com&tag=a&tag=b")

		var v signup
		require.NoError(t, bapi.Bind(req, &v))
		assert.Equal(t, signup{Name: "Ada", Email: "ada@example.com", Tags: []string{"a", "b"}}, v)
	})

	t.Run("validation", func(t *testing.T) {
		req := newRequest(t, bapi.DefaultSettings(), "application/json", `{"name": "A", "plan": "gold"}`)

		var v signup
		err := bapi.Bind(req, &v)
		require.Error(t, err)
		assert.True(t, errors.Is(err, bapi.ErrValidation))
		assert.Equal(t, bapi.CodeUnprocessableEntity, bapi.CodeOf(err))
		assert.EqualError(t, err,
			"Unprocessable Entity: name: must be at least 2; email: is required; plan: must be one of: free pro")
	})

	t.Run("empty body fails validation", func(t *testing.T) {
		var v signup
		err := bapi.Bind(newRequest(t, bapi.DefaultSettings(), "", ""), &v)
		assert.True(t, errors.Is(err, bapi.ErrValidation))
	})

	t.Run("mismatched shape", func(t *testing.T) {
		req := newRequest(t, bapi.DefaultSettings(), "application/json", `{"name": 42}`)

		var v signup
		err := bapi.Bind(req, &v)
		assert.True(t, errors.Is(err, bapi.ErrParse))
		assert.Equal(t, bapi.CodeBadRequest, bapi.CodeOf(err))
	})

	t.Run("yaml", func(t *testing.T) {
		settings := bapi.DefaultSettings().WithParsers(bapi.YAMLParser{})

		var v signup
		req := newRequest(t, settings, "application/yaml", "1: a\nname: Ada\nemail: ada@example.com\n")
		require.NoError(t, bapi.Bind(req, &v))
		assert.Equal(t, signup{Name: "Ada", Email: "ada@example.com"}, v)

		err := bapi.Bind(newRequest(t, settings, "application/yaml", "name: .inf\n"), &v)
		assert.True(t, errors.Is(err, bapi.ErrParse))
		assert.Equal(t, bapi.CodeBadRequest, bapi.CodeOf(err))
	})

	t.Run("parse error is returned as is", func(t *testing.T) {
		req := newRequest(t, bapi.DefaultSettings(), "application/xml", `<a/>`)

		var v signup
		err := bapi.Bind(req, &v)
		assert.True(t, errors.Is(err, bapi.ErrUnsupportedMediaType))
	})

	t.Run("not a struct", func(t *testing.T) {
		req := newRequest(t, bapi.DefaultSettings(), "application/json", `{"a": 1}`)

		var v map[string]any
		err := bapi.Bind(req, &v)
		require.Error(t, err)
		assert.Equal(t, bapi.CodeUnknown, bapi.CodeOf(err))
	})
}
