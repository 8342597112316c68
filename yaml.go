package bapi

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/advdv/bapi/mediatype"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const defaultYAMLIndent = 2

var yamlMediaType = mediatype.MustParse("application/yaml")

// YAMLParser decodes a single YAML document into generic values. Mapping keys are always strings.
type YAMLParser struct{}

func (YAMLParser) MediaType() mediatype.MediaType { return yamlMediaType }
func (YAMLParser) HandlesFormData() bool          { return false }
func (YAMLParser) HandlesFileUploads() bool       { return false }

func (YAMLParser) Parse(body io.Reader, _ mediatype.MediaType, contentLength int64) (ParseResult, error) {
	data, err := readBody(body, contentLength)
	if err != nil {
		return ParseResult{}, err
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return ParseResult{}, parseError(errors.Wrap(err, "YAML parse error"))
	}

	if v == nil {
		return ParseResult{}, parseError(errors.New("YAML parse error - empty document"))
	}

	return ParseResult{Data: stringKeys(v)}, nil
}

// stringKeys converts mappings with non-string keys, such as "1: a", into map[string]any so the
// data can be rendered as JSON.
func stringKeys(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = stringKeys(e)
		}

		return v
	case map[any]any:
		return lo.MapEntries(v, func(k, e any) (string, any) {
			return fmt.Sprint(k), stringKeys(e)
		})
	case []any:
		for i, e := range v {
			v[i] = stringKeys(e)
		}

		return v
	default:
		return v
	}
}

// YAMLRenderer renders "application/yaml" with two space indentation, or the positive "indent"
// parameter.
type YAMLRenderer struct{}

func (YAMLRenderer) MediaType() mediatype.MediaType { return yamlMediaType }

func (YAMLRenderer) Render(data any, mt mediatype.MediaType, opts RenderOptions) ([]byte, error) {
	indent := defaultYAMLIndent
	if raw, ok := mt.Param("indent"); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			indent = min(n, maxIndent)
		}
	}

	if opts.Indent > 0 {
		indent = min(opts.Indent, maxIndent)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)

	if err := enc.Encode(data); err != nil {
		return nil, errors.Wrap(err, "encode YAML")
	}

	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode YAML")
	}

	return buf.Bytes(), nil
}

var (
	_ Parser   = YAMLParser{}
	_ Renderer = YAMLRenderer{}
)
