package bapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/advdv/bapi/mediatype"
	"github.com/cockroachdb/errors"
)

// maxIndent bounds the client controlled "indent" parameter.
const maxIndent = 8

// RenderOptions carry response details that renderers may use next to the data.
type RenderOptions struct {
	// StatusCode of the response being rendered.
	StatusCode int
	// Indent overrides the indentation requested through the media type, when positive.
	Indent int
}

// Renderer encodes response data into the media type it declares.
type Renderer interface {
	// MediaType is the type of the rendered output, it is also used as the response's Content-Type.
	MediaType() mediatype.MediaType
	// Render encodes data. The media type is the negotiated one and may carry parameters for the
	// renderer, unknown parameters are ignored.
	Render(data any, mt mediatype.MediaType, opts RenderOptions) ([]byte, error)
}

// BaseRenderer can be embedded by renderers to provide the media type. Its Render method fails with
// [ErrNotImplemented], it must be overridden by the embedding type.
type BaseRenderer struct {
	Name string
	Type mediatype.MediaType
}

func (r BaseRenderer) MediaType() mediatype.MediaType { return r.Type }

func (r BaseRenderer) Render(any, mediatype.MediaType, RenderOptions) ([]byte, error) {
	name := r.Name
	if name == "" {
		name = "BaseRenderer"
	}

	return nil, errors.Mark(
		errors.Newf("`Render()` method must be implemented for renderer %q", name), ErrNotImplemented)
}

// JSONRenderer renders "application/json". Without an "indent" parameter the output is compact with a
// single space after ':' and ','. A positive "indent" pretty-prints with that many spaces.
type JSONRenderer struct{}

func (JSONRenderer) MediaType() mediatype.MediaType { return jsonMediaType }

func (JSONRenderer) Render(data any, mt mediatype.MediaType, opts RenderOptions) ([]byte, error) {
	indent := 0
	if raw, ok := mt.Param("indent"); ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			indent = min(n, maxIndent)
		}
	}

	if opts.Indent > 0 {
		indent = min(opts.Indent, maxIndent)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(data); err != nil {
		return nil, errors.Wrap(err, "encode JSON")
	}

	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	if indent > 0 {
		return out, nil
	}

	return spaceSeparators(out), nil
}

// spaceSeparators adds a space after every ':' and ',' of compact JSON that is not inside a string.
func spaceSeparators(compact []byte) []byte {
	out := make([]byte, 0, len(compact)+len(compact)/8)

	var inString, escaped bool
	for _, c := range compact {
		out = append(out, c)

		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ':' || c == ','):
			out = append(out, ' ')
		}
	}

	return out
}

var plainTextMediaType = mediatype.MustParse("text/plain; charset=utf-8")

// PlainTextRenderer renders "text/plain". Strings and bytes are written as-is, other values are
// formatted with fmt.
type PlainTextRenderer struct{}

func (PlainTextRenderer) MediaType() mediatype.MediaType { return plainTextMediaType }

func (PlainTextRenderer) Render(data any, _ mediatype.MediaType, _ RenderOptions) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return []byte{}, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case error:
		return []byte(v.Error()), nil
	default:
		return fmt.Appendf(nil, "%v", v), nil
	}
}

var htmlMediaType = mediatype.MustParse("text/html; charset=utf-8")

var htmlPage = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Status}}</title></head>
<body>
<h1>{{.Status}}</h1>
<pre>{{.Body}}</pre>
</body>
</html>
`))

// HTMLRenderer renders "text/html". Strings and [template.HTML] are written verbatim, any other value
// is shown as indented JSON on a minimal page.
type HTMLRenderer struct{}

func (HTMLRenderer) MediaType() mediatype.MediaType { return htmlMediaType }

func (HTMLRenderer) Render(data any, _ mediatype.MediaType, opts RenderOptions) ([]byte, error) {
	switch v := data.(type) {
	case nil:
		return []byte{}, nil
	case string:
		return []byte(v), nil
	case template.HTML:
		return []byte(v), nil
	}

	body, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return nil, errors.Wrap(err, "encode JSON for HTML")
	}

	code := opts.StatusCode
	if code == 0 {
		code = http.StatusOK
	}

	var buf bytes.Buffer
	if err := htmlPage.Execute(&buf, struct {
		Status string
		Body   string
	}{fmt.Sprintf("%d %s", code, http.StatusText(code)), string(body)}); err != nil {
		return nil, errors.Wrap(err, "execute HTML template")
	}

	return buf.Bytes(), nil
}

var (
	_ Renderer = BaseRenderer{}
	_ Renderer = JSONRenderer{}
	_ Renderer = PlainTextRenderer{}
	_ Renderer = HTMLRenderer{}
)
