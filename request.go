package bapi

import (
	"net/http"
	"net/url"

	"github.com/advdv/bapi/mediatype"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type bodyState int

const (
	bodyUnparsed bodyState = iota
	bodyEmpty
	bodyParsed
)

// Request wraps the standard library request with lazy body parsing and response negotiation. The body
// is parsed on first access of [Request.Data], [Request.Form] or [Request.Files] and at most once. A
// Request is owned by the goroutine serving it and must not be shared.
type Request struct {
	*http.Request

	settings Settings
	state    bodyState
	data     any
	form     url.Values
	files    Files
}

// NewRequest wraps r. The settings are copied, later changes to the caller's value are not observed.
func NewRequest(r *http.Request, settings Settings) *Request {
	return &Request{Request: r, settings: settings}
}

// Settings returns the settings the request negotiates with.
func (r *Request) Settings() Settings { return r.settings }

// withSettings replaces the settings. It only affects parsing when the body was not accessed yet.
func (r *Request) withSettings(s Settings) *Request {
	r.settings = s
	return r
}

// Data returns the parsed body. Without a Content-Type or body it is an empty [url.Values]. When parsing
// fails the error is returned once, from then on the data is empty and no error is returned.
func (r *Request) Data() (any, error) {
	if err := r.parse(); err != nil {
		return r.data, err
	}

	return r.data, nil
}

// Form returns the form values when the body was parsed by a form handling parser, it is empty otherwise.
func (r *Request) Form() (url.Values, error) {
	if err := r.parse(); err != nil {
		return r.form, err
	}

	return r.form, nil
}

// Files returns the uploaded files when the body was parsed by a parser that handles uploads, it is empty
// otherwise.
func (r *Request) Files() (Files, error) {
	if err := r.parse(); err != nil {
		return r.files, err
	}

	return r.files, nil
}

// Negotiate selects the renderer for the response based on the Accept header.
func (r *Request) Negotiate() (Renderer, mediatype.MediaType, error) {
	return r.settings.negotiator().SelectRenderer(r.settings.Renderers, r.Header.Get("Accept"))
}

func (r *Request) parse() error {
	if r.state != bodyUnparsed {
		return nil
	}

	if err := r.parseBody(); err != nil {
		r.setEmpty()
		return err
	}

	return nil
}

func (r *Request) setEmpty() {
	r.state = bodyEmpty
	r.data, r.form, r.files = url.Values{}, url.Values{}, Files{}
}

func (r *Request) parseBody() error {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" || r.ContentLength <= 0 {
		r.setEmpty()
		return nil
	}

	if limit := r.settings.MaxBodyBytes; limit > 0 && r.ContentLength > limit {
		return NewError(CodeRequestEntityTooLarge,
			errors.Newf("request body of %d bytes exceeds the limit of %d bytes", r.ContentLength, limit))
	}

	parser, mt, err := r.settings.negotiator().SelectParser(r.settings.Parsers, contentType)
	if err != nil {
		return err
	}

	trace.SpanFromContext(r.Context()).SetAttributes(
		attribute.String("bapi.parser.media_type", parser.MediaType().FullType()))

	res, err := parser.Parse(r.Body, mt, r.ContentLength)
	if err != nil {
		return err
	}

	form, files := url.Values{}, Files{}
	if parser.HandlesFormData() {
		vals, ok := res.Data.(url.Values)
		if !ok {
			return errors.AssertionFailedf("parser for %s handles form data but produced %T", parser.MediaType(), res.Data)
		}

		form = vals
	}

	if parser.HandlesFileUploads() {
		if res.Files == nil {
			return errors.AssertionFailedf("parser for %s handles file uploads but produced no files", parser.MediaType())
		}

		files = res.Files
	}

	r.state = bodyParsed
	r.data, r.form, r.files = res.Data, form, files

	return nil
}
