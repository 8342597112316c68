package bapi

import (
	"net/http"

	"github.com/advdv/bapi/mediatype"
	"github.com/cockroachdb/errors"
)

// Respond renders data with the renderer negotiated for r and writes it with the given status. The
// Content-Type is the renderer's media type. A [ErrNotAcceptable] error carries a code, so returning it
// from a handler produces a 406 response.
func Respond(w ResponseWriter, r *Request, status int, data any) error {
	rend, mt, err := r.Negotiate()
	if err != nil {
		return err
	}

	return render(w, rend, mt, status, data)
}

func render(w http.ResponseWriter, rend Renderer, mt mediatype.MediaType, status int, data any) error {
	body, err := rend.Render(data, mt, RenderOptions{StatusCode: status})
	if err != nil {
		return errors.Wrapf(err, "render %s", rend.MediaType())
	}

	w.Header().Set("Content-Type", rend.MediaType().String())
	w.WriteHeader(status)

	if _, err := w.Write(body); err != nil {
		return errors.Wrap(err, "write rendered body")
	}

	return nil
}

// errorBody is the response body for errors that carry a code.
type errorBody struct {
	Message string `json:"message"`
}

func (b errorBody) String() string { return b.Message }

// handleError turns errors with a [Code] into a response with body {"message": ...}. Errors without a
// code, and errors on responses that were already flushed, are returned for the caller to handle.
func handleError(w ResponseWriter, r *Request, err error, logs Logger) error {
	apiErr, ok := asError(err)
	if !ok {
		return err
	}

	if rb, ok := w.(*ResponseBuffer); ok && rb.flushed {
		return err
	}

	logs.LogClientError(err)

	status := int(apiErr.Code())
	if status < 100 || status > 999 {
		status = http.StatusInternalServerError
	}

	w.Reset()

	rend, mt, nerr := r.Negotiate()
	if nerr != nil {
		if len(r.settings.Renderers) == 0 {
			http.Error(w, apiErr.Message(), status)
			return nil
		}

		rend = r.settings.Renderers[0]
		mt = rend.MediaType()
	}

	return render(w, rend, mt, status, errorBody{Message: apiErr.Message()})
}
