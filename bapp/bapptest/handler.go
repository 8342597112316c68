package bapptest

import (
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/advdv/bapi"
)

// CallHandler invokes a [bapi.HandlerFunc] with the default negotiation settings and returns the
// recorded response. Errors that carry a code are rendered like the app would. Any other error
// panics, as does a failure to flush the buffered response.
func CallHandler(handler bapi.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	return CallHandlerWith(handler, bapi.DefaultSettings(), req)
}

// CallHandlerWith is [CallHandler] with the given negotiation settings.
func CallHandlerWith(handler bapi.HandlerFunc, settings bapi.Settings, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	w := bapi.NewResponseWriter(rec, -1)

	bare := bapi.ToBare(handler, settings, bapi.NewStdLogger(log.Default()))
	if err := bare.ServeBareBAPI(w, req); err != nil {
		panic("bapptest: handler returned error: " + err.Error())
	}

	if err := w.FlushBuffer(); err != nil {
		panic("bapptest: FlushBuffer failed: " + err.Error())
	}

	return rec
}
