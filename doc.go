// Package bapi provides content negotiating HTTP handling with lazily parsed request bodies and
// error-returning handlers.
//
// # Overview
//
// bapi extends the standard library's HTTP handling with three features: request bodies that are
// parsed on first access by the parser matching the Content-Type, responses that are rendered in
// the media type the client prefers through its Accept header, and handlers that return errors
// which are rendered the same way.
//
// A minimal example:
//
//	mux := bapi.NewServeMux()
//	mux.HandleFunc("POST /items", func(ctx context.Context, w bapi.ResponseWriter, r *bapi.Request) error {
//	    data, err := r.Data()
//	    if err != nil {
//	        return err
//	    }
//
//	    return bapi.Respond(w, r, http.StatusCreated, data)
//	}, "create-item")
//
// A JSON, url encoded or multipart body is accepted alike, and the response is JSON unless the
// client prefers HTML.
//
// # Handler Signature
//
// bapi handlers differ from standard http.Handlers in three ways:
//
//   - They receive the request context as the first argument
//   - They receive a [Request] that parses and negotiates
//   - They write to a [ResponseWriter] that buffers output and they return an error
//
// The handler signature is:
//
//	func(ctx context.Context, w bapi.ResponseWriter, r *bapi.Request) error
//
// # Request Bodies
//
// [Request.Data], [Request.Form] and [Request.Files] parse the body the first time any of them is
// called and never again. A request without a Content-Type or without a body yields empty values.
// When parsing fails the error is returned once, as an [*Error] carrying 415 (no parser for the
// Content-Type), 400 (malformed body) or 413 (body larger than [Settings.MaxBodyBytes]). After
// that the values are empty.
//
// [Bind] decodes the body into a struct and validates it with go-playground/validator "validate"
// tags, failing with 422 and [ErrValidation] when a rule is broken:
//
//	var in struct {
//	    Name string `json:"name" validate:"required"`
//	}
//	if err := bapi.Bind(r, &in); err != nil {
//	    return err
//	}
//
// # Rendering
//
// [Respond] selects a renderer with the Accept header and writes the rendered data with the
// renderer's media type as the Content-Type. Accept entries are considered from the highest quality
// down, and for each the first declared renderer that matches it wins. Media type parameters reach
// the renderer, so "application/json; indent=2" pretty-prints:
//
//	return bapi.Respond(w, r, http.StatusOK, item)
//
// Parsers, renderers and the [Negotiator] are configured with [Settings]. [DefaultSettings] parse
// JSON, url encoded and multipart bodies and render JSON and HTML. [YAMLParser], [YAMLRenderer] and
// [PlainTextRenderer] can be added. Routes can override them with [WithParsers] and [WithRenderers].
//
// # Buffered Response Writer
//
// The [ResponseWriter] interface extends http.ResponseWriter with buffering. All writes are held in
// memory until explicitly flushed or until the handler returns successfully, so the response can be
// replaced entirely when an error occurs.
//
// Key methods:
//   - [ResponseWriter.Reset] clears the buffer and headers for a fresh response
//   - [ResponseWriter.FlushBuffer] writes buffered content to the underlying writer
//   - [ResponseWriter.Free] returns the buffer to a pool (called automatically by the mux)
//
// # Error Handling
//
// When a handler returns an error that carries a [Code], the buffer is reset and the error is
// rendered as {"message": ...} with the negotiated renderer. If no renderer is acceptable the first
// configured one is used. Other errors are logged and turned into a plain 500 Internal Server Error.
//
//	return bapi.NewError(bapi.CodeNotFound, fmt.Errorf("item %s not found", id))
//
// The negotiation failures can be recognized with errors.Is against [ErrUnsupportedMediaType],
// [ErrNotAcceptable] and [ErrParse]. All standard HTTP 4xx and 5xx status codes are available as
// [Code] constants.
//
// # Middleware
//
// The [Middleware] type operates on [BareHandler], which receives the standard request before it is
// wrapped. Middleware only sees the errors that were not rendered:
//
//	func loggingMiddleware(next bapi.BareHandler) bapi.BareHandler {
//	    return bapi.BareHandlerFunc(func(w bapi.ResponseWriter, r *http.Request) error {
//	        start := time.Now()
//	        err := next.ServeBareBAPI(w, r)
//	        log.Printf("%s %s took %v", r.Method, r.URL.Path, time.Since(start))
//	        return err
//	    })
//	}
//
//	mux := bapi.NewServeMux()
//	mux.Use(loggingMiddleware)
//
// # Named Routes and URL Reversing
//
// Routes can be named for URL generation, avoiding hardcoded paths:
//
//	mux.HandleFunc("GET /users/{id}", getUser, "get-user")
//	url, err := mux.Reverse("get-user", "123") // returns "/users/123"
//
// # Converting to Standard Library
//
// bapi handlers can be converted to standard http.Handlers for use with any router or server:
//
//	bare := bapi.ToBare(bapi.HandlerFunc(myHandler), bapi.DefaultSettings(), logger)
//	stdHandler := bapi.ToStd(bare, bufferLimit, logger)
//
// The conversion chain is:
//
//	Handler → BareHandler → http.Handler
//
// [ToBare] wraps the request and renders coded errors, [ToStd] adds buffering and handles what is
// left. The bapp package builds a complete application around a [ServeMux].
package bapi
