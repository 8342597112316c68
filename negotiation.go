package bapi

import (
	"github.com/advdv/bapi/mediatype"
)

// Negotiator selects the parser for a request body and the renderer for a response.
type Negotiator interface {
	SelectParser(available []Parser, contentType string) (Parser, mediatype.MediaType, error)
	SelectRenderer(available []Renderer, accept string) (Renderer, mediatype.MediaType, error)
}

// DefaultNegotiator negotiates with [SelectParser] and [SelectRenderer].
type DefaultNegotiator struct{}

func (DefaultNegotiator) SelectParser(available []Parser, contentType string) (Parser, mediatype.MediaType, error) {
	return SelectParser(available, contentType)
}

func (DefaultNegotiator) SelectRenderer(available []Renderer, accept string) (Renderer, mediatype.MediaType, error) {
	return SelectRenderer(available, accept)
}

// SelectParser returns the first parser, in declared order, whose media type the Content-Type header
// satisfies, together with the request's parsed media type (so parameters like the multipart boundary
// reach the parser). A malformed header or no match fails with [ErrUnsupportedMediaType].
func SelectParser(available []Parser, contentType string) (Parser, mediatype.MediaType, error) {
	client, err := mediatype.Parse(contentType)
	if err != nil {
		return nil, mediatype.MediaType{}, unsupportedMediaType(contentType)
	}

	for _, p := range available {
		if client.Match(p.MediaType()) {
			return p, client, nil
		}
	}

	return nil, mediatype.MediaType{}, unsupportedMediaType(contentType)
}

// SelectRenderer picks the renderer for an Accept header. Accept entries are tried in order of
// descending quality (header order for equal quality) and for each entry the renderers in declared order;
// the first pair where either side satisfies the other wins. The returned media type is the more
// specific of the two, so parameters from the Accept entry (e.g. "indent") reach the renderer. An empty
// header counts as "*/*". When nothing matches it fails with [ErrNotAcceptable].
func SelectRenderer(available []Renderer, accept string) (Renderer, mediatype.MediaType, error) {
	for _, client := range mediatype.ParseAccept(accept) {
		for _, r := range available {
			server := r.MediaType()
			if !server.Match(client) && !client.Match(server) {
				continue
			}

			if server.Specificity() > client.Specificity() {
				return r, server, nil
			}

			return r, client, nil
		}
	}

	return nil, mediatype.MediaType{}, notAcceptable()
}
