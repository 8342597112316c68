package bapi

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"

	"github.com/advdv/bapi/mediatype"
	"github.com/cockroachdb/errors"
)

// Parser decodes request bodies of the media types it declares.
type Parser interface {
	// MediaType is the pattern that a request's Content-Type must satisfy for the parser to be selected.
	MediaType() mediatype.MediaType
	// HandlesFormData reports whether the parsed data doubles as the request's form.
	HandlesFormData() bool
	// HandlesFileUploads reports whether the parser produces [Files], it must then always set them.
	HandlesFileUploads() bool
	// Parse reads exactly contentLength bytes from body.
	Parse(body io.Reader, mt mediatype.MediaType, contentLength int64) (ParseResult, error)
}

// ParseResult is what a parser decoded from a body.
type ParseResult struct {
	Data  any
	Files Files
}

// File is an uploaded file part.
type File struct {
	Filename    string
	ContentType string
	Header      textproto.MIMEHeader
	Content     []byte
}

// Files holds uploaded files by form field name.
type Files map[string][]*File

// Get returns the first file uploaded under name, or nil.
func (f Files) Get(name string) *File {
	if fs := f[name]; len(fs) > 0 {
		return fs[0]
	}

	return nil
}

// Add appends a file under name.
func (f Files) Add(name string, file *File) {
	f[name] = append(f[name], file)
}

var (
	jsonMediaType       = mediatype.MustParse("application/json")
	urlEncodedMediaType = mediatype.MustParse("application/x-www-form-urlencoded")
	multiPartMediaType  = mediatype.MustParse("multipart/form-data")
)

// JSONParser decodes a single JSON document into generic values (map[string]any, []any, string,
// float64, bool or nil).
type JSONParser struct{}

func (JSONParser) MediaType() mediatype.MediaType { return jsonMediaType }
func (JSONParser) HandlesFormData() bool          { return false }
func (JSONParser) HandlesFileUploads() bool       { return false }

func (JSONParser) Parse(body io.Reader, _ mediatype.MediaType, contentLength int64) (ParseResult, error) {
	data, err := readBody(body, contentLength)
	if err != nil {
		return ParseResult{}, err
	}

	if len(data) == 0 {
		return ParseResult{}, parseError(errors.New("JSON parse error - empty body"))
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return ParseResult{}, parseError(errors.Wrap(err, "JSON parse error"))
	}

	return ParseResult{Data: v}, nil
}

// URLEncodedParser decodes "key=value&..." bodies into [url.Values]. Repeated keys accumulate.
type URLEncodedParser struct{}

func (URLEncodedParser) MediaType() mediatype.MediaType { return urlEncodedMediaType }
func (URLEncodedParser) HandlesFormData() bool          { return true }
func (URLEncodedParser) HandlesFileUploads() bool       { return false }

func (URLEncodedParser) Parse(body io.Reader, _ mediatype.MediaType, contentLength int64) (ParseResult, error) {
	data, err := readBody(body, contentLength)
	if err != nil {
		return ParseResult{}, err
	}

	vals, err := url.ParseQuery(string(data))
	if err != nil {
		return ParseResult{}, parseError(errors.Wrap(err, "URL encoded form parse error"))
	}

	return ParseResult{Data: vals}, nil
}

// MultiPartParser decodes multipart/form-data bodies. Field values become the data (as [url.Values]),
// parts with a filename become [Files].
type MultiPartParser struct{}

func (MultiPartParser) MediaType() mediatype.MediaType { return multiPartMediaType }
func (MultiPartParser) HandlesFormData() bool          { return true }
func (MultiPartParser) HandlesFileUploads() bool       { return true }

func (MultiPartParser) Parse(body io.Reader, mt mediatype.MediaType, contentLength int64) (ParseResult, error) {
	boundary, ok := mt.Param("boundary")
	if !ok || boundary == "" {
		return ParseResult{}, parseError(errors.New("multipart form parse error - missing boundary"))
	}

	var (
		rdr    = multipart.NewReader(io.LimitReader(body, contentLength), boundary)
		fields = url.Values{}
		files  = Files{}
	)

	for {
		part, err := rdr.NextPart()
		if err == io.EOF { //nolint:errorlint // a truncated body wraps io.EOF, only the bare value ends the form
			break
		}

		if err != nil {
			return ParseResult{}, parseError(errors.Wrap(err, "multipart form parse error"))
		}

		content, err := io.ReadAll(part)
		_ = part.Close()

		if err != nil {
			return ParseResult{}, parseError(errors.Wrapf(err, "multipart form parse error - part %q", part.FormName()))
		}

		name := part.FormName()
		if name == "" {
			continue
		}

		if filename := part.FileName(); filename != "" {
			files.Add(name, &File{
				Filename:    filename,
				ContentType: part.Header.Get("Content-Type"),
				Header:      part.Header,
				Content:     content,
			})

			continue
		}

		fields.Add(name, string(content))
	}

	return ParseResult{Data: fields, Files: files}, nil
}

// readBody reads the declared number of bytes, a shorter body is a parse error.
func readBody(body io.Reader, contentLength int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, contentLength))
	if err != nil {
		return nil, parseError(errors.Wrap(err, "read body"))
	}

	if int64(len(data)) != contentLength {
		return nil, parseError(errors.Newf("body has %d bytes, declared content length is %d", len(data), contentLength))
	}

	return data, nil
}
