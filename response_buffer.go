package bapi

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/cockroachdb/errors"
)

// ErrBufferFull is returned when a write would grow the response buffer past its limit.
var ErrBufferFull = errors.New("buffer is full")

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// ResponseBuffer is a [ResponseWriter] that holds the status, headers and body in memory until it is
// flushed. Until the first flush everything can be discarded with [ResponseBuffer.Reset].
type ResponseBuffer struct {
	resp        http.ResponseWriter
	header      http.Header
	buf         *bytes.Buffer
	limit       int
	status      int
	wroteHeader bool // status and headers were sent to resp
	flushed     bool // explicitly flushed, no more resetting
}

// NewResponseWriter wraps resp in a buffered response writer. Writes beyond 'limit' bytes (between
// flushes) fail with [ErrBufferFull], a negative limit disables the check.
func NewResponseWriter(resp http.ResponseWriter, limit int) ResponseWriter {
	return newBufferResponse(resp, limit)
}

func newBufferResponse(resp http.ResponseWriter, limit int) *ResponseBuffer {
	buf, _ := bufPool.Get().(*bytes.Buffer)
	buf.Reset()

	return &ResponseBuffer{
		resp:   resp,
		header: http.Header{},
		buf:    buf,
		limit:  limit,
	}
}

// Header returns the buffered header map.
func (w *ResponseBuffer) Header() http.Header { return w.header }

// WriteHeader records the status code. Like the standard library only the first call counts.
func (w *ResponseBuffer) WriteHeader(statusCode int) {
	if w.status != 0 {
		return
	}

	w.status = statusCode
}

// Write appends to the buffer.
func (w *ResponseBuffer) Write(p []byte) (int, error) {
	if w.limit >= 0 && w.buf.Len()+len(p) > w.limit {
		return 0, ErrBufferFull
	}

	if w.status == 0 {
		w.status = http.StatusOK
	}

	return w.buf.Write(p)
}

// Reset discards the buffered status, headers and body. It panics when the response was already flushed
// explicitly since that part has been sent to the client.
func (w *ResponseBuffer) Reset() {
	if w.flushed {
		panic("bapi: cannot reset response, it has already flushed")
	}

	w.buf.Reset()
	w.header = http.Header{}
	w.status = 0
}

// FlushBuffer writes the buffered response to the underlying writer.
func (w *ResponseBuffer) FlushBuffer() error {
	if !w.wroteHeader {
		dst := w.resp.Header()
		for k, v := range w.header {
			dst[k] = v
		}

		if w.status == 0 {
			w.status = http.StatusOK
		}

		w.resp.WriteHeader(w.status)
		w.wroteHeader = true
	}

	if w.buf.Len() == 0 {
		return nil
	}

	_, err := w.resp.Write(w.buf.Bytes())
	w.buf.Reset()
	if err != nil {
		return errors.Wrap(err, "write buffer")
	}

	return nil
}

// FlushError flushes the buffer and then the underlying writer. It is called by
// [http.ResponseController.Flush]. After an explicit flush the response can no longer be reset.
func (w *ResponseBuffer) FlushError() error {
	w.flushed = true

	if err := w.FlushBuffer(); err != nil {
		return err
	}

	if err := http.NewResponseController(w.resp).Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return errors.Wrap(err, "flush underlying")
	}

	return nil
}

// Unwrap returns the underlying response writer, for [http.ResponseController].
func (w *ResponseBuffer) Unwrap() http.ResponseWriter { return w.resp }

// Free returns the buffer to the pool. The writer must not be used afterwards.
func (w *ResponseBuffer) Free() {
	if w.buf == nil {
		return
	}

	bufPool.Put(w.buf)
	w.buf = nil
}

var _ ResponseWriter = &ResponseBuffer{}
