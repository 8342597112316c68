package bapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func BenchmarkResponseBuffer(b *testing.B) {
	body := make([]byte, 16*1024)
	b.ReportAllocs()

	for range b.N {
		rb := newBufferResponse(httptest.NewRecorder(), -1)
		if _, err := rb.Write(body); err != nil {
			b.Fatal(err)
		}

		if err := rb.FlushBuffer(); err != nil {
			b.Fatal(err)
		}

		rb.Free()
	}
}

// TestBufferParity runs each handler against a plain recorder and through a ResponseBuffer. What the
// client observes must be the same.
func TestBufferParity(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"nothing written": func(http.ResponseWriter, *http.Request) {},
		"body only": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("X-Kind", "body")
			fmt.Fprint(w, "hello")
		},
		"status only": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		},
		"second status ignored": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, "made")
			w.WriteHeader(http.StatusAccepted)
		},
		"headers only": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("X-Kind", "headers")
		},
		"explicit flush": func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("X-Kind", "flushed")
			fmt.Fprint(w, "part1")
			assert.NoError(t, http.NewResponseController(w).Flush())
			fmt.Fprint(w, "part2")
		},
	} {
		t.Run(name, func(t *testing.T) {
			direct := httptest.NewRecorder()
			handler(direct, httptest.NewRequest(http.MethodGet, "/", nil))

			buffered := httptest.NewRecorder()
			rb := newBufferResponse(buffered, 64)
			handler(rb, httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, rb.FlushBuffer())
			rb.Free()

			exp, act := direct.Result(), buffered.Result()
			require.Equal(t, exp.StatusCode, act.StatusCode)
			require.Equal(t, exp.Header.Get("X-Kind"), act.Header.Get("X-Kind"))
			require.Equal(t, direct.Body.String(), buffered.Body.String())
		})
	}
}

func TestBufferLimit(t *testing.T) {
	for _, tt := range []struct {
		name   string
		limit  int
		writes []string
		expErr bool
	}{
		{name: "exactly at limit", limit: 2, writes: []string{"a", "b"}},
		{name: "one past limit", limit: 1, writes: []string{"a", "b"}, expErr: true},
		{name: "single write past limit", limit: 1, writes: []string{"ab"}, expErr: true},
		{name: "unlimited", limit: -1, writes: []string{"abc", "def"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			rb := newBufferResponse(rec, tt.limit)

			var err error
			for _, s := range tt.writes {
				if _, err = rb.Write([]byte(s)); err != nil {
					break
				}
			}

			if tt.expErr {
				require.ErrorIs(t, err, ErrBufferFull)
			} else {
				require.NoError(t, err)
			}

			assert.Zero(t, rec.Body.Len(), "nothing reaches the client before a flush")
		})
	}

	t.Run("limit applies between flushes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rb := newBufferResponse(rec, 2)

		for range 3 {
			_, err := rb.Write([]byte("ab"))
			require.NoError(t, err)
			require.NoError(t, rb.FlushError())
		}

		assert.Equal(t, "ababab", rec.Body.String())
	})

	t.Run("limit applies after reset", func(t *testing.T) {
		rec := httptest.NewRecorder()
		rb := newBufferResponse(rec, 2)

		for range 3 {
			rb.Reset()
			_, err := rb.Write([]byte("ab"))
			require.NoError(t, err)
		}

		require.NoError(t, rb.FlushBuffer())
		assert.Equal(t, "ab", rec.Body.String())
	})
}

func TestBufferReset(t *testing.T) {
	rec := httptest.NewRecorder()
	rb := newBufferResponse(rec, -1)

	rb.Header().Set("X-Old", "1")
	rb.WriteHeader(http.StatusCreated)
	fmt.Fprint(rb, "old")

	rb.Reset()
	require.NoError(t, rb.FlushBuffer(), "a reset response flushes as an empty 200")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Old"))
	assert.Empty(t, rec.Body.String())

	rec = httptest.NewRecorder()
	rb = newBufferResponse(rec, -1)
	rb.Header().Set("X-Old", "1")
	rb.WriteHeader(http.StatusCreated)
	fmt.Fprint(rb, "old")
	rb.Reset()
	rb.Header().Set("X-New", "1")
	rb.WriteHeader(http.StatusAccepted)
	fmt.Fprint(rb, "new")

	require.NoError(t, rb.FlushError())
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-New"))
	assert.Empty(t, rec.Header().Get("X-Old"))
	assert.Equal(t, "new", rec.Body.String())

	require.PanicsWithValue(t, "bapi: cannot reset response, it has already flushed", rb.Reset)
}

func TestBufferFlushAndFree(t *testing.T) {
	rec := httptest.NewRecorder()
	rb := newBufferResponse(rec, -1)
	require.Same(t, rec, rb.Unwrap())

	rb.Free()
	rb.Free()

	rb = newBufferResponse(failingResponseWriter{httptest.NewRecorder()}, -1)
	fmt.Fprint(rb, "foo")
	require.ErrorContains(t, rb.FlushError(), "write buffer: write fail")
}

type failingResponseWriter struct {
	http.ResponseWriter
}

func (f failingResponseWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write fail")
}

func TestHandleErrorAfterExplicitFlush(t *testing.T) {
	logs := NewTestLogger(t)
	rec := httptest.NewRecorder()
	resp := newBufferResponse(rec, -1)
	req := NewRequest(httptest.NewRequest(http.MethodGet, "/", nil), DefaultSettings())

	fmt.Fprint(resp, "partial")
	require.NoError(t, http.NewResponseController(resp).Flush())

	err := NewError(CodeBadRequest, errors.New("too late"))
	require.Equal(t, err, handleError(resp, req, err, logs), "error must be passed on")
	require.Equal(t, int64(0), logs.NumLogClientError)
	assert.Equal(t, "partial", rec.Body.String())
}

func TestHandleErrorUnknownCode(t *testing.T) {
	logs := NewTestLogger(t)
	rec := httptest.NewRecorder()
	resp := newBufferResponse(rec, -1)
	req := NewRequest(httptest.NewRequest(http.MethodGet, "/", nil), DefaultSettings())

	require.NoError(t, handleError(resp, req, NewError(CodeUnknown, errors.New("no code")), logs))
	require.NoError(t, resp.FlushBuffer())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message": "no code"}`, rec.Body.String())
}

func TestHandleErrorWithoutRenderers(t *testing.T) {
	logs := NewTestLogger(t)
	rec := httptest.NewRecorder()
	resp := newBufferResponse(rec, -1)
	req := NewRequest(httptest.NewRequest(http.MethodGet, "/", nil), DefaultSettings().WithRenderers())

	require.NoError(t, handleError(resp, req, NewError(CodeConflict, errors.New("taken")), logs))
	require.NoError(t, resp.FlushBuffer())
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "taken\n", rec.Body.String())
	assert.Equal(t, int64(1), logs.NumLogClientError)
}
