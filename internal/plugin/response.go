package plugin

import (
	"bytes"
	"net/http"
)

// Response accumulates status, headers and body for one HTTP exchange.
// It implements http.ResponseWriter so callbacks can use the standard
// helpers, and Finish finalizes it into a wire-level triple.
type Response struct {
	status int
	header http.Header
	body   bytes.Buffer
}

// NewResponse creates an empty response accumulator.
func NewResponse() *Response {
	return &Response{header: http.Header{}}
}

// Header implements http.ResponseWriter.
func (w *Response) Header() http.Header {
	return w.header
}

// Write implements http.ResponseWriter.
func (w *Response) Write(p []byte) (int, error) {
	return w.body.Write(p)
}

// WriteHeader implements http.ResponseWriter. Only the first call takes
// effect.
func (w *Response) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

// Status returns the recorded status code, or 0 if none was set yet.
func (w *Response) Status() int {
	return w.status
}

// Body returns the accumulated body bytes.
func (w *Response) Body() []byte {
	return w.body.Bytes()
}

// Finish returns the (status, header, body) triple for the HTTP layer.
// Status defaults to 200 when the callback never set one.
func (w *Response) Finish() (int, http.Header, []byte) {
	status := w.status
	if status == 0 {
		status = http.StatusOK
	}
	return status, w.header, w.body.Bytes()
}
