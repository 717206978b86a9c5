package request

import (
	"errors"
	"net/http"
)

// ErrInternalServer is the message returned to clients when a handler fails unexpectedly.
var ErrInternalServer = errors.New("internal server error")

// ClientWriter is a http.ResponseWriter that records the status code written to it.
type ClientWriter struct {
	http.ResponseWriter

	statusCode int
}

// NewClientWriter wraps w.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (c *ClientWriter) WriteHeader(code int) {
	c.statusCode = code
	c.ResponseWriter.WriteHeader(code)
}

// StatusCode returns the status code written, or 200 if none was written explicitly.
func (c *ClientWriter) StatusCode() int {
	return c.statusCode
}
