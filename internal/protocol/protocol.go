package protocol

import (
	"net/http"
	"time"
)

// Request is a fully parsed request ready to be sent.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    Body
}

// Response is the result of a completed request.
type Response struct {
	StatusCode  int
	Status      string
	Headers     http.Header
	Body        []byte
	ContentType string
	Elapsed     time.Duration
	Size        int64
	Proto       string
}

// Text returns the response body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}
