package requester

import (
	"context"
	"net/http"
)

// Transport executes a fully formed request and reports what came back.
// A non-nil error means no status code was obtained.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*Response, error)
}

// Request is the transport-level form of a descriptor.
type Request struct {
	Method string
	// URL is the resolved path plus query string, relative to the transport's base.
	URL     string
	Headers http.Header
	Body    []byte
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

func (r *Response) successful() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
