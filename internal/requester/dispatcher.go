package requester

import (
	"context"
	"net/http"
	"time"

	"github.com/brizzai/auto-jira/internal/logger"
	nanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// Dispatcher executes descriptors against a Transport. It holds no state
// that changes between calls, so one Dispatcher serves concurrent callers.
type Dispatcher struct {
	transport Transport
	decoders  *Decoders
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithDecoder registers a decode strategy for a response media type.
func WithDecoder(mediaType string, fn DecodeFunc) Option {
	return func(d *Dispatcher) {
		d.decoders = d.decoders.With(mediaType, fn)
	}
}

// NewDispatcher creates a Dispatcher on top of transport.
func NewDispatcher(transport Transport, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transport: transport,
		decoders:  NewDecoders(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes desc and decodes the outcome into a Result[T].
//
// The returned error is non-nil only for malformed descriptors, which are
// rejected before any I/O. Transport failures, non-2xx statuses and
// undecodable bodies are reported through Result.Err. ctx cancels the call.
func Dispatch[T any](ctx context.Context, d *Dispatcher, desc *Descriptor) (*Result[T], error) {
	req, err := BuildRequest(desc)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	log := logger.With(
		zap.String("request_id", requestID()),
		zap.String("method", req.Method),
		zap.String("url", req.URL),
	)
	log.Debug("dispatching request")

	resp, err := d.transport.Execute(ctx, req)
	if err != nil {
		log.Warn("request failed",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return failed[T](0, nil, &ErrorDetail{
			Kind:    KindTransportFailure,
			Message: "no response from Jira",
			Cause:   err,
		}), nil
	}

	log.Debug("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	return normalize[T](d.decoders, resp, desc.IsResponseAvailable), nil
}

// requestID correlates the log lines of one dispatch.
func requestID() string {
	id, err := nanoid.Generate("0123456789abcdefghijklmnopqrstuvwxyz", 12)
	if err != nil {
		return "unknown"
	}
	return id
}

// emptyBodyAllowed reports whether a successful response may carry no body:
// 204 and 205 never have one, and an untyped empty body declares nothing to
// decode. An empty body under a declared content type goes to the decoder.
func emptyBodyAllowed(resp *Response) bool {
	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusResetContent:
		return true
	}
	return resp.Headers.Get("Content-Type") == ""
}

// normalize maps a transport response to a result.
func normalize[T any](decoders *Decoders, resp *Response, responseAvailable bool) *Result[T] {
	if !resp.successful() {
		return failed[T](resp.StatusCode, resp.Headers, rejected(resp))
	}

	result := &Result[T]{OK: true, Status: resp.StatusCode, Headers: resp.Headers}
	if !responseAvailable || (len(resp.Body) == 0 && emptyBodyAllowed(resp)) {
		return result
	}

	contentType := resp.Headers.Get("Content-Type")
	if contentType == "" {
		contentType = "untyped"
	}
	decode := decoders.Lookup(resp.Headers.Get("Content-Type"))
	if err := decode(resp.Body, &result.Value); err != nil {
		return failed[T](resp.StatusCode, resp.Headers, &ErrorDetail{
			Kind:    KindDecodeFailure,
			Status:  resp.StatusCode,
			Message: "cannot decode " + contentType + " response",
			Cause:   err,
		})
	}
	return result
}
