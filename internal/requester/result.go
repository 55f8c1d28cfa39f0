package requester

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorKind classifies why a dispatch did not produce a value.
type ErrorKind string

const (
	// KindMalformedRequest means the descriptor was invalid; nothing was sent.
	KindMalformedRequest ErrorKind = "malformed_request"
	// KindTransportFailure means no status code was obtained (DNS, refused, timeout, cancel).
	KindTransportFailure ErrorKind = "transport_failure"
	// KindRemoteRejected means Jira answered with a non-2xx status.
	KindRemoteRejected ErrorKind = "remote_rejected"
	// KindDecodeFailure means a 2xx body could not be parsed per its content type.
	KindDecodeFailure ErrorKind = "decode_failure"
)

// Sentinels matched by errors.Is against an *ErrorDetail of the same kind.
var (
	ErrMalformedRequest = errors.New("malformed request")
	ErrTransportFailure = errors.New("transport failure")
	ErrRemoteRejected   = errors.New("remote rejected request")
	ErrDecodeFailure    = errors.New("decode failure")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMalformedRequest:
		return ErrMalformedRequest
	case KindTransportFailure:
		return ErrTransportFailure
	case KindRemoteRejected:
		return ErrRemoteRejected
	case KindDecodeFailure:
		return ErrDecodeFailure
	default:
		return nil
	}
}

// RemoteError is the structured error payload Jira returns with a rejection.
type RemoteError struct {
	// ErrorMessages holds the top level messages ("errorMessages", "errorMessage", "message").
	ErrorMessages []string
	// Errors maps field names to validation messages.
	Errors map[string]string
	// Payload is the body parsed as generic JSON, nil when the body was not JSON.
	Payload any
	// Raw is the body exactly as received.
	Raw []byte
}

// ErrorDetail describes a failed dispatch. It is an error, so callers can
// return it directly or inspect it with errors.Is / errors.As.
type ErrorDetail struct {
	Kind    ErrorKind
	Status  int
	Remote  *RemoteError
	Message string
	Cause   error
}

func (e *ErrorDetail) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ErrorDetail) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's kind.
func (e *ErrorDetail) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// Malformed reports an invalid descriptor or call argument.
func Malformed(format string, args ...any) *ErrorDetail {
	return &ErrorDetail{Kind: KindMalformedRequest, Message: fmt.Sprintf(format, args...)}
}

// Void is the value type of endpoints whose response body is not meaningful.
type Void struct{}

// Result is the outcome of one dispatch. Exactly one of Value (OK) or Err is meaningful.
type Result[T any] struct {
	OK      bool
	Value   T
	Status  int
	Headers http.Header
	Err     *ErrorDetail
}

// Unwrap returns the value, or the error detail as an error.
func (r *Result[T]) Unwrap() (T, error) {
	if r.OK {
		return r.Value, nil
	}
	var zero T
	if r.Err == nil {
		return zero, &ErrorDetail{Kind: KindTransportFailure, Message: "result has no outcome"}
	}
	return zero, r.Err
}

func failed[T any](status int, headers http.Header, detail *ErrorDetail) *Result[T] {
	return &Result[T]{Status: status, Headers: headers, Err: detail}
}

// parseRemoteError extracts Jira's error payload. The body is kept even
// when it is not JSON.
func parseRemoteError(body []byte) *RemoteError {
	remote := &RemoteError{Raw: body}
	if len(body) == 0 {
		return remote
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return remote
	}
	remote.Payload = payload

	obj, ok := payload.(map[string]any)
	if !ok {
		return remote
	}

	if list, ok := obj["errorMessages"].([]any); ok {
		for _, item := range list {
			if msg, ok := item.(string); ok && msg != "" {
				remote.ErrorMessages = append(remote.ErrorMessages, msg)
			}
		}
	}
	for _, key := range []string{"errorMessage", "message"} {
		if msg, ok := obj[key].(string); ok && msg != "" {
			remote.ErrorMessages = append(remote.ErrorMessages, msg)
		}
	}

	if fields, ok := obj["errors"].(map[string]any); ok && len(fields) > 0 {
		remote.Errors = make(map[string]string, len(fields))
		for field, value := range fields {
			if msg, ok := value.(string); ok {
				remote.Errors[field] = msg
			} else {
				remote.Errors[field] = fmt.Sprint(value)
			}
		}
	}
	return remote
}

// Summary renders the messages as one line.
func (r *RemoteError) Summary() string {
	if r == nil {
		return ""
	}
	parts := append([]string(nil), r.ErrorMessages...)

	fields := make([]string, 0, len(r.Errors))
	for field := range r.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		parts = append(parts, field+": "+r.Errors[field])
	}
	return strings.Join(parts, "; ")
}

func rejected(resp *Response) *ErrorDetail {
	remote := parseRemoteError(resp.Body)
	msg := remote.Summary()
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &ErrorDetail{
		Kind:    KindRemoteRejected,
		Status:  resp.StatusCode,
		Remote:  remote,
		Message: msg,
	}
}
