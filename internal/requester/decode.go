package requester

import (
	"encoding/json"
	"fmt"
	"mime"
	"strings"
)

// DecodeFunc parses a response body into out, which is always a non-nil pointer.
type DecodeFunc func(data []byte, out any) error

// Decoders maps response media types to decode functions. It is read-only
// once built and safe for concurrent use.
type Decoders struct {
	byType   map[string]DecodeFunc
	fallback DecodeFunc
}

// NewDecoders returns the built-in strategies: JSON for application/json and
// +json types, pass-through for text/* and everything else.
func NewDecoders() *Decoders {
	return &Decoders{
		byType: map[string]DecodeFunc{
			"application/json": DecodeJSON,
			"text/*":           DecodePassThrough,
		},
		fallback: DecodePassThrough,
	}
}

// With returns a copy of d with fn registered for mediaType. A mediaType of
// the form "type/*" matches every subtype.
func (d *Decoders) With(mediaType string, fn DecodeFunc) *Decoders {
	next := &Decoders{
		byType:   make(map[string]DecodeFunc, len(d.byType)+1),
		fallback: d.fallback,
	}
	for k, v := range d.byType {
		next.byType[k] = v
	}
	next.byType[strings.ToLower(mediaType)] = fn
	return next
}

// Lookup picks the strategy for a Content-Type header value. An empty
// content type is treated as JSON, which is what Jira omits it for.
func (d *Decoders) Lookup(contentType string) DecodeFunc {
	if strings.TrimSpace(contentType) == "" {
		return d.byType["application/json"]
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	}

	if fn, ok := d.byType[mediaType]; ok {
		return fn
	}
	if strings.HasSuffix(mediaType, "+json") {
		return d.byType["application/json"]
	}
	if major, _, ok := strings.Cut(mediaType, "/"); ok {
		if fn, ok := d.byType[major+"/*"]; ok {
			return fn
		}
	}
	return d.fallback
}

// DecodeJSON unmarshals JSON into out.
func DecodeJSON(data []byte, out any) error {
	return json.Unmarshal(data, out)
}

// DecodePassThrough hands the body over unchanged as a string or byte slice.
func DecodePassThrough(data []byte, out any) error {
	switch target := out.(type) {
	case *string:
		*target = string(data)
	case *[]byte:
		*target = append([]byte(nil), data...)
	case *any:
		*target = string(data)
	case *json.RawMessage:
		if !json.Valid(data) {
			return fmt.Errorf("body is not valid JSON")
		}
		*target = append(json.RawMessage(nil), data...)
	default:
		return fmt.Errorf("cannot pass through body into %T", out)
	}
	return nil
}
