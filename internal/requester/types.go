package requester

import (
	"net/http"
)

// QueryStyle selects how a non-scalar query value is written.
type QueryStyle int

const (
	// QueryStyleDefault repeats the key for arrays and JSON-encodes objects.
	QueryStyleDefault QueryStyle = iota
	// QueryStyleRepeat writes one key=value pair per array element.
	QueryStyleRepeat
	// QueryStyleComma joins array elements with commas under a single key.
	QueryStyleComma
	// QueryStyleJSON writes an object as one JSON-encoded value.
	QueryStyleJSON
	// QueryStyleExplode writes each field of an object as its own parameter.
	QueryStyleExplode
)

// Descriptor declares one HTTP call. It is built per call by an endpoint
// function and is never modified by the dispatcher.
type Descriptor struct {
	// Path is a template such as /rest/agile/1.0/board/{boardId}.
	Path   string
	Method string

	// PathParams supplies a scalar for every {name} placeholder in Path.
	PathParams map[string]any

	// QueryParams maps names to scalars, slices or objects. Nil values and
	// nil pointers are left out.
	QueryParams map[string]any
	// QueryOptions is an optional struct encoded through its `url` tags.
	// Keys present in QueryParams take precedence.
	QueryOptions any
	// QueryStyles overrides the serialization of individual query params.
	QueryStyles map[string]QueryStyle

	// Body is sent verbatim when present.
	Body *Body
	// Headers are applied last and win over every default.
	Headers map[string]string

	// IsResponseAvailable is false for endpoints whose body carries nothing
	// the caller needs; the result value is then Void or the zero value.
	IsResponseAvailable bool
}

var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// Body is an already serialized request payload.
type Body struct {
	Data        []byte
	ContentType string
}

// FileUpload is one file part of a multipart body.
type FileUpload struct {
	FieldName string
	FileName  string
	Content   []byte
}
