package catalog

import (
	"fmt"
	"strings"

	"github.com/brizzai/auto-jira/internal/requester"
)

// Descriptor classifies named call arguments by the role each parameter
// declares and returns the descriptor for one call. The "body" argument
// becomes the request body (see BodyArgName). Arguments the route does not declare are ignored.
func (r *Route) Descriptor(args map[string]any) (*requester.Descriptor, error) {
	desc := &requester.Descriptor{
		Path:                r.Path,
		Method:              r.Method,
		IsResponseAvailable: r.ResponseAvailable,
	}

	for _, p := range r.Params {
		value, ok := args[p.Name]
		if !ok || value == nil {
			if p.Required {
				return nil, requester.Malformed("%s: missing required %s parameter %q", r.OperationID, p.In, p.Name)
			}
			continue
		}

		switch p.In {
		case InPath:
			if desc.PathParams == nil {
				desc.PathParams = make(map[string]any)
			}
			desc.PathParams[p.Name] = value
		case InQuery:
			if desc.QueryParams == nil {
				desc.QueryParams = make(map[string]any)
			}
			desc.QueryParams[p.Name] = value
			if p.Style != requester.QueryStyleDefault {
				if desc.QueryStyles == nil {
					desc.QueryStyles = make(map[string]requester.QueryStyle)
				}
				desc.QueryStyles[p.Name] = p.Style
			}
		case InHeader:
			if desc.Headers == nil {
				desc.Headers = make(map[string]string)
			}
			desc.Headers[p.Name] = fmt.Sprint(value)
		}
	}

	body, hasBody := args[r.BodyArgName()]
	switch {
	case hasBody && body != nil && !r.HasBody:
		return nil, requester.Malformed("%s: operation does not accept a body", r.OperationID)
	case (!hasBody || body == nil) && r.BodyRequired:
		return nil, requester.Malformed("%s: missing required body", r.OperationID)
	case hasBody && body != nil:
		b, err := r.encodeBody(body)
		if err != nil {
			return nil, err
		}
		desc.Body = b
	}

	return desc, nil
}

// BodyArgName is the argument carrying the request body: BodyArg, or
// RequestBodyArg when a declared parameter is already named BodyArg.
func (r *Route) BodyArgName() string {
	for _, p := range r.Params {
		if p.Name == BodyArg {
			return RequestBodyArg
		}
	}
	return BodyArg
}

// encodeBody JSON-encodes the body unless the route takes a non-JSON media
// type and the caller passed text or bytes.
func (r *Route) encodeBody(body any) (*requester.Body, error) {
	if !isJSONMediaType(r.BodyMediaType) {
		switch v := body.(type) {
		case string:
			return requester.RawBody([]byte(v), r.BodyMediaType), nil
		case []byte:
			return requester.RawBody(v, r.BodyMediaType), nil
		}
	}
	b, err := requester.JSONBody(body)
	if err != nil {
		return nil, requester.Malformed("%s: body is not JSON serializable: %v", r.OperationID, err)
	}
	return b, nil
}

func isJSONMediaType(mediaType string) bool {
	return mediaType == "" || mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
