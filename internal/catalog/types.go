package catalog

import (
	"github.com/brizzai/auto-jira/internal/requester"
	"github.com/getkin/kin-openapi/openapi3"
)

// ParamLocation is where an operation expects a parameter.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
)

const (
	// BodyArg is the argument name that carries the request body.
	BodyArg = "body"
	// RequestBodyArg carries the body when the operation has its own "body" parameter.
	RequestBodyArg = "requestBody"
)

// Param is one declared operation parameter.
type Param struct {
	Name        string
	In          ParamLocation
	Required    bool
	Description string
	// Style is how the dispatcher serializes the value when In is InQuery.
	Style  requester.QueryStyle
	Schema *openapi3.SchemaRef
}

// Route is the declarative description of one endpoint: enough to build a
// requester.Descriptor from a bag of named arguments.
type Route struct {
	OperationID string
	Method      string
	Path        string
	Summary     string
	Description string
	Tags        []string

	Params []Param

	HasBody       bool
	BodyRequired  bool
	BodyMediaType string
	BodySchema    *openapi3.SchemaRef

	// ResponseAvailable is true when a 2xx response declares content.
	ResponseAvailable bool
}

// Catalog is a set of routes loaded from an OpenAPI document.
type Catalog interface {
	// Load parses an OpenAPI document from a file, applying the selection file if given.
	Load(openAPIFile string, selectionFile string) error
	// LoadData parses an OpenAPI document held in memory.
	LoadData(data []byte) error
	// Routes returns the loaded routes ordered by path then method.
	Routes() []*Route
	// Route looks a route up by operation id.
	Route(operationID string) (*Route, bool)
}
