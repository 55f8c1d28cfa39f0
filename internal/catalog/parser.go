package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/brizzai/auto-jira/internal/logger"
	"github.com/brizzai/auto-jira/internal/requester"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrNoVersion is returned for documents without a swagger or openapi field.
var ErrNoVersion = errors.New("document is missing 'swagger' or 'openapi' version field")

// OpenAPICatalog builds routes from an OpenAPI 3 or Swagger 2 document.
type OpenAPICatalog struct {
	doc       *openapi3.T
	routes    []*Route
	byID      map[string]*Route
	selection *Selection
}

var _ Catalog = (*OpenAPICatalog)(nil)

// NewOpenAPICatalog creates an empty catalog filtered by selection.
func NewOpenAPICatalog(selection *Selection) *OpenAPICatalog {
	if selection == nil {
		selection = NewSelection()
	}
	return &OpenAPICatalog{
		byID:      make(map[string]*Route),
		selection: selection,
	}
}

// Routes returns the loaded routes
func (c *OpenAPICatalog) Routes() []*Route {
	return c.routes
}

// Route looks a route up by operation id
func (c *OpenAPICatalog) Route(operationID string) (*Route, bool) {
	r, ok := c.byID[operationID]
	return r, ok
}

// Load parses an OpenAPI document from a file
func (c *OpenAPICatalog) Load(openAPIFile string, selectionFile string) error {
	data, err := os.ReadFile(openAPIFile)
	if err != nil {
		return fmt.Errorf("failed to read OpenAPI file: %w", err)
	}
	if selectionFile != "" {
		if err := c.selection.Load(selectionFile); err != nil {
			return fmt.Errorf("failed to load selection file: %w", err)
		}
	}
	return c.LoadData(data)
}

// LoadData parses an OpenAPI document held in memory
func (c *OpenAPICatalog) LoadData(data []byte) error {
	doc, err := parseDocument(data)
	if err != nil {
		return err
	}
	c.doc = doc
	c.routes = nil
	c.byID = make(map[string]*Route)
	c.processOperations()
	logger.Info("Loaded route catalog", zap.Int("routes", len(c.routes)))
	return nil
}

// parseDocument accepts JSON or YAML, converting Swagger 2.0 to OpenAPI 3.
func parseDocument(data []byte) (*openapi3.T, error) {
	var header map[string]any
	if err := yaml.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI document: %w", err)
	}

	swaggerVersion, hasSwagger := header["swagger"]
	openapiVersion, hasOpenAPI := header["openapi"]
	if !hasSwagger && !hasOpenAPI {
		return nil, ErrNoVersion
	}

	if hasSwagger {
		return convertSwagger2(data, swaggerVersion)
	}

	if ver, ok := openapiVersion.(string); !ok || !strings.HasPrefix(ver, "3.") {
		return nil, fmt.Errorf("unsupported OpenAPI version: %v", openapiVersion)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		logger.Error("Failed to parse OpenAPI 3 document", zap.Error(err))
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	if doc.Paths == nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: no paths")
	}
	return doc, nil
}

func convertSwagger2(data []byte, swaggerVersion any) (*openapi3.T, error) {
	jsonData := data
	if !json.Valid(data) {
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("failed to parse Swagger 2.0 document: %w", err)
		}
		converted, err := json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Swagger 2.0 document: %w", err)
		}
		jsonData = converted
	}

	var swagger2Doc openapi2.T
	if err := json.Unmarshal(jsonData, &swagger2Doc); err != nil {
		return nil, fmt.Errorf("failed to parse Swagger 2.0 document: %w", err)
	}
	if swagger2Doc.Swagger != "2.0" {
		return nil, fmt.Errorf("unsupported Swagger version: %v", swaggerVersion)
	}

	logger.Info("Detected Swagger 2.0 document, converting to OpenAPI 3")
	doc, err := openapi2conv.ToV3(&swagger2Doc)
	if err != nil {
		logger.Error("Failed to convert Swagger 2.0 to OpenAPI 3", zap.Error(err))
		return nil, fmt.Errorf("failed to convert Swagger 2.0 to OpenAPI 3: %w", err)
	}
	return doc, nil
}

// processOperations walks every path and method and keeps the selected ones.
func (c *OpenAPICatalog) processOperations() {
	paths := c.doc.Paths.InMatchingOrder()
	sort.Strings(paths)

	for _, path := range paths {
		pathItem := c.doc.Paths.Value(path)
		if pathItem == nil {
			continue
		}
		methods := []struct {
			Method    string
			Operation *openapi3.Operation
		}{
			{http.MethodGet, pathItem.Get},
			{http.MethodPost, pathItem.Post},
			{http.MethodPut, pathItem.Put},
			{http.MethodDelete, pathItem.Delete},
		}

		for _, m := range methods {
			if m.Operation == nil {
				continue
			}
			route := createRoute(path, m.Method, pathItem.Parameters, m.Operation)
			if !c.selection.Includes(route) {
				continue
			}
			route.Description = c.selection.Description(route.Path, route.Method, route.Description)
			if _, dup := c.byID[route.OperationID]; dup {
				logger.Warn("Duplicate operation id, keeping first",
					zap.String("operation", route.OperationID),
					zap.String("path", path),
					zap.String("method", m.Method))
				continue
			}
			c.routes = append(c.routes, route)
			c.byID[route.OperationID] = route
		}
	}
}

var nonIdentifier = regexp.MustCompile(`[^A-Za-z0-9]+`)

// fallbackOperationID names operations that do not declare an id, e.g.
// "get_rest_agile_1_0_board_boardId".
func fallbackOperationID(method, path string) string {
	name := nonIdentifier.ReplaceAllString(strings.Trim(path, "/"), "_")
	return strings.ToLower(method) + "_" + strings.Trim(name, "_")
}

// createRoute derives a route from an operation and its path-level parameters.
func createRoute(path, method string, shared openapi3.Parameters, operation *openapi3.Operation) *Route {
	route := &Route{
		OperationID: operation.OperationID,
		Method:      method,
		Path:        path,
		Summary:     operation.Summary,
		Tags:        operation.Tags,
	}
	if route.OperationID == "" {
		route.OperationID = fallbackOperationID(method, path)
	}
	if operation.Description != "" {
		route.Description = operation.Description
	} else {
		route.Description = operation.Summary
	}

	// Operation-level parameters override path-level ones with the same name and location
	seen := make(map[string]bool)
	for _, params := range []openapi3.Parameters{operation.Parameters, shared} {
		for _, ref := range params {
			if ref == nil || ref.Value == nil {
				continue
			}
			key := ref.Value.In + ":" + ref.Value.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			if p, ok := createParam(ref.Value); ok {
				route.Params = append(route.Params, p)
			}
		}
	}

	if operation.RequestBody != nil && operation.RequestBody.Value != nil {
		body := operation.RequestBody.Value
		mediaType, schema := preferredMediaType(body.Content)
		route.HasBody = mediaType != ""
		route.BodyRequired = body.Required
		route.BodyMediaType = mediaType
		route.BodySchema = schema
	}

	route.ResponseAvailable = responseAvailable(operation.Responses)
	return route
}

func createParam(p *openapi3.Parameter) (Param, bool) {
	param := Param{
		Name:        p.Name,
		Required:    p.Required,
		Description: p.Description,
		Schema:      p.Schema,
	}
	switch p.In {
	case openapi3.ParameterInPath:
		param.In = InPath
		param.Required = true
	case openapi3.ParameterInQuery:
		param.In = InQuery
		param.Style = queryStyle(p)
	case openapi3.ParameterInHeader:
		param.In = InHeader
	default:
		// cookie parameters are never sent
		return Param{}, false
	}
	return param, true
}

// queryStyle maps OpenAPI style/explode to the dispatcher's serialization.
// Arrays repeat the key unless explode is false, which joins them with commas.
// Objects are exploded key by key for form style with explode, and JSON
// encoded otherwise.
func queryStyle(p *openapi3.Parameter) requester.QueryStyle {
	if _, ok := p.Content["application/json"]; ok {
		return requester.QueryStyleJSON
	}
	if p.Schema == nil || p.Schema.Value == nil || p.Schema.Value.Type == nil {
		return requester.QueryStyleDefault
	}

	explode := p.Explode == nil || *p.Explode
	form := p.Style == "" || p.Style == openapi3.SerializationForm

	switch {
	case p.Schema.Value.Type.Is(openapi3.TypeArray):
		if form && !explode {
			return requester.QueryStyleComma
		}
		return requester.QueryStyleRepeat
	case p.Schema.Value.Type.Is(openapi3.TypeObject):
		if form && explode {
			return requester.QueryStyleExplode
		}
		return requester.QueryStyleJSON
	default:
		return requester.QueryStyleDefault
	}
}

// preferredMediaType picks JSON when offered, otherwise the first media type by name.
func preferredMediaType(content openapi3.Content) (string, *openapi3.SchemaRef) {
	if len(content) == 0 {
		return "", nil
	}
	if mt, ok := content["application/json"]; ok {
		return "application/json", mt.Schema
	}
	names := make([]string, 0, len(content))
	for name := range content {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0], content[names[0]].Schema
}

func responseAvailable(responses *openapi3.Responses) bool {
	if responses == nil {
		return false
	}
	for code, ref := range responses.Map() {
		if !strings.HasPrefix(code, "2") || ref == nil || ref.Value == nil {
			continue
		}
		if len(ref.Value.Content) > 0 {
			return true
		}
	}
	return false
}
