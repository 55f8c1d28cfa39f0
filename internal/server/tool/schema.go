package tool

import (
	"fmt"

	"github.com/brizzai/auto-jira/internal/catalog"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"
)

// NewTool describes a route as an MCP tool named after its operation id.
func NewTool(route *catalog.Route) mcp.Tool {
	description := fmt.Sprintf("%s %s", route.Method, route.Path)
	if route.Description != "" {
		description += "\n" + route.Description
	}

	opts := []mcp.ToolOption{mcp.WithDescription(description)}
	for _, p := range route.Params {
		desc := p.Description
		if desc == "" {
			desc = fmt.Sprintf("%s parameter: %s", p.In, p.Name)
		}
		opts = append(opts, schemaOption(p.Schema, p.Name, desc, p.Required))
	}
	if route.HasBody {
		opts = append(opts, bodyOption(route))
	}
	return mcp.NewTool(route.OperationID, opts...)
}

func bodyOption(route *catalog.Route) mcp.ToolOption {
	desc := fmt.Sprintf("Request body (%s)", route.BodyMediaType)
	if route.BodySchema == nil || route.BodySchema.Value == nil || route.BodySchema.Value.Type == nil {
		if route.BodyRequired {
			return mcp.WithObject(route.BodyArgName(), mcp.Description(desc), mcp.Required())
		}
		return mcp.WithObject(route.BodyArgName(), mcp.Description(desc))
	}
	if route.BodySchema.Value.Description != "" {
		desc = route.BodySchema.Value.Description
	}
	return schemaOption(route.BodySchema, route.BodyArgName(), desc, route.BodyRequired)
}

// schemaOption converts an OpenAPI schema to an MCP tool property.
func schemaOption(schema *openapi3.SchemaRef, name, description string, required bool) mcp.ToolOption {
	baseOpts := []mcp.PropertyOption{mcp.Description(description)}
	if required {
		baseOpts = append(baseOpts, mcp.Required())
	}

	if schema == nil || schema.Value == nil || schema.Value.Type == nil {
		return mcp.WithString(name, baseOpts...)
	}

	switch t := schema.Value.Type; {
	case t.Includes(openapi3.TypeArray):
		if schema.Value.Items != nil && schema.Value.Items.Value != nil {
			baseOpts = append(baseOpts, mcp.Items(itemSchema(schema.Value.Items.Value)))
		}
		return mcp.WithArray(name, baseOpts...)
	case t.Includes(openapi3.TypeObject):
		return objectOption(schema.Value, name, baseOpts)
	case t.Includes(openapi3.TypeInteger), t.Includes(openapi3.TypeNumber):
		if schema.Value.Min != nil {
			baseOpts = append(baseOpts, mcp.Min(*schema.Value.Min))
		}
		if schema.Value.Max != nil {
			baseOpts = append(baseOpts, mcp.Max(*schema.Value.Max))
		}
		return mcp.WithNumber(name, baseOpts...)
	case t.Includes(openapi3.TypeBoolean):
		return mcp.WithBoolean(name, baseOpts...)
	default:
		if enum := stringEnum(schema.Value.Enum); len(enum) > 0 {
			baseOpts = append(baseOpts, mcp.Enum(enum...))
		}
		if schema.Value.Pattern != "" {
			baseOpts = append(baseOpts, mcp.Pattern(schema.Value.Pattern))
		}
		return mcp.WithString(name, baseOpts...)
	}
}

func objectOption(schema *openapi3.Schema, name string, baseOpts []mcp.PropertyOption) mcp.ToolOption {
	opts := baseOpts
	if len(schema.Properties) > 0 {
		props := make(map[string]any, len(schema.Properties))
		for propName, prop := range schema.Properties {
			if prop == nil || prop.Value == nil {
				props[propName] = map[string]any{}
				continue
			}
			props[propName] = itemSchema(prop.Value)
		}
		opts = append(opts, mcp.Properties(props))
	}
	if len(schema.Required) > 0 {
		required := schema.Required
		opts = append(opts, func(m map[string]any) {
			m["required"] = required
		})
	}
	return mcp.WithObject(name, opts...)
}

// itemSchema renders the JSON schema subset MCP clients act on.
func itemSchema(schema *openapi3.Schema) map[string]any {
	out := make(map[string]any)
	if schema.Type != nil && len(schema.Type.Slice()) > 0 {
		out["type"] = schema.Type.Slice()[0]
	}
	if schema.Description != "" {
		out["description"] = schema.Description
	}
	if len(schema.Enum) > 0 {
		out["enum"] = schema.Enum
	}
	if schema.Items != nil && schema.Items.Value != nil {
		out["items"] = itemSchema(schema.Items.Value)
	}
	return out
}

func stringEnum(values []any) []string {
	var out []string
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
