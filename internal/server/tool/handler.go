// Package tool turns catalog routes into MCP tools executed through the dispatcher.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/brizzai/auto-jira/internal/catalog"
	"github.com/brizzai/auto-jira/internal/logger"
	"github.com/brizzai/auto-jira/internal/requester"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Handler executes tool calls.
type Handler struct {
	dispatcher *requester.Dispatcher
}

// NewHandler creates a new tool handler.
func NewHandler(dispatcher *requester.Dispatcher) *Handler {
	return &Handler{dispatcher: dispatcher}
}

// CreateHandler returns the tool handler for route. Malformed arguments and
// every failed dispatch are reported as tool errors, not protocol errors.
func (h *Handler) CreateHandler(route *catalog.Route) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		desc, err := route.Descriptor(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := requester.Dispatch[any](ctx, h.dispatcher, desc)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if !res.OK {
			logger.Debug("Tool call failed",
				zap.String("tool", route.OperationID),
				zap.String("kind", string(res.Err.Kind)),
				zap.Int("status", res.Err.Status),
			)
			return mcp.NewToolResultError(res.Err.Error()), nil
		}

		return formatResult(res)
	}
}

func formatResult(res *requester.Result[any]) (*mcp.CallToolResult, error) {
	switch v := res.Value.(type) {
	case nil:
		return mcp.NewToolResultText(fmt.Sprintf("%d %s", res.Status, http.StatusText(res.Status))), nil
	case string:
		return mcp.NewToolResultText(v), nil
	case []byte:
		return mcp.NewToolResultText(string(v)), nil
	default:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode tool result: %w", err)
		}
		return mcp.NewToolResultText(string(out)), nil
	}
}
