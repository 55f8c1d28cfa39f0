// Package server exposes catalog routes as MCP tools.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/brizzai/auto-jira/internal/catalog"
	"github.com/brizzai/auto-jira/internal/config"
	"github.com/brizzai/auto-jira/internal/logger"
	"github.com/brizzai/auto-jira/internal/requester"
	"github.com/brizzai/auto-jira/internal/server/handler"
	"github.com/brizzai/auto-jira/internal/server/tool"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
	mcpPath         = "/mcp"
)

// ErrNoTools is returned when the catalog exposes no routes.
var ErrNoTools = errors.New("no routes selected, nothing to serve")

// Server is the MCP server instance. It serves over STDIO or streamable HTTP.
type Server struct {
	config *config.Config
	mcp    *mcpserver.MCPServer
	tool   *tool.Handler
	tools  int
}

// NewServer registers one tool per catalog route.
func NewServer(cfg *config.Config, cat catalog.Catalog, dispatcher *requester.Dispatcher) (*Server, error) {
	if cfg == nil || cat == nil || dispatcher == nil {
		return nil, errors.New("server requires config, catalog and dispatcher")
	}

	srv := &Server{
		config: cfg,
		mcp: mcpserver.NewMCPServer(
			cfg.Server.Name,
			cfg.Server.Version,
			mcpserver.WithToolCapabilities(false),
		),
		tool: tool.NewHandler(dispatcher),
	}

	for _, route := range cat.Routes() {
		srv.mcp.AddTool(tool.NewTool(route), srv.tool.CreateHandler(route))
		srv.tools++
		logger.Debug("Added tool", zap.String("name", route.OperationID))
	}
	if srv.tools == 0 {
		return nil, ErrNoTools
	}
	logger.Info("Registered tools", zap.Int("count", srv.tools))
	return srv, nil
}

// MCP returns the underlying mcp-go server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// ServeSTDIO serves MCP over stdin and stdout.
func (s *Server) ServeSTDIO(ctx context.Context) error {
	logger.Info("Starting STDIO server")
	stdioServer := mcpserver.NewStdioServer(s.mcp)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ServeHTTP serves MCP over streamable HTTP until ctx is done.
func (s *Server) ServeHTTP(ctx context.Context) error {
	addr := s.config.Server.Address
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.NewHTTPHandler(mcpPath, mcpserver.NewStreamableHTTPServer(s.mcp), s.config.Server.AuthToken),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("address", addr), zap.String("path", mcpPath))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server", zap.Duration("timeout", shutdownTimeout))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Start serves on the configured transport.
func (s *Server) Start(ctx context.Context) error {
	logger.Info("Starting server",
		zap.String("transport", string(s.config.Server.Transport)),
		zap.String("version", s.config.Server.Version),
	)

	switch s.config.Server.Transport {
	case config.ServerTransportHTTP:
		return s.ServeHTTP(ctx)
	case config.ServerTransportSTDIO, "":
		return s.ServeSTDIO(ctx)
	default:
		return fmt.Errorf("unsupported server transport: %s", s.config.Server.Transport)
	}
}

// Module provides the MCP server dependencies
var Module = fx.Module("mcp_server",
	fx.Provide(
		NewServer,
	),
)
