// Package mcp exposes the tool registry and the agent's state graph as an MCP server.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/sequent/pkg/fsm"
	"github.com/aretw0/sequent/pkg/registry"
)

const (
	serverName = "sequent-mcp"
	graphURI   = "sequent://graph"
	graphTool  = "get_graph"
)

// Server wraps a tool registry and exposes it as an MCP Server.
type Server struct {
	registry  *registry.Registry
	graph     func() []fsm.StateInfo
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithGraph publishes the state graph as the get_graph tool and the sequent://graph resource.
func WithGraph(describe func() []fsm.StateInfo) Option {
	return func(s *Server) {
		s.graph = describe
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new MCP Server instance. Every tool registered in reg at this point is exposed.
func NewServer(reg *registry.Registry, version string, opts ...Option) *Server {
	s := &Server{
		registry:  reg,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer(serverName, version, server.WithToolCapabilities(false)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	if s.graph != nil {
		s.registerGraph()
	}
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on addr using SSE until ctx is canceled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	for _, def := range s.registry.Definitions() {
		s.mcpServer.AddTool(def, s.callTool(def.Name))
	}
}

// callTool adapts a registry entry to an MCP handler. Tool failures are reported
// in the result (isError) rather than as protocol errors.
func (s *Server) callTool(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := s.registry.Execute(ctx, name, request.GetArguments())
		if err != nil {
			s.logger.WarnContext(ctx, "MCP tool call failed", "tool", name, "err", err)
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(registry.FormatResult(result)), nil
	}
}

func (s *Server) registerGraph() {
	s.mcpServer.AddTool(mcp.NewTool(graphTool,
		mcp.WithDescription("Get the agent state graph: states, allowed transitions, initial and terminal markers."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw, err := json.Marshal(s.graph())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode graph: %v", err)), nil
		}
		return mcp.NewToolResultText(string(raw)), nil
	})

	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Agent State Graph",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		raw, err := json.Marshal(s.graph())
		if err != nil {
			return nil, fmt.Errorf("encode graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "application/json",
				Text:     string(raw),
			},
		}, nil
	})
}
