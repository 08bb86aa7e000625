// Package mcp exposes compiled agents over the Model Context Protocol:
// tools to list, inspect and render agents, resources for agent documents
// and bundles, and one prompt per agent carrying its system prompt.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/bundle"
	"github.com/Strob0t/brainnode/internal/domain/compile"
	"github.com/Strob0t/brainnode/internal/port/renderer"
)

// ServerConfig configures the MCP server.
type ServerConfig struct {
	Addr          string
	Name          string
	Version       string
	APIKey        string
	DefaultFormat string
}

// AgentCatalog lists registered definitions.
type AgentCatalog interface {
	List() []*agent.Definition
}

// BundleCatalog lists registered bundles.
type BundleCatalog interface {
	List() []*bundle.Bundle
}

// Compiler compiles one definition.
type Compiler interface {
	Compile(ctx context.Context, id string) (*compile.Document, error)
}

// Renderer renders a compiled document in a named format.
type Renderer interface {
	Render(ctx context.Context, doc *compile.Document, format string) ([]byte, renderer.Renderer, error)
}

// ServerDeps holds the services the MCP handlers read from. Nil fields turn
// the matching tools into error results.
type ServerDeps struct {
	Agents   AgentCatalog
	Bundles  BundleCatalog
	Compiler Compiler
	Render   Renderer
}

// Server wraps an MCP server with stdio and streamable HTTP transports.
type Server struct {
	cfg       ServerConfig
	deps      ServerDeps
	mcpServer *mcpserver.MCPServer

	mu         sync.Mutex
	httpServer *http.Server
}

// NewServer creates an MCP server and registers tools, resources and prompts.
func NewServer(cfg ServerConfig, deps ServerDeps) *Server {
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "markdown"
	}
	s := &Server{cfg: cfg, deps: deps}
	s.mcpServer = mcpserver.NewMCPServer(cfg.Name, cfg.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(false, true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions("Compiled agent definitions. Use list_agents to discover agents, "+
			"render_agent to fetch a system prompt, list_includes to see which bundles an agent pulls in."),
	)
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *mcpserver.MCPServer { return s.mcpServer }

// ServeStdio serves MCP over the given reader and writer until ctx is done
// or the input closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	slog.Info("mcp server listening", "transport", "stdio")
	err := mcpserver.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}

// Start serves streamable HTTP on cfg.Addr at /mcp. It returns once the
// listener is bound.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("mcp listen %s: %w", s.cfg.Addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp", AuthMiddleware(s.cfg.APIKey, mcpserver.NewStreamableHTTPServer(s.mcpServer)))

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("mcp server error", "error", err)
		}
	}()
	slog.Info("mcp server listening", "transport", "http", "addr", ln.Addr().String())
	return nil
}

// Stop shuts down the HTTP transport. It is a no-op when Start was not called.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("mcp shutdown: %w", err)
	}
	slog.Info("mcp server stopped")
	return nil
}
