// Package mcp exposes the analogy engine, concept graph, and pattern library
// over the Model Context Protocol.
//
// This implementation uses the MCP SDK (github.com/modelcontextprotocol/go-sdk/mcp)
// and calls internal packages directly.
package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/analogd/internal/analogy"
	"github.com/fyrsmithlabs/analogd/internal/conceptgraph"
	"github.com/fyrsmithlabs/analogd/internal/patterns"
)

// Server is the MCP server wrapping the analogy engine and its stores.
type Server struct {
	mcp     *mcp.Server
	engine  *analogy.Engine
	graph   *conceptgraph.Graph
	library *patterns.Library
	metrics *Metrics
	logger  *zap.Logger
	tools   []string
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "analogd")
	Name string

	// Version is the server version (default: "dev")
	Version string

	// Logger for structured logging
	Logger *zap.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "analogd",
		Version: "dev",
		Logger:  zap.NewNop(),
	}
}

// NewServer creates a new MCP server over the given engine and stores.
func NewServer(
	cfg *Config,
	engine *analogy.Engine,
	graph *conceptgraph.Graph,
	library *patterns.Library,
) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if engine == nil {
		return nil, fmt.Errorf("analogy engine is required")
	}
	if graph == nil {
		return nil, fmt.Errorf("concept graph is required")
	}
	if library == nil {
		return nil, fmt.Errorf("pattern library is required")
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:     mcpServer,
		engine:  engine,
		graph:   graph,
		library: library,
		metrics: NewMetrics(cfg.Logger),
		logger:  cfg.Logger,
	}

	s.registerTools()

	return s, nil
}

// ListTools returns all registered tool names.
func (s *Server) ListTools() []string {
	out := make([]string, len(s.tools))
	copy(out, s.tools)
	return out
}

// Run starts the MCP server on the stdio transport and blocks until the
// context is cancelled or the transport closes.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server on stdio transport")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}
