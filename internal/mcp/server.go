// ABOUTME: MCP server for pinboard integration with AI agents.
// ABOUTME: Provides tools, resources, and prompts backed by the repository.

package mcp

import (
	"context"

	"github.com/harper/pinboard/internal/repo"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type Server struct {
	server *mcp.Server
	repo   *repo.Repository
}

func NewServer(r *repo.Repository, version string) *Server {
	s := &Server{repo: r}

	s.server = mcp.NewServer(
		&mcp.Implementation{
			Name:    "pinboard",
			Version: version,
		},
		&mcp.ServerOptions{
			HasTools:     true,
			HasResources: true,
			HasPrompts:   true,
		},
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

func (s *Server) Serve(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}
