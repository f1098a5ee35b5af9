// ABOUTME: MCP resources for exposing notes as readable resources.
// ABOUTME: Serves the ordered board and individual notes via URI scheme.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/pinboard/internal/view"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	boardURI        = "pinboard://notes"
	noteURIPrefix   = "pinboard://note/"
	noteURITemplate = noteURIPrefix + "{id}"
)

func (s *Server) registerResources() {
	s.server.AddResource(
		&mcp.Resource{
			URI:         boardURI,
			Name:        "Board",
			Description: "All notes, pinned first, then most recently updated",
			MIMEType:    "application/json",
		},
		s.handleReadBoard,
	)

	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: noteURITemplate,
			Name:        "Note",
			Description: "Access individual notes by ID",
			MIMEType:    "text/markdown",
		},
		s.handleReadNote,
	)
}

func (s *Server) handleReadBoard(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(view.Project(s.repo.All(), ""), "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

func (s *Server) handleReadNote(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ref, ok := strings.CutPrefix(req.Params.URI, noteURIPrefix)
	if !ok || ref == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}

	note, err := s.repo.Resolve(ref)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	content := fmt.Sprintf("# %s\n\n", note.Title)
	if note.Pinned {
		content += "**Pinned**\n\n"
	}
	content += note.Content

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     content,
			},
		},
	}, nil
}
