// ABOUTME: MCP tools for note operations.
// ABOUTME: Maps create, save, delete, pin and list onto the repository.

package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harper/pinboard/internal/models"
	"github.com/harper/pinboard/internal/store"
	"github.com/harper/pinboard/internal/view"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultListLimit = 20

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "create_note",
		Description: "Create a new note with a unique default title, optionally setting title and content",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Note title (defaults to a unique 'New Note' title)"},
				"content": {"type": "string", "description": "Note content"}
			}
		}`),
	}, s.handleCreateNote)

	s.server.AddTool(&mcp.Tool{
		Name:        "save_note",
		Description: "Update a note's title and/or content; omitted fields are kept and a blank title becomes 'Untitled'",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix (6+ chars)"},
				"title": {"type": "string", "description": "New title (omit to keep the current one)"},
				"content": {"type": "string", "description": "New content (omit to keep the current one)"}
			},
			"required": ["id"]
		}`),
	}, s.handleSaveNote)

	s.server.AddTool(&mcp.Tool{
		Name:        "delete_note",
		Description: "Delete a note",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeleteNote)

	s.server.AddTool(&mcp.Tool{
		Name:        "toggle_pin",
		Description: "Pin or unpin a note; pinned notes are listed first",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleTogglePin)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_note",
		Description: "Get a note by ID prefix",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Note ID or prefix (6+ chars)"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetNote)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_notes",
		Description: "List notes pinned first, then most recently updated, optionally filtered by a case-insensitive search",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Text to look for in titles and content"},
				"limit": {"type": "integer", "description": "Max results", "default": 20}
			}
		}`),
	}, s.handleListNotes)
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return textResult(string(data))
}

// mutationResult reports a change that happened in memory but may not have
// reached the store.
func mutationResult(msg string, err error) *mcp.CallToolResult {
	if errors.Is(err, store.ErrPersistence) {
		return errorResult("%s, but it could not be saved and may not survive a restart: %v", msg, err)
	}
	return errorResult("%s: %v", msg, err)
}

func unmarshalArgs(req *mcp.CallToolRequest, v any) error {
	if len(req.Params.Arguments) == 0 {
		return nil
	}
	return json.Unmarshal(req.Params.Arguments, v)
}

func (s *Server) handleCreateNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Title   *string `json:"title"`
		Content string  `json:"content"`
	}
	if err := unmarshalArgs(req, &params); err != nil {
		return nil, err
	}

	created, err := s.repo.Create()
	if params.Title == nil && params.Content == "" {
		if err != nil {
			return mutationResult(fmt.Sprintf("created note %s", created.ShortID()), err), nil
		}
		return jsonResult(created), nil
	}

	// The save flushes the whole board, so it also covers a failed create flush.
	title := created.Title
	if params.Title != nil {
		title = *params.Title
	}
	note, err := s.repo.Save(created.ID, title, params.Content)
	if err != nil {
		return mutationResult(fmt.Sprintf("created note %s", created.ShortID()), err), nil
	}
	return jsonResult(note), nil
}

func (s *Server) handleSaveNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID      string  `json:"id"`
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := unmarshalArgs(req, &params); err != nil {
		return nil, err
	}

	note, err := s.repo.Resolve(params.ID)
	if err != nil {
		return errorResult("failed to find note: %v", err), nil
	}

	title := note.Title
	if params.Title != nil {
		title = *params.Title
	}
	content := note.Content
	if params.Content != nil {
		content = *params.Content
	}
	saved, err := s.repo.Save(note.ID, title, content)
	if err != nil {
		return mutationResult(fmt.Sprintf("saved note %s", note.ShortID()), err), nil
	}
	return jsonResult(saved), nil
}

func (s *Server) handleDeleteNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := unmarshalArgs(req, &params); err != nil {
		return nil, err
	}

	note, err := s.repo.Resolve(params.ID)
	if err != nil {
		return errorResult("failed to find note: %v", err), nil
	}
	if err := s.repo.Delete(note.ID); err != nil {
		return mutationResult(fmt.Sprintf("deleted note %s", note.ID), err), nil
	}
	return textResult(fmt.Sprintf("Deleted note %s", note.ID)), nil
}

func (s *Server) handleTogglePin(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := unmarshalArgs(req, &params); err != nil {
		return nil, err
	}

	note, err := s.repo.Resolve(params.ID)
	if err != nil {
		return errorResult("failed to find note: %v", err), nil
	}
	toggled, err := s.repo.TogglePin(note.ID)
	if err != nil {
		return mutationResult(fmt.Sprintf("toggled pin on %s", note.ShortID()), err), nil
	}
	return jsonResult(toggled), nil
}

func (s *Server) handleGetNote(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := unmarshalArgs(req, &params); err != nil {
		return nil, err
	}

	note, err := s.repo.Resolve(params.ID)
	if err != nil {
		return errorResult("failed to get note: %v", err), nil
	}
	return jsonResult(note), nil
}

func (s *Server) handleListNotes(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	params.Limit = defaultListLimit
	if err := unmarshalArgs(req, &params); err != nil {
		return nil, err
	}

	notes := view.Project(s.repo.All(), params.Query)
	if params.Limit > 0 && len(notes) > params.Limit {
		notes = notes[:params.Limit]
	}
	if notes == nil {
		notes = []*models.Note{}
	}
	return jsonResult(notes), nil
}
