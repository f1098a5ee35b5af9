// ABOUTME: MCP prompts for common board workflows.
// ABOUTME: Guides agents through summarizing, tidying and drafting sticky notes.

package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "summarize-note",
		Description: "Generate a summary of an existing note",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "note_id",
				Description: "ID or prefix of the note to summarize",
				Required:    true,
			},
		},
	}, s.getSummarizeNotePrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "tidy-board",
		Description: "Get suggestions for pinning, merging and retitling notes",
	}, s.getTidyBoardPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "quick-note",
		Description: "Capture a short sticky note about a topic",
		Arguments: []*mcp.PromptArgument{
			{
				Name:        "topic",
				Description: "What the note is about",
				Required:    false,
			},
		},
	}, s.getQuickNotePrompt)
}

func userPrompt(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: text,
				},
			},
		},
	}
}

func (s *Server) getSummarizeNotePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	noteID, ok := req.Params.Arguments["note_id"]
	if !ok || noteID == "" {
		return nil, fmt.Errorf("note_id argument is required")
	}

	return userPrompt(fmt.Sprintf(`Please summarize the note with ID: %s

1. Use the get_note tool to retrieve the note
2. Write a summary of at most three lines covering the main point and any action items
3. Use the save_note tool to put the summary at the top of the content, keeping the existing text below it`, noteID)), nil
}

func (s *Server) getTidyBoardPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return userPrompt(`Help me tidy my board:

1. Use the list_notes tool to see every note (pinned notes come first)
2. Point out notes still titled "New Note" or "Untitled" and suggest better titles
3. Suggest notes that should be pinned or unpinned
4. Identify notes that overlap and could be merged, or are empty and could be deleted

Refer to notes by their ID and do not change anything until I confirm.`), nil
}

func (s *Server) getQuickNotePrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	topic, ok := req.Params.Arguments["topic"]
	if !ok || topic == "" {
		topic = "whatever I mention next"
	}

	return userPrompt(fmt.Sprintf(`Capture a quick sticky note about %s.

Keep it short enough to read at a glance: a clear title and a few bullet points.
Use the create_note tool with the title and content.`, topic)), nil
}
