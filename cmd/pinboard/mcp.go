// ABOUTME: MCP command to start the MCP server.
// ABOUTME: Runs on stdio and logs board changes made by agents.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/pinboard/internal/events"
	"github.com/harper/pinboard/internal/mcp"
	"github.com/spf13/cobra"
	"gocloud.dev/pubsub"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long:  `Start the Model Context Protocol server for AI agent integration.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if publisher != nil {
			watchChanges(ctx)
		}

		server := mcp.NewServer(board, version)
		return server.Serve(ctx)
	},
}

// watchChanges logs every change event until ctx is done. Logs go to stderr
// so they never mix with the stdio transport.
func watchChanges(ctx context.Context) {
	sub, err := pubsub.OpenSubscription(ctx, cfg.Events.Topic)
	if err != nil {
		logger.Warn("not watching changes", "topic", cfg.Events.Topic, "err", err)
		return
	}

	go func() {
		defer func() { _ = sub.Shutdown(context.Background()) }()
		err := events.Watch(ctx, sub, func(c events.Change) {
			logger.Info("board changed", "kind", c.Kind, "note", c.NoteID, "title", c.Title, "count", c.Count)
		})
		if err != nil {
			logger.Error("change watcher stopped", "err", err)
		}
	}()
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
