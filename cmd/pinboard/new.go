// ABOUTME: New command for adding a sticky note to the board.
// ABOUTME: Picks a unique default title and a random palette color.

package main

import (
	"fmt"

	"github.com/harper/pinboard/internal/ui"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Add a new note",
	Long:  `Create a note titled "New Note" (or "New Note 2", ...) unless --title is given.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := board.Create()
		if err != nil {
			return persisted(fmt.Errorf("failed to create note: %w", err))
		}

		if cmd.Flags().Changed("title") || cmd.Flags().Changed("content") {
			title := note.Title
			if cmd.Flags().Changed("title") {
				title, _ = cmd.Flags().GetString("title")
			}
			content, _ := cmd.Flags().GetString("content")

			note, err = board.Save(note.ID, title, content)
			if err != nil {
				return persisted(fmt.Errorf("failed to save note: %w", err))
			}
		}

		fmt.Println(ui.Success(fmt.Sprintf("Created note %s %q", note.ShortID(), note.Title)))
		return nil
	},
}

func init() {
	newCmd.Flags().StringP("title", "t", "", "note title")
	newCmd.Flags().StringP("content", "c", "", "note content (inline)")
	rootCmd.AddCommand(newCmd)
}
