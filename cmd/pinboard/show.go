// ABOUTME: Show command for displaying a single note.
// ABOUTME: Renders markdown content with glamour.

package main

import (
	"fmt"

	"github.com/harper/pinboard/internal/ui"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a note",
	Long:  `Display a note's full content with rendered markdown.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := board.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		raw, _ := cmd.Flags().GetBool("raw")

		fmt.Print(ui.FormatNoteHeader(note))
		if raw {
			fmt.Println(note.Content)
			return nil
		}
		content, _ := ui.FormatNoteContent(note.Content)
		fmt.Print(content)
		return nil
	},
}

func init() {
	showCmd.Flags().Bool("raw", false, "print content without rendering")
	rootCmd.AddCommand(showCmd)
}
