// ABOUTME: List command for displaying the board.
// ABOUTME: Shows pinned notes first, then the rest by last edit.

package main

import (
	"fmt"

	"github.com/harper/pinboard/internal/models"
	"github.com/harper/pinboard/internal/ui"
	"github.com/harper/pinboard/internal/view"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List notes",
	Long:    `List notes, pinned first and then most recently edited. --search keeps notes whose title or content contains the text, ignoring case.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		searchFlag, _ := cmd.Flags().GetString("search")
		limitFlag, _ := cmd.Flags().GetInt("limit")

		notes := view.Project(board.All(), searchFlag)
		if limitFlag > 0 && len(notes) > limitFlag {
			notes = notes[:limitFlag]
		}

		if len(notes) == 0 {
			fmt.Println("No notes found.")
			return nil
		}

		printSections(notes)
		return nil
	},
}

// printSections expects notes in projection order, so pinned ones lead.
func printSections(notes []*models.Note) {
	split := 0
	for split < len(notes) && notes[split].Pinned {
		split++
	}

	if split == 0 {
		for _, note := range notes {
			fmt.Print(ui.FormatNoteListItem(note))
		}
		return
	}

	fmt.Print(ui.FormatPinnedSectionHeader())
	for _, note := range notes[:split] {
		fmt.Print(ui.FormatNoteListItem(note))
	}
	if split < len(notes) {
		fmt.Print(ui.FormatOthersSectionHeader())
		for _, note := range notes[split:] {
			fmt.Print(ui.FormatNoteListItem(note))
		}
	}
}

func init() {
	listCmd.Flags().StringP("search", "s", "", "search query")
	listCmd.Flags().IntP("limit", "n", 20, "number of results (0 for all)")
	rootCmd.AddCommand(listCmd)
}
