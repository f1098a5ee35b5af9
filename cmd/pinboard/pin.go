// ABOUTME: Pin command for keeping a note at the top of the board.
// ABOUTME: Running it again on a pinned note unpins it.

package main

import (
	"fmt"

	"github.com/harper/pinboard/internal/ui"
	"github.com/spf13/cobra"
)

var pinCmd = &cobra.Command{
	Use:   "pin <id-prefix>",
	Short: "Pin or unpin a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := board.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		note, err = board.TogglePin(note.ID)
		if err != nil {
			return persisted(fmt.Errorf("failed to toggle pin: %w", err))
		}

		verb := "Unpinned"
		if note.Pinned {
			verb = "Pinned"
		}
		fmt.Println(ui.Success(fmt.Sprintf("%s note %s", verb, note.ShortID())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pinCmd)
}
