// ABOUTME: Import command for restoring notes from backup.
// ABOUTME: Supports JSON exports, markdown files and markdown directories.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/harper/pinboard/internal/models"
	"github.com/harper/pinboard/internal/transfer"
	"github.com/harper/pinboard/internal/ui"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Import notes",
	Long:  `Import notes from a JSON export, a markdown file, or a directory of markdown files. Notes already on the board are skipped.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to stat path: %w", err)
		}

		var notes []*models.Note
		switch {
		case info.IsDir():
			var skipped map[string]error
			notes, skipped, err = transfer.ImportMarkdownDir(path)
			if err != nil {
				return fmt.Errorf("failed to read directory: %w", err)
			}
			for file, ferr := range skipped {
				fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("skipped %s: %v", file, ferr)))
			}
		case strings.HasSuffix(path, ".json"):
			f, err := os.Open(path) //nolint:gosec // User-specified file path is expected CLI behavior
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()
			notes, err = transfer.ImportJSON(f)
			if err != nil {
				return err
			}
		default:
			note, err := transfer.ImportMarkdownFile(path)
			if err != nil {
				return err
			}
			notes = append(notes, note)
		}

		count, err := board.Import(notes)
		if err != nil {
			return persisted(fmt.Errorf("failed to import: %w", err))
		}

		fmt.Println(ui.Success(fmt.Sprintf("Imported %d notes", count)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
