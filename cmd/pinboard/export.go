// ABOUTME: Export command for backing up notes.
// ABOUTME: Supports JSON, markdown and HTML export formats.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/harper/pinboard/internal/models"
	"github.com/harper/pinboard/internal/transfer"
	"github.com/harper/pinboard/internal/ui"
	"github.com/harper/pinboard/internal/view"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export notes",
	Long:  `Export notes to JSON, a directory of markdown files, or a single HTML page.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		notePrefix, _ := cmd.Flags().GetString("note")

		var notes []*models.Note
		if notePrefix != "" {
			note, err := board.Resolve(notePrefix)
			if err != nil {
				return fmt.Errorf("failed to get note: %w", err)
			}
			notes = append(notes, note)
		} else {
			notes = view.Project(board.All(), "")
		}

		switch format {
		case "json":
			return writeExport(outputPath, func(w io.Writer) error {
				return transfer.ExportJSON(w, notes, time.Now())
			})
		case "html":
			return writeExport(outputPath, func(w io.Writer) error {
				return transfer.ExportHTML(w, notes)
			})
		case "md":
			if outputPath == "" {
				outputPath = "pinboard-export"
			}
			count, err := transfer.ExportMarkdown(outputPath, notes)
			if err != nil {
				return fmt.Errorf("failed to export markdown: %w", err)
			}
			fmt.Println(ui.Success(fmt.Sprintf("Exported %d notes to %s", count, outputPath)))
			return nil
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	},
}

// writeExport writes to outputPath, or stdout when it is empty.
func writeExport(outputPath string, write func(io.Writer) error) error {
	if outputPath == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(outputPath) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to export: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Println(ui.Success(fmt.Sprintf("Exported to %s", outputPath)))
	return nil
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "export format: json, md or html")
	exportCmd.Flags().StringP("output", "o", "", "output file (directory for md)")
	exportCmd.Flags().String("note", "", "export a single note by ID prefix")
	rootCmd.AddCommand(exportCmd)
}
