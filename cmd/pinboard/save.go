// ABOUTME: Save command for replacing a note's title and content.
// ABOUTME: Opens $EDITOR when no content is given on the command line.

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/harper/pinboard/internal/ui"
	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:     "save <id-prefix>",
	Aliases: []string{"edit"},
	Short:   "Edit a note",
	Long:    `Replace a note's title and content. Without --content the note is opened in $EDITOR. A blank title becomes "Untitled".`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, err := board.Resolve(args[0])
		if err != nil {
			return fmt.Errorf("failed to get note: %w", err)
		}

		title := note.Title
		if cmd.Flags().Changed("title") {
			title, _ = cmd.Flags().GetString("title")
		}

		content := note.Content
		switch {
		case cmd.Flags().Changed("content"):
			content, _ = cmd.Flags().GetString("content")
		case !cmd.Flags().Changed("title"):
			content, err = openEditor(note.Content)
			if err != nil {
				return fmt.Errorf("failed to open editor: %w", err)
			}
			if content == note.Content {
				fmt.Println("No changes made.")
				return nil
			}
		}

		note, err = board.Save(note.ID, title, content)
		if err != nil {
			return persisted(fmt.Errorf("failed to save note: %w", err))
		}

		fmt.Println(ui.Success(fmt.Sprintf("Saved note %s %q", note.ShortID(), note.Title)))
		return nil
	},
}

func openEditor(initial string) (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vim"
	}

	tmpFile, err := os.CreateTemp("", "pinboard-*.md")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(tmpFile.Name()) // Best-effort cleanup
	}()

	if initial != "" {
		if _, err := tmpFile.WriteString(initial); err != nil {
			_ = tmpFile.Close()
			return "", fmt.Errorf("failed to write initial content: %w", err)
		}
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	cmd := exec.Command(editor, tmpFile.Name()) //nolint:gosec // Launching $EDITOR is expected CLI behavior
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func init() {
	saveCmd.Flags().StringP("title", "t", "", "new title")
	saveCmd.Flags().StringP("content", "c", "", "new content (inline)")
	rootCmd.AddCommand(saveCmd)
}
