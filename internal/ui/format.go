// ABOUTME: Terminal UI formatting for pinboard output.
// ABOUTME: Uses glamour for markdown and fatih/color for styling.

package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/harper/pinboard/internal/models"
)

var (
	faint  = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// PreviewLength is how much content a list row shows.
const PreviewLength = 80

const pinMarker = "📌"

// Swatch renders a small block in the note's palette color.
func Swatch(c models.Color) string {
	r, g, b := c.RGB()
	return color.BgRGB(int(r), int(g), int(b)).Sprint("  ")
}

func FormatNoteListItem(note *models.Note) string {
	var sb strings.Builder

	pin := "  "
	if note.Pinned {
		pin = pinMarker
	}
	sb.WriteString(fmt.Sprintf("%s %s  %s %s\n", pin, faint(note.ShortID()), Swatch(note.Color), bold(note.Title)))

	if p := Preview(note.Content, PreviewLength); p != "" {
		sb.WriteString(fmt.Sprintf("            %s\n", p))
	}

	sb.WriteString(fmt.Sprintf("            %s %s\n",
		faint("Updated:"),
		faint(note.UpdatedAt.Format("2006-01-02 15:04"))))

	return sb.String()
}

// Preview flattens content to one line and cuts it at max runes.
func Preview(content string, max int) string {
	flat := strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(flat) <= max {
		return flat
	}
	runes := []rune(flat)
	return string(runes[:max]) + "..."
}

func FormatNoteContent(content string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to raw content if renderer fails
		return content, nil //nolint:nilerr // Intentional fallback
	}

	out, err := renderer.Render(content)
	if err != nil {
		// Fallback to raw content if rendering fails
		return content, nil //nolint:nilerr // Intentional fallback
	}
	return out, nil
}

func FormatNoteHeader(note *models.Note) string {
	var sb strings.Builder

	title := bold(note.Title)
	if note.Pinned {
		title = pinMarker + " " + title
	}
	sb.WriteString(fmt.Sprintf("%s\n", title))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(note.ID.String())))
	sb.WriteString(fmt.Sprintf("%s %s %s\n", faint("Color:"), Swatch(note.Color), faint(note.Color.String())))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(note.CreatedAt.Format("2006-01-02 15:04"))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(note.UpdatedAt.Format("2006-01-02 15:04"))))

	sb.WriteString(Separator())
	return sb.String()
}

func Separator() string {
	return faint(strings.Repeat("─", 50)) + "\n"
}

func Success(msg string) string {
	return color.New(color.FgGreen).Sprint("✓ ") + msg
}

func Error(msg string) string {
	return color.New(color.FgRed).Sprint("✗ ") + msg
}

func Warning(msg string) string {
	return yellow("! ") + msg
}

func FormatPinnedSectionHeader() string {
	return fmt.Sprintf("\n%s %s\n", pinMarker, bold("Pinned"))
}

func FormatOthersSectionHeader() string {
	return fmt.Sprintf("\n%s\n", bold("Notes"))
}
