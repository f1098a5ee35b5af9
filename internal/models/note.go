// ABOUTME: Note model representing a pinnable, color-tagged text note.
// ABOUTME: Provides constructor, save semantics and copy helpers.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// FallbackTitle replaces a title that is blank after trimming.
const FallbackTitle = "Untitled"

type Note struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Color     Color     `json:"color"`
	Pinned    bool      `json:"pinned"`
}

func NewNote(title string, color Color, now time.Time) *Note {
	return &Note{
		ID:        uuid.New(),
		Title:     NormalizeTitle(title),
		CreatedAt: now,
		UpdatedAt: now,
		Color:     color,
	}
}

// Apply sets title and content the way a save does and refreshes UpdatedAt.
// UpdatedAt never moves before CreatedAt, even if the clock goes backwards.
func (n *Note) Apply(title, content string, now time.Time) {
	n.Title = NormalizeTitle(title)
	n.Content = NormalizeContent(content)
	if now.Before(n.CreatedAt) {
		now = n.CreatedAt
	}
	n.UpdatedAt = now
}

func (n *Note) Clone() *Note {
	c := *n
	return &c
}

// ShortID is the six character id prefix shown to users.
func (n *Note) ShortID() string {
	return n.ID.String()[:6]
}

func NormalizeTitle(title string) string {
	t := strings.TrimSpace(NormalizeContent(title))
	if t == "" {
		return FallbackTitle
	}
	return t
}

// NormalizeContent replaces invalid UTF-8 with U+FFFD so text reads back
// exactly as it was stored. Valid text is returned unchanged.
func NormalizeContent(content string) string {
	return strings.ToValidUTF8(content, "\uFFFD")
}
