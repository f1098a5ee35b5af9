// ABOUTME: Tests for Note model constructor and save semantics.
// ABOUTME: Validates UUID generation, title defaulting and timestamps.

package models

import (
	"testing"
	"time"
)

func TestNewNote(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	note := NewNote("Test Note", ColorSky, now)

	if note.ID.String() == "" {
		t.Error("expected UUID to be generated")
	}
	if note.Title != "Test Note" {
		t.Errorf("expected title %q, got %q", "Test Note", note.Title)
	}
	if note.Content != "" {
		t.Errorf("expected empty content, got %q", note.Content)
	}
	if !note.CreatedAt.Equal(now) || !note.UpdatedAt.Equal(now) {
		t.Error("expected timestamps to be set to now")
	}
	if note.Color != ColorSky {
		t.Errorf("expected color sky, got %q", note.Color)
	}
	if note.Pinned {
		t.Error("expected new note to be unpinned")
	}
}

func TestNoteApply(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	note := NewNote("Old", ColorLime, created)

	later := created.Add(time.Minute)
	note.Apply("  New title  ", "  body kept as is  ", later)

	if note.Title != "New title" {
		t.Errorf("expected trimmed title, got %q", note.Title)
	}
	if note.Content != "  body kept as is  " {
		t.Errorf("expected content verbatim, got %q", note.Content)
	}
	if !note.UpdatedAt.Equal(later) {
		t.Errorf("expected UpdatedAt %v, got %v", later, note.UpdatedAt)
	}
	if !note.CreatedAt.Equal(created) {
		t.Error("expected CreatedAt to be unchanged")
	}
}

func TestNoteApplyClockSkew(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	note := NewNote("Old", ColorLime, created)

	note.Apply("x", "y", created.Add(-time.Hour))

	if note.UpdatedAt.Before(note.CreatedAt) {
		t.Error("expected UpdatedAt to never precede CreatedAt")
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", FallbackTitle},
		{"   ", FallbackTitle},
		{"\t\n", FallbackTitle},
		{" Apple ", "Apple"},
		{"Apple", "Apple"},
	}
	for _, tt := range tests {
		if got := NormalizeTitle(tt.in); got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNoteClone(t *testing.T) {
	note := NewNote("Test", ColorPlum, time.Now())
	c := note.Clone()
	c.Title = "Changed"
	c.Pinned = true

	if note.Title != "Test" || note.Pinned {
		t.Error("expected clone to be independent of the original")
	}
	if c.ID != note.ID {
		t.Error("expected clone to keep the id")
	}
}

func TestNoteApplyInvalidUTF8(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	note := NewNote("caf\xe9", ColorSky, now)
	if note.Title != "caf�" {
		t.Errorf("expected invalid byte in title to be replaced, got %q", note.Title)
	}

	note.Apply("Latin-1", "na\xefve", now)
	if note.Content != "na�ve" {
		t.Errorf("expected invalid byte in content to be replaced, got %q", note.Content)
	}

	if got := NormalizeContent("plain ✓ text"); got != "plain ✓ text" {
		t.Errorf("expected valid text unchanged, got %q", got)
	}
}
