// ABOUTME: Display projection of the note collection.
// ABOUTME: Filters by search text and orders pinned-first, then by recency.

package view

import (
	"sort"
	"strings"

	"github.com/harper/pinboard/internal/models"
)

// Project returns the notes matching query, pinned notes first, then most
// recently updated, ties broken by id. The input slice is left untouched.
func Project(notes []*models.Note, query string) []*models.Note {
	q := normalize(query)

	out := make([]*models.Note, 0, len(notes))
	for _, n := range notes {
		if matches(n, q) {
			out = append(out, n)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return Less(out[i], out[j])
	})
	return out
}

// Less reports whether a sorts before b in a projection.
func Less(a, b *models.Note) bool {
	if a.Pinned != b.Pinned {
		return a.Pinned
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// Matches reports whether the note's title or content contains query,
// ignoring case and surrounding whitespace. A blank query matches any note.
func Matches(n *models.Note, query string) bool {
	return matches(n, normalize(query))
}

func normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func matches(n *models.Note, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(n.Title), q) ||
		strings.Contains(strings.ToLower(n.Content), q)
}
