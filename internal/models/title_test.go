// ABOUTME: Tests for default title suggestion.
// ABOUTME: Covers the base title, counters, and gaps in the sequence.

package models

import "testing"

func set(titles ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		s[t] = struct{}{}
	}
	return s
}

func TestSuggestTitle(t *testing.T) {
	tests := []struct {
		name     string
		existing map[string]struct{}
		want     string
	}{
		{"empty", set(), "New Note"},
		{"nil", nil, "New Note"},
		{"unrelated", set("Apple", "Banana"), "New Note"},
		{"base taken", set("New Note"), "New Note 2"},
		{"sequence", set("New Note", "New Note 2", "New Note 3"), "New Note 4"},
		{"gap", set("New Note", "New Note 3"), "New Note 2"},
		{"counter only", set("New Note 2"), "New Note"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestTitle(tt.existing); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSuggestTitleNeverCollides(t *testing.T) {
	existing := set()
	for i := 0; i < 50; i++ {
		title := SuggestTitle(existing)
		if _, ok := existing[title]; ok {
			t.Fatalf("suggested title %q already exists", title)
		}
		existing[title] = struct{}{}
	}
}
