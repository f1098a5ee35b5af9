// ABOUTME: Default title suggestion for newly created notes.
// ABOUTME: Appends an increasing counter until the title is unique.

package models

import "strconv"

// BaseTitle is the first title suggested for a new note.
const BaseTitle = "New Note"

// SuggestTitle returns BaseTitle, or "New Note N" for the smallest N >= 2
// that is not already taken.
func SuggestTitle(existing map[string]struct{}) string {
	if _, taken := existing[BaseTitle]; !taken {
		return BaseTitle
	}
	for i := 2; ; i++ {
		t := BaseTitle + " " + strconv.Itoa(i)
		if _, taken := existing[t]; !taken {
			return t
		}
	}
}

// Titles collects the titles of notes into a set.
func Titles(notes []*Note) map[string]struct{} {
	set := make(map[string]struct{}, len(notes))
	for _, n := range notes {
		set[n.Title] = struct{}{}
	}
	return set
}
