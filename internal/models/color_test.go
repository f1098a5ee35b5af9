// ABOUTME: Tests for the note color palette.
// ABOUTME: Validates parsing, RGB lookup and palette indexing.

package models

import "testing"

func TestParseColor(t *testing.T) {
	for _, c := range Palette {
		got, err := ParseColor(" " + string(c) + " ")
		if err != nil {
			t.Fatalf("failed to parse %q: %v", c, err)
		}
		if got != c {
			t.Errorf("expected %q, got %q", c, got)
		}
	}

	if _, err := ParseColor("SKY"); err != nil {
		t.Errorf("expected case-insensitive parse: %v", err)
	}
	if _, err := ParseColor("magenta"); err == nil {
		t.Error("expected error for unknown color")
	}
}

func TestColorHex(t *testing.T) {
	if got := ColorPeach.Hex(); got != "#FFCC99" {
		t.Errorf("expected #FFCC99, got %s", got)
	}
	if got := Color("nope").Hex(); got != "#FFFFFF" {
		t.Errorf("expected white for unknown color, got %s", got)
	}
}

func TestPaletteColor(t *testing.T) {
	if PaletteColor(0) != ColorPeach {
		t.Error("expected first palette entry at index 0")
	}
	if PaletteColor(len(Palette)) != ColorPeach {
		t.Error("expected index to wrap")
	}
	if PaletteColor(-1) != ColorLemon {
		t.Error("expected negative index to wrap from the end")
	}
}
