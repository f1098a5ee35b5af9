// ABOUTME: Import of notes from JSON exports and markdown files.
// ABOUTME: Parses YAML/TOML/JSON frontmatter with adrg/frontmatter.

package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"
	"github.com/harper/pinboard/internal/models"
)

// ImportJSON reads an ExportData document.
func ImportJSON(r io.Reader) ([]*models.Note, error) {
	var export ExportData
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}

	notes := make([]*models.Note, 0, len(export.Notes))
	for _, en := range export.Notes {
		n := &models.Note{
			Title:     en.Title,
			Content:   en.Content,
			CreatedAt: en.CreatedAt,
			UpdatedAt: en.UpdatedAt,
			Pinned:    en.Pinned,
			Color:     parseColorOrEmpty(en.Color),
		}
		// Try to preserve original ID if valid
		if id, err := uuid.Parse(en.ID); err == nil {
			n.ID = id
		}
		notes = append(notes, n)
	}
	return notes, nil
}

type markdownMeta struct {
	ID      string `yaml:"id" toml:"id" json:"id"`
	Title   string `yaml:"title" toml:"title" json:"title"`
	Color   string `yaml:"color" toml:"color" json:"color"`
	Pinned  bool   `yaml:"pinned" toml:"pinned" json:"pinned"`
	Created string `yaml:"created" toml:"created" json:"created"`
	Updated string `yaml:"updated" toml:"updated" json:"updated"`
}

// ImportMarkdown reads one markdown note. Without a title in the
// frontmatter, fallbackTitle is used.
func ImportMarkdown(r io.Reader, fallbackTitle string) (*models.Note, error) {
	var meta markdownMeta
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	n := &models.Note{
		Title:   meta.Title,
		Content: string(bytes.TrimPrefix(body, []byte("\n"))),
		Color:   parseColorOrEmpty(meta.Color),
		Pinned:  meta.Pinned,
	}
	if n.Title == "" {
		n.Title = fallbackTitle
	}
	if id, err := uuid.Parse(meta.ID); err == nil {
		n.ID = id
	}
	if t, err := time.Parse(time.RFC3339Nano, meta.Created); err == nil {
		n.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339Nano, meta.Updated); err == nil {
		n.UpdatedAt = t
	}
	return n, nil
}

// ImportMarkdownFile reads a markdown note, using the file name as the
// fallback title.
func ImportMarkdownFile(path string) (*models.Note, error) {
	f, err := os.Open(path) //nolint:gosec // User-specified file path is expected CLI behavior
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return ImportMarkdown(f, strings.TrimSuffix(filepath.Base(path), ".md"))
}

// ImportMarkdownDir reads every .md file under dir. Files that fail to parse
// are reported in skipped and do not stop the walk.
func ImportMarkdownDir(dir string) (notes []*models.Note, skipped map[string]error, err error) {
	skipped = map[string]error{}
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}
		n, err := ImportMarkdownFile(path)
		if err != nil {
			skipped[path] = err
			return nil
		}
		notes = append(notes, n)
		return nil
	})
	return notes, skipped, err
}

func parseColorOrEmpty(s string) models.Color {
	c, err := models.ParseColor(s)
	if err != nil {
		return ""
	}
	return c
}
