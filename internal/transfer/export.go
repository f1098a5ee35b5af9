// ABOUTME: Export of notes to JSON, markdown with frontmatter, and HTML.
// ABOUTME: Markdown files carry every note field so they can be re-imported.

package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/pinboard/internal/models"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

// Version is written into JSON exports.
const Version = "1.0"

type ExportNote struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"-"`
	Color     string    `json:"color" yaml:"color"`
	Pinned    bool      `json:"pinned" yaml:"pinned"`
	CreatedAt time.Time `json:"created_at" yaml:"-"`
	UpdatedAt time.Time `json:"updated_at" yaml:"-"`
}

type ExportData struct {
	ExportedAt time.Time    `json:"exported_at"`
	Version    string       `json:"version"`
	Notes      []ExportNote `json:"notes"`
}

// mdHeader is the YAML frontmatter of an exported markdown note.
type mdHeader struct {
	ExportNote `yaml:",inline"`
	Created    string `yaml:"created"`
	Updated    string `yaml:"updated"`
}

func toExport(n *models.Note) ExportNote {
	return ExportNote{
		ID:        n.ID.String(),
		Title:     n.Title,
		Content:   n.Content,
		Color:     n.Color.String(),
		Pinned:    n.Pinned,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func ExportJSON(w io.Writer, notes []*models.Note, now time.Time) error {
	export := ExportData{
		ExportedAt: now,
		Version:    Version,
		Notes:      make([]ExportNote, 0, len(notes)),
	}
	for _, n := range notes {
		export.Notes = append(export.Notes, toExport(n))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(export)
}

// MarshalMarkdown renders one note as markdown with a YAML header.
func MarshalMarkdown(n *models.Note) ([]byte, error) {
	fm := mdHeader{
		ExportNote: toExport(n),
		Created:    n.CreatedAt.Format(time.RFC3339Nano),
		Updated:    n.UpdatedAt.Format(time.RFC3339Nano),
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(n.Content)
	return buf.Bytes(), nil
}

// ExportMarkdown writes one .md file per note into dir and returns the
// number of files written.
func ExportMarkdown(dir string, notes []*models.Note) (int, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return 0, err
	}

	used := make(map[string]bool, len(notes))
	for i, n := range notes {
		data, err := MarshalMarkdown(n)
		if err != nil {
			return i, err
		}

		name := SanitizeFilename(n.Title)
		if used[strings.ToLower(name)] {
			name = name + "-" + n.ShortID()
		}
		used[strings.ToLower(name)] = true

		if err := os.WriteFile(filepath.Join(dir, name+".md"), data, 0600); err != nil {
			return i, err
		}
	}
	return len(notes), nil
}

// SanitizeFilename replaces characters that are unsafe in file names.
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "" {
		name = models.FallbackTitle
	}
	if r := []rune(name); len(r) > 100 {
		name = string(r[:100])
	}
	return name
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>pinboard</title>
</head>
<body>
{{- range .}}
<article id="note-{{.ID}}" style="background-color: {{.Background}}; padding: 1em; margin: 1em 0;">
<h2>{{if .Pinned}}📌 {{end}}{{.Title}}</h2>
<p><small>Updated {{.Updated}}</small></p>
{{.Body}}
</article>
{{- end}}
</body>
</html>
`))

type htmlNote struct {
	ID         string
	Title      string
	Pinned     bool
	Background template.CSS
	Updated    string
	Body       template.HTML
}

// ExportHTML renders notes, in the given order, as a single HTML page.
func ExportHTML(w io.Writer, notes []*models.Note) error {
	md := goldmark.New()

	items := make([]htmlNote, 0, len(notes))
	for _, n := range notes {
		var body bytes.Buffer
		if err := md.Convert([]byte(n.Content), &body); err != nil {
			return fmt.Errorf("render note %s: %w", n.ShortID(), err)
		}
		items = append(items, htmlNote{
			ID:         n.ID.String(),
			Title:      n.Title,
			Pinned:     n.Pinned,
			Background: template.CSS(n.Color.Hex()),
			Updated:    n.UpdatedAt.Format("2006-01-02 15:04"),
			Body:       template.HTML(body.String()), //nolint:gosec // goldmark escapes raw HTML by default
		})
	}
	return page.Execute(w, items)
}
