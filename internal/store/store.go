// ABOUTME: Persistence adapter contract for the full note collection.
// ABOUTME: Defines Store, PersistenceError and the on-disk note record.

package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/pinboard/internal/models"
)

// ErrPersistence matches every *PersistenceError via errors.Is.
var ErrPersistence = errors.New("persistence failure")

// Store loads and saves the whole ordered note collection.
//
// Load on a store that does not exist yet returns an empty slice and no
// error. Save replaces the stored collection atomically. Implementations are
// not safe for concurrent use; the repository serializes calls.
type Store interface {
	Load() ([]*models.Note, error)
	Save(notes []*models.Note) error
	Close() error
}

// PersistenceError reports a store that could not be read or written.
type PersistenceError struct {
	Op   string // "load" or "save"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s notes: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s notes %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func loadErr(path string, err error) error {
	return &PersistenceError{Op: "load", Path: path, Err: err}
}

func saveErr(path string, err error) error {
	return &PersistenceError{Op: "save", Path: path, Err: err}
}

// record is the serialized form of a note. Timestamps are Unix nanoseconds
// so every codec and backend keeps full precision.
type record struct {
	ID        string `json:"id" cbor:"id"`
	Title     string `json:"title" cbor:"title"`
	Content   string `json:"content" cbor:"content"`
	CreatedAt int64  `json:"created_at" cbor:"created_at"`
	UpdatedAt int64  `json:"updated_at" cbor:"updated_at"`
	Color     string `json:"color" cbor:"color"`
	Pinned    bool   `json:"pinned" cbor:"pinned"`
}

func fromModel(n *models.Note) record {
	return record{
		ID:        n.ID.String(),
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt.UnixNano(),
		UpdatedAt: n.UpdatedAt.UnixNano(),
		Color:     n.Color.String(),
		Pinned:    n.Pinned,
	}
}

func (r record) toModel() (*models.Note, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, fmt.Errorf("parse note ID: %w", err)
	}
	color, err := models.ParseColor(r.Color)
	if err != nil {
		return nil, fmt.Errorf("note %s: %w", r.ID, err)
	}
	return &models.Note{
		ID:        id,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: time.Unix(0, r.CreatedAt),
		UpdatedAt: time.Unix(0, r.UpdatedAt),
		Color:     color,
		Pinned:    r.Pinned,
	}, nil
}

func fromModels(notes []*models.Note) []record {
	recs := make([]record, len(notes))
	for i, n := range notes {
		recs[i] = fromModel(n)
	}
	return recs
}

func toModels(recs []record) ([]*models.Note, error) {
	notes := make([]*models.Note, 0, len(recs))
	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		n, err := r.toModel()
		if err != nil {
			return nil, err
		}
		key := n.ID.String()
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("duplicate note ID %s", key)
		}
		seen[key] = struct{}{}
		notes = append(notes, n)
	}
	return notes, nil
}
