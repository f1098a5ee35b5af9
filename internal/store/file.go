// ABOUTME: Single-file note store with write-then-rename saves.
// ABOUTME: The file holds one codec-encoded envelope of the whole collection.

package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/harper/pinboard/internal/models"
)

type FileStore struct {
	path  string
	codec Codec
}

func NewFileStore(path string, codec Codec) *FileStore {
	if codec == nil {
		codec = JSON
	}
	return &FileStore{path: path, codec: codec}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() ([]*models.Note, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []*models.Note{}, nil
	}
	if err != nil {
		return nil, loadErr(s.path, err)
	}
	recs, err := decodeEnvelope(s.codec, data)
	if err != nil {
		return nil, loadErr(s.path, err)
	}
	notes, err := toModels(recs)
	if err != nil {
		return nil, loadErr(s.path, err)
	}
	return notes, nil
}

func (s *FileStore) Save(notes []*models.Note) error {
	data, err := encodeEnvelope(s.codec, fromModels(notes))
	if err != nil {
		return saveErr(s.path, err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return saveErr(s.path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// writeFileAtomic writes data to a temp file beside path and renames it into
// place, so a crash leaves either the old or the new contents.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op after a successful rename
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
