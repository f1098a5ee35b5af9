// ABOUTME: Round-trip and failure tests shared by every store backend.
// ABOUTME: Covers first-run loads, corruption, ordering and field fidelity.

package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harper/pinboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
)

type backend struct {
	name string
	open func(t *testing.T, dir string) Store
}

func backends() []backend {
	return []backend{
		{"file-json", func(t *testing.T, dir string) Store {
			return NewFileStore(filepath.Join(dir, "notes.json"), JSON)
		}},
		{"file-cbor", func(t *testing.T, dir string) Store {
			return NewFileStore(filepath.Join(dir, "notes.cbor"), CBOR)
		}},
		{"blob-mem", func(t *testing.T, dir string) Store {
			bucket := memblob.OpenBucket(nil)
			t.Cleanup(func() { _ = bucket.Close() })
			return NewBlobStore(bucket, "", JSON)
		}},
		{"blob-file", func(t *testing.T, dir string) Store {
			s, err := OpenBlobStore(context.Background(), "file://"+filepath.ToSlash(dir), "", CBOR)
			require.NoError(t, err)
			return s
		}},
		{"sqlite", func(t *testing.T, dir string) Store {
			return NewSQLiteStore(filepath.Join(dir, "notes.db"))
		}},
		{"badger", func(t *testing.T, dir string) Store {
			return NewBadgerStore(filepath.Join(dir, "badger"), JSON)
		}},
		{"bolt", func(t *testing.T, dir string) Store {
			return NewBoltStore(filepath.Join(dir, "notes.bolt"), CBOR)
		}},
	}
}

func sampleNotes() []*models.Note {
	base := time.Date(2024, 5, 1, 9, 30, 0, 123456789, time.UTC)
	return []*models.Note{
		{
			ID:        uuid.New(),
			Title:     "Groceries",
			Content:   "milk\neggs\n",
			CreatedAt: base,
			UpdatedAt: base.Add(time.Hour),
			Color:     models.ColorLemon,
			Pinned:    true,
		},
		{
			ID:        uuid.New(),
			Title:     "Empty",
			Content:   "",
			CreatedAt: base.Add(time.Minute),
			UpdatedAt: base.Add(time.Minute),
			Color:     models.ColorPlum,
		},
		{
			ID:        uuid.New(),
			Title:     "Unicode ✓ ünïcödé",
			Content:   "  leading and trailing spaces  ",
			CreatedAt: base.Add(-24 * time.Hour),
			UpdatedAt: base.Add(2 * time.Hour),
			Color:     models.ColorSky,
		},
	}
}

func assertNotesEqual(t *testing.T, want, got []*models.Note) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID, "id at %d", i)
		assert.Equal(t, want[i].Title, got[i].Title, "title at %d", i)
		assert.Equal(t, want[i].Content, got[i].Content, "content at %d", i)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt), "created_at at %d", i)
		assert.True(t, want[i].UpdatedAt.Equal(got[i].UpdatedAt), "updated_at at %d", i)
		assert.Equal(t, want[i].Color, got[i].Color, "color at %d", i)
		assert.Equal(t, want[i].Pinned, got[i].Pinned, "pinned at %d", i)
	}
}

func TestLoadMissingStoreIsEmpty(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t, t.TempDir())
			defer func() { _ = s.Close() }()

			notes, err := s.Load()
			require.NoError(t, err)
			assert.NotNil(t, notes)
			assert.Empty(t, notes)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t, t.TempDir())
			defer func() { _ = s.Close() }()

			want := sampleNotes()
			require.NoError(t, s.Save(want))

			got, err := s.Load()
			require.NoError(t, err)
			assertNotesEqual(t, want, got)
		})
	}
}

func TestSaveReplacesCollection(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t, t.TempDir())
			defer func() { _ = s.Close() }()

			notes := sampleNotes()
			require.NoError(t, s.Save(notes))

			// Drop the first note and reverse the rest.
			shorter := []*models.Note{notes[2], notes[1]}
			require.NoError(t, s.Save(shorter))

			got, err := s.Load()
			require.NoError(t, err)
			assertNotesEqual(t, shorter, got)

			require.NoError(t, s.Save(nil))
			got, err = s.Load()
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestReopenKeepsNotes(t *testing.T) {
	for _, b := range backends() {
		if b.name == "blob-mem" {
			continue // memory buckets do not outlive their handle
		}
		t.Run(b.name, func(t *testing.T) {
			dir := t.TempDir()
			want := sampleNotes()

			s := b.open(t, dir)
			require.NoError(t, s.Save(want))
			require.NoError(t, s.Close())

			s = b.open(t, dir)
			defer func() { _ = s.Close() }()
			got, err := s.Load()
			require.NoError(t, err)
			assertNotesEqual(t, want, got)
		})
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFileStore(path, JSON).Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistence))

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "load", perr.Op)
	assert.Equal(t, path, perr.Path)
	assert.NotNil(t, perr.Unwrap())
}

func TestFileStoreChecksumMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	s := NewFileStore(path, JSON)
	require.NoError(t, s.Save(sampleNotes()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	tampered := strings.Replace(string(data), "Groceries", "Groceriez", 1)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0600))

	_, err = s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checksum mismatch")
}

func TestInvalidUTF8DoesNotBreakLoad(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			s := b.open(t, t.TempDir())
			defer func() { _ = s.Close() }()

			raw := sampleNotes()[:1]
			raw[0].Content = "a\xffb"
			require.NoError(t, s.Save(raw))

			got, err := s.Load()
			require.NoError(t, err, "one bad byte must not make the board unreadable")
			require.Len(t, got, 1)
			assert.Equal(t, models.NormalizeContent(raw[0].Content), models.NormalizeContent(got[0].Content))

			clean := sampleNotes()[:1]
			clean[0].Content = models.NormalizeContent("a\xffb")
			require.NoError(t, s.Save(clean))
			got, err = s.Load()
			require.NoError(t, err)
			assertNotesEqual(t, clean, got)
		})
	}
}

func TestCBORKeepsInvalidUTF8Exactly(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "notes.cbor"), CBOR)
	notes := sampleNotes()
	notes[1].Content = "latin-1 caf\xe9"
	require.NoError(t, s.Save(notes))

	got, err := s.Load()
	require.NoError(t, err)
	assertNotesEqual(t, notes, got)
}

func TestFileStoreChecksumIgnoresReformatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	s := NewFileStore(path, JSON)
	notes := sampleNotes()
	require.NoError(t, s.Save(notes))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var compact bytes.Buffer
	require.NoError(t, json.Compact(&compact, data))
	require.NoError(t, os.WriteFile(path, compact.Bytes(), 0600))

	got, err := s.Load()
	require.NoError(t, err)
	assertNotesEqual(t, notes, got)
}

func TestFileStoreUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "checksum": "", "notes": []}`), 0600))

	_, err := NewFileStore(path, JSON).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format version")
}

func TestFileStoreSaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	// The parent "directory" is a regular file, so the save cannot succeed.
	s := NewFileStore(filepath.Join(blocker, "notes.json"), JSON)
	err := s.Save(sampleNotes())
	require.Error(t, err)

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "save", perr.Op)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "notes.json"), JSON)
	require.NoError(t, s.Save(sampleNotes()))
	require.NoError(t, s.Save(sampleNotes()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes.json", entries[0].Name())
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	s := NewFileStore(path, JSON)
	n := sampleNotes()[0]
	require.NoError(t, s.Save([]*models.Note{n, n}))

	_, err := s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate note ID")
}

// smallBadger shrinks badger's memtable so its per-transaction limit is a few
// thousand entries instead of about a hundred thousand.
func smallBadger(dir string) *BadgerStore {
	opts := badger.DefaultOptions(dir).
		WithLogger(nil).
		WithMemTableSize(1 << 20).
		WithValueThreshold(1 << 10)
	return NewBadgerStoreWithOptions(opts, JSON)
}

func TestBadgerStoreSavesBeyondTxnLimit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")
	s := smallBadger(dir)

	base := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	notes := make([]*models.Note, 20000)
	for i := range notes {
		notes[i] = &models.Note{
			ID:        uuid.New(),
			Title:     fmt.Sprintf("Note %d", i),
			Content:   "body",
			CreatedAt: base,
			UpdatedAt: base,
			Color:     models.PaletteColor(i),
		}
	}
	require.NoError(t, s.Save(notes))
	require.NoError(t, s.Save(notes[:10]))
	require.NoError(t, s.Close())

	reopened := smallBadger(dir)
	defer func() { _ = reopened.Close() }()
	got, err := reopened.Load()
	require.NoError(t, err)
	assertNotesEqual(t, notes[:10], got)
}

func TestBadgerStoreIgnoresInterruptedSave(t *testing.T) {
	s := NewBadgerStore(filepath.Join(t.TempDir(), "badger"), JSON)
	defer func() { _ = s.Close() }()

	notes := sampleNotes()
	require.NoError(t, s.Save(notes))

	db, err := s.open()
	require.NoError(t, err)
	var cur uint64
	require.NoError(t, db.View(func(txn *badger.Txn) error {
		cur, err = currentGeneration(txn)
		return err
	}))

	// A save that wrote part of its generation but never switched to it.
	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		for i := 0; i < 5; i++ {
			if err := txn.Set(noteKey(cur+1, i), []byte("{not json")); err != nil {
				return err
			}
		}
		return nil
	}))

	got, err := s.Load()
	require.NoError(t, err)
	assertNotesEqual(t, notes, got)

	require.NoError(t, s.Save(notes[:1]))
	got, err = s.Load()
	require.NoError(t, err)
	assertNotesEqual(t, notes[:1], got)
}

func TestSQLiteStoreNotADatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.db")
	garbage := strings.Repeat("this is not a sqlite database\n", 200)
	require.NoError(t, os.WriteFile(path, []byte(garbage), 0600))

	s := NewSQLiteStore(path)
	defer func() { _ = s.Close() }()
	_, err := s.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistence))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	for _, name := range []string{"file", "sqlite", "bolt"} {
		s, err := Open(ctx, Options{Backend: name, Path: filepath.Join(dir, name)})
		require.NoError(t, err, name)
		require.NoError(t, s.Close())
	}

	s, err := Open(ctx, Options{Backend: "blob", URL: "mem://"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Backend: "floppy", Path: dir})
	assert.Error(t, err)
	_, err = Open(ctx, Options{Backend: "file"})
	assert.Error(t, err)
	_, err = Open(ctx, Options{Backend: "file", Path: dir, Codec: "xml"})
	assert.Error(t, err)
}
