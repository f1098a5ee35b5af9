// ABOUTME: SQLite note store using the pure-Go modernc driver.
// ABOUTME: Each save rewrites the notes table inside one transaction.

package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/pinboard/internal/models"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS notes (
    position   INTEGER NOT NULL,
    id         TEXT PRIMARY KEY,
    title      TEXT NOT NULL,
    content    TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    color      TEXT NOT NULL,
    pinned     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS notes_position ON notes(position);
`

// SQLiteStore opens the database lazily so an unreadable file surfaces as a
// load error instead of a startup failure.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) open() (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	s.db = db
	return db, nil
}

func (s *SQLiteStore) Load() ([]*models.Note, error) {
	db, err := s.open()
	if err != nil {
		return nil, loadErr(s.path, err)
	}

	rows, err := db.Query(
		`SELECT id, title, content, created_at, updated_at, color, pinned
		 FROM notes ORDER BY position`,
	)
	if err != nil {
		return nil, loadErr(s.path, err)
	}
	defer func() { _ = rows.Close() }()

	var recs []record
	for rows.Next() {
		var r record
		if err := rows.Scan(&r.ID, &r.Title, &r.Content, &r.CreatedAt, &r.UpdatedAt, &r.Color, &r.Pinned); err != nil {
			return nil, loadErr(s.path, err)
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, loadErr(s.path, err)
	}

	notes, err := toModels(recs)
	if err != nil {
		return nil, loadErr(s.path, err)
	}
	return notes, nil
}

func (s *SQLiteStore) Save(notes []*models.Note) error {
	db, err := s.open()
	if err != nil {
		return saveErr(s.path, err)
	}
	if err := s.replaceAll(db, fromModels(notes)); err != nil {
		return saveErr(s.path, err)
	}
	return nil
}

func (s *SQLiteStore) replaceAll(db *sql.DB, recs []record) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if _, err := tx.Exec(`DELETE FROM notes`); err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO notes (position, id, title, content, created_at, updated_at, color, pinned)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range recs {
		if _, err := stmt.Exec(i, r.ID, r.Title, r.Content, r.CreatedAt, r.UpdatedAt, r.Color, r.Pinned); err != nil {
			return fmt.Errorf("insert note %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
