// ABOUTME: bbolt note store keeping one bucket of position-keyed records.
// ABOUTME: Saves recreate the bucket inside a single Update transaction.

package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/pinboard/internal/models"
	bolt "go.etcd.io/bbolt"
)

var notesBucket = []byte("notes")

type BoltStore struct {
	path  string
	codec Codec
	db    *bolt.DB
}

func NewBoltStore(path string, codec Codec) *BoltStore {
	if codec == nil {
		codec = JSON
	}
	return &BoltStore{path: path, codec: codec}
}

func (s *BoltStore) open() (*bolt.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	db, err := bolt.Open(s.path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt: %w", err)
	}
	s.db = db
	return db, nil
}

func itob(i int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(i))
	return b
}

func (s *BoltStore) Load() ([]*models.Note, error) {
	db, err := s.open()
	if err != nil {
		return nil, loadErr(s.path, err)
	}

	var recs []record
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(notesBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var r record
			if err := s.codec.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decode note at %d: %w", binary.BigEndian.Uint64(k), err)
			}
			recs = append(recs, r)
			return nil
		})
	})
	if err != nil {
		return nil, loadErr(s.path, err)
	}

	notes, err := toModels(recs)
	if err != nil {
		return nil, loadErr(s.path, err)
	}
	return notes, nil
}

func (s *BoltStore) Save(notes []*models.Note) error {
	db, err := s.open()
	if err != nil {
		return saveErr(s.path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(notesBucket) != nil {
			if err := tx.DeleteBucket(notesBucket); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket(notesBucket)
		if err != nil {
			return err
		}
		for i, r := range fromModels(notes) {
			val, err := s.codec.Marshal(r)
			if err != nil {
				return fmt.Errorf("encode note %s: %w", r.ID, err)
			}
			if err := b.Put(itob(i), val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return saveErr(s.path, err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
