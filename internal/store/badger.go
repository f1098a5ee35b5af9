// ABOUTME: Badger note store with generation-prefixed keys (note:<gen>:<pos>).
// ABOUTME: Saves stage a new generation in a WriteBatch, then switch to it.

package store

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/harper/pinboard/internal/models"
)

const (
	// NotePrefix is the key prefix for notes.
	NotePrefix = "note:"
	// generationKey points at the note generation that Load reads.
	generationKey = "meta:generation"
)

// BadgerStore writes each save as a new generation of keys
// (note:<generation>:<position>) through a WriteBatch, so the size of a
// save is not bound by badger's transaction limits. Switching the
// generation key in a small txn makes the save visible all at once.
type BadgerStore struct {
	dir   string
	opts  badger.Options
	codec Codec
	db    *badger.DB
}

func NewBadgerStore(dir string, codec Codec) *BadgerStore {
	return NewBadgerStoreWithOptions(badger.DefaultOptions(dir).WithLogger(nil), codec)
}

func NewBadgerStoreWithOptions(opts badger.Options, codec Codec) *BadgerStore {
	if codec == nil {
		codec = JSON
	}
	return &BadgerStore{dir: opts.Dir, opts: opts, codec: codec}
}

func (s *BadgerStore) open() (*badger.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	db, err := badger.Open(s.opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s.db = db
	return db, nil
}

func generationPrefix(gen uint64) []byte {
	return []byte(fmt.Sprintf("%s%08d:", NotePrefix, gen))
}

// noteKey returns the key for the note at position i of generation gen.
func noteKey(gen uint64, i int) []byte {
	return append(generationPrefix(gen), fmt.Sprintf("%08d", i)...)
}

func currentGeneration(txn *badger.Txn) (uint64, error) {
	item, err := txn.Get([]byte(generationKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var gen uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("invalid generation value %x", val)
		}
		gen = binary.BigEndian.Uint64(val)
		return nil
	})
	return gen, err
}

func (s *BadgerStore) Load() ([]*models.Note, error) {
	db, err := s.open()
	if err != nil {
		return nil, loadErr(s.dir, err)
	}

	var recs []record
	err = db.View(func(txn *badger.Txn) error {
		gen, err := currentGeneration(txn)
		if err != nil {
			return err
		}
		prefix := generationPrefix(gen)

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var r record
				if err := s.codec.Unmarshal(val, &r); err != nil {
					return fmt.Errorf("decode %s: %w", item.Key(), err)
				}
				recs = append(recs, r)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, loadErr(s.dir, err)
	}

	notes, err := toModels(recs)
	if err != nil {
		return nil, loadErr(s.dir, err)
	}
	return notes, nil
}

// Save assumes a single writer, which the repository guarantees.
func (s *BadgerStore) Save(notes []*models.Note) error {
	db, err := s.open()
	if err != nil {
		return saveErr(s.dir, err)
	}

	var cur uint64
	if err := db.View(func(txn *badger.Txn) error {
		cur, err = currentGeneration(txn)
		return err
	}); err != nil {
		return saveErr(s.dir, err)
	}
	next := cur + 1

	// Leftovers of an interrupted save would otherwise mix into this one.
	if err := db.DropPrefix(generationPrefix(next)); err != nil {
		return saveErr(s.dir, fmt.Errorf("clear generation %d: %w", next, err))
	}

	wb := db.NewWriteBatch()
	for i, r := range fromModels(notes) {
		val, err := s.codec.Marshal(r)
		if err != nil {
			wb.Cancel()
			return saveErr(s.dir, fmt.Errorf("encode note %s: %w", r.ID, err))
		}
		if err := wb.Set(noteKey(next, i), val); err != nil {
			wb.Cancel()
			return saveErr(s.dir, fmt.Errorf("set note %s: %w", r.ID, err))
		}
	}
	if err := wb.Flush(); err != nil {
		return saveErr(s.dir, fmt.Errorf("write generation %d: %w", next, err))
	}

	err = db.Update(func(txn *badger.Txn) error {
		val := make([]byte, 8)
		binary.BigEndian.PutUint64(val, next)
		return txn.Set([]byte(generationKey), val)
	})
	if err != nil {
		return saveErr(s.dir, fmt.Errorf("switch generation: %w", err))
	}

	// The new generation is live; an old one left behind is only garbage.
	_ = db.DropPrefix(generationPrefix(cur))
	return nil
}

func (s *BadgerStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
