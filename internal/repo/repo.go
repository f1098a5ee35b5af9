// ABOUTME: Note repository owning the in-memory collection.
// ABOUTME: Every mutation flushes the whole collection to the store once.

package repo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/pinboard/internal/events"
	"github.com/harper/pinboard/internal/models"
	"github.com/harper/pinboard/internal/store"
)

var (
	ErrNotFound        = errors.New("note not found")
	ErrPrefixTooShort  = errors.New("prefix must be at least 6 characters")
	ErrAmbiguousPrefix = errors.New("prefix matches multiple notes")
)

// MinPrefix is the shortest id prefix Resolve accepts.
const MinPrefix = 6

// Rand picks palette colors; Intn returns a value in [0, n).
type Rand interface {
	Intn(n int) int
}

// Notifier is told about each mutation after it has been persisted.
type Notifier interface {
	Notify(ctx context.Context, c events.Change) error
}

type defaultRand struct{}

func (defaultRand) Intn(n int) int { return rand.IntN(n) }

// Repository is the single owner of the note collection. Its methods are
// safe to call from multiple goroutines; mutations are serialized.
type Repository struct {
	mu       sync.Mutex
	notes    []*models.Note
	store    store.Store
	now      func() time.Time
	rand     Rand
	log      *log.Logger
	notifier Notifier
	loadErr  error
}

type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

func WithRand(rnd Rand) Option {
	return func(r *Repository) {
		r.rand = rnd
	}
}

func WithLogger(l *log.Logger) Option {
	return func(r *Repository) {
		r.log = l
	}
}

func WithNotifier(n Notifier) Option {
	return func(r *Repository) {
		r.notifier = n
	}
}

// New loads the collection from s. If loading fails the error is logged and
// kept in LoadErr, and the repository starts empty.
func New(s store.Store, opts ...Option) *Repository {
	r := &Repository{
		store: s,
		now:   time.Now,
		rand:  defaultRand{},
		log:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}

	notes, err := s.Load()
	if err != nil {
		r.log.Error("could not load notes, starting empty", "err", err)
		r.loadErr = err
		notes = nil
	}
	r.notes = notes
	if r.notes == nil {
		r.notes = []*models.Note{}
	}
	r.log.Debug("loaded notes", "count", len(r.notes))
	return r
}

// LoadErr returns the error that made New start with an empty collection.
func (r *Repository) LoadErr() error {
	return r.loadErr
}

// Create adds a note with a unique default title and a random palette color
// at the front of the collection.
func (r *Repository) Create() (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	color := models.PaletteColor(r.rand.Intn(len(models.Palette)))
	n := models.NewNote(models.SuggestTitle(models.Titles(r.notes)), color, r.now())
	r.notes = append([]*models.Note{n}, r.notes...)

	if err := r.flush(); err != nil {
		return n.Clone(), err
	}
	r.notify(events.Change{Kind: events.Created, NoteID: n.ID.String(), Title: n.Title, At: n.CreatedAt})
	return n.Clone(), nil
}

// Save replaces the title and content of the note with id. A blank title
// becomes models.FallbackTitle; content is stored verbatim.
func (r *Repository) Save(id uuid.UUID, title, content string) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, _ := r.find(id)
	if n == nil {
		return nil, ErrNotFound
	}
	n.Apply(title, content, r.now())

	if err := r.flush(); err != nil {
		return n.Clone(), err
	}
	r.notify(events.Change{Kind: events.Saved, NoteID: n.ID.String(), Title: n.Title, At: n.UpdatedAt})
	return n.Clone(), nil
}

// Delete removes the note with id. Deleting an unknown id returns
// ErrNotFound and does not touch the store.
func (r *Repository) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, i := r.find(id)
	if n == nil {
		return ErrNotFound
	}
	notes := make([]*models.Note, 0, len(r.notes)-1)
	notes = append(notes, r.notes[:i]...)
	r.notes = append(notes, r.notes[i+1:]...)

	if err := r.flush(); err != nil {
		return err
	}
	r.notify(events.Change{Kind: events.Deleted, NoteID: n.ID.String(), Title: n.Title, At: r.now()})
	return nil
}

// TogglePin flips the pinned flag. UpdatedAt is not changed.
func (r *Repository) TogglePin(id uuid.UUID) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, _ := r.find(id)
	if n == nil {
		return nil, ErrNotFound
	}
	n.Pinned = !n.Pinned

	if err := r.flush(); err != nil {
		return n.Clone(), err
	}
	kind := events.Unpinned
	if n.Pinned {
		kind = events.Pinned
	}
	r.notify(events.Change{Kind: kind, NoteID: n.ID.String(), Title: n.Title, At: r.now()})
	return n.Clone(), nil
}

// All returns copies of every note in collection order, newest insert first.
func (r *Repository) All() []*models.Note {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*models.Note, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Clone()
	}
	return out
}

func (r *Repository) Get(id uuid.UUID) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, _ := r.find(id)
	if n == nil {
		return nil, ErrNotFound
	}
	return n.Clone(), nil
}

// Resolve finds a note by full id or by an id prefix of at least MinPrefix
// characters.
func (r *Repository) Resolve(ref string) (*models.Note, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if id, err := uuid.Parse(ref); err == nil {
		return r.Get(id)
	}
	if len(ref) < MinPrefix {
		return nil, ErrPrefixTooShort
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var matches []*models.Note
	for _, n := range r.notes {
		if strings.HasPrefix(n.ID.String(), ref) {
			matches = append(matches, n)
		}
	}
	switch len(matches) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return matches[0].Clone(), nil
	default:
		return nil, fmt.Errorf("%w: %d matches", ErrAmbiguousPrefix, len(matches))
	}
}

// Import appends notes whose ids are not in the collection yet and flushes
// once. It returns how many were added.
func (r *Repository) Import(notes []*models.Note) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[uuid.UUID]struct{}, len(r.notes)+len(notes))
	for _, n := range r.notes {
		seen[n.ID] = struct{}{}
	}

	now := r.now()
	var added []*models.Note
	for _, in := range notes {
		n := in.Clone()
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		normalizeImported(n, now, r.rand)
		added = append(added, n)
	}
	if len(added) == 0 {
		return 0, nil
	}
	r.notes = append(r.notes, added...)

	if err := r.flush(); err != nil {
		return len(added), err
	}
	r.notify(events.Change{Kind: events.Imported, Count: len(added), At: now})
	return len(added), nil
}

func normalizeImported(n *models.Note, now time.Time, rnd Rand) {
	n.Title = models.NormalizeTitle(n.Title)
	n.Content = models.NormalizeContent(n.Content)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}
	if !n.Color.Valid() {
		n.Color = models.PaletteColor(rnd.Intn(len(models.Palette)))
	}
}

func (r *Repository) find(id uuid.UUID) (*models.Note, int) {
	for i, n := range r.notes {
		if n.ID == id {
			return n, i
		}
	}
	return nil, -1
}

// flush writes the whole collection. The in-memory change stands even when
// the write fails; the caller reports that it may not survive a restart.
func (r *Repository) flush() error {
	if err := r.store.Save(r.notes); err != nil {
		r.log.Warn("could not persist notes", "err", err)
		return err
	}
	return nil
}

func (r *Repository) notify(c events.Change) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(context.Background(), c); err != nil {
		r.log.Warn("could not publish change", "kind", c.Kind, "err", err)
	}
}
