// ABOUTME: Note store backed by a gocloud.dev blob bucket.
// ABOUTME: Supports file:// and mem:// buckets; blobs are replaced whole.

package store

import (
	"context"
	"fmt"

	"github.com/harper/pinboard/internal/models"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

// DefaultBlobKey is the object name holding the collection.
const DefaultBlobKey = "notes.pinboard"

type BlobStore struct {
	bucket *blob.Bucket
	key    string
	codec  Codec
	owned  bool
}

// OpenBlobStore opens the bucket at url (for example file:///var/notes or
// mem://) and stores the collection under key.
func OpenBlobStore(ctx context.Context, url, key string, codec Codec) (*BlobStore, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", url, err)
	}
	s := NewBlobStore(bucket, key, codec)
	s.owned = true
	return s, nil
}

// NewBlobStore uses an already opened bucket. The caller keeps ownership.
func NewBlobStore(bucket *blob.Bucket, key string, codec Codec) *BlobStore {
	if key == "" {
		key = DefaultBlobKey
	}
	if codec == nil {
		codec = JSON
	}
	return &BlobStore{bucket: bucket, key: key, codec: codec}
}

func (s *BlobStore) Load() ([]*models.Note, error) {
	data, err := s.bucket.ReadAll(context.Background(), s.key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return []*models.Note{}, nil
	}
	if err != nil {
		return nil, loadErr(s.key, err)
	}
	recs, err := decodeEnvelope(s.codec, data)
	if err != nil {
		return nil, loadErr(s.key, err)
	}
	notes, err := toModels(recs)
	if err != nil {
		return nil, loadErr(s.key, err)
	}
	return notes, nil
}

// Save writes a new blob; the bucket only exposes it once the writer closes
// successfully, so a failed write leaves the previous blob intact.
func (s *BlobStore) Save(notes []*models.Note) error {
	data, err := encodeEnvelope(s.codec, fromModels(notes))
	if err != nil {
		return saveErr(s.key, err)
	}
	opts := &blob.WriterOptions{ContentType: contentType(s.codec)}
	if err := s.bucket.WriteAll(context.Background(), s.key, data, opts); err != nil {
		return saveErr(s.key, err)
	}
	return nil
}

func (s *BlobStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.bucket.Close()
}

func contentType(c Codec) string {
	if c.Name() == "cbor" {
		return "application/cbor"
	}
	return "application/json"
}
