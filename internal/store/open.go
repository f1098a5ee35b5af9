// ABOUTME: Backend selection for note stores.
// ABOUTME: Maps a backend name and location to a concrete Store.

package store

import (
	"context"
	"fmt"
)

// Backends lists the supported backend names.
var Backends = []string{"file", "blob", "sqlite", "badger", "bolt"}

type Options struct {
	Backend string // one of Backends; empty means "file"
	Path    string // file, database file or badger directory
	URL     string // bucket URL for the blob backend
	Key     string // blob key; defaults to DefaultBlobKey
	Codec   string // "json" or "cbor"
}

func Open(ctx context.Context, opts Options) (Store, error) {
	codec, err := CodecByName(opts.Codec)
	if err != nil {
		return nil, err
	}

	switch opts.Backend {
	case "", "file":
		if opts.Path == "" {
			return nil, fmt.Errorf("file backend requires a path")
		}
		return NewFileStore(opts.Path, codec), nil
	case "blob":
		if opts.URL == "" {
			return nil, fmt.Errorf("blob backend requires a bucket URL")
		}
		return OpenBlobStore(ctx, opts.URL, opts.Key, codec)
	case "sqlite":
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite backend requires a path")
		}
		return NewSQLiteStore(opts.Path), nil
	case "badger":
		if opts.Path == "" {
			return nil, fmt.Errorf("badger backend requires a directory")
		}
		return NewBadgerStore(opts.Path, codec), nil
	case "bolt":
		if opts.Path == "" {
			return nil, fmt.Errorf("bolt backend requires a path")
		}
		return NewBoltStore(opts.Path, codec), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
