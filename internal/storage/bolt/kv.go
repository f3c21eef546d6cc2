// Package bolt provides a bbolt-backed storage.KV. Each namespace maps to
// one bucket; this is the default backend for local CLI state.
package bolt

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/misiekp/hederactl/internal/storage"
)

// KV is a bbolt-backed implementation of storage.KV.
type KV struct {
	db *bbolt.DB
}

// Open opens (or creates) the database file at path.
func Open(path string) (*KV, error) {
	if path == "" {
		return nil, fmt.Errorf("state db path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	return &KV{db: db}, nil
}

// Close closes the underlying database.
func (s *KV) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get retrieves the value at (namespace, key). Returns ErrNotFound if absent.
func (s *KV) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if namespace == "" || key == "" {
		return nil, storage.ErrInvalidInput
	}

	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return storage.ErrNotFound
		}
		value := bucket.Get([]byte(key))
		if value == nil {
			return storage.ErrNotFound
		}
		out = make([]byte, len(value))
		copy(out, value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set upserts the value at (namespace, key), creating the bucket on first use.
func (s *KV) Set(ctx context.Context, namespace, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if namespace == "" || key == "" || value == nil {
		return storage.ErrInvalidInput
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return fmt.Errorf("create namespace %q: %w", namespace, err)
		}
		return bucket.Put([]byte(key), value)
	})
}

// List retrieves every entry in a namespace, sorted by key
// (bbolt cursors iterate in byte order).
func (s *KV) List(ctx context.Context, namespace string) ([]storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if namespace == "" {
		return nil, storage.ErrInvalidInput
	}

	var entries []storage.Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			value := make([]byte, len(v))
			copy(value, v)
			entries = append(entries, storage.Entry{Key: string(k), Value: value})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes the record at (namespace, key). Returns ErrNotFound if absent.
func (s *KV) Delete(ctx context.Context, namespace, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if namespace == "" || key == "" {
		return storage.ErrInvalidInput
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return storage.ErrNotFound
		}
		if bucket.Get([]byte(key)) == nil {
			return storage.ErrNotFound
		}
		return bucket.Delete([]byte(key))
	})
}

var _ storage.KV = (*KV)(nil)
