// Package memory provides an in-memory storage.KV used by tests and
// ephemeral invocations.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/misiekp/hederactl/internal/storage"
)

// KV is an in-memory implementation of storage.KV.
type KV struct {
	mu         sync.RWMutex
	namespaces map[string]map[string][]byte
}

// NewKV creates a new in-memory key-value store.
func NewKV() *KV {
	return &KV{namespaces: make(map[string]map[string][]byte)}
}

// Get retrieves the value at (namespace, key). Returns ErrNotFound if absent.
func (s *KV) Get(_ context.Context, namespace, key string) ([]byte, error) {
	if namespace == "" || key == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		return nil, storage.ErrNotFound
	}
	value, ok := ns[key]
	if !ok {
		return nil, storage.ErrNotFound
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set upserts the value at (namespace, key).
func (s *KV) Set(_ context.Context, namespace, key string, value []byte) error {
	if namespace == "" || key == "" || value == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		ns = make(map[string][]byte)
		s.namespaces[namespace] = ns
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	ns[key] = stored
	return nil
}

// List retrieves every entry in a namespace, sorted by key.
func (s *KV) List(_ context.Context, namespace string) ([]storage.Entry, error) {
	if namespace == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ns := s.namespaces[namespace]
	entries := make([]storage.Entry, 0, len(ns))
	for key, value := range ns {
		out := make([]byte, len(value))
		copy(out, value)
		entries = append(entries, storage.Entry{Key: key, Value: out})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

// Delete removes the record at (namespace, key). Returns ErrNotFound if absent.
func (s *KV) Delete(_ context.Context, namespace, key string) error {
	if namespace == "" || key == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns, ok := s.namespaces[namespace]
	if !ok {
		return storage.ErrNotFound
	}
	if _, ok := ns[key]; !ok {
		return storage.ErrNotFound
	}

	delete(ns, key)
	return nil
}

var _ storage.KV = (*KV)(nil)
