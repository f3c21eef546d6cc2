// Package storage defines the namespaced key-value contract the state
// layer persists through, plus its sentinel errors. A namespace isolates
// one entity kind's records (e.g. "tokens", "aliases") from the others.
package storage

import "context"

// Namespaces used by the state layer.
const (
	NamespaceTokens  = "tokens"
	NamespaceAliases = "aliases"
)

// Entry is a single record inside a namespace.
type Entry struct {
	Key   string
	Value []byte
}

// KV provides namespaced key-value persistence.
type KV interface {
	// Get retrieves the value at (namespace, key). Returns ErrNotFound if absent.
	Get(ctx context.Context, namespace, key string) ([]byte, error)

	// Set upserts the value at (namespace, key), creating the namespace
	// on first use. Setting an identical value is a no-op observationally.
	Set(ctx context.Context, namespace, key string, value []byte) error

	// List retrieves every entry in a namespace, sorted by key.
	// An unknown namespace yields an empty slice, not an error.
	List(ctx context.Context, namespace string) ([]Entry, error)

	// Delete removes the record at (namespace, key). Returns ErrNotFound if absent.
	Delete(ctx context.Context, namespace, key string) error
}

// Closer is implemented by backends holding external resources
// (file handles, connection pools).
type Closer interface {
	Close() error
}
