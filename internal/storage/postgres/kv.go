package postgres

import (
	"context"
	"fmt"

	"github.com/misiekp/hederactl/internal/storage"
)

// KV implements storage.KV using PostgreSQL.
type KV struct {
	pool *Pool
}

// NewKV creates a new PostgreSQL-backed key-value store.
func NewKV(pool *Pool) *KV {
	return &KV{pool: pool}
}

// Compile-time interface check.
var _ storage.KV = (*KV)(nil)

// Get retrieves the value at (namespace, key). Returns ErrNotFound if absent.
func (s *KV) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	if namespace == "" || key == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT value
		FROM hederactl_kv
		WHERE namespace = $1 AND key = $2
	`

	var value []byte
	err := s.pool.QueryRow(ctx, query, namespace, key).Scan(&value)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}
	return value, nil
}

// Set upserts the value at (namespace, key).
func (s *KV) Set(ctx context.Context, namespace, key string, value []byte) error {
	if namespace == "" || key == "" || value == nil {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO hederactl_kv (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, namespace, key, value); err != nil {
		return fmt.Errorf("set %s/%s: %w", namespace, key, err)
	}
	return nil
}

// List retrieves every entry in a namespace, sorted by key.
func (s *KV) List(ctx context.Context, namespace string) ([]storage.Entry, error) {
	if namespace == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT key, value
		FROM hederactl_kv
		WHERE namespace = $1
		ORDER BY key ASC
	`

	rows, err := s.pool.Query(ctx, query, namespace)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", namespace, err)
	}
	defer rows.Close()

	var entries []storage.Entry
	for rows.Next() {
		var e storage.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("scan %s entry: %w", namespace, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", namespace, err)
	}
	return entries, nil
}

// Delete removes the record at (namespace, key). Returns ErrNotFound if absent.
func (s *KV) Delete(ctx context.Context, namespace, key string) error {
	if namespace == "" || key == "" {
		return storage.ErrInvalidInput
	}

	query := `
		DELETE FROM hederactl_kv
		WHERE namespace = $1 AND key = $2
	`

	tag, err := s.pool.Exec(ctx, query, namespace, key)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
