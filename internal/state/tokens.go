// Package state persists the CLI's view of ledger entities: token
// records with their associations, and the alias registry. Both sit on
// a namespaced storage.KV, so every backend serves them unchanged.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/misiekp/hederactl/internal/domain"
	"github.com/misiekp/hederactl/internal/storage"
)

// TokenStore persists domain.Token records keyed by token ID.
type TokenStore struct {
	kv  storage.KV
	now func() time.Time // injectable for tests
}

// NewTokenStore creates a token store over the given KV backend.
func NewTokenStore(kv storage.KV) *TokenStore {
	return &TokenStore{kv: kv, now: time.Now}
}

// Save upserts a token record. CreatedAt is stamped on first save.
func (s *TokenStore) Save(ctx context.Context, token *domain.Token) error {
	if token == nil || token.TokenID == "" {
		return storage.ErrInvalidInput
	}
	if token.CreatedAt == 0 {
		token.CreatedAt = s.now().UnixMilli()
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token %s: %w", token.TokenID, err)
	}
	return s.kv.Set(ctx, storage.NamespaceTokens, token.TokenID, data)
}

// Get retrieves a token by ID. Returns ErrTokenNotFound if absent.
func (s *TokenStore) Get(ctx context.Context, tokenID string) (*domain.Token, error) {
	data, err := s.kv.Get(ctx, storage.NamespaceTokens, tokenID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
		}
		return nil, err
	}

	var token domain.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("unmarshal token %s: %w", tokenID, err)
	}
	return &token, nil
}

// List retrieves all token records sorted by token ID.
func (s *TokenStore) List(ctx context.Context) ([]*domain.Token, error) {
	entries, err := s.kv.List(ctx, storage.NamespaceTokens)
	if err != nil {
		return nil, err
	}

	tokens := make([]*domain.Token, 0, len(entries))
	for _, e := range entries {
		var token domain.Token
		if err := json.Unmarshal(e.Value, &token); err != nil {
			return nil, fmt.Errorf("unmarshal token %s: %w", e.Key, err)
		}
		tokens = append(tokens, &token)
	}
	return tokens, nil
}

// AddAssociation appends an association to a token record.
// Returns (false, nil) when the account is already associated: repeat
// associations are success, not failure. Missing token is
// ErrTokenNotFound.
func (s *TokenStore) AddAssociation(ctx context.Context, tokenID string, assoc domain.Association) (bool, error) {
	if assoc.AccountID == "" {
		return false, storage.ErrInvalidInput
	}

	token, err := s.Get(ctx, tokenID)
	if err != nil {
		return false, err
	}

	if token.HasAssociation(assoc.AccountID) {
		return false, nil
	}

	token.Associations = append(token.Associations, assoc)
	if err := s.Save(ctx, token); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes a token record. Returns ErrTokenNotFound if absent.
func (s *TokenStore) Remove(ctx context.Context, tokenID string) error {
	err := s.kv.Delete(ctx, storage.NamespaceTokens, tokenID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrTokenNotFound, tokenID)
	}
	return err
}

// Stats aggregates token statistics on demand from the stored records.
func (s *TokenStore) Stats(ctx context.Context) (*domain.TokenStats, error) {
	tokens, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &domain.TokenStats{
		Total:        len(tokens),
		ByNetwork:    make(map[domain.Network]int),
		BySupplyType: make(map[domain.SupplyType]int),
	}
	for _, token := range tokens {
		stats.ByNetwork[token.Network]++
		stats.BySupplyType[token.SupplyType]++
		if n := len(token.Associations); n > 0 {
			stats.WithAssociations++
			stats.TotalAssociations += n
		}
	}
	return stats, nil
}
