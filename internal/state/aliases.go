package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/misiekp/hederactl/internal/domain"
	"github.com/misiekp/hederactl/internal/storage"
)

// AliasRegistry persists alias records. Records are unique per
// (alias, type, network); re-registering requires an explicit Remove.
type AliasRegistry struct {
	kv  storage.KV
	now func() time.Time // injectable for tests
}

// NewAliasRegistry creates an alias registry over the given KV backend.
func NewAliasRegistry(kv storage.KV) *AliasRegistry {
	return &AliasRegistry{kv: kv, now: time.Now}
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Network domain.Network
	Type    domain.EntityType
}

func aliasKey(network domain.Network, typ domain.EntityType, alias string) string {
	return fmt.Sprintf("%s/%s/%s", network, typ, alias)
}

// Register stores a new alias. Returns ErrDuplicateAlias when the
// (alias, type, network) triple already exists.
func (r *AliasRegistry) Register(ctx context.Context, alias domain.Alias) error {
	if alias.Alias == "" || alias.EntityID == "" || !alias.Type.IsValid() || !alias.Network.IsValid() {
		return storage.ErrInvalidInput
	}

	key := aliasKey(alias.Network, alias.Type, alias.Alias)
	if _, err := r.kv.Get(ctx, storage.NamespaceAliases, key); err == nil {
		return fmt.Errorf("%w: %s (%s on %s)", ErrDuplicateAlias, alias.Alias, alias.Type, alias.Network)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	if alias.CreatedAt == 0 {
		alias.CreatedAt = r.now().UnixMilli()
	}

	data, err := json.Marshal(&alias)
	if err != nil {
		return fmt.Errorf("marshal alias %s: %w", alias.Alias, err)
	}
	return r.kv.Set(ctx, storage.NamespaceAliases, key, data)
}

// Resolve looks up one alias record. Returns ErrAliasNotFound if absent.
func (r *AliasRegistry) Resolve(ctx context.Context, alias string, typ domain.EntityType, network domain.Network) (*domain.Alias, error) {
	data, err := r.kv.Get(ctx, storage.NamespaceAliases, aliasKey(network, typ, alias))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s (%s on %s)", ErrAliasNotFound, alias, typ, network)
		}
		return nil, err
	}

	var record domain.Alias
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal alias %s: %w", alias, err)
	}
	return &record, nil
}

// List retrieves alias records matching the filter, sorted by alias name.
func (r *AliasRegistry) List(ctx context.Context, filter Filter) ([]*domain.Alias, error) {
	entries, err := r.kv.List(ctx, storage.NamespaceAliases)
	if err != nil {
		return nil, err
	}

	var records []*domain.Alias
	for _, e := range entries {
		var record domain.Alias
		if err := json.Unmarshal(e.Value, &record); err != nil {
			return nil, fmt.Errorf("unmarshal alias %s: %w", e.Key, err)
		}
		if filter.Network != "" && record.Network != filter.Network {
			continue
		}
		if filter.Type != "" && record.Type != filter.Type {
			continue
		}
		records = append(records, &record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Alias < records[j].Alias
	})
	return records, nil
}

// Remove deletes an alias record. Returns ErrAliasNotFound if absent.
func (r *AliasRegistry) Remove(ctx context.Context, alias string, typ domain.EntityType, network domain.Network) error {
	err := r.kv.Delete(ctx, storage.NamespaceAliases, aliasKey(network, typ, alias))
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s (%s on %s)", ErrAliasNotFound, alias, typ, network)
	}
	return err
}

// FindByEntity returns the first alias pointing at an entity ID, for
// display flows that prefer names over raw IDs.
func (r *AliasRegistry) FindByEntity(ctx context.Context, entityID string, typ domain.EntityType, network domain.Network) (*domain.Alias, error) {
	records, err := r.List(ctx, Filter{Network: network, Type: typ})
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if record.EntityID == entityID {
			return record, nil
		}
	}
	return nil, fmt.Errorf("%w: no alias for %s (%s on %s)", ErrAliasNotFound, entityID, typ, network)
}
