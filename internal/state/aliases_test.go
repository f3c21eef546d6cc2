package state

import (
	"context"
	"errors"
	"testing"

	"github.com/misiekp/hederactl/internal/domain"
	"github.com/misiekp/hederactl/internal/storage"
	"github.com/misiekp/hederactl/internal/storage/memory"
)

func TestAliasRegistry_RegisterAndResolve(t *testing.T) {
	registry := NewAliasRegistry(memory.NewKV())
	ctx := context.Background()

	alias := domain.Alias{
		Alias:    "alice",
		Type:     domain.EntityAccount,
		Network:  domain.NetworkTestnet,
		EntityID: "0.0.501",
		KeyRef:   "ref-alice",
	}
	if err := registry.Register(ctx, alias); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := registry.Resolve(ctx, "alice", domain.EntityAccount, domain.NetworkTestnet)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.EntityID != "0.0.501" || got.KeyRef != "ref-alice" {
		t.Errorf("Resolve returned %+v", got)
	}
	if got.CreatedAt == 0 {
		t.Error("CreatedAt was not stamped")
	}
}

func TestAliasRegistry_Duplicate(t *testing.T) {
	registry := NewAliasRegistry(memory.NewKV())
	ctx := context.Background()

	alias := domain.Alias{Alias: "alice", Type: domain.EntityAccount, Network: domain.NetworkTestnet, EntityID: "0.0.501"}
	if err := registry.Register(ctx, alias); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	alias.EntityID = "0.0.999"
	if err := registry.Register(ctx, alias); !errors.Is(err, ErrDuplicateAlias) {
		t.Errorf("Expected ErrDuplicateAlias, got %v", err)
	}

	// The original mapping is untouched.
	got, err := registry.Resolve(ctx, "alice", domain.EntityAccount, domain.NetworkTestnet)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.EntityID != "0.0.501" {
		t.Errorf("EntityID = %s, want 0.0.501", got.EntityID)
	}
}

func TestAliasRegistry_SameNameDifferentPartition(t *testing.T) {
	registry := NewAliasRegistry(memory.NewKV())
	ctx := context.Background()

	// Same name may coexist across entity types and networks.
	records := []domain.Alias{
		{Alias: "demo", Type: domain.EntityAccount, Network: domain.NetworkTestnet, EntityID: "0.0.501"},
		{Alias: "demo", Type: domain.EntityToken, Network: domain.NetworkTestnet, EntityID: "0.0.1001"},
		{Alias: "demo", Type: domain.EntityAccount, Network: domain.NetworkMainnet, EntityID: "0.0.777"},
	}
	for _, record := range records {
		if err := registry.Register(ctx, record); err != nil {
			t.Fatalf("Register(%s/%s) failed: %v", record.Network, record.Type, err)
		}
	}

	got, err := registry.Resolve(ctx, "demo", domain.EntityToken, domain.NetworkTestnet)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.EntityID != "0.0.1001" {
		t.Errorf("EntityID = %s, want 0.0.1001", got.EntityID)
	}
}

func TestAliasRegistry_ResolveNotFound(t *testing.T) {
	registry := NewAliasRegistry(memory.NewKV())

	_, err := registry.Resolve(context.Background(), "ghost", domain.EntityAccount, domain.NetworkTestnet)
	if !errors.Is(err, ErrAliasNotFound) {
		t.Errorf("Expected ErrAliasNotFound, got %v", err)
	}
}

func TestAliasRegistry_RegisterInvalid(t *testing.T) {
	registry := NewAliasRegistry(memory.NewKV())
	ctx := context.Background()

	tests := []struct {
		name  string
		alias domain.Alias
	}{
		{"empty alias", domain.Alias{Type: domain.EntityAccount, Network: domain.NetworkTestnet, EntityID: "0.0.1"}},
		{"empty entity", domain.Alias{Alias: "a", Type: domain.EntityAccount, Network: domain.NetworkTestnet}},
		{"bad type", domain.Alias{Alias: "a", Type: "widget", Network: domain.NetworkTestnet, EntityID: "0.0.1"}},
		{"bad network", domain.Alias{Alias: "a", Type: domain.EntityAccount, Network: "devnet", EntityID: "0.0.1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := registry.Register(ctx, tt.alias); !errors.Is(err, storage.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestAliasRegistry_ListFiltered(t *testing.T) {
	registry := NewAliasRegistry(memory.NewKV())
	ctx := context.Background()

	records := []domain.Alias{
		{Alias: "zeta", Type: domain.EntityAccount, Network: domain.NetworkTestnet, EntityID: "0.0.1"},
		{Alias: "alpha", Type: domain.EntityAccount, Network: domain.NetworkTestnet, EntityID: "0.0.2"},
		{Alias: "mid", Type: domain.EntityToken, Network: domain.NetworkTestnet, EntityID: "0.0.3"},
		{Alias: "other", Type: domain.EntityAccount, Network: domain.NetworkMainnet, EntityID: "0.0.4"},
	}
	for _, record := range records {
		if err := registry.Register(ctx, record); err != nil {
			t.Fatalf("Register(%s) failed: %v", record.Alias, err)
		}
	}

	all, err := registry.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("List returned %d records, want 4", len(all))
	}
	// Sorted by alias name regardless of storage key order.
	if all[0].Alias != "alpha" || all[3].Alias != "zeta" {
		t.Errorf("List order = [%s ... %s], want alpha first, zeta last", all[0].Alias, all[3].Alias)
	}

	accounts, err := registry.List(ctx, Filter{Network: domain.NetworkTestnet, Type: domain.EntityAccount})
	if err != nil {
		t.Fatalf("List(filtered) failed: %v", err)
	}
	if len(accounts) != 2 {
		t.Errorf("filtered List returned %d records, want 2", len(accounts))
	}
}

func TestAliasRegistry_Remove(t *testing.T) {
	registry := NewAliasRegistry(memory.NewKV())
	ctx := context.Background()

	alias := domain.Alias{Alias: "alice", Type: domain.EntityAccount, Network: domain.NetworkTestnet, EntityID: "0.0.501"}
	if err := registry.Register(ctx, alias); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := registry.Remove(ctx, "alice", domain.EntityAccount, domain.NetworkTestnet); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := registry.Remove(ctx, "alice", domain.EntityAccount, domain.NetworkTestnet); !errors.Is(err, ErrAliasNotFound) {
		t.Errorf("second Remove: expected ErrAliasNotFound, got %v", err)
	}

	// Remove then re-register is the supported rename path.
	if err := registry.Register(ctx, alias); err != nil {
		t.Errorf("re-Register after Remove failed: %v", err)
	}
}

func TestAliasRegistry_FindByEntity(t *testing.T) {
	registry := NewAliasRegistry(memory.NewKV())
	ctx := context.Background()

	if err := registry.Register(ctx, domain.Alias{Alias: "mytoken", Type: domain.EntityToken, Network: domain.NetworkTestnet, EntityID: "0.0.1001"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := registry.FindByEntity(ctx, "0.0.1001", domain.EntityToken, domain.NetworkTestnet)
	if err != nil {
		t.Fatalf("FindByEntity failed: %v", err)
	}
	if got.Alias != "mytoken" {
		t.Errorf("Alias = %s, want mytoken", got.Alias)
	}

	if _, err := registry.FindByEntity(ctx, "0.0.9999", domain.EntityToken, domain.NetworkTestnet); !errors.Is(err, ErrAliasNotFound) {
		t.Errorf("Expected ErrAliasNotFound, got %v", err)
	}
}
