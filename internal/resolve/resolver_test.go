package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/misiekp/hederactl/internal/domain"
	"github.com/misiekp/hederactl/internal/keys"
	"github.com/misiekp/hederactl/internal/state"
	"github.com/misiekp/hederactl/internal/storage/memory"
)

const testSeedHex = "1111111111111111111111111111111111111111111111111111111111111111"

func newTestResolver() (*Resolver, *keys.Store, *state.AliasRegistry) {
	keyStore := keys.NewStore(nil)
	aliases := state.NewAliasRegistry(memory.NewKV())
	return New(keyStore, aliases, domain.NetworkTestnet), keyStore, aliases
}

func TestResolveAccount_IDWithSecret(t *testing.T) {
	resolver, keyStore, _ := newTestResolver()
	ctx := context.Background()

	got, err := resolver.ResolveAccount(ctx, "0.0.123:"+testSeedHex, RoleAccount)
	if err != nil {
		t.Fatalf("ResolveAccount failed: %v", err)
	}
	if got.AccountID != "0.0.123" {
		t.Errorf("AccountID = %s, want 0.0.123", got.AccountID)
	}
	if got.KeyRef == "" || got.PublicKey == "" {
		t.Errorf("resolution did not supply a signer: %+v", got)
	}

	// The secret landed in the key store under the same reference.
	pub, err := keyStore.PublicKey(got.KeyRef)
	if err != nil {
		t.Fatalf("PublicKey(%s) failed: %v", got.KeyRef, err)
	}
	if pub != got.PublicKey {
		t.Errorf("key store public key = %s, want %s", pub, got.PublicKey)
	}
}

func TestResolveAccount_InvalidSecret(t *testing.T) {
	resolver, _, _ := newTestResolver()

	_, err := resolver.ResolveAccount(context.Background(), "0.0.123:garbage", RoleAccount)
	if !errors.Is(err, keys.ErrInvalidKeyMaterial) {
		t.Errorf("Expected ErrInvalidKeyMaterial, got %v", err)
	}
}

func TestResolveAccount_BareID(t *testing.T) {
	resolver, _, _ := newTestResolver()

	got, err := resolver.ResolveAccount(context.Background(), "0.0.777", RoleDestination)
	if err != nil {
		t.Fatalf("ResolveAccount failed: %v", err)
	}
	if got.AccountID != "0.0.777" || got.KeyRef != "" || got.PublicKey != "" {
		t.Errorf("bare ID resolution = %+v, want address only", got)
	}
}

func TestResolveAccount_Alias(t *testing.T) {
	resolver, keyStore, aliases := newTestResolver()
	ctx := context.Background()

	handle, err := keyStore.ImportSecret(testSeedHex)
	if err != nil {
		t.Fatalf("ImportSecret failed: %v", err)
	}
	err = aliases.Register(ctx, domain.Alias{
		Alias: "alice", Type: domain.EntityAccount, Network: domain.NetworkTestnet,
		EntityID: "0.0.501", KeyRef: handle.KeyRef,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := resolver.ResolveAccount(ctx, "alice", RoleAccount)
	if err != nil {
		t.Fatalf("ResolveAccount failed: %v", err)
	}
	if got.AccountID != "0.0.501" || got.KeyRef != handle.KeyRef || got.PublicKey != handle.PublicKey {
		t.Errorf("alias resolution = %+v", got)
	}
}

func TestResolveAccount_AliasWithoutKey(t *testing.T) {
	resolver, _, aliases := newTestResolver()
	ctx := context.Background()

	err := aliases.Register(ctx, domain.Alias{
		Alias: "bob", Type: domain.EntityAccount, Network: domain.NetworkTestnet, EntityID: "0.0.502",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := resolver.ResolveAccount(ctx, "bob", RoleAccount)
	if err != nil {
		t.Fatalf("ResolveAccount failed: %v", err)
	}
	if got.AccountID != "0.0.502" || got.KeyRef != "" || got.PublicKey != "" {
		t.Errorf("keyless alias resolution = %+v, want address only", got)
	}
}

func TestResolveAccount_AliasWithDanglingKeyRef(t *testing.T) {
	resolver, _, aliases := newTestResolver()
	ctx := context.Background()

	// The alias names a key the store no longer holds: resolution still
	// succeeds, just without a public key.
	err := aliases.Register(ctx, domain.Alias{
		Alias: "carol", Type: domain.EntityAccount, Network: domain.NetworkTestnet,
		EntityID: "0.0.503", KeyRef: "gone",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := resolver.ResolveAccount(ctx, "carol", RoleAccount)
	if err != nil {
		t.Fatalf("ResolveAccount failed: %v", err)
	}
	if got.KeyRef != "gone" || got.PublicKey != "" {
		t.Errorf("dangling keyRef resolution = %+v", got)
	}
}

func TestResolveAccount_AliasNotFound(t *testing.T) {
	resolver, _, _ := newTestResolver()

	_, err := resolver.ResolveAccount(context.Background(), "ghost", RoleAccount)
	if !errors.Is(err, state.ErrAliasNotFound) {
		t.Errorf("Expected ErrAliasNotFound, got %v", err)
	}
}

func TestResolveAccount_TreasuryFallback(t *testing.T) {
	resolver, keyStore, _ := newTestResolver()
	ctx := context.Background()

	// No operator configured: treasury resolution is a credentials error.
	if _, err := resolver.ResolveAccount(ctx, "", RoleTreasury); !errors.Is(err, ErrNoCredentials) {
		t.Errorf("Expected ErrNoCredentials, got %v", err)
	}

	op, err := keyStore.SetOperator("0.0.2", testSeedHex)
	if err != nil {
		t.Fatalf("SetOperator failed: %v", err)
	}

	got, err := resolver.ResolveAccount(ctx, "", RoleTreasury)
	if err != nil {
		t.Fatalf("ResolveAccount failed: %v", err)
	}
	if got.AccountID != "0.0.2" || got.KeyRef != op.KeyRef || got.PublicKey != op.PublicKey {
		t.Errorf("operator fallback = %+v, want %+v", got, op)
	}
}

func TestResolveAccount_EmptyNonTreasury(t *testing.T) {
	resolver, keyStore, _ := newTestResolver()
	ctx := context.Background()

	if _, err := keyStore.SetOperator("0.0.2", testSeedHex); err != nil {
		t.Fatalf("SetOperator failed: %v", err)
	}

	// The operator fallback never applies outside the treasury role.
	for _, role := range []Role{RoleAccount, RoleDestination} {
		if _, err := resolver.ResolveAccount(ctx, "", role); !errors.Is(err, ErrEmptyReference) {
			t.Errorf("role %s: expected ErrEmptyReference, got %v", role, err)
		}
	}
}

func TestResolveToken(t *testing.T) {
	resolver, _, aliases := newTestResolver()
	ctx := context.Background()

	got, err := resolver.ResolveToken(ctx, "0.0.1001")
	if err != nil {
		t.Fatalf("ResolveToken(bare) failed: %v", err)
	}
	if got != "0.0.1001" {
		t.Errorf("ResolveToken(bare) = %s", got)
	}

	err = aliases.Register(ctx, domain.Alias{
		Alias: "mytoken", Type: domain.EntityToken, Network: domain.NetworkTestnet, EntityID: "0.0.1001",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	got, err = resolver.ResolveToken(ctx, "mytoken")
	if err != nil {
		t.Fatalf("ResolveToken(alias) failed: %v", err)
	}
	if got != "0.0.1001" {
		t.Errorf("ResolveToken(alias) = %s", got)
	}

	if _, err := resolver.ResolveToken(ctx, "ghost"); !errors.Is(err, state.ErrAliasNotFound) {
		t.Errorf("Expected ErrAliasNotFound, got %v", err)
	}
	if _, err := resolver.ResolveToken(ctx, ""); !errors.Is(err, ErrEmptyReference) {
		t.Errorf("Expected ErrEmptyReference, got %v", err)
	}
}

func TestResolveKey(t *testing.T) {
	resolver, keyStore, aliases := newTestResolver()
	ctx := context.Background()

	handle, err := keyStore.ImportSecret(testSeedHex)
	if err != nil {
		t.Fatalf("ImportSecret failed: %v", err)
	}

	got, err := resolver.ResolveKey(ctx, handle.PublicKey)
	if err != nil {
		t.Fatalf("ResolveKey(hex) failed: %v", err)
	}
	if got != handle.PublicKey {
		t.Errorf("ResolveKey(hex) = %s, want %s", got, handle.PublicKey)
	}

	err = aliases.Register(ctx, domain.Alias{
		Alias: "signing-key", Type: domain.EntityKey, Network: domain.NetworkTestnet,
		EntityID: handle.PublicKey, KeyRef: handle.KeyRef,
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	got, err = resolver.ResolveKey(ctx, "signing-key")
	if err != nil {
		t.Fatalf("ResolveKey(alias) failed: %v", err)
	}
	if got != handle.PublicKey {
		t.Errorf("ResolveKey(alias) = %s, want %s", got, handle.PublicKey)
	}

	if _, err := resolver.ResolveKey(ctx, "ghost"); !errors.Is(err, state.ErrAliasNotFound) {
		t.Errorf("Expected ErrAliasNotFound, got %v", err)
	}
}
