// Package resolve turns raw user-supplied reference strings (aliases,
// bare entity IDs, id:secret pairs) into canonical identifiers and key
// references. It performs no network I/O: resolution is deterministic
// given the raw string, the role, and the current registry/key state.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/misiekp/hederactl/internal/domain"
	"github.com/misiekp/hederactl/internal/keys"
	"github.com/misiekp/hederactl/internal/state"
)

// Common errors returned by this package.
var (
	ErrEmptyReference = errors.New("empty reference")
	ErrNoCredentials  = errors.New("no credentials found")
)

// Role names the position a reference fills in an operation. Only the
// treasury role carries the implicit default-operator fallback.
type Role int

const (
	RoleAccount Role = iota
	RoleTreasury
	RoleDestination
)

// String returns the string representation of Role.
func (r Role) String() string {
	switch r {
	case RoleAccount:
		return "account"
	case RoleTreasury:
		return "treasury"
	case RoleDestination:
		return "destination"
	default:
		return "unknown"
	}
}

// ResolvedAccount is the canonical outcome of account resolution.
// KeyRef is set when the resolution path supplies a usable signer;
// absent for roles that only need an address.
type ResolvedAccount struct {
	AccountID string
	KeyRef    string
	PublicKey string
}

// Resolver resolves references against the alias registry and key
// store, scoped to one network.
type Resolver struct {
	keys    *keys.Store
	aliases *state.AliasRegistry
	network domain.Network
}

// New creates a resolver for the given network.
func New(keyStore *keys.Store, aliases *state.AliasRegistry, network domain.Network) *Resolver {
	return &Resolver{keys: keyStore, aliases: aliases, network: network}
}

// ResolveAccount resolves a raw account reference for a role.
// An absent reference falls back to the default operator for the
// treasury role only; any other role requires an explicit value.
func (r *Resolver) ResolveAccount(ctx context.Context, raw string, role Role) (*ResolvedAccount, error) {
	if raw == "" {
		if role == RoleTreasury {
			op, ok := r.keys.Operator()
			if !ok {
				return nil, ErrNoCredentials
			}
			return &ResolvedAccount{AccountID: op.AccountID, KeyRef: op.KeyRef, PublicKey: op.PublicKey}, nil
		}
		return nil, fmt.Errorf("%w for role %s", ErrEmptyReference, role)
	}

	ref := ParseRef(raw)
	switch ref.Kind {
	case RefAlias:
		// An explicitly supplied alias that does not resolve is an
		// error, never a silent fallback.
		record, err := r.aliases.Resolve(ctx, ref.Alias, domain.EntityAccount, r.network)
		if err != nil {
			return nil, err
		}
		resolved := &ResolvedAccount{AccountID: record.EntityID, KeyRef: record.KeyRef}
		if record.KeyRef != "" {
			if pub, err := r.keys.PublicKey(record.KeyRef); err == nil {
				resolved.PublicKey = pub
			}
		}
		return resolved, nil

	case RefIDWithSecret:
		handle, err := r.keys.ImportSecret(ref.Secret)
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", ref.ID, err)
		}
		return &ResolvedAccount{AccountID: ref.ID, KeyRef: handle.KeyRef, PublicKey: handle.PublicKey}, nil

	default: // RefBareID
		return &ResolvedAccount{AccountID: ref.ID}, nil
	}
}

// ResolveToken resolves a token reference: a bare entity ID or a
// token-scoped alias. There is no id:secret form for tokens.
func (r *Resolver) ResolveToken(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w for token", ErrEmptyReference)
	}
	if domain.IsEntityID(raw) {
		return raw, nil
	}
	record, err := r.aliases.Resolve(ctx, raw, domain.EntityToken, r.network)
	if err != nil {
		return "", err
	}
	return record.EntityID, nil
}

// ResolveKey resolves a token-key flag value: a hex public key (raw or
// DER) or a key-scoped alias. Returns the normalized hex public key.
func (r *Resolver) ResolveKey(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w for key", ErrEmptyReference)
	}
	if pub, err := keys.ParsePublicKey(raw); err == nil {
		return pub, nil
	}
	record, err := r.aliases.Resolve(ctx, raw, domain.EntityKey, r.network)
	if err != nil {
		return "", err
	}
	pub, err := keys.ParsePublicKey(record.EntityID)
	if err != nil {
		return "", fmt.Errorf("alias %s: %w", raw, err)
	}
	return pub, nil
}
