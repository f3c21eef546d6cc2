// Package keys holds ed25519 credentials for the CLI.
// Private material never leaves the package: callers work with opaque
// key references and crypto.Signer handles.
package keys

import (
	"crypto"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/mr-tron/base58"
)

// Common errors returned by this package.
var (
	ErrInvalidKeyMaterial = errors.New("invalid key material")
	ErrKeyNotFound        = errors.New("key not found")
)

// Handle is what callers get back from an import: a stable reference
// plus the derived public key. No private material.
type Handle struct {
	KeyRef    string
	PublicKey string
}

// Operator is the default signing identity, loaded from configuration.
type Operator struct {
	AccountID string
	KeyRef    string
	PublicKey string
}

// Store keeps imported keys in memory, optionally mirrored to a Keyring
// so references survive across invocations.
type Store struct {
	mu       sync.RWMutex
	byRef    map[string]ed25519.PrivateKey
	operator *Operator
	keyring  Keyring
}

// NewStore creates an in-memory key store. keyring may be nil.
func NewStore(keyring Keyring) *Store {
	return &Store{
		byRef:   make(map[string]ed25519.PrivateKey),
		keyring: keyring,
	}
}

// ComputeKeyRef computes a deterministic key reference using SHA256.
// Formula: base58(SHA256(public key bytes)[:16])
// The same key material always yields the same reference.
func ComputeKeyRef(publicKey ed25519.PublicKey) string {
	hash := sha256.Sum256(publicKey)
	return base58.Encode(hash[:16])
}

// ImportSecret parses private key material and stores it under its
// derived reference. Importing the same secret twice is a no-op that
// returns the same handle. The secret itself is never logged.
func (s *Store) ImportSecret(secret string) (Handle, error) {
	key, err := parsePrivateKey(secret)
	if err != nil {
		return Handle{}, err
	}

	pub := key.Public().(ed25519.PublicKey)
	ref := ComputeKeyRef(pub)

	s.mu.Lock()
	s.byRef[ref] = key
	s.mu.Unlock()

	if s.keyring != nil {
		seed := hex.EncodeToString(key.Seed())
		if err := s.keyring.Store(ref, seed); err != nil {
			return Handle{}, fmt.Errorf("persist key %s: %w", ref, err)
		}
	}

	return Handle{
		KeyRef:    ref,
		PublicKey: hex.EncodeToString(pub),
	}, nil
}

// PublicKey returns the hex public key for a reference, consulting the
// keyring when the key is not in memory.
func (s *Store) PublicKey(keyRef string) (string, error) {
	key, err := s.lookup(keyRef)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(key.Public().(ed25519.PublicKey)), nil
}

// Signer returns signing capability for a reference without exposing
// the raw key bytes.
func (s *Store) Signer(keyRef string) (crypto.Signer, error) {
	return s.lookup(keyRef)
}

// SetOperator imports the operator secret and records the default
// signing identity.
func (s *Store) SetOperator(accountID, secret string) (*Operator, error) {
	handle, err := s.ImportSecret(secret)
	if err != nil {
		return nil, fmt.Errorf("operator key: %w", err)
	}

	op := &Operator{
		AccountID: accountID,
		KeyRef:    handle.KeyRef,
		PublicKey: handle.PublicKey,
	}

	s.mu.Lock()
	s.operator = op
	s.mu.Unlock()

	return op, nil
}

// Operator returns the default identity, if one was configured.
func (s *Store) Operator() (*Operator, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.operator == nil {
		return nil, false
	}
	op := *s.operator
	return &op, true
}

func (s *Store) lookup(keyRef string) (ed25519.PrivateKey, error) {
	s.mu.RLock()
	key, ok := s.byRef[keyRef]
	s.mu.RUnlock()
	if ok {
		return key, nil
	}

	if s.keyring == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, keyRef)
	}

	secret, err := s.keyring.Load(keyRef)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, keyRef)
		}
		return nil, fmt.Errorf("load key %s: %w", keyRef, err)
	}

	key, err = parsePrivateKey(secret)
	if err != nil {
		return nil, fmt.Errorf("keyring entry %s: %w", keyRef, err)
	}

	s.mu.Lock()
	s.byRef[keyRef] = key
	s.mu.Unlock()

	return key, nil
}
