package keys

import (
	"crypto/ed25519"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
)

// DER prefixes used by ledger tooling when exporting ed25519 keys.
const (
	derPrivateKeyPrefix = "302e020100300506032b657004220420"
	derPublicKeyPrefix  = "302a300506032b6570032100"
)

// parsePrivateKey decodes ed25519 private key material from its accepted
// string forms: a 32-byte seed as hex (optionally 0x-prefixed), a 64-byte
// expanded key (seed || public key) as hex, or a DER-wrapped seed.
// Anything else returns ErrInvalidKeyMaterial.
func parsePrivateKey(secret string) (ed25519.PrivateKey, error) {
	s := normalizeHexInput(secret)

	if strings.HasPrefix(s, derPrivateKeyPrefix) {
		s = strings.TrimPrefix(s, derPrivateKeyPrefix)
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: not valid hex", ErrInvalidKeyMaterial)
	}

	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		// Expanded form: the trailing half must be the public key the
		// seed actually derives, otherwise the material is corrupt.
		key := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
		derived := key[ed25519.SeedSize:]
		if subtle.ConstantTimeCompare(derived, raw[ed25519.SeedSize:]) != 1 {
			return nil, fmt.Errorf("%w: expanded key does not match its seed", ErrInvalidKeyMaterial)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: expected 32 or 64 bytes, got %d", ErrInvalidKeyMaterial, len(raw))
	}
}

// ParsePublicKey decodes an ed25519 public key from hex (raw 32 bytes or
// DER-wrapped) and verifies it is a valid curve point. Returns the
// normalized lowercase hex form.
func ParsePublicKey(s string) (string, error) {
	h := normalizeHexInput(s)

	if strings.HasPrefix(h, derPublicKeyPrefix) {
		h = strings.TrimPrefix(h, derPublicKeyPrefix)
	}

	raw, err := hex.DecodeString(h)
	if err != nil {
		return "", fmt.Errorf("%w: not valid hex", ErrInvalidKeyMaterial)
	}
	if len(raw) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeyMaterial, ed25519.PublicKeySize, len(raw))
	}
	if !isOnCurve(raw) {
		return "", fmt.Errorf("%w: not a point on the ed25519 curve", ErrInvalidKeyMaterial)
	}
	return hex.EncodeToString(raw), nil
}

func normalizeHexInput(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	return strings.ToLower(s)
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
