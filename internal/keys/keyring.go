package keys

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Keyring persists secrets so key references survive across
// invocations. Implementations are the seam for external secret
// managers; the file keyring below is the local default.
type Keyring interface {
	Store(ref, secret string) error
	Load(ref string) (string, error)
	Refs() ([]string, error)
}

// FileKeyring stores one JSON file per key reference under dir.
// Files are written with 0600 permissions.
type FileKeyring struct {
	dir string
	mu  sync.RWMutex
}

type keyringEntry struct {
	KeyRef string `json:"keyRef"`
	Secret string `json:"secret"`
}

// NewFileKeyring creates a file-backed keyring rooted at dir.
func NewFileKeyring(dir string) (*FileKeyring, error) {
	if dir == "" {
		return nil, fmt.Errorf("keyring directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create keyring directory: %w", err)
	}
	return &FileKeyring{dir: dir}, nil
}

func (k *FileKeyring) path(ref string) string {
	return filepath.Join(k.dir, ref+".json")
}

// Store writes the secret for a reference, replacing any prior entry.
func (k *FileKeyring) Store(ref, secret string) error {
	if ref == "" || strings.ContainsAny(ref, "/\\") {
		return fmt.Errorf("invalid key reference %q", ref)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := json.MarshalIndent(keyringEntry{KeyRef: ref, Secret: secret}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal keyring entry: %w", err)
	}
	if err := os.WriteFile(k.path(ref), data, 0o600); err != nil {
		return fmt.Errorf("write keyring entry: %w", err)
	}
	return nil
}

// Load reads the secret for a reference. Returns ErrKeyNotFound if the
// entry does not exist.
func (k *FileKeyring) Load(ref string) (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	data, err := os.ReadFile(k.path(ref))
	if os.IsNotExist(err) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read keyring entry: %w", err)
	}

	var entry keyringEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return "", fmt.Errorf("parse keyring entry: %w", err)
	}
	return entry.Secret, nil
}

// Refs lists every reference in the keyring.
func (k *FileKeyring) Refs() ([]string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	entries, err := os.ReadDir(k.dir)
	if err != nil {
		return nil, fmt.Errorf("read keyring directory: %w", err)
	}

	var refs []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		refs = append(refs, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return refs, nil
}
