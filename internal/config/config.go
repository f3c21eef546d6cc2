// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/misiekp/hederactl/internal/domain"
)

// Store kinds accepted by HEDERACTL_STORE.
const (
	StoreBolt     = "bolt"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config carries every runtime setting of the CLI. Flag values override
// individual fields between Load and Finalize.
type Config struct {
	Network     domain.Network `env:"HEDERA_NETWORK"         envDefault:"testnet"`
	OperatorID  string         `env:"HEDERA_OPERATOR_ID"`
	OperatorKey string         `env:"HEDERA_OPERATOR_KEY"` // secret, never logged
	RPCURL      string         `env:"HEDERA_RPC_URL"`
	StateDir    string         `env:"HEDERACTL_STATE_DIR"`
	Store       string         `env:"HEDERACTL_STORE"        envDefault:"bolt"`
	PostgresDSN string         `env:"HEDERACTL_POSTGRES_DSN"`
	Timeout     time.Duration  `env:"HEDERACTL_TIMEOUT"      envDefault:"30s"`
	Verbose     bool           `env:"HEDERACTL_VERBOSE"`
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Finalize fills derived defaults and validates the result. Call it
// after any flag overrides have been applied.
func (c *Config) Finalize() error {
	if !c.Network.IsValid() {
		return fmt.Errorf("unknown network %q", c.Network)
	}
	switch c.Store {
	case StoreBolt, StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("unknown store kind %q", c.Store)
	}
	if c.Store == StorePostgres && c.PostgresDSN == "" {
		return fmt.Errorf("store %q needs HEDERACTL_POSTGRES_DSN", StorePostgres)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}

	if c.RPCURL == "" {
		c.RPCURL = DefaultRPCURL(c.Network)
	}
	if c.StateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		c.StateDir = filepath.Join(home, ".hederactl")
	}
	return nil
}

// DefaultRPCURL returns the JSON-RPC relay endpoint for a network.
func DefaultRPCURL(network domain.Network) string {
	switch network {
	case domain.NetworkMainnet:
		return "https://mainnet.hashio.io/api"
	case domain.NetworkPreviewnet:
		return "https://previewnet.hashio.io/api"
	case domain.NetworkLocalnet:
		return "http://localhost:7546"
	default:
		return "https://testnet.hashio.io/api"
	}
}
