package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/misiekp/hederactl/internal/domain"
)

// unsetenv clears a variable for the test and restores it afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HEDERA_NETWORK", "HEDERA_OPERATOR_ID", "HEDERA_OPERATOR_KEY",
		"HEDERA_RPC_URL", "HEDERACTL_STATE_DIR", "HEDERACTL_STORE",
		"HEDERACTL_POSTGRES_DSN", "HEDERACTL_TIMEOUT", "HEDERACTL_VERBOSE",
	} {
		unsetenv(t, key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Network != domain.NetworkTestnet {
		t.Errorf("Network = %q, want testnet", cfg.Network)
	}
	if cfg.Store != StoreBolt {
		t.Errorf("Store = %q, want bolt", cfg.Store)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %s, want 30s", cfg.Timeout)
	}
	if cfg.OperatorID != "" || cfg.OperatorKey != "" {
		t.Errorf("operator = %q/%q, want empty", cfg.OperatorID, cfg.OperatorKey)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HEDERA_NETWORK", "mainnet")
	t.Setenv("HEDERA_OPERATOR_ID", "0.0.1001")
	t.Setenv("HEDERA_OPERATOR_KEY", "302e020100300506032b657004220420aa")
	t.Setenv("HEDERACTL_STORE", "memory")
	t.Setenv("HEDERACTL_TIMEOUT", "5s")
	t.Setenv("HEDERACTL_VERBOSE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Network != domain.NetworkMainnet {
		t.Errorf("Network = %q, want mainnet", cfg.Network)
	}
	if cfg.OperatorID != "0.0.1001" {
		t.Errorf("OperatorID = %q", cfg.OperatorID)
	}
	if cfg.Store != StoreMemory {
		t.Errorf("Store = %q, want memory", cfg.Store)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %s, want 5s", cfg.Timeout)
	}
	if !cfg.Verbose {
		t.Error("Verbose = false, want true")
	}
}

func TestFinalize_FillsDefaults(t *testing.T) {
	cfg := &Config{
		Network: domain.NetworkTestnet,
		Store:   StoreBolt,
		Timeout: 30 * time.Second,
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.RPCURL != "https://testnet.hashio.io/api" {
		t.Errorf("RPCURL = %q", cfg.RPCURL)
	}
	if !strings.HasSuffix(cfg.StateDir, ".hederactl") {
		t.Errorf("StateDir = %q, want ~/.hederactl", cfg.StateDir)
	}
}

func TestFinalize_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Network:  domain.NetworkMainnet,
		Store:    StoreMemory,
		Timeout:  time.Second,
		RPCURL:   "http://relay.internal:7546",
		StateDir: "/var/lib/hederactl",
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.RPCURL != "http://relay.internal:7546" {
		t.Errorf("RPCURL = %q, explicit value must win", cfg.RPCURL)
	}
	if cfg.StateDir != "/var/lib/hederactl" {
		t.Errorf("StateDir = %q, explicit value must win", cfg.StateDir)
	}
}

func TestFinalize_Rejections(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown network", Config{Network: "devnet", Store: StoreBolt, Timeout: time.Second}},
		{"unknown store", Config{Network: domain.NetworkTestnet, Store: "redis", Timeout: time.Second}},
		{"postgres without dsn", Config{Network: domain.NetworkTestnet, Store: StorePostgres, Timeout: time.Second}},
		{"zero timeout", Config{Network: domain.NetworkTestnet, Store: StoreBolt}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); err == nil {
				t.Error("Finalize() succeeded, want error")
			}
		})
	}
}

func TestDefaultRPCURL(t *testing.T) {
	tests := []struct {
		network domain.Network
		want    string
	}{
		{domain.NetworkMainnet, "https://mainnet.hashio.io/api"},
		{domain.NetworkTestnet, "https://testnet.hashio.io/api"},
		{domain.NetworkPreviewnet, "https://previewnet.hashio.io/api"},
		{domain.NetworkLocalnet, "http://localhost:7546"},
	}
	for _, tt := range tests {
		if got := DefaultRPCURL(tt.network); got != tt.want {
			t.Errorf("DefaultRPCURL(%s) = %q, want %q", tt.network, got, tt.want)
		}
	}
}
