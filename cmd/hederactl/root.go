package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/misiekp/hederactl/internal/config"
	"github.com/misiekp/hederactl/internal/domain"
	"github.com/misiekp/hederactl/internal/hedera"
	"github.com/misiekp/hederactl/internal/keys"
	"github.com/misiekp/hederactl/internal/orchestrator"
	"github.com/misiekp/hederactl/internal/resolve"
	"github.com/misiekp/hederactl/internal/state"
	"github.com/misiekp/hederactl/internal/storage"
	"github.com/misiekp/hederactl/internal/storage/bolt"
	"github.com/misiekp/hederactl/internal/storage/memory"
	"github.com/misiekp/hederactl/internal/storage/migrations"
	"github.com/misiekp/hederactl/internal/storage/postgres"
	"github.com/misiekp/hederactl/internal/token"
)

var (
	flagNetwork  string
	flagRPCURL   string
	flagStateDir string
	flagStore    string
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "hederactl",
	Short: "Token management for Hedera networks",
	Long: `hederactl drives token operations against a Hedera network: create
tokens, associate accounts, transfer units, and keep a local record of
everything created.

Accounts, tokens and keys are referenced three ways, in this order of
precedence: a registered alias, an "id:secret" credential pair, or a
bare entity ID (shape 0.0.123). Local state lives under --state-dir
(default ~/.hederactl).`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagNetwork, "network", "", "Target network: mainnet|testnet|previewnet|localnet")
	rootCmd.PersistentFlags().StringVar(&flagRPCURL, "rpc-url", "", "JSON-RPC relay endpoint (overrides the network default)")
	rootCmd.PersistentFlags().StringVar(&flagStateDir, "state-dir", "", "Directory for local state")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "State backend: bolt|postgres|memory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose logging")
}

// app bundles everything a command invocation needs. Built fresh per
// run, closed before the process exits.
type app struct {
	cfg     *config.Config
	keys    *keys.Store
	aliases *state.AliasRegistry
	tokens  *state.TokenStore
	manager *token.Manager
	closeKV func()
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagNetwork != "" {
		cfg.Network = domain.Network(flagNetwork)
	}
	if flagRPCURL != "" {
		cfg.RPCURL = flagRPCURL
	}
	if flagStateDir != "" {
		cfg.StateDir = flagStateDir
	}
	if flagStore != "" {
		cfg.Store = flagStore
	}
	if flagVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	kv, closeKV, err := openKV(ctx, cfg)
	if err != nil {
		return nil, err
	}

	keyring, err := keys.NewFileKeyring(filepath.Join(cfg.StateDir, "keys"))
	if err != nil {
		closeKV()
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	keyStore := keys.NewStore(keyring)
	if cfg.OperatorID != "" && cfg.OperatorKey != "" {
		if _, err := keyStore.SetOperator(cfg.OperatorID, cfg.OperatorKey); err != nil {
			closeKV()
			return nil, fmt.Errorf("load operator credentials: %w", err)
		}
	}

	aliases := state.NewAliasRegistry(kv)
	tokens := state.NewTokenStore(kv)
	client := hedera.NewHTTPClient(cfg.RPCURL, keyStore, hedera.WithTimeout(cfg.Timeout))
	manager := token.NewManager(token.Options{
		Resolver: resolve.New(keyStore, aliases, cfg.Network),
		Keys:     keyStore,
		Aliases:  aliases,
		Tokens:   tokens,
		Orch:     orchestrator.New(orchestrator.Options{Client: client, Verbose: cfg.Verbose}),
		Network:  cfg.Network,
		Verbose:  cfg.Verbose,
	})

	return &app{
		cfg:     cfg,
		keys:    keyStore,
		aliases: aliases,
		tokens:  tokens,
		manager: manager,
		closeKV: closeKV,
	}, nil
}

func (a *app) Close() {
	a.closeKV()
}

func openKV(ctx context.Context, cfg *config.Config) (storage.KV, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewKV(pool), pool.Close, nil
	case config.StoreMemory:
		return memory.NewKV(), func() {}, nil
	default:
		if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
			return nil, nil, fmt.Errorf("create state dir: %w", err)
		}
		kv, err := bolt.Open(filepath.Join(cfg.StateDir, "state.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open state db: %w", err)
		}
		return kv, func() { kv.Close() }, nil
	}
}
