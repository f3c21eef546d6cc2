package main

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/misiekp/hederactl/internal/domain"
)

var (
	keyGenerateAlias string
	keyImportAlias   string
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage signing keys",
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new Ed25519 key pair",
	Long: `Generate a new Ed25519 key pair and store it in the keyring. The
secret is printed exactly once; afterwards only the key reference and
public key are recoverable.`,
	Example: `  hederactl key generate
  hederactl key generate --alias ops-admin`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		_, private, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return fmt.Errorf("generate key: %w", err)
		}
		secret := hex.EncodeToString(private.Seed())

		handle, err := app.keys.ImportSecret(secret)
		if err != nil {
			return fmt.Errorf("store key: %w", err)
		}

		fmt.Printf("Key reference: %s\n", handle.KeyRef)
		fmt.Printf("Public key:    %s\n", handle.PublicKey)
		fmt.Printf("Secret (shown once, keep it safe): %s\n", secret)

		if keyGenerateAlias != "" {
			err := app.aliases.Register(ctx, domain.Alias{
				Alias:    keyGenerateAlias,
				Type:     domain.EntityKey,
				Network:  app.cfg.Network,
				EntityID: handle.PublicKey,
				KeyRef:   handle.KeyRef,
			})
			if err != nil {
				return fmt.Errorf("register key alias: %w", err)
			}
			fmt.Printf("Alias:         %s\n", keyGenerateAlias)
		}
		return nil
	},
}

var keyImportCmd = &cobra.Command{
	Use:   "import [secret]",
	Short: "Import an existing Ed25519 secret into the keyring",
	Long: `Import an Ed25519 secret into the keyring. Accepted forms: 32-byte
seed hex (with or without 0x), 64-byte expanded key hex, or DER-wrapped
private key hex. Importing the same secret twice yields the same key
reference.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		handle, err := app.keys.ImportSecret(args[0])
		if err != nil {
			return fmt.Errorf("import key: %w", err)
		}

		fmt.Printf("Key reference: %s\n", handle.KeyRef)
		fmt.Printf("Public key:    %s\n", handle.PublicKey)

		if keyImportAlias != "" {
			err := app.aliases.Register(ctx, domain.Alias{
				Alias:    keyImportAlias,
				Type:     domain.EntityKey,
				Network:  app.cfg.Network,
				EntityID: handle.PublicKey,
				KeyRef:   handle.KeyRef,
			})
			if err != nil {
				return fmt.Errorf("register key alias: %w", err)
			}
			fmt.Printf("Alias:         %s\n", keyImportAlias)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyGenerateCmd)
	keyCmd.AddCommand(keyImportCmd)

	keyGenerateCmd.Flags().StringVar(&keyGenerateAlias, "alias", "", "Register this key alias")
	keyImportCmd.Flags().StringVar(&keyImportAlias, "alias", "", "Register this key alias")
}
