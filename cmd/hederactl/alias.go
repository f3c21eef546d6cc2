package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/misiekp/hederactl/internal/domain"
	"github.com/misiekp/hederactl/internal/state"
)

var (
	aliasRegisterName string
	aliasRegisterType string
	aliasRegisterID   string
	aliasRegisterKey  string

	aliasListType string

	aliasRemoveName string
	aliasRemoveType string
)

var aliasCmd = &cobra.Command{
	Use:   "alias",
	Short: "Manage entity aliases",
	Long: `Manage the alias registry. An alias maps a human-chosen name to an
entity ID within one network and entity type; account aliases may also
carry signing material so the alias can sign transactions.`,
}

var aliasRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register an alias for an account, token or key",
	Example: `  # Account alias with signing material
  hederactl alias register --alias alice --type account --id 0.0.321 --key 302e0201...

  # Token alias
  hederactl alias register --alias demo --type token --id 0.0.999

  # Key alias; --id may be omitted, the public key is derived
  hederactl alias register --alias ops-admin --type key --key 302e0201...`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		record := domain.Alias{
			Alias:    aliasRegisterName,
			Type:     domain.EntityType(strings.ToLower(aliasRegisterType)),
			Network:  app.cfg.Network,
			EntityID: aliasRegisterID,
		}
		if aliasRegisterKey != "" {
			handle, err := app.keys.ImportSecret(aliasRegisterKey)
			if err != nil {
				return fmt.Errorf("import key: %w", err)
			}
			record.KeyRef = handle.KeyRef
			if record.EntityID == "" && record.Type == domain.EntityKey {
				record.EntityID = handle.PublicKey
			}
		}

		if err := app.aliases.Register(ctx, record); err != nil {
			return err
		}
		fmt.Printf("Registered %s alias %q -> %s (%s)\n", record.Type, record.Alias, record.EntityID, record.Network)
		return nil
	},
}

var aliasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered aliases",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		filter := state.Filter{}
		if aliasListType != "" {
			filter.Type = domain.EntityType(strings.ToLower(aliasListType))
		}
		if cmd.Flags().Changed("network") {
			filter.Network = domain.Network(flagNetwork)
		}
		records, err := app.aliases.List(ctx, filter)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Println("No aliases registered.")
			return nil
		}
		for _, record := range records {
			signer := ""
			if record.KeyRef != "" {
				signer = "  [signer]"
			}
			fmt.Printf("%-20s %-8s %-11s %s%s\n", record.Alias, record.Type, record.Network, record.EntityID, signer)
		}
		return nil
	},
}

var aliasRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove an alias",
	Long: `Remove an alias from the registry on the target network. Keys the
alias pointed at stay in the keyring.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if aliasRemoveName == "" {
			return fmt.Errorf("--alias is required")
		}
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		entityType := domain.EntityType(strings.ToLower(aliasRemoveType))
		if err := app.aliases.Remove(ctx, aliasRemoveName, entityType, app.cfg.Network); err != nil {
			return err
		}
		fmt.Printf("Removed %s alias %q (%s)\n", entityType, aliasRemoveName, app.cfg.Network)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aliasCmd)
	aliasCmd.AddCommand(aliasRegisterCmd)
	aliasCmd.AddCommand(aliasListCmd)
	aliasCmd.AddCommand(aliasRemoveCmd)

	aliasRegisterCmd.Flags().StringVar(&aliasRegisterName, "alias", "", "Alias name")
	aliasRegisterCmd.Flags().StringVar(&aliasRegisterType, "type", "account", "Entity type: account|token|key")
	aliasRegisterCmd.Flags().StringVar(&aliasRegisterID, "id", "", "Entity ID the alias points at")
	aliasRegisterCmd.Flags().StringVar(&aliasRegisterKey, "key", "", "Signing secret to attach to the alias")

	aliasListCmd.Flags().StringVar(&aliasListType, "type", "", "Filter by entity type")

	aliasRemoveCmd.Flags().StringVar(&aliasRemoveName, "alias", "", "Alias name")
	aliasRemoveCmd.Flags().StringVar(&aliasRemoveType, "type", "account", "Entity type: account|token|key")
}
