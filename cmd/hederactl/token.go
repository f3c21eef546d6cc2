package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/misiekp/hederactl/internal/domain"
	"github.com/misiekp/hederactl/internal/token"
	"github.com/misiekp/hederactl/internal/tokenfile"
)

var (
	createName           string
	createSymbol         string
	createDecimals       int32
	createInitialSupply  int64
	createSupplyType     string
	createMaxSupply      int64
	createTreasury       string
	createMemo           string
	createAlias          string
	createAdminKey       string
	createSupplyKey      string
	createWipeKey        string
	createFreezeKey      string
	createKYCKey         string
	createPauseKey       string
	createFeeScheduleKey string

	fromFilePath  string
	fromFileAlias string

	associateToken   string
	associateAccount string
	associateKey     string

	transferToken  string
	transferFrom   string
	transferTo     string
	transferAmount int64

	listJSON  bool
	statsJSON bool

	removeToken string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Create, associate and transfer tokens",
}

var tokenCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new token",
	Long: `Create a new token on the target network.

The treasury reference accepts an alias, an "id:secret" pair, or a bare
account ID; when omitted the operator account is the treasury. Key
flags accept a hex-encoded Ed25519 public key or a registered key
alias.`,
	Example: `  # Operator as treasury, no admin key
  hederactl token create --name "Demo Token" --symbol DEMO --initial-supply 1000

  # Explicit treasury credentials, alias registered on success
  hederactl token create --name "Demo Token" --symbol DEMO \
    --treasury 0.0.123:302e0201... --admin-key ops-admin --alias demo`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		outcome, err := app.manager.Create(ctx, token.CreateRequest{
			Name:          createName,
			Symbol:        createSymbol,
			Decimals:      createDecimals,
			InitialSupply: createInitialSupply,
			SupplyType:    domain.SupplyType(strings.ToUpper(createSupplyType)),
			MaxSupply:     createMaxSupply,
			Treasury:      createTreasury,
			Memo:          createMemo,
			Keys: token.KeyRefs{
				AdminKey:       createAdminKey,
				SupplyKey:      createSupplyKey,
				WipeKey:        createWipeKey,
				FreezeKey:      createFreezeKey,
				KYCKey:         createKYCKey,
				PauseKey:       createPauseKey,
				FeeScheduleKey: createFeeScheduleKey,
			},
			Alias: createAlias,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Created token %s (%s)\n", outcome.TokenID, createSymbol)
		fmt.Printf("  Transaction: %s\n", outcome.TransactionID)
		if outcome.Alias != "" {
			fmt.Printf("  Alias: %s\n", outcome.Alias)
		}
		return nil
	},
}

var tokenCreateFromFileCmd = &cobra.Command{
	Use:   "create-from-file",
	Short: "Create a token and its associations from a JSON definition",
	Long: `Create a token from a JSON definition file, then process the
associations it lists, strictly in order. A failed association is
reported as a warning and the batch continues; the command fails only
when the token create itself fails.`,
	Example: `  hederactl token create-from-file --file tokens/demo.json`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if fromFilePath == "" {
			return fmt.Errorf("--file is required")
		}
		def, err := tokenfile.Load(fromFilePath)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		outcome, err := app.manager.CreateFromFile(ctx, def, token.CreateFromFileRequest{Alias: fromFileAlias})
		if err != nil {
			return err
		}

		fmt.Printf("Created token %s (%s)\n", outcome.TokenID, def.Symbol)
		fmt.Printf("  Transaction: %s\n", outcome.TransactionID)
		if outcome.Alias != "" {
			fmt.Printf("  Alias: %s\n", outcome.Alias)
		}
		if len(def.Associations) > 0 {
			fmt.Printf("  Associations: %d of %d\n", outcome.Associated, len(def.Associations))
		}
		for _, warning := range outcome.Warnings {
			fmt.Printf("  WARN: %s\n", warning)
		}
		return nil
	},
}

var tokenAssociateCmd = &cobra.Command{
	Use:   "associate",
	Short: "Associate an account with a token",
	Long: `Associate an account with a token. The transaction is signed by the
account being associated, so the account reference must carry a key
(alias with key, or "id:secret"), or --key must supply one.`,
	Example: `  hederactl token associate --token demo --account alice
  hederactl token associate --token 0.0.999 --account 0.0.321 --key 302e0201...`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		outcome, err := app.manager.Associate(ctx, token.AssociateRequest{
			Token:   associateToken,
			Account: associateAccount,
			Key:     associateKey,
		})
		if err != nil {
			return err
		}

		if outcome.Added {
			fmt.Printf("Associated %s with token %s\n", outcome.Name, outcome.TokenID)
		} else {
			fmt.Printf("%s already associated with token %s\n", outcome.Name, outcome.TokenID)
		}
		fmt.Printf("  Transaction: %s\n", outcome.TransactionID)
		return nil
	},
}

var tokenTransferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Transfer token units between accounts",
	Long: `Transfer token units from one account to another. The sender signs;
when --from is omitted the operator account sends. Amounts are base
units, no decimal scaling is applied.`,
	Example: `  hederactl token transfer --token demo --to bob --amount 250
  hederactl token transfer --token 0.0.999 --from 0.0.123:302e... --to 0.0.321 --amount 10`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		outcome, err := app.manager.Transfer(ctx, token.TransferRequest{
			Token:  transferToken,
			From:   transferFrom,
			To:     transferTo,
			Amount: transferAmount,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Transferred %d of %s: %s -> %s\n", outcome.Amount, outcome.TokenID, outcome.FromID, outcome.ToID)
		fmt.Printf("  Transaction: %s\n", outcome.TransactionID)
		return nil
	},
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List locally recorded tokens",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		// Unfiltered unless --network was given explicitly.
		var network domain.Network
		if cmd.Flags().Changed("network") {
			network = domain.Network(flagNetwork)
		}
		tokens, err := app.manager.List(ctx, network)
		if err != nil {
			return err
		}

		if listJSON {
			data, err := json.MarshalIndent(tokens, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		if len(tokens) == 0 {
			fmt.Println("No tokens recorded.")
			return nil
		}
		for _, tok := range tokens {
			fmt.Printf("%-12s %s (%s)  %s  supply %d  associations %d\n",
				tok.TokenID, tok.Name, tok.Symbol, tok.Network, tok.InitialSupply, len(tok.Associations))
		}
		return nil
	},
}

var tokenStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over recorded tokens",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		stats, err := app.manager.Stats(ctx)
		if err != nil {
			return err
		}

		if statsJSON {
			data, err := json.MarshalIndent(stats, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("Tokens: %d\n", stats.Total)
		fmt.Printf("  With associations: %d (%d total)\n", stats.WithAssociations, stats.TotalAssociations)
		fmt.Println("  By network:")
		for _, network := range sortedNetworks(stats.ByNetwork) {
			fmt.Printf("    %-11s %d\n", network, stats.ByNetwork[network])
		}
		fmt.Println("  By supply type:")
		for _, supplyType := range sortedSupplyTypes(stats.BySupplyType) {
			fmt.Printf("    %-11s %d\n", supplyType, stats.BySupplyType[supplyType])
		}
		return nil
	},
}

var tokenRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a token from the local record",
	Long: `Remove a token from the local record. The token itself is untouched;
only the local bookkeeping entry is deleted.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if removeToken == "" {
			return fmt.Errorf("--token is required")
		}
		ctx := cmd.Context()
		app, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer app.Close()

		removed, err := app.manager.Remove(ctx, removeToken)
		if err != nil {
			return err
		}
		fmt.Printf("Removed token record %s\n", removed)
		return nil
	},
}

func sortedNetworks(counts map[domain.Network]int) []domain.Network {
	networks := make([]domain.Network, 0, len(counts))
	for network := range counts {
		networks = append(networks, network)
	}
	sort.Slice(networks, func(i, j int) bool { return networks[i] < networks[j] })
	return networks
}

func sortedSupplyTypes(counts map[domain.SupplyType]int) []domain.SupplyType {
	types := make([]domain.SupplyType, 0, len(counts))
	for supplyType := range counts {
		types = append(types, supplyType)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenCreateCmd)
	tokenCmd.AddCommand(tokenCreateFromFileCmd)
	tokenCmd.AddCommand(tokenAssociateCmd)
	tokenCmd.AddCommand(tokenTransferCmd)
	tokenCmd.AddCommand(tokenListCmd)
	tokenCmd.AddCommand(tokenStatsCmd)
	tokenCmd.AddCommand(tokenRemoveCmd)

	tokenCreateCmd.Flags().StringVar(&createName, "name", "", "Token name")
	tokenCreateCmd.Flags().StringVar(&createSymbol, "symbol", "", "Token symbol")
	tokenCreateCmd.Flags().Int32Var(&createDecimals, "decimals", 0, "Decimal places (0-18)")
	tokenCreateCmd.Flags().Int64Var(&createInitialSupply, "initial-supply", 0, "Initial supply in base units")
	tokenCreateCmd.Flags().StringVar(&createSupplyType, "supply-type", "INFINITE", "Supply type: INFINITE|FINITE")
	tokenCreateCmd.Flags().Int64Var(&createMaxSupply, "max-supply", 0, "Maximum supply (FINITE only)")
	tokenCreateCmd.Flags().StringVar(&createTreasury, "treasury", "", "Treasury account reference (default: operator)")
	tokenCreateCmd.Flags().StringVar(&createMemo, "memo", "", "Token memo")
	tokenCreateCmd.Flags().StringVar(&createAlias, "alias", "", "Register this alias for the new token")
	tokenCreateCmd.Flags().StringVar(&createAdminKey, "admin-key", "", "Admin key (hex public key or key alias)")
	tokenCreateCmd.Flags().StringVar(&createSupplyKey, "supply-key", "", "Supply key")
	tokenCreateCmd.Flags().StringVar(&createWipeKey, "wipe-key", "", "Wipe key")
	tokenCreateCmd.Flags().StringVar(&createFreezeKey, "freeze-key", "", "Freeze key")
	tokenCreateCmd.Flags().StringVar(&createKYCKey, "kyc-key", "", "KYC key")
	tokenCreateCmd.Flags().StringVar(&createPauseKey, "pause-key", "", "Pause key")
	tokenCreateCmd.Flags().StringVar(&createFeeScheduleKey, "fee-schedule-key", "", "Fee schedule key")

	tokenCreateFromFileCmd.Flags().StringVar(&fromFilePath, "file", "", "Path to the token definition JSON")
	tokenCreateFromFileCmd.Flags().StringVar(&fromFileAlias, "alias", "", "Register this alias for the new token")

	tokenAssociateCmd.Flags().StringVar(&associateToken, "token", "", "Token reference")
	tokenAssociateCmd.Flags().StringVar(&associateAccount, "account", "", "Account reference")
	tokenAssociateCmd.Flags().StringVar(&associateKey, "key", "", "Signing secret when the account reference has none")

	tokenTransferCmd.Flags().StringVar(&transferToken, "token", "", "Token reference")
	tokenTransferCmd.Flags().StringVar(&transferFrom, "from", "", "Sender account reference (default: operator)")
	tokenTransferCmd.Flags().StringVar(&transferTo, "to", "", "Destination account reference")
	tokenTransferCmd.Flags().Int64Var(&transferAmount, "amount", 0, "Amount in base units")

	tokenListCmd.Flags().BoolVar(&listJSON, "json", false, "Output JSON")
	tokenStatsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output JSON")

	tokenRemoveCmd.Flags().StringVar(&removeToken, "token", "", "Token reference")
}
