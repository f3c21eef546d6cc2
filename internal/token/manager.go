// Package token implements the command handlers behind the CLI: it
// resolves references, drives the orchestrator, and persists outcomes.
// Handlers never exit the process; every failure returns up the stack.
package token

import (
	"context"
	"fmt"
	"log"

	"github.com/misiekp/hederactl/internal/domain"
	"github.com/misiekp/hederactl/internal/hedera"
	"github.com/misiekp/hederactl/internal/keys"
	"github.com/misiekp/hederactl/internal/orchestrator"
	"github.com/misiekp/hederactl/internal/resolve"
	"github.com/misiekp/hederactl/internal/state"
	"github.com/misiekp/hederactl/internal/tokenfile"
)

// Manager wires the resolver, key store, registry, state store and
// orchestrator into the token operations the CLI exposes.
type Manager struct {
	resolver *resolve.Resolver
	keys     *keys.Store
	aliases  *state.AliasRegistry
	tokens   *state.TokenStore
	orch     *orchestrator.Orchestrator
	network  domain.Network
	verbose  bool
}

// Options for creating Manager.
type Options struct {
	Resolver *resolve.Resolver
	Keys     *keys.Store
	Aliases  *state.AliasRegistry
	Tokens   *state.TokenStore
	Orch     *orchestrator.Orchestrator
	Network  domain.Network
	Verbose  bool
}

// NewManager creates a new Manager.
func NewManager(opts Options) *Manager {
	return &Manager{
		resolver: opts.Resolver,
		keys:     opts.Keys,
		aliases:  opts.Aliases,
		tokens:   opts.Tokens,
		orch:     opts.Orch,
		network:  opts.Network,
		verbose:  opts.Verbose,
	}
}

// KeyRefs carries raw references for a token's administrative keys:
// hex public keys or key-type alias names, resolved at create time.
type KeyRefs struct {
	AdminKey       string
	SupplyKey      string
	WipeKey        string
	FreezeKey      string
	KYCKey         string
	PauseKey       string
	FeeScheduleKey string
}

// CreateRequest describes one token create.
type CreateRequest struct {
	Name          string
	Symbol        string
	Decimals      int32
	InitialSupply int64
	SupplyType    domain.SupplyType
	MaxSupply     int64
	Treasury      string // raw account ref; empty means the operator
	Memo          string
	Keys          KeyRefs
	CustomFees    []domain.CustomFee
	Alias         string // optional token alias to register on success
}

// CreateOutcome reports a completed create. Associated and Warnings
// are populated by the bulk flow only.
type CreateOutcome struct {
	TokenID       string
	TransactionID string
	Alias         string
	Associated    int
	Warnings      []string
}

// Create resolves the treasury and key references, executes the create
// transaction signed by the treasury, and persists the token record.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*CreateOutcome, error) {
	treasury, err := m.resolver.ResolveAccount(ctx, req.Treasury, resolve.RoleTreasury)
	if err != nil {
		return nil, fmt.Errorf("resolve treasury: %w", err)
	}

	tokenKeys, err := m.resolveKeys(ctx, req.Keys)
	if err != nil {
		return nil, err
	}

	result, err := m.orch.Execute(ctx, orchestrator.Request{
		Kind: hedera.OpTokenCreate,
		Create: &hedera.CreateParams{
			Name:          req.Name,
			Symbol:        req.Symbol,
			Decimals:      req.Decimals,
			InitialSupply: req.InitialSupply,
			SupplyType:    req.SupplyType,
			MaxSupply:     req.MaxSupply,
			TreasuryID:    treasury.AccountID,
			Keys:          tokenKeys,
			CustomFees:    req.CustomFees,
			Memo:          req.Memo,
		},
		Signing: orchestrator.Signing{KeyRef: treasury.KeyRef},
	})
	if err != nil {
		return nil, err
	}

	token := &domain.Token{
		TokenID:       result.EntityID,
		Name:          req.Name,
		Symbol:        req.Symbol,
		Decimals:      req.Decimals,
		InitialSupply: req.InitialSupply,
		SupplyType:    req.SupplyType,
		MaxSupply:     req.MaxSupply,
		TreasuryID:    treasury.AccountID,
		Keys:          tokenKeys,
		Network:       m.network,
		CustomFees:    req.CustomFees,
		Memo:          req.Memo,
	}
	if err := m.tokens.Save(ctx, token); err != nil {
		return nil, fmt.Errorf("persist token %s: %w", result.EntityID, err)
	}
	m.log("created token %s (%s) in transaction %s", token.TokenID, token.Symbol, result.TransactionID)

	outcome := &CreateOutcome{TokenID: token.TokenID, TransactionID: result.TransactionID}

	// Alias registration is a local convenience after the ledger
	// already committed: a clash warns instead of failing the create.
	if req.Alias != "" {
		err := m.aliases.Register(ctx, domain.Alias{
			Alias:    req.Alias,
			Type:     domain.EntityToken,
			Network:  m.network,
			EntityID: token.TokenID,
		})
		if err != nil {
			log.Printf("WARN: register alias %s for token %s: %v", req.Alias, token.TokenID, err)
		} else {
			outcome.Alias = req.Alias
		}
	}

	return outcome, nil
}

// AssociateRequest describes one token association.
type AssociateRequest struct {
	Token   string // raw token ref
	Account string // raw account ref; must carry or be given a signer
	Key     string // explicit signing secret when Account is a bare ID
	Name    string // display-name override for the stored association
}

// AssociateOutcome reports a completed association.
type AssociateOutcome struct {
	TokenID       string
	AccountID     string
	Name          string
	TransactionID string
	Added         bool
}

// Associate executes an association signed by the target account and
// records it on the local token record. Repeating an association is
// success: the record keeps exactly one entry per account.
func (m *Manager) Associate(ctx context.Context, req AssociateRequest) (*AssociateOutcome, error) {
	tokenID, err := m.resolver.ResolveToken(ctx, req.Token)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}

	// The association target must exist locally before the network is
	// touched; a typo'd token fails fast.
	if _, err := m.tokens.Get(ctx, tokenID); err != nil {
		return nil, err
	}

	account, err := m.resolver.ResolveAccount(ctx, req.Account, resolve.RoleAccount)
	if err != nil {
		return nil, fmt.Errorf("resolve account: %w", err)
	}

	signingRef := account.KeyRef
	if req.Key != "" {
		handle, err := m.keys.ImportSecret(req.Key)
		if err != nil {
			return nil, fmt.Errorf("associate key: %w", err)
		}
		signingRef = handle.KeyRef
	}
	if signingRef == "" {
		return nil, fmt.Errorf("account %s: association needs the account's key: %w", account.AccountID, resolve.ErrNoCredentials)
	}

	result, err := m.orch.Execute(ctx, orchestrator.Request{
		Kind: hedera.OpTokenAssociate,
		Associate: &hedera.AssociateParams{
			TokenID:   tokenID,
			AccountID: account.AccountID,
		},
		Signing: orchestrator.Signing{KeyRef: signingRef},
	})
	if err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = displayName(req.Account, account.AccountID)
	}
	added, err := m.tokens.AddAssociation(ctx, tokenID, domain.Association{
		Name:      name,
		AccountID: account.AccountID,
	})
	if err != nil {
		return nil, fmt.Errorf("record association: %w", err)
	}
	if added {
		m.log("associated %s with token %s in transaction %s", account.AccountID, tokenID, result.TransactionID)
	} else {
		m.log("account %s already associated with token %s", account.AccountID, tokenID)
	}

	return &AssociateOutcome{
		TokenID:       tokenID,
		AccountID:     account.AccountID,
		Name:          name,
		TransactionID: result.TransactionID,
		Added:         added,
	}, nil
}

// TransferRequest describes one token transfer in base units.
type TransferRequest struct {
	Token  string // raw token ref
	From   string // raw account ref; empty means the operator
	To     string // raw account ref; bare ID is enough
	Amount int64
}

// TransferOutcome reports a completed transfer.
type TransferOutcome struct {
	TokenID       string
	FromID        string
	ToID          string
	Amount        int64
	TransactionID string
}

// Transfer executes a transfer signed by the sender. No local state
// changes: balances live on the ledger.
func (m *Manager) Transfer(ctx context.Context, req TransferRequest) (*TransferOutcome, error) {
	tokenID, err := m.resolver.ResolveToken(ctx, req.Token)
	if err != nil {
		return nil, fmt.Errorf("resolve token: %w", err)
	}
	from, err := m.resolver.ResolveAccount(ctx, req.From, resolve.RoleTreasury)
	if err != nil {
		return nil, fmt.Errorf("resolve sender: %w", err)
	}
	to, err := m.resolver.ResolveAccount(ctx, req.To, resolve.RoleDestination)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	result, err := m.orch.Execute(ctx, orchestrator.Request{
		Kind: hedera.OpTokenTransfer,
		Transfer: &hedera.TransferParams{
			TokenID: tokenID,
			FromID:  from.AccountID,
			ToID:    to.AccountID,
			Amount:  req.Amount,
		},
		Signing: orchestrator.Signing{KeyRef: from.KeyRef},
	})
	if err != nil {
		return nil, err
	}
	m.log("transferred %d of %s from %s to %s in transaction %s",
		req.Amount, tokenID, from.AccountID, to.AccountID, result.TransactionID)

	return &TransferOutcome{
		TokenID:       tokenID,
		FromID:        from.AccountID,
		ToID:          to.AccountID,
		Amount:        req.Amount,
		TransactionID: result.TransactionID,
	}, nil
}

// CreateFromFileRequest carries the flags of the bulk create flow.
type CreateFromFileRequest struct {
	Alias string // optional token alias to register on success
}

// CreateFromFile creates the token described by the definition, then
// processes its associations strictly sequentially. Association
// failures are warnings: the batch continues and the operation
// succeeds iff the create did.
func (m *Manager) CreateFromFile(ctx context.Context, def *tokenfile.Definition, req CreateFromFileRequest) (*CreateOutcome, error) {
	outcome, err := m.Create(ctx, CreateRequest{
		Name:          def.Name,
		Symbol:        def.Symbol,
		Decimals:      def.Decimals,
		InitialSupply: def.InitialSupply,
		SupplyType:    def.SupplyType,
		MaxSupply:     def.MaxSupply,
		Treasury:      def.Treasury,
		Memo:          def.Memo,
		Keys: KeyRefs{
			AdminKey:       def.Keys.AdminKey,
			SupplyKey:      def.Keys.SupplyKey,
			WipeKey:        def.Keys.WipeKey,
			FreezeKey:      def.Keys.FreezeKey,
			KYCKey:         def.Keys.KYCKey,
			PauseKey:       def.Keys.PauseKey,
			FeeScheduleKey: def.Keys.FeeScheduleKey,
		},
		CustomFees: def.CustomFees,
		Alias:      req.Alias,
	})
	if err != nil {
		return nil, err
	}

	// Sequential on purpose: associations mutate the same token record.
	for _, assoc := range def.Associations {
		_, err := m.Associate(ctx, AssociateRequest{
			Token:   outcome.TokenID,
			Account: assoc.Account,
			Key:     assoc.Key,
			Name:    assoc.Name,
		})
		if err != nil {
			warning := fmt.Sprintf("associate %s with token %s: %v", refLabel(assoc.Account), outcome.TokenID, err)
			log.Printf("WARN: %s", warning)
			outcome.Warnings = append(outcome.Warnings, warning)
			continue
		}
		outcome.Associated++
	}

	return outcome, nil
}

// List retrieves stored tokens, optionally filtered to one network.
func (m *Manager) List(ctx context.Context, network domain.Network) ([]*domain.Token, error) {
	tokens, err := m.tokens.List(ctx)
	if err != nil {
		return nil, err
	}
	if network == "" {
		return tokens, nil
	}
	filtered := tokens[:0]
	for _, token := range tokens {
		if token.Network == network {
			filtered = append(filtered, token)
		}
	}
	return filtered, nil
}

// Stats aggregates statistics over the stored tokens.
func (m *Manager) Stats(ctx context.Context) (*domain.TokenStats, error) {
	return m.tokens.Stats(ctx)
}

// Remove deletes a stored token record. The ledger entity is untouched.
func (m *Manager) Remove(ctx context.Context, tokenRef string) (string, error) {
	tokenID, err := m.resolver.ResolveToken(ctx, tokenRef)
	if err != nil {
		return "", fmt.Errorf("resolve token: %w", err)
	}
	if err := m.tokens.Remove(ctx, tokenID); err != nil {
		return "", err
	}
	m.log("removed token record %s", tokenID)
	return tokenID, nil
}

// resolveKeys resolves every set key reference to a normalized hex
// public key.
func (m *Manager) resolveKeys(ctx context.Context, refs KeyRefs) (domain.TokenKeys, error) {
	resolved := domain.TokenKeys{}
	fields := []struct {
		name string
		ref  string
		dst  *string
	}{
		{"admin key", refs.AdminKey, &resolved.AdminKey},
		{"supply key", refs.SupplyKey, &resolved.SupplyKey},
		{"wipe key", refs.WipeKey, &resolved.WipeKey},
		{"freeze key", refs.FreezeKey, &resolved.FreezeKey},
		{"kyc key", refs.KYCKey, &resolved.KYCKey},
		{"pause key", refs.PauseKey, &resolved.PauseKey},
		{"fee schedule key", refs.FeeScheduleKey, &resolved.FeeScheduleKey},
	}
	for _, f := range fields {
		if f.ref == "" {
			continue
		}
		pub, err := m.resolver.ResolveKey(ctx, f.ref)
		if err != nil {
			return domain.TokenKeys{}, fmt.Errorf("resolve %s: %w", f.name, err)
		}
		*f.dst = pub
	}
	return resolved, nil
}

// displayName picks the stored association label: the alias when the
// reference was one, otherwise the canonical account ID.
func displayName(raw, accountID string) string {
	if ref := resolve.ParseRef(raw); ref.Kind == resolve.RefAlias {
		return ref.Alias
	}
	return accountID
}

// refLabel renders an account reference for logs without its secret.
func refLabel(raw string) string {
	if ref := resolve.ParseRef(raw); ref.Kind == resolve.RefIDWithSecret {
		return ref.ID
	}
	return raw
}

func (m *Manager) log(format string, args ...interface{}) {
	if m.verbose {
		log.Printf("[hederactl] "+format, args...)
	}
}
