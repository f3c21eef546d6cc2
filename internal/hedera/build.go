package hedera

import (
	"encoding/json"
	"fmt"

	"github.com/misiekp/hederactl/internal/domain"
	"github.com/misiekp/hederactl/internal/keys"
)

const (
	maxNameLength   = 100
	maxSymbolLength = 100
	maxDecimals     = 18
)

// BuildError reports a transaction body the builder refused to
// assemble. No network call has happened when one is returned.
type BuildError struct {
	Op     OpKind
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s: %s", e.Op, e.Reason)
}

func buildErr(op OpKind, format string, args ...any) error {
	return &BuildError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// createBody is the canonical wire form of a token create. Field order
// is fixed, so marshaling is deterministic.
type createBody struct {
	Kind          OpKind              `json:"kind"`
	Name          string              `json:"name"`
	Symbol        string              `json:"symbol"`
	Decimals      int32               `json:"decimals"`
	InitialSupply int64               `json:"initialSupply"`
	SupplyType    domain.SupplyType   `json:"supplyType"`
	MaxSupply     int64               `json:"maxSupply,omitempty"`
	Treasury      string              `json:"treasury"`
	Keys          domain.TokenKeys    `json:"keys"`
	CustomFees    []domain.CustomFee  `json:"customFees,omitempty"`
	Memo          string              `json:"memo,omitempty"`
}

type associateBody struct {
	Kind    OpKind `json:"kind"`
	Token   string `json:"token"`
	Account string `json:"account"`
}

type transferBody struct {
	Kind   OpKind `json:"kind"`
	Token  string `json:"token"`
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// BuildTokenCreate validates create parameters and assembles the
// transaction body. Shared by the HTTP client and the test stub so
// both reject the same inputs.
func BuildTokenCreate(params CreateParams) (*Transaction, error) {
	if params.Name == "" || len(params.Name) > maxNameLength {
		return nil, buildErr(OpTokenCreate, "name must be 1..%d characters", maxNameLength)
	}
	if params.Symbol == "" || len(params.Symbol) > maxSymbolLength {
		return nil, buildErr(OpTokenCreate, "symbol must be 1..%d characters", maxSymbolLength)
	}
	if params.Decimals < 0 || params.Decimals > maxDecimals {
		return nil, buildErr(OpTokenCreate, "decimals must be 0..%d, got %d", maxDecimals, params.Decimals)
	}
	if params.InitialSupply < 0 {
		return nil, buildErr(OpTokenCreate, "initial supply must be non-negative, got %d", params.InitialSupply)
	}
	if !params.SupplyType.IsValid() {
		return nil, buildErr(OpTokenCreate, "unknown supply type %q", params.SupplyType)
	}
	if params.SupplyType == domain.SupplyTypeFinite && params.MaxSupply < params.InitialSupply {
		return nil, buildErr(OpTokenCreate, "max supply %d below initial supply %d", params.MaxSupply, params.InitialSupply)
	}
	if !domain.IsEntityID(params.TreasuryID) {
		return nil, buildErr(OpTokenCreate, "treasury %q is not a valid entity id", params.TreasuryID)
	}
	normalized, err := normalizeTokenKeys(params.Keys)
	if err != nil {
		return nil, buildErr(OpTokenCreate, "%v", err)
	}
	for i, fee := range params.CustomFees {
		if err := fee.Validate(); err != nil {
			return nil, buildErr(OpTokenCreate, "fee %d: %v", i, err)
		}
	}

	body, err := json.Marshal(createBody{
		Kind:          OpTokenCreate,
		Name:          params.Name,
		Symbol:        params.Symbol,
		Decimals:      params.Decimals,
		InitialSupply: params.InitialSupply,
		SupplyType:    params.SupplyType,
		MaxSupply:     params.MaxSupply,
		Treasury:      params.TreasuryID,
		Keys:          normalized,
		CustomFees:    params.CustomFees,
		Memo:          params.Memo,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal create body: %w", err)
	}
	return &Transaction{Kind: OpTokenCreate, Body: body, Memo: params.Memo}, nil
}

// BuildTokenAssociate validates associate parameters and assembles the
// transaction body.
func BuildTokenAssociate(params AssociateParams) (*Transaction, error) {
	if !domain.IsEntityID(params.TokenID) {
		return nil, buildErr(OpTokenAssociate, "token %q is not a valid entity id", params.TokenID)
	}
	if !domain.IsEntityID(params.AccountID) {
		return nil, buildErr(OpTokenAssociate, "account %q is not a valid entity id", params.AccountID)
	}

	body, err := json.Marshal(associateBody{
		Kind:    OpTokenAssociate,
		Token:   params.TokenID,
		Account: params.AccountID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal associate body: %w", err)
	}
	return &Transaction{Kind: OpTokenAssociate, Body: body}, nil
}

// BuildTokenTransfer validates transfer parameters and assembles the
// transaction body.
func BuildTokenTransfer(params TransferParams) (*Transaction, error) {
	if !domain.IsEntityID(params.TokenID) {
		return nil, buildErr(OpTokenTransfer, "token %q is not a valid entity id", params.TokenID)
	}
	if !domain.IsEntityID(params.FromID) {
		return nil, buildErr(OpTokenTransfer, "from %q is not a valid entity id", params.FromID)
	}
	if !domain.IsEntityID(params.ToID) {
		return nil, buildErr(OpTokenTransfer, "to %q is not a valid entity id", params.ToID)
	}
	if params.Amount <= 0 {
		return nil, buildErr(OpTokenTransfer, "amount must be positive, got %d", params.Amount)
	}

	body, err := json.Marshal(transferBody{
		Kind:   OpTokenTransfer,
		Token:  params.TokenID,
		From:   params.FromID,
		To:     params.ToID,
		Amount: params.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal transfer body: %w", err)
	}
	return &Transaction{Kind: OpTokenTransfer, Body: body}, nil
}

// normalizeTokenKeys validates every set key field as an ed25519
// public key and returns the normalized (lowercase hex) form.
func normalizeTokenKeys(k domain.TokenKeys) (domain.TokenKeys, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"admin key", &k.AdminKey},
		{"supply key", &k.SupplyKey},
		{"wipe key", &k.WipeKey},
		{"freeze key", &k.FreezeKey},
		{"kyc key", &k.KYCKey},
		{"pause key", &k.PauseKey},
		{"fee schedule key", &k.FeeScheduleKey},
	}
	for _, f := range fields {
		if *f.value == "" {
			continue
		}
		normalized, err := keys.ParsePublicKey(*f.value)
		if err != nil {
			return domain.TokenKeys{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.value = normalized
	}
	return k, nil
}
