// Package tokenfile loads bulk token-definition documents: a JSON
// description of one token plus the accounts to associate with it
// after creation. References inside the document (treasury, keys,
// association accounts) stay raw; resolution happens in the command
// layer, not here.
package tokenfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/misiekp/hederactl/internal/domain"
)

// ErrInvalidDefinition is returned when a document fails validation.
var ErrInvalidDefinition = errors.New("invalid token definition")

// Definition is the parsed token-definition document.
type Definition struct {
	Name          string             `json:"name"`
	Symbol        string             `json:"symbol"`
	Decimals      int32              `json:"decimals"`
	InitialSupply int64              `json:"initialSupply"`
	SupplyType    domain.SupplyType  `json:"supplyType"`
	MaxSupply     int64              `json:"maxSupply,omitempty"`
	Treasury      string             `json:"treasury,omitempty"` // account ref; empty means the operator
	Memo          string             `json:"memo,omitempty"`
	Keys          KeyRefs            `json:"keys,omitempty"`
	CustomFees    []domain.CustomFee `json:"customFees,omitempty"`
	Associations  []AssociationRef   `json:"associations,omitempty"`
}

// KeyRefs carries unresolved key references: hex public keys or
// key-type alias names.
type KeyRefs struct {
	AdminKey       string `json:"adminKey,omitempty"`
	SupplyKey      string `json:"supplyKey,omitempty"`
	WipeKey        string `json:"wipeKey,omitempty"`
	FreezeKey      string `json:"freezeKey,omitempty"`
	KYCKey         string `json:"kycKey,omitempty"`
	PauseKey       string `json:"pauseKey,omitempty"`
	FeeScheduleKey string `json:"feeScheduleKey,omitempty"`
}

// AssociationRef names one account to associate after creation.
// Account is a raw reference (alias or id:secret); Key optionally
// supplies the signing secret when Account is a bare ID.
type AssociationRef struct {
	Name    string `json:"name,omitempty"`
	Account string `json:"account"`
	Key     string `json:"key,omitempty"`
}

// Load reads and parses a definition document from disk.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read token definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a definition document. Unknown fields are rejected so
// typos fail loudly instead of being silently dropped.
func Parse(data []byte) (*Definition, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDefinition, err)
	}
	if def.SupplyType == "" {
		def.SupplyType = domain.SupplyTypeInfinite
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks the document's internal consistency. Reference
// strings are not resolved here.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}
	if d.Symbol == "" {
		return fmt.Errorf("%w: symbol is required", ErrInvalidDefinition)
	}
	if d.Decimals < 0 || d.Decimals > 18 {
		return fmt.Errorf("%w: decimals must be 0..18, got %d", ErrInvalidDefinition, d.Decimals)
	}
	if d.InitialSupply < 0 {
		return fmt.Errorf("%w: initialSupply must be non-negative, got %d", ErrInvalidDefinition, d.InitialSupply)
	}
	if !d.SupplyType.IsValid() {
		return fmt.Errorf("%w: unknown supplyType %q", ErrInvalidDefinition, d.SupplyType)
	}
	if d.SupplyType == domain.SupplyTypeFinite && d.MaxSupply < d.InitialSupply {
		return fmt.Errorf("%w: maxSupply %d below initialSupply %d", ErrInvalidDefinition, d.MaxSupply, d.InitialSupply)
	}
	for i, fee := range d.CustomFees {
		if err := fee.Validate(); err != nil {
			return fmt.Errorf("%w: fee %d: %v", ErrInvalidDefinition, i, err)
		}
	}
	for i, assoc := range d.Associations {
		if assoc.Account == "" {
			return fmt.Errorf("%w: association %d: account is required", ErrInvalidDefinition, i)
		}
	}
	return nil
}
