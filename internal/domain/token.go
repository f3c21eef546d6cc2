package domain

// SupplyType describes whether a token's supply is capped.
type SupplyType string

const (
	SupplyTypeFinite   SupplyType = "FINITE"
	SupplyTypeInfinite SupplyType = "INFINITE"
)

// String returns the string representation of SupplyType.
func (s SupplyType) String() string {
	return string(s)
}

// IsValid checks if the supply type is a known value.
func (s SupplyType) IsValid() bool {
	return s == SupplyTypeFinite || s == SupplyTypeInfinite
}

// TokenKeys holds the token's administrative public keys, hex encoded.
// An empty string means the key is unset on the token.
type TokenKeys struct {
	AdminKey       string `json:"adminKey,omitempty"`
	SupplyKey      string `json:"supplyKey,omitempty"`
	WipeKey        string `json:"wipeKey,omitempty"`
	FreezeKey      string `json:"freezeKey,omitempty"`
	KYCKey         string `json:"kycKey,omitempty"`
	PauseKey       string `json:"pauseKey,omitempty"`
	FeeScheduleKey string `json:"feeScheduleKey,omitempty"`
}

// Association mirrors a ledger-level token association on the local record.
// Name is a display label; it defaults to the account ID when no alias was
// supplied at association time.
type Association struct {
	Name      string `json:"name"`
	AccountID string `json:"accountId"`
}

// Token is the locally persisted record of a created token.
// Created once at successful token-create time, mutated only by appending
// associations. Invariants: MaxSupply >= InitialSupply when SupplyType is
// FINITE; Associations contains no duplicate AccountID.
type Token struct {
	TokenID       string        `json:"tokenId"`
	Name          string        `json:"name"`
	Symbol        string        `json:"symbol"`
	Decimals      int32         `json:"decimals"`
	InitialSupply int64         `json:"initialSupply"`
	SupplyType    SupplyType    `json:"supplyType"`
	MaxSupply     int64         `json:"maxSupply"`
	TreasuryID    string        `json:"treasuryId"`
	Keys          TokenKeys     `json:"keys"`
	Network       Network       `json:"network"`
	Associations  []Association `json:"associations"`
	CustomFees    []CustomFee   `json:"customFees,omitempty"`
	Memo          string        `json:"memo,omitempty"`
	CreatedAt     int64         `json:"createdAt"` // unix ms
}

// HasAssociation reports whether accountID already appears in Associations.
func (t *Token) HasAssociation(accountID string) bool {
	for _, a := range t.Associations {
		if a.AccountID == accountID {
			return true
		}
	}
	return false
}

// TokenStats aggregates the full token set. Always recomputed from the
// source of truth, never maintained incrementally.
type TokenStats struct {
	Total             int                `json:"total"`
	ByNetwork         map[Network]int    `json:"byNetwork"`
	BySupplyType      map[SupplyType]int `json:"bySupplyType"`
	WithAssociations  int                `json:"withAssociations"`
	TotalAssociations int                `json:"totalAssociations"`
}
