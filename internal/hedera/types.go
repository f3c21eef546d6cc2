package hedera

import (
	"encoding/json"

	"github.com/misiekp/hederactl/internal/domain"
)

// OpKind identifies a token operation on the wire.
type OpKind string

const (
	OpTokenCreate    OpKind = "TOKEN_CREATE"
	OpTokenAssociate OpKind = "TOKEN_ASSOCIATE"
	OpTokenTransfer  OpKind = "TOKEN_TRANSFER"
)

// String returns the string representation of OpKind.
func (k OpKind) String() string {
	return string(k)
}

// CreateParams carries everything a token-create body needs. All IDs
// and keys are canonical by the time they reach the builder.
type CreateParams struct {
	Name          string
	Symbol        string
	Decimals      int32
	InitialSupply int64
	SupplyType    domain.SupplyType
	MaxSupply     int64
	TreasuryID    string
	Keys          domain.TokenKeys
	CustomFees    []domain.CustomFee
	Memo          string
}

// AssociateParams carries a token-associate body.
type AssociateParams struct {
	TokenID   string
	AccountID string
}

// TransferParams carries a token-transfer body. Amount is in base
// units (decimals already applied).
type TransferParams struct {
	TokenID string
	FromID  string
	ToID    string
	Amount  int64
}

// Transaction is a built, not-yet-signed operation. Body is the
// canonical serialized form; signing covers exactly these bytes.
type Transaction struct {
	Kind OpKind
	Body []byte
	Memo string
}

// Result is the normalized outcome of a submitted transaction.
// Receipt is the raw gateway payload, kept verbatim for logging and
// never interpreted beyond the normalized fields.
type Result struct {
	Success       bool
	Status        string
	TransactionID string
	EntityID      string
	Receipt       json.RawMessage
}
