// Package hedera is the ledger collaborator: it builds token
// transaction bodies, signs them, and submits them to a JSON-RPC
// gateway. Builders validate locally and never touch the network;
// submission is a single attempt with no retry.
package hedera

import (
	"context"
	"crypto"
	"errors"

	"github.com/misiekp/hederactl/internal/keys"
)

// ErrNoOperator is returned when the ambient signing path is taken but
// no default operator was configured.
var ErrNoOperator = errors.New("no operator configured")

// Client defines the ledger client interface.
type Client interface {
	// BuildTokenCreate assembles a token-create transaction body.
	BuildTokenCreate(params CreateParams) (*Transaction, error)

	// BuildTokenAssociate assembles a token-associate transaction body.
	BuildTokenAssociate(params AssociateParams) (*Transaction, error)

	// BuildTokenTransfer assembles a token-transfer transaction body.
	BuildTokenTransfer(params TransferParams) (*Transaction, error)

	// SignAndExecute signs with the default operator key and submits.
	SignAndExecute(ctx context.Context, tx *Transaction) (*Result, error)

	// SignAndExecuteWithKey signs with an explicit key and submits.
	SignAndExecuteWithKey(ctx context.Context, tx *Transaction, key crypto.Signer) (*Result, error)

	// SignAndExecuteWith signs with a stored key reference and submits.
	SignAndExecuteWith(ctx context.Context, tx *Transaction, keyRef string) (*Result, error)
}

// KeySource supplies signing capability by reference. keys.Store
// implements it.
type KeySource interface {
	Signer(keyRef string) (crypto.Signer, error)
	Operator() (*keys.Operator, bool)
}
