// Package stub provides a programmable hedera.Client for tests.
package stub

import (
	"context"
	"crypto"
	"fmt"

	"github.com/misiekp/hederactl/internal/hedera"
)

// SigningPath names which signing variant a submit call took.
type SigningPath string

const (
	SigningOperator SigningPath = "operator"
	SigningKeyRef   SigningPath = "keyRef"
	SigningDirect   SigningPath = "direct"
)

// SubmitCall records one submit invocation.
type SubmitCall struct {
	Kind   hedera.OpKind
	Path   SigningPath
	KeyRef string // set when Path is SigningKeyRef
}

// Client implements hedera.Client for testing. Build delegates to the
// real builders so validation matches the production client; submit
// returns whatever was programmed per operation kind.
type Client struct {
	Results map[hedera.OpKind]*hedera.Result
	Queued  map[hedera.OpKind][]*hedera.Result
	Errors  map[hedera.OpKind]error

	BuildCalls  []hedera.OpKind
	SubmitCalls []SubmitCall
}

// NewClient creates a new stub client.
func NewClient() *Client {
	return &Client{
		Results: make(map[hedera.OpKind]*hedera.Result),
		Queued:  make(map[hedera.OpKind][]*hedera.Result),
		Errors:  make(map[hedera.OpKind]error),
	}
}

// Compile-time interface check.
var _ hedera.Client = (*Client)(nil)

// ProgramResult sets the result returned for an operation kind.
func (c *Client) ProgramResult(kind hedera.OpKind, result *hedera.Result) {
	c.Results[kind] = result
}

// ProgramNext queues a result consumed by exactly one submit of the
// given kind. Queued results take precedence over ProgramResult.
func (c *Client) ProgramNext(kind hedera.OpKind, result *hedera.Result) {
	c.Queued[kind] = append(c.Queued[kind], result)
}

// ProgramError sets the submit error returned for an operation kind.
func (c *Client) ProgramError(kind hedera.OpKind, err error) {
	c.Errors[kind] = err
}

// BuildTokenCreate assembles a token-create body via the real builder.
func (c *Client) BuildTokenCreate(params hedera.CreateParams) (*hedera.Transaction, error) {
	c.BuildCalls = append(c.BuildCalls, hedera.OpTokenCreate)
	return hedera.BuildTokenCreate(params)
}

// BuildTokenAssociate assembles a token-associate body via the real builder.
func (c *Client) BuildTokenAssociate(params hedera.AssociateParams) (*hedera.Transaction, error) {
	c.BuildCalls = append(c.BuildCalls, hedera.OpTokenAssociate)
	return hedera.BuildTokenAssociate(params)
}

// BuildTokenTransfer assembles a token-transfer body via the real builder.
func (c *Client) BuildTokenTransfer(params hedera.TransferParams) (*hedera.Transaction, error) {
	c.BuildCalls = append(c.BuildCalls, hedera.OpTokenTransfer)
	return hedera.BuildTokenTransfer(params)
}

// SignAndExecute records an operator-signed submit.
func (c *Client) SignAndExecute(ctx context.Context, tx *hedera.Transaction) (*hedera.Result, error) {
	c.SubmitCalls = append(c.SubmitCalls, SubmitCall{Kind: tx.Kind, Path: SigningOperator})
	return c.programmed(tx.Kind)
}

// SignAndExecuteWithKey records a direct-key submit.
func (c *Client) SignAndExecuteWithKey(ctx context.Context, tx *hedera.Transaction, key crypto.Signer) (*hedera.Result, error) {
	c.SubmitCalls = append(c.SubmitCalls, SubmitCall{Kind: tx.Kind, Path: SigningDirect})
	return c.programmed(tx.Kind)
}

// SignAndExecuteWith records a key-reference submit.
func (c *Client) SignAndExecuteWith(ctx context.Context, tx *hedera.Transaction, keyRef string) (*hedera.Result, error) {
	c.SubmitCalls = append(c.SubmitCalls, SubmitCall{Kind: tx.Kind, Path: SigningKeyRef, KeyRef: keyRef})
	return c.programmed(tx.Kind)
}

func (c *Client) programmed(kind hedera.OpKind) (*hedera.Result, error) {
	if err, ok := c.Errors[kind]; ok {
		return nil, err
	}
	if queue := c.Queued[kind]; len(queue) > 0 {
		result := queue[0]
		c.Queued[kind] = queue[1:]
		return result, nil
	}
	if result, ok := c.Results[kind]; ok {
		return result, nil
	}
	return nil, fmt.Errorf("stub: no result programmed for %s", kind)
}
