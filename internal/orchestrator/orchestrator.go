// Package orchestrator drives one ledger operation through its fixed
// phases: build, sign-select, submit, normalize.
package orchestrator

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"log"

	"github.com/misiekp/hederactl/internal/hedera"
)

// Sentinel errors distinguishing the failure phases.
var (
	// ErrBuildRejected means the builder refused the parameters. No
	// network call was made.
	ErrBuildRejected = errors.New("transaction build rejected")

	// ErrOperationFailed means the ledger rejected the transaction.
	ErrOperationFailed = errors.New("operation failed")

	// ErrMalformedSuccess means a create reported success without the
	// created entity's ID. Distinct from rejection: the transaction may
	// have gone through, so callers must not persist or retry.
	ErrMalformedSuccess = errors.New("malformed success: entity id missing")
)

// Signing selects the signing path for one execution. Key takes
// precedence over KeyRef; both zero means the default operator.
type Signing struct {
	KeyRef string
	Key    crypto.Signer
}

// Request describes one ledger operation. Exactly the params field
// matching Kind must be set.
type Request struct {
	Kind      hedera.OpKind
	Create    *hedera.CreateParams
	Associate *hedera.AssociateParams
	Transfer  *hedera.TransferParams
	Signing   Signing
}

// Orchestrator executes requests strictly linearly: a failed phase
// aborts the run, nothing is retried, nothing is rolled back.
type Orchestrator struct {
	client  hedera.Client
	verbose bool
}

// Options for creating Orchestrator.
type Options struct {
	Client  hedera.Client
	Verbose bool
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		client:  opts.Client,
		verbose: opts.Verbose,
	}
}

// Execute runs one operation to completion.
// Phases:
//  1. Build the transaction body (local, aborts before any network call)
//  2. Select the signing path (direct key / key reference / operator)
//  3. Submit to the gateway (single attempt)
//  4. Normalize the result
func (o *Orchestrator) Execute(ctx context.Context, req Request) (*hedera.Result, error) {
	// Phase 1: Build
	o.log("Phase 1: Building %s...", req.Kind)
	tx, err := o.build(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildRejected, err)
	}

	// Phase 2+3: Sign and submit
	o.log("Phase 2: Submitting %s (%s)...", req.Kind, pathName(req.Signing))
	result, err := o.submit(ctx, tx, req.Signing)
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w", req.Kind, err)
	}

	// Phase 4: Normalize
	o.log("Phase 3: Normalizing result (status %s)", result.Status)
	if len(result.Receipt) > 0 {
		o.log("  receipt: %s", string(result.Receipt))
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: %s (status %s)", ErrOperationFailed, req.Kind, result.Status)
	}
	if req.Kind == hedera.OpTokenCreate && result.EntityID == "" {
		return nil, fmt.Errorf("%w (transaction %s)", ErrMalformedSuccess, result.TransactionID)
	}

	o.log("Completed %s: transaction %s", req.Kind, result.TransactionID)
	return result, nil
}

// build dispatches to the builder matching the request kind.
func (o *Orchestrator) build(req Request) (*hedera.Transaction, error) {
	switch req.Kind {
	case hedera.OpTokenCreate:
		if req.Create == nil {
			return nil, fmt.Errorf("%s: create params missing", req.Kind)
		}
		return o.client.BuildTokenCreate(*req.Create)
	case hedera.OpTokenAssociate:
		if req.Associate == nil {
			return nil, fmt.Errorf("%s: associate params missing", req.Kind)
		}
		return o.client.BuildTokenAssociate(*req.Associate)
	case hedera.OpTokenTransfer:
		if req.Transfer == nil {
			return nil, fmt.Errorf("%s: transfer params missing", req.Kind)
		}
		return o.client.BuildTokenTransfer(*req.Transfer)
	default:
		return nil, fmt.Errorf("unknown operation kind %q", req.Kind)
	}
}

// submit picks exactly one signing path. Paths are never retried
// against an alternative key.
func (o *Orchestrator) submit(ctx context.Context, tx *hedera.Transaction, signing Signing) (*hedera.Result, error) {
	switch {
	case signing.Key != nil:
		return o.client.SignAndExecuteWithKey(ctx, tx, signing.Key)
	case signing.KeyRef != "":
		return o.client.SignAndExecuteWith(ctx, tx, signing.KeyRef)
	default:
		return o.client.SignAndExecute(ctx, tx)
	}
}

func pathName(signing Signing) string {
	switch {
	case signing.Key != nil:
		return "direct key"
	case signing.KeyRef != "":
		return "key reference"
	default:
		return "operator"
	}
}

func (o *Orchestrator) log(format string, args ...interface{}) {
	if o.verbose {
		log.Printf("[orchestrator] "+format, args...)
	}
}
