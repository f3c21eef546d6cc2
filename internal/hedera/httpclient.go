package hedera

import (
	"bytes"
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"
)

// DefaultTimeout bounds a single gateway round trip.
const DefaultTimeout = 30 * time.Second

// StatusSuccess is the gateway status for an accepted transaction.
const StatusSuccess = "SUCCESS"

// HTTPClient implements Client over HTTP JSON-RPC 2.0. Submission is a
// single attempt: failed transactions are reported, never retried.
type HTTPClient struct {
	endpoint  string
	client    *http.Client
	keySource KeySource
	requestID atomic.Uint64
}

// ClientOption configures HTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.client = client
	}
}

// NewHTTPClient creates a gateway client. keySource supplies the
// operator and stored key references for the signing paths.
func NewHTTPClient(endpoint string, keySource KeySource, opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{
		endpoint:  endpoint,
		client:    &http.Client{Timeout: DefaultTimeout},
		keySource: keySource,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile-time interface check.
var _ Client = (*HTTPClient)(nil)

// BuildTokenCreate assembles a token-create transaction body.
func (c *HTTPClient) BuildTokenCreate(params CreateParams) (*Transaction, error) {
	return BuildTokenCreate(params)
}

// BuildTokenAssociate assembles a token-associate transaction body.
func (c *HTTPClient) BuildTokenAssociate(params AssociateParams) (*Transaction, error) {
	return BuildTokenAssociate(params)
}

// BuildTokenTransfer assembles a token-transfer transaction body.
func (c *HTTPClient) BuildTokenTransfer(params TransferParams) (*Transaction, error) {
	return BuildTokenTransfer(params)
}

// SignAndExecute signs with the default operator key and submits.
func (c *HTTPClient) SignAndExecute(ctx context.Context, tx *Transaction) (*Result, error) {
	op, ok := c.keySource.Operator()
	if !ok {
		return nil, ErrNoOperator
	}
	signer, err := c.keySource.Signer(op.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("operator key: %w", err)
	}
	return c.signAndSubmit(ctx, tx, signer)
}

// SignAndExecuteWithKey signs with an explicit key and submits.
func (c *HTTPClient) SignAndExecuteWithKey(ctx context.Context, tx *Transaction, key crypto.Signer) (*Result, error) {
	return c.signAndSubmit(ctx, tx, key)
}

// SignAndExecuteWith signs with a stored key reference and submits.
func (c *HTTPClient) SignAndExecuteWith(ctx context.Context, tx *Transaction, keyRef string) (*Result, error) {
	signer, err := c.keySource.Signer(keyRef)
	if err != nil {
		return nil, err
	}
	return c.signAndSubmit(ctx, tx, signer)
}

// submitParams is the hedera_submitTransaction parameter object.
type submitParams struct {
	Transaction string          `json:"transaction"` // hex-encoded body
	Signatures  []wireSignature `json:"signatures"`
}

type wireSignature struct {
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
}

// submitResult is the raw gateway response for hedera_submitTransaction.
type submitResult struct {
	Status        string          `json:"status"`
	TransactionID string          `json:"transactionId"`
	EntityID      string          `json:"entityId,omitempty"`
	Receipt       json.RawMessage `json:"receipt,omitempty"`
}

func (c *HTTPClient) signAndSubmit(ctx context.Context, tx *Transaction, signer crypto.Signer) (*Result, error) {
	pub, ok := signer.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unsupported signing key type %T", signer.Public())
	}

	sig, err := signer.Sign(rand.Reader, tx.Body, crypto.Hash(0))
	if err != nil {
		return nil, fmt.Errorf("sign %s: %w", tx.Kind, err)
	}

	params := submitParams{
		Transaction: hex.EncodeToString(tx.Body),
		Signatures: []wireSignature{{
			PublicKey: hex.EncodeToString(pub),
			Signature: hex.EncodeToString(sig),
		}},
	}

	var result submitResult
	if err := c.call(ctx, "hedera_submitTransaction", []interface{}{params}, &result); err != nil {
		return nil, fmt.Errorf("submit %s: %w", tx.Kind, err)
	}

	return &Result{
		Success:       result.Status == StatusSuccess,
		Status:        result.Status,
		TransactionID: result.TransactionID,
		EntityID:      result.EntityID,
		Receipt:       result.Receipt,
	}, nil
}

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// call performs a single JSON-RPC call.
func (c *HTTPClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}

	return nil
}
