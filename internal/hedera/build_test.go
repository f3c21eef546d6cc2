package hedera

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/misiekp/hederactl/internal/domain"
)

func validCreateParams() CreateParams {
	return CreateParams{
		Name:          "Demo Token",
		Symbol:        "DEMO",
		Decimals:      2,
		InitialSupply: 100000,
		SupplyType:    domain.SupplyTypeInfinite,
		TreasuryID:    "0.0.2",
	}
}

func testPublicKeyHex(t *testing.T) string {
	t.Helper()
	seed := bytes.Repeat([]byte{0x11}, ed25519.SeedSize)
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
	return hex.EncodeToString(pub)
}

func TestBuildTokenCreate(t *testing.T) {
	tx, err := BuildTokenCreate(validCreateParams())
	if err != nil {
		t.Fatalf("BuildTokenCreate failed: %v", err)
	}
	if tx.Kind != OpTokenCreate {
		t.Errorf("Kind = %s, want %s", tx.Kind, OpTokenCreate)
	}
	if len(tx.Body) == 0 {
		t.Fatal("Body is empty")
	}

	// The body is deterministic: building twice yields identical bytes.
	tx2, err := BuildTokenCreate(validCreateParams())
	if err != nil {
		t.Fatalf("second BuildTokenCreate failed: %v", err)
	}
	if !bytes.Equal(tx.Body, tx2.Body) {
		t.Error("same params produced different bodies")
	}
}

func TestBuildTokenCreate_NormalizesKeys(t *testing.T) {
	pubHex := testPublicKeyHex(t)

	params := validCreateParams()
	params.Keys.AdminKey = "0x" + strings.ToUpper(pubHex)

	tx, err := BuildTokenCreate(params)
	if err != nil {
		t.Fatalf("BuildTokenCreate failed: %v", err)
	}
	if !bytes.Contains(tx.Body, []byte(pubHex)) {
		t.Errorf("body does not carry the normalized admin key: %s", tx.Body)
	}
}

func TestBuildTokenCreate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateParams)
	}{
		{"empty name", func(p *CreateParams) { p.Name = "" }},
		{"name too long", func(p *CreateParams) { p.Name = strings.Repeat("x", 101) }},
		{"empty symbol", func(p *CreateParams) { p.Symbol = "" }},
		{"negative decimals", func(p *CreateParams) { p.Decimals = -1 }},
		{"decimals too large", func(p *CreateParams) { p.Decimals = 19 }},
		{"negative supply", func(p *CreateParams) { p.InitialSupply = -5 }},
		{"unknown supply type", func(p *CreateParams) { p.SupplyType = "BOUNDED" }},
		{"finite cap below supply", func(p *CreateParams) {
			p.SupplyType = domain.SupplyTypeFinite
			p.InitialSupply = 1000
			p.MaxSupply = 10
		}},
		{"bad treasury", func(p *CreateParams) { p.TreasuryID = "treasury" }},
		{"bad admin key", func(p *CreateParams) { p.Keys.AdminKey = "nothex" }},
		{"bad fee", func(p *CreateParams) {
			p.CustomFees = []domain.CustomFee{{Type: domain.FeeTypeFixed, Amount: 0, CollectorID: "0.0.2"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validCreateParams()
			tt.mutate(&params)

			_, err := BuildTokenCreate(params)
			var buildErr *BuildError
			if !errors.As(err, &buildErr) {
				t.Fatalf("expected BuildError, got %v", err)
			}
			if buildErr.Op != OpTokenCreate {
				t.Errorf("BuildError.Op = %s, want %s", buildErr.Op, OpTokenCreate)
			}
		})
	}
}

func TestBuildTokenCreate_FiniteSupplyOK(t *testing.T) {
	params := validCreateParams()
	params.SupplyType = domain.SupplyTypeFinite
	params.InitialSupply = 100
	params.MaxSupply = 100

	if _, err := BuildTokenCreate(params); err != nil {
		t.Errorf("max supply equal to initial supply should build, got %v", err)
	}
}

func TestBuildTokenAssociate(t *testing.T) {
	tx, err := BuildTokenAssociate(AssociateParams{TokenID: "0.0.1001", AccountID: "0.0.501"})
	if err != nil {
		t.Fatalf("BuildTokenAssociate failed: %v", err)
	}
	if tx.Kind != OpTokenAssociate {
		t.Errorf("Kind = %s, want %s", tx.Kind, OpTokenAssociate)
	}

	var buildErr *BuildError
	if _, err := BuildTokenAssociate(AssociateParams{TokenID: "nope", AccountID: "0.0.501"}); !errors.As(err, &buildErr) {
		t.Errorf("bad token: expected BuildError, got %v", err)
	}
	if _, err := BuildTokenAssociate(AssociateParams{TokenID: "0.0.1001", AccountID: "alice"}); !errors.As(err, &buildErr) {
		t.Errorf("bad account: expected BuildError, got %v", err)
	}
}

func TestBuildTokenTransfer(t *testing.T) {
	tx, err := BuildTokenTransfer(TransferParams{TokenID: "0.0.1001", FromID: "0.0.2", ToID: "0.0.501", Amount: 100})
	if err != nil {
		t.Fatalf("BuildTokenTransfer failed: %v", err)
	}
	if tx.Kind != OpTokenTransfer {
		t.Errorf("Kind = %s, want %s", tx.Kind, OpTokenTransfer)
	}

	var buildErr *BuildError
	for name, params := range map[string]TransferParams{
		"zero amount":     {TokenID: "0.0.1001", FromID: "0.0.2", ToID: "0.0.501", Amount: 0},
		"negative amount": {TokenID: "0.0.1001", FromID: "0.0.2", ToID: "0.0.501", Amount: -1},
		"bad from":        {TokenID: "0.0.1001", FromID: "f", ToID: "0.0.501", Amount: 1},
		"bad to":          {TokenID: "0.0.1001", FromID: "0.0.2", ToID: "t", Amount: 1},
		"bad token":       {TokenID: "x", FromID: "0.0.2", ToID: "0.0.501", Amount: 1},
	} {
		if _, err := BuildTokenTransfer(params); !errors.As(err, &buildErr) {
			t.Errorf("%s: expected BuildError, got %v", name, err)
		}
	}
}
