package domain

import "fmt"

// FeeType describes a custom fee schedule entry kind.
type FeeType string

const (
	FeeTypeFixed      FeeType = "FIXED"
	FeeTypeFractional FeeType = "FRACTIONAL"
)

// String returns the string representation of FeeType.
func (f FeeType) String() string {
	return string(f)
}

// IsValid checks if the fee type is a known value.
func (f FeeType) IsValid() bool {
	return f == FeeTypeFixed || f == FeeTypeFractional
}

// CustomFee is a custom fee attached to a token at create time.
// Fixed fees use Amount (and optionally DenominatingTokenID); fractional
// fees use Numerator/Denominator with optional Min/Max bounds.
type CustomFee struct {
	Type                FeeType `json:"type"`
	Amount              int64   `json:"amount,omitempty"`
	Numerator           int64   `json:"numerator,omitempty"`
	Denominator         int64   `json:"denominator,omitempty"`
	Min                 int64   `json:"min,omitempty"`
	Max                 int64   `json:"max,omitempty"`
	CollectorID         string  `json:"collectorId"`
	DenominatingTokenID string  `json:"denominatingTokenId,omitempty"`
	AllCollectorsExempt bool    `json:"allCollectorsExempt,omitempty"`
}

// Validate checks the fee entry for internal consistency.
func (f CustomFee) Validate() error {
	if !f.Type.IsValid() {
		return fmt.Errorf("custom fee: unknown type %q", f.Type)
	}
	if !IsEntityID(f.CollectorID) {
		return fmt.Errorf("custom fee: collector %q is not a valid entity id", f.CollectorID)
	}

	switch f.Type {
	case FeeTypeFixed:
		if f.Amount <= 0 {
			return fmt.Errorf("custom fee: fixed fee amount must be positive, got %d", f.Amount)
		}
		if f.DenominatingTokenID != "" && !IsEntityID(f.DenominatingTokenID) {
			return fmt.Errorf("custom fee: denominating token %q is not a valid entity id", f.DenominatingTokenID)
		}
	case FeeTypeFractional:
		if f.Numerator <= 0 || f.Denominator <= 0 {
			return fmt.Errorf("custom fee: fractional fee needs positive numerator and denominator, got %d/%d", f.Numerator, f.Denominator)
		}
		if f.Max > 0 && f.Min > f.Max {
			return fmt.Errorf("custom fee: min %d exceeds max %d", f.Min, f.Max)
		}
	}
	return nil
}
