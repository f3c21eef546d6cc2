package resolve

import (
	"strings"

	"github.com/misiekp/hederactl/internal/domain"
)

// RefKind tags the parsed form of a raw reference string.
type RefKind int

const (
	RefAlias RefKind = iota
	RefIDWithSecret
	RefBareID
)

// String returns the string representation of RefKind.
func (k RefKind) String() string {
	switch k {
	case RefAlias:
		return "alias"
	case RefIDWithSecret:
		return "id:secret"
	case RefBareID:
		return "id"
	default:
		return "unknown"
	}
}

// ParsedRef is the classified form of one raw reference string.
// Exactly the fields for its Kind are set.
type ParsedRef struct {
	Kind   RefKind
	Alias  string
	ID     string
	Secret string
}

// ParseRef classifies a raw reference string. Precedence: a string with
// exactly one ":" and a non-empty suffix is id:secret; otherwise the
// canonical entity-ID shape is a bare ID; anything else is an alias.
// Pure function, no lookups.
func ParseRef(raw string) ParsedRef {
	if idx := strings.Index(raw, ":"); idx >= 0 && strings.Count(raw, ":") == 1 && idx < len(raw)-1 {
		return ParsedRef{
			Kind:   RefIDWithSecret,
			ID:     raw[:idx],
			Secret: raw[idx+1:],
		}
	}
	if domain.IsEntityID(raw) {
		return ParsedRef{Kind: RefBareID, ID: raw}
	}
	return ParsedRef{Kind: RefAlias, Alias: raw}
}
