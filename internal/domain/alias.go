package domain

// EntityType partitions alias records by the kind of entity they name.
type EntityType string

const (
	EntityAccount EntityType = "account"
	EntityToken   EntityType = "token"
	EntityKey     EntityType = "key"
)

// String returns the string representation of EntityType.
func (e EntityType) String() string {
	return string(e)
}

// IsValid checks if the entity type is a known value.
func (e EntityType) IsValid() bool {
	return e == EntityAccount || e == EntityToken || e == EntityKey
}

// Alias maps a human-chosen name to a canonical entity ID within one
// network and entity type. At most one record exists per
// (Alias, Type, Network). KeyRef optionally links the alias to signing
// material held by the key store; for key-type aliases EntityID carries
// the hex public key itself.
type Alias struct {
	Alias     string     `json:"alias"`
	Type      EntityType `json:"type"`
	Network   Network    `json:"network"`
	EntityID  string     `json:"entityId"`
	KeyRef    string     `json:"keyRef,omitempty"`
	CreatedAt int64      `json:"createdAt"` // unix ms
}
