package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityID is a parsed canonical Hedera entity identifier (shard.realm.num).
type EntityID struct {
	Shard int64
	Realm int64
	Num   int64
}

// String returns the canonical shard.realm.num form.
func (e EntityID) String() string {
	return fmt.Sprintf("%d.%d.%d", e.Shard, e.Realm, e.Num)
}

// ParseEntityID parses a canonical entity ID. Returns an error when the
// string is not of the shard.realm.num shape.
func ParseEntityID(s string) (EntityID, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return EntityID{}, fmt.Errorf("entity id %q: want shard.realm.num", s)
	}

	var nums [3]int64
	for i, p := range parts {
		if p == "" || strings.Trim(p, "0123456789") != "" {
			return EntityID{}, fmt.Errorf("entity id %q: component %q is not a non-negative integer", s, p)
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return EntityID{}, fmt.Errorf("entity id %q: component %q is not a non-negative integer", s, p)
		}
		nums[i] = n
	}

	return EntityID{Shard: nums[0], Realm: nums[1], Num: nums[2]}, nil
}

// IsEntityID reports whether s has the canonical entity-ID shape.
func IsEntityID(s string) bool {
	_, err := ParseEntityID(s)
	return err == nil
}
