package state

import "errors"

// Common errors returned by state stores.
var (
	ErrTokenNotFound  = errors.New("token not found")
	ErrAliasNotFound  = errors.New("alias not found")
	ErrDuplicateAlias = errors.New("alias already exists")
)
