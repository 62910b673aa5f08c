// internal/engine/errors.go
package engine

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrBlockNotFound = errors.New("block not found")
	ErrItemNotFound  = errors.New("item not found")
)
