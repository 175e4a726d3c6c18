package sweets

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("sweet not found")
	ErrOutOfStock    = errors.New("out of stock")
	ErrInvalidAmount = errors.New("invalid restock amount")
)

// ValidationError names the field that failed so handlers can surface it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
