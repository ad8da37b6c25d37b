package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrEmptyCart  = errors.New("cart empty")
	ErrBadCreds   = errors.New("invalid email or password")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// FallbackPolicy decides what a read does when the store is unreachable.
// Write paths never fall back.
type FallbackPolicy int

const (
	// FailFast surfaces the store error to the caller.
	FailFast FallbackPolicy = iota
	// UseFallback serves sample, shadow or default data marked as stale.
	UseFallback
)

func PolicyFor(enabled bool) FallbackPolicy {
	if enabled {
		return UseFallback
	}
	return FailFast
}
