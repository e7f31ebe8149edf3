package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrViewNotFound signals an undeclared view.
	ErrViewNotFound = errors.New("view not found")
	// ErrInvalidRequest signals malformed search or pagination parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnsupportedLookup signals a lookup mode the storage backend cannot evaluate.
	ErrUnsupportedLookup = errors.New("lookup not supported by backend")
	// ErrNotImplemented signals an unimplemented feature.
	ErrNotImplemented = errors.New("not implemented")
)

// LookupError names the lookup a backend rejected.
type LookupError struct {
	Lookup  string
	Backend string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s on %s", ErrUnsupportedLookup.Error(), e.Lookup, e.Backend)
}

func (e *LookupError) Unwrap() error { return ErrUnsupportedLookup }

// NewLookupError creates an unsupported lookup error.
func NewLookupError(lookup, backend string) error {
	return &LookupError{Lookup: lookup, Backend: backend}
}
