package session

import (
	"context"
	"fmt"
	"strings"
)

// Backend stores opaque session records keyed by identifier. Backends never
// look inside a record.
type Backend interface {
	// Load returns the record stored under id, or nil when there is none.
	// A missing record is never an error.
	Load(ctx context.Context, id string) ([]byte, error)

	// Dump stores data under id, replacing any previous record. Readers
	// never observe a partially written record.
	Dump(ctx context.Context, id string, data []byte) error

	// Clear removes the record stored under id. Clearing a missing record
	// succeeds.
	Clear(ctx context.Context, id string) error
}

// BackendFuncs adapts plain functions to Backend. Nil functions behave as
// an always-empty store.
type BackendFuncs struct {
	LoadFunc  func(ctx context.Context, id string) ([]byte, error)
	DumpFunc  func(ctx context.Context, id string, data []byte) error
	ClearFunc func(ctx context.Context, id string) error
}

func (b BackendFuncs) Load(ctx context.Context, id string) ([]byte, error) {
	if b.LoadFunc == nil {
		return nil, nil
	}
	return b.LoadFunc(ctx, id)
}

func (b BackendFuncs) Dump(ctx context.Context, id string, data []byte) error {
	if b.DumpFunc == nil {
		return nil
	}
	return b.DumpFunc(ctx, id, data)
}

func (b BackendFuncs) Clear(ctx context.Context, id string) error {
	if b.ClearFunc == nil {
		return nil
	}
	return b.ClearFunc(ctx, id)
}

// ValidateKey rejects identifiers that cannot be used as a storage key
// component: empty ones, hidden names and anything carrying a path
// separator.
func ValidateKey(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty identifier", ErrInvalidKey)
	case strings.HasPrefix(id, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidKey, id)
	case strings.ContainsAny(id, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidKey, id)
	}
	return nil
}
