package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound reports a reference with no stored asset behind it.
	ErrNotFound = errors.New("asset not found")
	// ErrBadReference reports a missing or malformed asset reference,
	// distinct from a well-formed reference that simply does not exist.
	ErrBadReference = errors.New("invalid asset reference")
)

// ContentArea is the storage region holding image asset bytes keyed by an
// opaque reference string. Assets are write-once: they are never mutated
// after Put.
type ContentArea interface {
	Put(ctx context.Context, reference string, data []byte) error
	Get(ctx context.Context, reference string) ([]byte, error)
	Exists(ctx context.Context, reference string) (bool, error)
	Delete(ctx context.Context, reference string) error
	List(ctx context.Context) ([]string, error)
	Close() error
}

// ValidateReference rejects empty references and anything that could
// escape the content area when used as a storage key.
func ValidateReference(reference string) error {
	if reference == "" {
		return ErrBadReference
	}
	if strings.ContainsAny(reference, `/\`) || strings.Contains(reference, "..") {
		return ErrBadReference
	}
	return nil
}
