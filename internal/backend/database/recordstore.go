package database

import (
	"context"
	"sync/atomic"
)

type RecordStore interface {
	// CreateSchoolsTable ensures the schools relation exists. It is
	// idempotent and safe to call repeatedly and concurrently.
	CreateSchoolsTable() error

	// CreateSchool inserts a single validated row and returns the
	// store-assigned id. The insert is atomic; no partial row is ever
	// written.
	CreateSchool(ctx context.Context, school *School) (int64, error)

	// ListSchools returns every record ordered by id descending, newest
	// first. An empty store yields an empty slice, not an error.
	ListSchools(ctx context.Context) ([]School, error)

	Ping() error
	Close() error
}

// schemaGuard lazily retries the idempotent schema-ensure step. A failed
// ensure at startup is logged by the factory and retried on the next
// operation instead of crashing the process.
type schemaGuard struct {
	ok atomic.Bool
}

func (g *schemaGuard) ensure(create func() error) error {
	if g.ok.Load() {
		return nil
	}
	if err := create(); err != nil {
		return err
	}
	g.ok.Store(true)
	return nil
}
