package database

import (
	"fmt"
	"log/slog"
)

// NewRecordStore selects a backend implementation from startup
// configuration. All backends share the RecordStore contract; the choice
// is a deployment concern, not a code path difference.
func NewRecordStore(databaseType, connectionString string) (RecordStore, error) {
	var store RecordStore
	var err error

	switch databaseType {
	case "sqlite":
		store, err = NewSQLiteStore(connectionString)
	case "mysql":
		store, err = NewMySQLStore(connectionString)
	case "postgres":
		store, err = NewPostgresStore(connectionString)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", databaseType)
	}
	if err != nil {
		return nil, err
	}

	// Ensure the schema eagerly; a failure here (e.g. the database server
	// is not up yet) is logged and retried on the next operation.
	if err := store.CreateSchoolsTable(); err != nil {
		slog.Warn("failed to ensure schools table; will retry on first use",
			"database_type", databaseType, "error", err)
	}

	return store, nil
}
