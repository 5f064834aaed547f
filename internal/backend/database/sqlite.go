package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// sqliteTimeFormat is used for the created_at column; SQLite has no
// native timestamp type, so values round-trip through TEXT.
const sqliteTimeFormat = time.RFC3339Nano

type SQLiteStore struct {
	schemaGuard
	db               *sql.DB
	connectionString string
}

func NewSQLiteStore(connectionString string) (RecordStore, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", connectionString, err)
	}

	return &SQLiteStore{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteStore) CreateSchoolsTable() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schools (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		contact INTEGER NOT NULL,
		image TEXT,
		email_id TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schools table: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateSchool(ctx context.Context, school *School) (int64, error) {
	if err := s.ensure(s.CreateSchoolsTable); err != nil {
		return 0, err
	}

	createdAt := time.Now().UTC()
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO schools (name, address, city, state, contact, image, email_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		school.Name, school.Address, school.City, school.State, school.Contact,
		nullableImage(school.Image), school.Email, createdAt.Format(sqliteTimeFormat))
	if err != nil {
		return 0, fmt.Errorf("failed to insert school: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted school id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) ListSchools(ctx context.Context) ([]School, error) {
	if err := s.ensure(s.CreateSchoolsTable); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, address, city, state, contact, image, email_id, created_at FROM schools ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query schools: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	schools := make([]School, 0)
	for rows.Next() {
		var school School
		var image sql.NullString
		var createdAt string
		if err := rows.Scan(&school.ID, &school.Name, &school.Address, &school.City,
			&school.State, &school.Contact, &image, &school.Email, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan school row: %w", err)
		}
		school.Image = image.String
		if ts, err := time.Parse(sqliteTimeFormat, createdAt); err == nil {
			school.CreatedAt = ts
		}
		schools = append(schools, school)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate school rows: %w", err)
	}
	return schools, nil
}

func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// nullableImage maps an absent image reference to NULL so that records
// without an image mirror the original schema.
func nullableImage(reference string) any {
	if reference == "" {
		return nil
	}
	return reference
}
