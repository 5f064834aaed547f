package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresStore struct {
	schemaGuard
	db *sql.DB
}

func NewPostgresStore(connectionString string) (RecordStore, error) {
	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) CreateSchoolsTable() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schools (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		contact BIGINT NOT NULL,
		image TEXT,
		email_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schools table: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateSchool(ctx context.Context, school *School) (int64, error) {
	if err := s.ensure(s.CreateSchoolsTable); err != nil {
		return 0, err
	}

	// Postgres does not expose LastInsertId through database/sql.
	var id int64
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO schools (name, address, city, state, contact, image, email_id, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id",
		school.Name, school.Address, school.City, school.State, school.Contact,
		nullableImage(school.Image), school.Email, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert school: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ListSchools(ctx context.Context) ([]School, error) {
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
		if err := rows.Scan(&school.ID, &school.Name, &school.Address, &school.City,
			&school.State, &school.Contact, &image, &school.Email, &school.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan school row: %w", err)
		}
		school.Image = image.String
		schools = append(schools, school)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate school rows: %w", err)
	}
	return schools, nil
}

func (s *PostgresStore) Ping() error {
	return s.db.Ping()
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
