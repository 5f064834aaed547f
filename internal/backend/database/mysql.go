package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLStore struct {
	schemaGuard
	db *sql.DB
}

func NewMySQLStore(connectionString string) (RecordStore, error) {
	// created_at scanning requires the driver to return time.Time values.
	if !strings.Contains(connectionString, "parseTime=") {
		separator := "?"
		if strings.Contains(connectionString, "?") {
			separator = "&"
		}
		connectionString += separator + "parseTime=true"
	}

	db, err := sql.Open("mysql", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql database: %w", err)
	}

	return &MySQLStore{db: db}, nil
}

func (s *MySQLStore) CreateSchoolsTable() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schools (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		state TEXT NOT NULL,
		contact BIGINT NOT NULL,
		image TEXT,
		email_id TEXT NOT NULL,
		created_at DATETIME(6) NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create schools table: %w", err)
	}
	return nil
}

func (s *MySQLStore) CreateSchool(ctx context.Context, school *School) (int64, error) {
	if err := s.ensure(s.CreateSchoolsTable); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO schools (name, address, city, state, contact, image, email_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		school.Name, school.Address, school.City, school.State, school.Contact,
		nullableImage(school.Image), school.Email, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert school: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted school id: %w", err)
	}
	return id, nil
}

func (s *MySQLStore) ListSchools(ctx context.Context) ([]School, error) {
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

func (s *MySQLStore) Ping() error {
	return s.db.Ping()
}

func (s *MySQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
