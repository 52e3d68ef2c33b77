package loader

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	apperrors "gstattrade/internal/errors"
)

// MainSchema is the schema name that needs no ATTACH.
const MainSchema = "main"

// Store is a single-connection SQLite database with an optional attached
// schema.
type Store struct {
	db     *sql.DB
	path   string
	schema string
}

// OpenStore opens the database at path. A schema other than "main" is
// attached from <schema>.db next to path.
func OpenStore(ctx context.Context, path, schema string) (*Store, error) {
	if schema == "" {
		schema = MainSchema
	}
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db, path: path, schema: schema}
	if !strings.EqualFold(schema, MainSchema) {
		file := filepath.Join(filepath.Dir(path), schema+".db")
		if _, err := db.ExecContext(ctx, "ATTACH DATABASE ? AS "+quoteIdent(schema), file); err != nil {
			db.Close()
			return nil, apperrors.NewStorageError("failed to attach schema", err).WithContext("schema", schema)
		}
	}
	return s, nil
}

func openSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, apperrors.NewStorageError("failed to create database directory", err).WithContext("path", path)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open database", err).WithContext("path", path)
	}
	// ATTACH is per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to open database", err).WithContext("path", path)
	}
	return db, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Schema returns the schema destination tables live in.
func (s *Store) Schema() string {
	return s.schema
}

// Qualified returns the quoted schema.table name.
func (s *Store) Qualified(table string) string {
	return quoteIdent(s.schema) + "." + quoteIdent(table)
}

// Columns returns the column names of table in declaration order, or nil
// when the table does not exist.
func (s *Store) Columns(ctx context.Context, q querier, table string) ([]string, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA %s.table_info(%s)", quoteIdent(s.schema), quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		columns = append(columns, name)
	}
	return columns, rows.Err()
}

// RowCount returns the number of rows in table.
func (s *Store) RowCount(ctx context.Context, table string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.Qualified(table)).Scan(&n)
	return n, err
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return out
}
