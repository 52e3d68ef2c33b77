package loader

import (
	"context"
	"database/sql"
	"time"

	apperrors "gstattrade/internal/errors"
)

// Audit source identification written with every entry.
const (
	SourceName = "GSTAT"
	SourceType = "EXCEL"
)

const createAuditTable = `
CREATE TABLE IF NOT EXISTS etl_load_log (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	database_name     TEXT    NOT NULL,
	schema_name       TEXT    NOT NULL,
	table_name        TEXT    NOT NULL,
	execution_seconds REAL    NOT NULL,
	column_count      INTEGER NOT NULL,
	row_count         INTEGER NOT NULL,
	load_frequency    INTEGER NOT NULL,
	load_time         TEXT    NOT NULL,
	source_name       TEXT    NOT NULL,
	source_type       TEXT    NOT NULL,
	rejected_rows     INTEGER NOT NULL DEFAULT 0
)`

// AuditEntry is one row of the load log.
type AuditEntry struct {
	Database      string
	Schema        string
	Table         string
	ExecutionTime time.Duration
	Columns       int
	Rows          int
	Frequency     int
	LoadTime      time.Time
	SourceName    string
	SourceType    string
	RejectedRows  int
}

// AuditLog records table loads in its own SQLite database.
type AuditLog struct {
	db *sql.DB
}

// OpenAuditLog opens or creates the audit database at path.
func OpenAuditLog(ctx context.Context, path string) (*AuditLog, error) {
	db, err := openSQLite(path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, createAuditTable); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("failed to create audit table", err).WithContext("path", path)
	}
	return &AuditLog{db: db}, nil
}

// Close closes the audit database.
func (a *AuditLog) Close() error {
	return a.db.Close()
}

// Record appends an entry. Frequency is set to the number of earlier
// entries for the same table plus one; source fields default to GSTAT/EXCEL.
func (a *AuditLog) Record(ctx context.Context, e AuditEntry) (AuditEntry, error) {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return e, apperrors.NewStorageError("failed to begin audit transaction", err)
	}
	defer tx.Rollback()

	var previous int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM etl_load_log WHERE table_name = ?", e.Table).Scan(&previous); err != nil {
		return e, apperrors.NewStorageError("failed to read load frequency", err).WithContext("table", e.Table)
	}
	e.Frequency = previous + 1
	if e.SourceName == "" {
		e.SourceName = SourceName
	}
	if e.SourceType == "" {
		e.SourceType = SourceType
	}
	if e.LoadTime.IsZero() {
		e.LoadTime = time.Now()
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO etl_load_log (
			database_name, schema_name, table_name, execution_seconds, column_count,
			row_count, load_frequency, load_time, source_name, source_type, rejected_rows
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Database, e.Schema, e.Table, e.ExecutionTime.Seconds(), e.Columns,
		e.Rows, e.Frequency, e.LoadTime.UTC().Format(time.RFC3339), e.SourceName, e.SourceType, e.RejectedRows,
	); err != nil {
		return e, apperrors.NewStorageError("failed to write audit entry", err).WithContext("table", e.Table)
	}

	if err := tx.Commit(); err != nil {
		return e, apperrors.NewStorageError("failed to commit audit entry", err)
	}
	return e, nil
}

// Entries returns the entries for table, oldest first.
func (a *AuditLog) Entries(ctx context.Context, table string) ([]AuditEntry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT database_name, schema_name, table_name, execution_seconds, column_count,
		       row_count, load_frequency, load_time, source_name, source_type, rejected_rows
		FROM etl_load_log WHERE table_name = ? ORDER BY id`, table)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to query audit log", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var (
			e        AuditEntry
			seconds  float64
			loadTime string
		)
		if err := rows.Scan(&e.Database, &e.Schema, &e.Table, &seconds, &e.Columns,
			&e.Rows, &e.Frequency, &loadTime, &e.SourceName, &e.SourceType, &e.RejectedRows); err != nil {
			return nil, apperrors.NewStorageError("failed to scan audit entry", err)
		}
		e.ExecutionTime = time.Duration(seconds * float64(time.Second))
		e.LoadTime, _ = time.Parse(time.RFC3339, loadTime)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
