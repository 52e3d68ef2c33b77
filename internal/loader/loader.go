package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"gstattrade/internal/dataprocessing"
	apperrors "gstattrade/internal/errors"
	"gstattrade/internal/infrastructure"
	"gstattrade/internal/sheet"
)

// ColCreatedDate is the load timestamp column appended to every row.
const ColCreatedDate = "STG_CreatedDate"

const stagingPrefix = "temp_"

// ErrNaturalKeyMissing is returned when a record set lacks a key column.
var ErrNaturalKeyMissing = errors.New("natural key column missing")

// TableResult summarizes the load of one destination table.
type TableResult struct {
	Label      string
	Table      string
	RecordSets int
	Rows       int
	Columns    int
	Inserted   int64
	Duration   time.Duration
}

// Loader moves transformed output into the store and audits each table.
type Loader struct {
	store    *Store
	audit    *AuditLog
	database string
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *infrastructure.ETLMetrics
	now      func() time.Time
}

// Option configures a Loader
type Option func(*Loader)

// WithTracer sets the tracer used for per-table spans.
func WithTracer(t trace.Tracer) Option {
	return func(l *Loader) { l.tracer = t }
}

// WithMetrics records rows and durations on m.
func WithMetrics(m *infrastructure.ETLMetrics) Option {
	return func(l *Loader) { l.metrics = m }
}

// WithClock sets the clock used for STG_CreatedDate and audit times.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

// New creates a loader. audit may be nil to disable the load log; database
// is the name written to audit entries.
func New(store *Store, audit *AuditLog, database string, logger *slog.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		store:    store,
		audit:    audit,
		database: database,
		logger:   infrastructure.WithComponent(logger, "loader"),
		tracer:   noop.NewTracerProvider().Tracer(""),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load writes every bound label of out to its destination table. A failing
// table is logged and the next one continues; all failures are returned
// joined.
func (l *Loader) Load(ctx context.Context, out dataprocessing.Output) ([]TableResult, error) {
	var (
		results []TableResult
		errs    []error
	)

	for label := range out {
		if _, ok := dataprocessing.BindingFor(label); !ok {
			l.logger.WarnContext(ctx, "No destination table for label", slog.String("sheet", label))
		}
	}

	for _, binding := range dataprocessing.Bindings {
		sets := out[binding.Label]
		if len(sets) == 0 {
			l.logger.DebugContext(ctx, "Nothing to load", slog.String("table", binding.Table))
			continue
		}

		result, err := l.LoadTable(ctx, binding, sets)
		if err != nil {
			l.logger.ErrorContext(ctx, "Table load failed",
				slog.String("table", binding.Table),
				slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
	}

	return results, errors.Join(errs...)
}

// LoadTable stages and merges every record set of one label, then writes
// an audit entry.
func (l *Loader) LoadTable(ctx context.Context, b dataprocessing.Binding, sets []dataprocessing.RecordSet) (result TableResult, err error) {
	ctx, span := l.tracer.Start(ctx, "load.table", trace.WithAttributes(
		attribute.String("table", b.Table),
		attribute.Int("record_sets", len(sets)),
	))
	defer span.End()

	start := l.now()
	result = TableResult{Label: b.Label, Table: b.Table, RecordSets: len(sets)}
	defer func() {
		result.Duration = l.now().Sub(start)
		l.metrics.TableLoaded(ctx, b.Table, result.Inserted, result.Duration, err)
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
	}()

	createdAt := l.now().UTC().Format(time.RFC3339)
	for _, rs := range sets {
		inserted, err := l.loadRecordSet(ctx, b, rs, createdAt)
		if err != nil {
			return result, apperrors.NewStorageError("failed to load record set", err).
				WithContext("table", b.Table).
				WithContext("file", rs.SourceFile)
		}
		result.Inserted += inserted
		result.Rows += rs.Len()
		result.Columns = max(result.Columns, rs.Width()+1)
	}

	l.logger.InfoContext(ctx, "Table loaded",
		slog.String("table", b.Table),
		slog.Int("record_sets", len(sets)),
		slog.Int("rows", result.Rows),
		slog.Int64("inserted", result.Inserted))

	if l.audit != nil {
		if _, err := l.audit.Record(ctx, AuditEntry{
			Database:      l.database,
			Schema:        l.store.Schema(),
			Table:         b.Table,
			ExecutionTime: l.now().Sub(start),
			Columns:       result.Columns,
			Rows:          result.Rows,
			LoadTime:      l.now(),
		}); err != nil {
			return result, err
		}
	}

	return result, nil
}

// loadRecordSet runs the staging cycle for one record set and returns the
// number of rows that were new to the destination.
func (l *Loader) loadRecordSet(ctx context.Context, b dataprocessing.Binding, rs dataprocessing.RecordSet, createdAt string) (int64, error) {
	if rs.Len() == 0 {
		return 0, nil
	}
	for _, key := range b.NaturalKey {
		if !slices.Contains(rs.Columns, key) {
			return 0, fmt.Errorf("%q: %w", key, ErrNaturalKeyMissing)
		}
	}

	columns, rows := stage(rs, createdAt)
	types := columnTypes(columns, rows, b.NaturalKey)

	tx, err := l.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := l.ensureTable(ctx, tx, b.Table, columns, types); err != nil {
		return 0, fmt.Errorf("destination table: %w", err)
	}

	staging := l.store.Qualified(stagingPrefix + b.Table)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+staging); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE %s (%s)", staging, columnDefs(columns, types))); err != nil {
		return 0, fmt.Errorf("staging table: %w", err)
	}

	quoted := strings.Join(quoteIdents(columns), ", ")
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", staging, quoted, placeholders))
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("staging insert: %w", err)
		}
	}
	stmt.Close()

	keyMatch := make([]string, len(b.NaturalKey))
	for i, key := range b.NaturalKey {
		keyMatch[i] = fmt.Sprintf("d.%s = t.%s", quoteIdent(key), quoteIdent(key))
	}
	res, err := tx.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (%s) SELECT %s FROM %s AS t WHERE NOT EXISTS (SELECT 1 FROM %s AS d WHERE %s)",
		l.store.Qualified(b.Table), quoted, prefixed("t.", columns), staging,
		l.store.Qualified(b.Table), strings.Join(keyMatch, " AND "),
	))
	if err != nil {
		return 0, fmt.Errorf("merge insert: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE "+staging); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}

	l.logger.DebugContext(ctx, "Record set merged",
		slog.String("table", b.Table),
		slog.String("file", rs.SourceFile),
		slog.Int("rows", len(rows)),
		slog.Int64("inserted", inserted))

	return inserted, nil
}

// ensureTable creates the destination or adds the columns it lacks.
func (l *Loader) ensureTable(ctx context.Context, tx execQuerier, table string, columns, types []string) error {
	existing, err := l.store.Columns(ctx, tx, table)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		_, err := tx.ExecContext(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", l.store.Qualified(table), columnDefs(columns, types)))
		return err
	}

	for i, col := range columns {
		if slices.Contains(existing, col) {
			continue
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", l.store.Qualified(table), quoteIdent(col), types[i])); err != nil {
			return err
		}
		l.logger.InfoContext(ctx, "Column added", slog.String("table", table), slog.String("column", col))
	}
	return nil
}

// stage fills empty cells with 0.0 and appends the load timestamp.
func stage(rs dataprocessing.RecordSet, createdAt string) ([]string, [][]any) {
	columns := append(slices.Clone(rs.Columns), ColCreatedDate)
	rows := make([][]any, rs.Len())
	for i, row := range rs.Rows {
		values := make([]any, 0, len(columns))
		for _, cell := range row {
			values = append(values, sqlValue(cell))
		}
		rows[i] = append(values, createdAt)
	}
	return columns, rows
}

func sqlValue(c sheet.Cell) any {
	switch c.Kind {
	case sheet.CellNumber:
		return c.Number
	case sheet.CellText:
		return c.Text
	default:
		return 0.0
	}
}

// columnTypes declares REAL for all-numeric columns and TEXT otherwise.
// Natural key columns are always TEXT so keys compare the same way in every
// release.
func columnTypes(columns []string, rows [][]any, naturalKey []string) []string {
	types := make([]string, len(columns))
	for c, name := range columns {
		types[c] = "REAL"
		if slices.Contains(naturalKey, name) || name == ColCreatedDate {
			types[c] = "TEXT"
			continue
		}
		for _, row := range rows {
			if _, ok := row[c].(float64); !ok {
				types[c] = "TEXT"
				break
			}
		}
	}
	return types
}

func columnDefs(columns, types []string) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " " + types[i]
	}
	return strings.Join(defs, ", ")
}

func prefixed(prefix string, columns []string) string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = prefix + quoteIdent(col)
	}
	return strings.Join(out, ", ")
}

type execQuerier interface {
	querier
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
