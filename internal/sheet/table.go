package sheet

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// PlaceholderPrefix marks a column whose header cell was empty in the source.
const PlaceholderPrefix = "Unnamed: "

// Placeholder returns the positional placeholder name for column i.
func Placeholder(i int) string {
	return PlaceholderPrefix + strconv.Itoa(i)
}

// IsPlaceholder reports whether name is a positional placeholder.
func IsPlaceholder(name string) bool {
	return strings.HasPrefix(name, PlaceholderPrefix)
}

// Table is a rectangular grid with named columns. Operations never mutate the
// receiver; they return a new Table that may share cell storage.
type Table struct {
	Columns []string
	Rows    [][]Cell
}

// NewTable builds a table, padding or truncating every row to the column count.
func NewTable(columns []string, rows [][]Cell) Table {
	width := len(columns)
	out := make([][]Cell, len(rows))
	for i, row := range rows {
		r := make([]Cell, width)
		copy(r, row)
		out[i] = r
	}
	return Table{Columns: slices.Clone(columns), Rows: out}
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Width returns the number of columns.
func (t Table) Width() int { return len(t.Columns) }

// ColumnIndex returns the index of the first column with the given name, or -1.
func (t Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// At returns the cell at row r, column c. A negative c counts from the last
// column, so At(0, -1) is the first cell of the last column.
func (t Table) At(r, c int) (Cell, error) {
	if c < 0 {
		c += t.Width()
	}
	if r < 0 || r >= t.Len() || c < 0 || c >= t.Width() {
		return Cell{}, fmt.Errorf("cell (%d,%d) outside %dx%d table: %w", r, c, t.Len(), t.Width(), ErrColumnsMissing)
	}
	return t.Rows[r][c], nil
}

// Column returns a copy of the values in column c. Negative c counts from the end.
func (t Table) Column(c int) ([]Cell, error) {
	if c < 0 {
		c += t.Width()
	}
	if c < 0 || c >= t.Width() {
		return nil, fmt.Errorf("column %d outside table of width %d: %w", c, t.Width(), ErrColumnsMissing)
	}
	values := make([]Cell, t.Len())
	for i, row := range t.Rows {
		values[i] = row[c]
	}
	return values, nil
}

// SliceRows keeps rows start..end inclusive.
func (t Table) SliceRows(start, end int) (Table, error) {
	if start < 0 || end >= t.Len() || end < start {
		return Table{}, fmt.Errorf("rows %d..%d of %d: %w", start, end, t.Len(), ErrRegionEmpty)
	}
	return Table{Columns: t.Columns, Rows: t.Rows[start : end+1]}, nil
}

// DropRows discards the first n rows.
func (t Table) DropRows(n int) Table {
	if n >= t.Len() {
		return Table{Columns: t.Columns, Rows: [][]Cell{}}
	}
	return Table{Columns: t.Columns, Rows: t.Rows[n:]}
}

// DropEmptyColumns removes every column that holds no value in any row.
func (t Table) DropEmptyColumns() Table {
	return t.keepColumns(func(c int) bool {
		for _, row := range t.Rows {
			if !row[c].IsEmpty() {
				return true
			}
		}
		return false
	})
}

// DropPlaceholderColumns removes every column still named by position.
func (t Table) DropPlaceholderColumns() Table {
	return t.keepColumns(func(c int) bool {
		return !IsPlaceholder(t.Columns[c])
	})
}

// DropEmptyPlaceholderColumns removes placeholder columns that hold no value.
// Named columns are kept even when empty.
func (t Table) DropEmptyPlaceholderColumns() Table {
	return t.keepColumns(func(c int) bool {
		if !IsPlaceholder(t.Columns[c]) {
			return true
		}
		for _, row := range t.Rows {
			if !row[c].IsEmpty() {
				return true
			}
		}
		return false
	})
}

// Rename applies a static old->new mapping. Names absent from the mapping are kept.
func (t Table) Rename(mapping map[string]string) Table {
	cols := make([]string, len(t.Columns))
	for i, name := range t.Columns {
		if renamed, ok := mapping[name]; ok {
			cols[i] = renamed
		} else {
			cols[i] = name
		}
	}
	return Table{Columns: cols, Rows: t.Rows}
}

// AppendColumn adds a column at the end. values must have one entry per row.
func (t Table) AppendColumn(name string, values []Cell) (Table, error) {
	if len(values) != t.Len() {
		return Table{}, fmt.Errorf("column %q has %d values for %d rows", name, len(values), t.Len())
	}
	cols := append(slices.Clone(t.Columns), name)
	rows := make([][]Cell, t.Len())
	for i, row := range t.Rows {
		rows[i] = append(slices.Clone(row), values[i])
	}
	return Table{Columns: cols, Rows: rows}, nil
}

// AppendConstant adds a column holding the same value in every row.
func (t Table) AppendConstant(name string, value Cell) Table {
	out, _ := t.AppendColumn(name, repeat(value, t.Len()))
	return out
}

// InsertConstant inserts a constant column at position pos. It fails with
// ErrColumnInsertConflict when a column of that name already exists.
func (t Table) InsertConstant(pos int, name string, value Cell) (Table, error) {
	if t.ColumnIndex(name) >= 0 {
		return t, fmt.Errorf("column %q already exists: %w", name, ErrColumnInsertConflict)
	}
	if pos < 0 || pos > t.Width() {
		return t, fmt.Errorf("position %d outside table of width %d: %w", pos, t.Width(), ErrColumnInsertConflict)
	}
	cols := slices.Insert(slices.Clone(t.Columns), pos, name)
	rows := make([][]Cell, t.Len())
	for i, row := range t.Rows {
		rows[i] = slices.Insert(slices.Clone(row), pos, value)
	}
	return Table{Columns: cols, Rows: rows}, nil
}

// DropRowsWhereEmpty removes rows whose value in the named column is empty.
func (t Table) DropRowsWhereEmpty(name string) (Table, error) {
	c := t.ColumnIndex(name)
	if c < 0 {
		return Table{}, fmt.Errorf("column %q: %w", name, ErrColumnsMissing)
	}
	rows := make([][]Cell, 0, t.Len())
	for _, row := range t.Rows {
		if !row[c].IsEmpty() {
			rows = append(rows, row)
		}
	}
	return Table{Columns: t.Columns, Rows: rows}, nil
}

func (t Table) keepColumns(keep func(c int) bool) Table {
	var idx []int
	for c := range t.Columns {
		if keep(c) {
			idx = append(idx, c)
		}
	}
	cols := make([]string, len(idx))
	for i, c := range idx {
		cols[i] = t.Columns[c]
	}
	rows := make([][]Cell, t.Len())
	for r, row := range t.Rows {
		out := make([]Cell, len(idx))
		for i, c := range idx {
			out[i] = row[c]
		}
		rows[r] = out
	}
	return Table{Columns: cols, Rows: rows}
}

func repeat(value Cell, n int) []Cell {
	out := make([]Cell, n)
	for i := range out {
		out[i] = value
	}
	return out
}
