package sheet

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CellKind identifies how a cell value should be interpreted.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is a single heterogeneously-typed spreadsheet value.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// Empty returns the empty cell.
func Empty() Cell { return Cell{} }

// Text returns a text cell. Whitespace-only text is treated as empty.
func Text(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// Number returns a numeric cell.
func Number(f float64) Cell {
	return Cell{Kind: CellNumber, Number: f}
}

// ParseCell classifies a raw string value as read from a workbook.
// Numbers with thousands separators ("1,250.5") are numeric. Integers with a
// leading zero ("01") are codes and stay text.
func ParseCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{}
	}
	if isZeroPadded(trimmed) {
		return Cell{Kind: CellText, Text: raw}
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Number(f)
	}
	return Cell{Kind: CellText, Text: raw}
}

func isZeroPadded(s string) bool {
	return len(s) > 1 && s[0] == '0' && !strings.ContainsRune(s, '.')
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool { return c.Kind == CellEmpty }

// IsText reports whether the cell holds text.
func (c Cell) IsText() bool { return c.Kind == CellText }

// String renders the cell the way marker searches see it.
func (c Cell) String() string {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// Value returns the cell as a value suitable for database/sql parameters.
func (c Cell) Value() any {
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return c.Number
	default:
		return nil
	}
}

// MarshalJSON encodes the cell as its plain value: a string, a number or null.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Value())
}
