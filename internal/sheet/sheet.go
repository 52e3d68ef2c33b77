package sheet

import (
	"strconv"
	"strings"
)

// Sheet is one named page of a source workbook. The first spreadsheet row is
// the header; Rows holds everything below it, so grid row 0 is the second
// spreadsheet row. Sheets are rectangular and never modified after creation.
type Sheet struct {
	File   string
	Label  string
	Header []string
	Rows   [][]Cell
}

// NewSheet builds a Sheet from raw string rows as returned by excelize.
func NewSheet(file, label string, raw [][]string) Sheet {
	width := 0
	for _, r := range raw {
		width = max(width, len(r))
	}

	var header []string
	if len(raw) > 0 {
		header = raw[0]
	}

	rows := make([][]Cell, 0, max(len(raw)-1, 0))
	if len(raw) > 1 {
		for _, r := range raw[1:] {
			cells := make([]Cell, width)
			for c, v := range r {
				cells[c] = ParseCell(v)
			}
			rows = append(rows, cells)
		}
	}

	return Sheet{
		File:   file,
		Label:  label,
		Header: HeaderNames(header, width),
		Rows:   rows,
	}
}

// HeaderNames turns raw header cells into unique column names. Empty cells
// get a positional placeholder and repeated names are suffixed ".1", ".2", ...
func HeaderNames(raw []string, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(raw) {
			name = strings.TrimSpace(raw[i])
		}
		if name == "" {
			name = Placeholder(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

// Table returns the sheet as a Table headed by the sheet's header row.
func (s Sheet) Table() Table {
	return NewTable(s.Header, s.Rows)
}

// Identity is the "file:label" string used in logs.
func (s Sheet) Identity() string {
	return s.File + ":" + s.Label
}
