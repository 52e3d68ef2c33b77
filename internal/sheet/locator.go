package sheet

import (
	"fmt"
	"strings"
)

// FindMarkerRow returns the index of the first row in which any cell's
// rendered text contains marker as a substring. Rows are scanned top to
// bottom and cells left to right; the first hit wins. Matching is exact:
// no case folding and no diacritic normalization.
//
// A coincidental earlier occurrence of the marker will be returned as well;
// callers rely on markers appearing in a single structural position.
func FindMarkerRow(rows [][]Cell, marker string) (int, error) {
	r, _, err := FindMarkerCell(rows, marker)
	return r, err
}

// FindMarkerCell is FindMarkerRow but also reports the column of the first
// matching cell in that row.
func FindMarkerCell(rows [][]Cell, marker string) (int, int, error) {
	for r, row := range rows {
		for c, cell := range row {
			if cell.IsEmpty() {
				continue
			}
			if strings.Contains(cell.String(), marker) {
				return r, c, nil
			}
		}
	}
	return -1, -1, fmt.Errorf("%q: %w", marker, ErrMarkerNotFound)
}
