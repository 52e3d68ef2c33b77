package dataprocessing

import (
	"fmt"
	"strings"

	"gstattrade/internal/sheet"
)

const (
	markerQuarter = "الربع"
	markerCountry = "الدولة"

	yearColumnPos    = 2
	quarterColumnPos = 3
)

// ReshapeCountries turns a "by country" sheet (1.4, 2.4) into records.
//
// Country sheets describe a single period, named in a title cell such as
// "الربع الثالث 2023". The row containing "الدولة" is the real header: its
// labels name the columns, and every row below it is data.
func ReshapeCountries(s sheet.Sheet) (Reshaped, error) {
	title, err := periodTitle(s)
	if err != nil {
		return Reshaped{}, fmt.Errorf("period title: %w: %w", ErrQuarterUnmapped, err)
	}
	period, err := ExtractQuarterYear(title)
	if err != nil {
		return Reshaped{}, err
	}

	headerRow, err := sheet.FindMarkerRow(s.Rows, markerCountry)
	if err != nil {
		return Reshaped{}, fmt.Errorf("header row: %w", err)
	}

	labels := headerLabels(s.Rows[headerRow])
	t := sheet.NewTable(labels, s.Rows[headerRow+1:]).DropEmptyPlaceholderColumns()

	if t, err = t.DropRowsWhereEmpty(ColTotal); err != nil {
		return Reshaped{}, err
	}

	var warnings []error
	if withYear, err := t.InsertConstant(yearColumnPos, ColYear, sheet.Text(period.Year)); err != nil {
		warnings = append(warnings, err)
	} else {
		t = withYear
	}
	if withQuarter, err := t.InsertConstant(quarterColumnPos, ColQuarter, sheet.Text(period.Quarter)); err != nil {
		warnings = append(warnings, err)
	} else {
		t = withQuarter
	}

	return Reshaped{Records: recordSetFrom(s, t), Warnings: warnings}, nil
}

// periodTitle returns the first grid cell containing the quarter marker. A
// title placed on the very first spreadsheet row ends up in the header, so
// the header is checked when the grid has none.
func periodTitle(s sheet.Sheet) (string, error) {
	r, c, err := sheet.FindMarkerCell(s.Rows, markerQuarter)
	if err == nil {
		return s.Rows[r][c].String(), nil
	}
	for _, h := range s.Header {
		if strings.Contains(h, markerQuarter) {
			return h, nil
		}
	}
	return "", err
}

// headerLabels extracts the promoted header row as column names: each cell is
// rendered, translated through the section table, and made unique.
func headerLabels(row []sheet.Cell) []string {
	raw := make([]string, len(row))
	for i, cell := range row {
		if cell.IsEmpty() {
			continue
		}
		raw[i] = TranslateSectionLabel(cell.String())
	}
	return sheet.HeaderNames(raw, len(row))
}
