package dataprocessing

import (
	"fmt"

	"gstattrade/internal/sheet"
)

const (
	markerSectionDescription = "وصف القسم"
	markerTotal              = "الإجمالي"

	// departmentLabelRows is the number of quarter/year/caption rows at the
	// top of every department region.
	departmentLabelRows = 3
)

var departmentRegion = sheet.RegionSpec{
	StartMarker: markerSectionDescription,
	EndMarker:   markerTotal,
	Renames: map[string]string{
		"الفهرس":             ColSectionNumber,
		sheet.Placeholder(0): ColSectionNumber,
		sheet.Placeholder(1): ColSectionDescription,
	},
}

// Reshaped is a reshaper's output plus the non-fatal problems met on the way.
type Reshaped struct {
	Records  RecordSet
	Warnings []error
}

// comparisonColumn is one of the three trailing value columns of a
// department region, addressed from the end of the table.
type comparisonColumn struct {
	offset  int
	prefix  string
	quarter string
	year    string
	values  []sheet.Cell
}

// ReshapeDepartments turns a "by departments" sheet (1.1, 2.1) into records.
//
// The region runs from the "وصف القسم" row to the row before "الإجمالي". Its
// last three columns hold the same quarter of the previous year, the previous
// quarter and the current quarter; row 0 carries the quarter name and row 1
// the year of each.
func ReshapeDepartments(s sheet.Sheet) (Reshaped, error) {
	region, err := sheet.SelectRegion(s.Table(), departmentRegion)
	if err != nil {
		return Reshaped{}, err
	}
	t := region.Table
	if t.Len() < 2 {
		return Reshaped{}, fmt.Errorf("region has %d rows, need quarter and year rows: %w", t.Len(), sheet.ErrRegionEmpty)
	}
	if t.Width() < 3 {
		return Reshaped{}, fmt.Errorf("region has %d columns, need 3 value columns: %w", t.Width(), sheet.ErrColumnsMissing)
	}

	var warnings []error
	columns := []*comparisonColumn{
		{offset: -3, prefix: "Current_Quarter_Of_Pevious_Year"},
		{offset: -2, prefix: "Previous"},
		{offset: -1, prefix: "Current"},
	}
	for _, col := range columns {
		if err := col.read(t, &warnings); err != nil {
			return Reshaped{}, err
		}
	}
	current := columns[2]

	code, ok := MapQuarter(current.quarter)
	if !ok {
		return Reshaped{}, fmt.Errorf("current quarter %q: %w", current.quarter, ErrQuarterUnmapped)
	}
	if current.year == "" {
		return Reshaped{}, fmt.Errorf("current year cell is empty: %w", ErrYearNotFound)
	}

	t = t.AppendConstant(ColYear, sheet.Text(current.year))
	t = t.AppendConstant(ColQuarter, sheet.Text(code))
	for _, col := range columns {
		if t, err = t.AppendColumn(col.prefix+"_Value", col.values); err != nil {
			return Reshaped{}, err
		}
		t = t.AppendConstant(col.prefix+"_Quarter", sheet.Text(col.quarter))
		t = t.AppendConstant(col.prefix+"_Year", sheet.Text(col.year))
	}

	t = t.DropPlaceholderColumns().DropRows(departmentLabelRows)

	return Reshaped{Records: recordSetFrom(s, t), Warnings: warnings}, nil
}

func (c *comparisonColumn) read(t sheet.Table, warnings *[]error) error {
	quarterCell, err := t.At(0, c.offset)
	if err != nil {
		return err
	}
	yearCell, err := t.At(1, c.offset)
	if err != nil {
		return err
	}
	if c.values, err = t.Column(c.offset); err != nil {
		return err
	}

	if quarterCell.IsText() {
		if c.quarter, err = StripQuarterDigits(quarterCell); err != nil {
			return err
		}
	} else {
		c.quarter = quarterCell.String()
	}

	year := ExtractYear(yearCell)
	if year.Fallback() {
		*warnings = append(*warnings, fmt.Errorf("%s year cell %q: %w", c.prefix, yearCell.String(), ErrPeriodExtractionFallback))
	}
	c.year = year.Value.String()
	return nil
}
