package sheet

import "fmt"

// RegionSpec describes how to cut a data region out of a sheet.
type RegionSpec struct {
	// StartMarker locates the first row of the region (inclusive).
	StartMarker string
	// EndMarker locates the row after the region, typically a total row.
	EndMarker string
	// Renames maps structural header names to semantic names.
	Renames map[string]string
}

// Region is the selected sub-grid together with its bounds in the source grid.
type Region struct {
	Start int // first row, inclusive
	End   int // last row, inclusive
	Table Table
}

// SelectRegion slices t from the StartMarker row through the row just before
// the EndMarker row, then normalizes the result with Normalize.
func SelectRegion(t Table, spec RegionSpec) (Region, error) {
	start, err := FindMarkerRow(t.Rows, spec.StartMarker)
	if err != nil {
		return Region{}, fmt.Errorf("start marker: %w", err)
	}
	endMarker, err := FindMarkerRow(t.Rows, spec.EndMarker)
	if err != nil {
		return Region{}, fmt.Errorf("end marker: %w", err)
	}

	end := endMarker - 1
	if end < start {
		return Region{}, fmt.Errorf("end row %d before start row %d: %w", end, start, ErrRegionEmpty)
	}

	sliced, err := t.SliceRows(start, end)
	if err != nil {
		return Region{}, err
	}

	return Region{
		Start: start,
		End:   end,
		Table: Normalize(sliced, spec.Renames),
	}, nil
}

// Normalize drops all-empty columns and applies the structural renames.
// It is idempotent: Normalize(Normalize(t, m), m) equals Normalize(t, m)
// as long as no rename target is itself a rename source.
func Normalize(t Table, renames map[string]string) Table {
	return t.DropEmptyColumns().Rename(renames)
}
