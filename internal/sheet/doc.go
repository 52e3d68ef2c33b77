// Package sheet models the raw two-dimensional cell grids read from the
// quarterly trade-statistics workbooks and the structural operations used to
// find data inside them.
//
// The source sheets are laid out for people, not programs: merged header
// rows, bilingual labels and a total row that ends the data block. Rows are
// therefore located by marker text rather than by fixed offsets:
//
//	row, err := sheet.FindMarkerRow(grid, "وصف القسم")
//
// and a data region is cut between two markers:
//
//	region, err := sheet.SelectRegion(s.Table(), sheet.RegionSpec{
//	    StartMarker: "وصف القسم",
//	    EndMarker:   "الإجمالي",
//	    Renames:     map[string]string{"Unnamed: 0": "Section_number"},
//	})
//
// Table operations are value-returning; a Table is never modified in place.
package sheet
