package dataprocessing

import (
	"slices"

	"gstattrade/internal/sheet"
)

// Family groups sheets that share a layout and a reshaping strategy.
type Family string

const (
	FamilyDepartments Family = "departments"
	FamilyCountries   Family = "countries"
)

// Column names shared with the loader.
const (
	ColSectionNumber      = "Section_number"
	ColSectionDescription = "Section_description"
	ColYear               = "Year"
	ColQuarter            = "Quarter"
	ColCountry            = "الدولة"
	ColTotal              = "الإجمالي"
)

// Binding routes a sheet label to its destination table.
type Binding struct {
	Label      string
	Table      string
	Family     Family
	NaturalKey []string
}

// Bindings is the fixed label -> destination table mapping.
var Bindings = []Binding{
	{Label: "1.1", Table: "Exports_by_departments", Family: FamilyDepartments, NaturalKey: []string{ColSectionNumber, ColYear, ColQuarter}},
	{Label: "2.1", Table: "Imports_by_departments", Family: FamilyDepartments, NaturalKey: []string{ColSectionNumber, ColYear, ColQuarter}},
	{Label: "1.4", Table: "Non_oil_exports_by_country_and_major_divisions", Family: FamilyCountries, NaturalKey: []string{ColCountry, ColYear, ColQuarter}},
	{Label: "2.4", Table: "Imports_by_major_countries_and_divisions", Family: FamilyCountries, NaturalKey: []string{ColCountry, ColYear, ColQuarter}},
}

// BindingFor returns the binding for a sheet label.
func BindingFor(label string) (Binding, bool) {
	i := slices.IndexFunc(Bindings, func(b Binding) bool { return b.Label == label })
	if i < 0 {
		return Binding{}, false
	}
	return Bindings[i], true
}

// Labels returns the sheet labels of the given families, in binding order.
// With no families it returns every bound label.
func Labels(families ...Family) []string {
	var labels []string
	for _, b := range Bindings {
		if len(families) == 0 || slices.Contains(families, b.Family) {
			labels = append(labels, b.Label)
		}
	}
	return labels
}

// RecordSet is the normalized output of one sheet of one file.
type RecordSet struct {
	Label      string
	SourceFile string
	Columns    []string
	Rows       [][]sheet.Cell
}

func recordSetFrom(s sheet.Sheet, t sheet.Table) RecordSet {
	return RecordSet{
		Label:      s.Label,
		SourceFile: s.File,
		Columns:    t.Columns,
		Rows:       t.Rows,
	}
}

// Len returns the number of records.
func (r RecordSet) Len() int { return len(r.Rows) }

// Width returns the number of columns.
func (r RecordSet) Width() int { return len(r.Columns) }

// Get returns the value of the named column in row i.
func (r RecordSet) Get(i int, column string) (sheet.Cell, bool) {
	c := slices.Index(r.Columns, column)
	if c < 0 || i < 0 || i >= len(r.Rows) {
		return sheet.Cell{}, false
	}
	return r.Rows[i][c], true
}

// Output maps a sheet label to its record sets, one per contributing file,
// in discovery order.
type Output map[string][]RecordSet

// Add appends a record set under its label.
func (o Output) Add(rs RecordSet) {
	o[rs.Label] = append(o[rs.Label], rs)
}

// Merge appends every record set of other to o.
func (o Output) Merge(other Output) {
	for _, sets := range other {
		for _, rs := range sets {
			o.Add(rs)
		}
	}
}

// Rows returns the total number of records under a label.
func (o Output) Rows(label string) int {
	n := 0
	for _, rs := range o[label] {
		n += rs.Len()
	}
	return n
}
