package exporter

import (
	"fmt"
	"slices"

	"gstattrade/internal/dataprocessing"
)

// ColSourceFile is the leading column naming the workbook of each record.
const ColSourceFile = "Source_File"

// TableExporter writes one CSV per destination table
type TableExporter struct {
	writer *CSVWriter
}

// NewTableExporter creates an exporter on top of w
func NewTableExporter(w *CSVWriter) *TableExporter {
	return &TableExporter{writer: w}
}

// Export writes every label of out that has a binding, in binding order,
// and returns the paths written.
func (e *TableExporter) Export(out dataprocessing.Output) ([]string, error) {
	var written []string
	for _, b := range dataprocessing.Bindings {
		sets := out[b.Label]
		if len(sets) == 0 {
			continue
		}
		headers, records := Flatten(sets)
		path, err := e.writer.WriteCSV(b.Table+".csv", WriteOptions{
			Headers:   headers,
			Records:   records,
			BOMPrefix: true,
		})
		if err != nil {
			return written, fmt.Errorf("export %s: %w", b.Table, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Flatten aligns record sets on the union of their columns. Columns a
// record set lacks are written as empty fields.
func Flatten(sets []dataprocessing.RecordSet) ([]string, [][]string) {
	headers := []string{ColSourceFile}
	for _, rs := range sets {
		for _, col := range rs.Columns {
			if !slices.Contains(headers, col) {
				headers = append(headers, col)
			}
		}
	}

	var records [][]string
	for _, rs := range sets {
		positions := make([]int, len(rs.Columns))
		for i, col := range rs.Columns {
			positions[i] = slices.Index(headers, col)
		}
		for _, row := range rs.Rows {
			record := make([]string, len(headers))
			record[0] = rs.SourceFile
			for i, cell := range row {
				record[positions[i]] = cell.String()
			}
			records = append(records, record)
		}
	}
	return headers, records
}
