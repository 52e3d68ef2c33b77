// Package exporter writes transformed trade records to CSV.
//
// CSVWriter is the file-level writer: it creates the output directory,
// prefixes a UTF-8 BOM so spreadsheet tools read the Arabic labels correctly,
// and writes a header followed by the records.
//
// TableExporter lays a dataprocessing.Output out as one CSV per destination
// table. Record sets from different releases may differ in width; the file
// header is the union of their columns in first-seen order, preceded by the
// source file name.
//
// Example usage:
//
//	exp := exporter.NewTableExporter(exporter.NewCSVWriter("out", logger))
//	written, err := exp.Export(result.Output)
package exporter
