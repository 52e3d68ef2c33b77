// Package dataprocessing turns GSTAT international trade releases into
// normalized records ready for loading.
//
// # Sheet families
//
// Four sheets of every quarterly workbook are consumed, routed by label
// through Bindings:
//
//	1.1  Exports_by_departments                          (departments)
//	2.1  Imports_by_departments                          (departments)
//	1.4  Non_oil_exports_by_country_and_major_divisions  (countries)
//	2.4  Imports_by_major_countries_and_divisions        (countries)
//
// Department sheets carry three value columns per section (same quarter of
// the previous year, previous quarter, current quarter). ReshapeDepartments
// locates the region between "وصف القسم" and the "الإجمالي" row, reads the
// period of each value column from the two rows above the data and appends
// them as Current_*, Previous_* and Current_Quarter_Of_Pevious_Year_*
// columns.
//
// Country sheets describe a single period named in a title cell.
// ReshapeCountries promotes the "الدولة" row to the header, translates the
// section labels to stable names and adds Year and Quarter columns.
//
// # Batches
//
// Transformer reads workbooks with ReadWorkbook and dispatches each sheet
// to its reshaper, sequentially. A failing sheet is logged with its file
// and label and skipped; the batch carries on. Output accumulates one
// RecordSet per contributing file under each label.
//
//	t := dataprocessing.NewTransformer(logger, tracer, metrics)
//	result, err := t.TransformFiles(ctx, paths)
package dataprocessing
