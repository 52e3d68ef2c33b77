package sheet

import "errors"

var (
	// ErrMarkerNotFound is returned when no cell contains a required marker.
	ErrMarkerNotFound = errors.New("marker not found")

	// ErrRegionEmpty is returned when the rows between two markers have no extent.
	ErrRegionEmpty = errors.New("region empty")

	// ErrColumnInsertConflict is returned when an inserted column name already exists.
	ErrColumnInsertConflict = errors.New("column insert conflict")

	// ErrColumnsMissing is returned when a table lacks a column it is required to have.
	ErrColumnsMissing = errors.New("columns missing")
)
