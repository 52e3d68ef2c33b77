package dataprocessing

import (
	"errors"
	"fmt"
)

var (
	// ErrQuarterUnmapped is returned when an Arabic quarter phrase is missing
	// or has no entry in the quarter table.
	ErrQuarterUnmapped = errors.New("quarter unmapped")

	// ErrYearNotFound is returned when no reporting year can be read.
	ErrYearNotFound = errors.New("year not found")

	// ErrPeriodExtractionFallback marks a period cell that did not match the
	// expected pattern and was passed through unchanged. It is reported as a
	// warning, never as a sheet failure.
	ErrPeriodExtractionFallback = errors.New("period extraction fallback")

	// ErrNoInputFiles is returned when a batch has no workbook that yields a
	// bound sheet.
	ErrNoInputFiles = errors.New("no input files")

	// ErrUnboundSheet is returned for a sheet label with no destination table.
	ErrUnboundSheet = errors.New("no table binding for sheet")
)

// SheetError carries the sheet identity of a per-sheet failure.
type SheetError struct {
	File  string
	Sheet string
	Stage string
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q in %s (%s): %v", e.Sheet, e.File, e.Stage, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

func newSheetError(file, sheetLabel, stage string, err error) *SheetError {
	return &SheetError{File: file, Sheet: sheetLabel, Stage: stage, Err: err}
}
