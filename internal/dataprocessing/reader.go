package dataprocessing

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "gstattrade/internal/errors"
	"gstattrade/internal/sheet"
)

// ReadWorkbook opens an .xlsx release and returns the requested sheets in
// label order. A label absent from the workbook is logged and skipped; only
// a workbook that cannot be opened is an error.
func ReadWorkbook(path string, labels []string, logger *slog.Logger) ([]sheet.Sheet, error) {
	if logger == nil {
		logger = slog.Default()
	}
	file := filepath.Base(path)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open workbook", err).WithContext("file", file)
	}
	defer f.Close()

	available := f.GetSheetList()

	sheets := make([]sheet.Sheet, 0, len(labels))
	for _, label := range labels {
		name, ok := resolveSheetName(available, label)
		if !ok {
			logger.Warn("Sheet not found in workbook",
				slog.String("file", file),
				slog.String("sheet", label))
			continue
		}

		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			logger.Error("Failed to read sheet",
				slog.String("file", file),
				slog.String("sheet", label),
				slog.String("error", err.Error()))
			continue
		}

		sheets = append(sheets, sheet.NewSheet(file, label, rows))
	}

	return sheets, nil
}

// resolveSheetName finds the workbook sheet for a label. Published releases
// sometimes carry padded names such as "1.1 ", so an exact match is tried
// before a trimmed one.
func resolveSheetName(available []string, label string) (string, bool) {
	for _, name := range available {
		if name == label {
			return name, true
		}
	}
	for _, name := range available {
		if strings.TrimSpace(name) == label {
			return name, true
		}
	}
	return "", false
}
