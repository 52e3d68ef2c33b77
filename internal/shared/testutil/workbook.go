package testutil

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// NewWorkbook builds an in-memory workbook with one sheet per entry of
// sheets. Each value holds spreadsheet rows; empty strings leave the cell
// blank. Sheets are created in name order.
func NewWorkbook(t *testing.T, sheets map[string][][]string) *excelize.File {
	t.Helper()

	names := make([]string, 0, len(sheets))
	for name := range sheets {
		names = append(names, name)
	}
	slices.Sort(names)

	f := excelize.NewFile()
	for i, name := range names {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			for c, v := range row {
				if v == "" {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cell, v))
			}
		}
	}
	return f
}

// WriteWorkbook saves a workbook built by NewWorkbook as dir/name and
// returns its path.
func WriteWorkbook(t *testing.T, dir, name string, sheets map[string][][]string) string {
	t.Helper()

	f := NewWorkbook(t, sheets)
	defer f.Close()

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

// WorkbookBytes returns the .xlsx encoding of a workbook built by NewWorkbook.
func WorkbookBytes(t *testing.T, sheets map[string][][]string) []byte {
	t.Helper()

	f := NewWorkbook(t, sheets)
	defer f.Close()

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
