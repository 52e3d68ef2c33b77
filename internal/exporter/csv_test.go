package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstattrade/internal/dataprocessing"
	"gstattrade/internal/infrastructure"
	"gstattrade/internal/sheet"
)

func newTestWriter(t *testing.T) *CSVWriter {
	t.Helper()
	return NewCSVWriter(filepath.Join(t.TempDir(), "out"), infrastructure.NewLogger(&bytes.Buffer{}, "error"))
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, utf8BOM), "file starts with a BOM")

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV(t *testing.T) {
	tests := []struct {
		name    string
		options WriteOptions
		want    string
	}{
		{
			name:    "headers and records",
			options: WriteOptions{Headers: []string{"a", "b"}, Records: [][]string{{"1", "x"}, {"2", ""}}},
			want:    "a,b\n1,x\n2,\n",
		},
		{
			name:    "records only",
			options: WriteOptions{Records: [][]string{{"1"}}},
			want:    "1\n",
		},
		{
			name:    "quoted fields",
			options: WriteOptions{Records: [][]string{{"منتجات, نباتية", "a\"b"}}},
			want:    "\"منتجات, نباتية\",\"a\"\"b\"\n",
		},
		{
			name:    "bom prefix",
			options: WriteOptions{Headers: []string{"الدولة"}, BOMPrefix: true},
			want:    "\xEF\xBB\xBFالدولة\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWriter(t)
			path, err := w.WriteCSV("t.csv", tt.options)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(w.Dir(), "t.csv"), path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}
}

func TestWriteCSVReplacesFile(t *testing.T) {
	w := newTestWriter(t)
	_, err := w.WriteCSV("t.csv", WriteOptions{Records: [][]string{{"old"}, {"old"}}})
	require.NoError(t, err)
	path, err := w.WriteCSV("t.csv", WriteOptions{Records: [][]string{{"new"}}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new\n", string(data))
}

func TestFlattenAlignsColumns(t *testing.T) {
	sets := []dataprocessing.RecordSet{
		{
			Label:      "1.4",
			SourceFile: "ITR Q32023A.xlsx",
			Columns:    []string{"الدولة", "Year", "Quarter", "الإجمالي"},
			Rows: [][]sheet.Cell{
				{sheet.Text("الصين"), sheet.Text("2023"), sheet.Text("الربع الثالث"), sheet.Number(300)},
			},
		},
		{
			Label:      "1.4",
			SourceFile: "ITR Q42023A.xlsx",
			Columns:    []string{"الدولة", "Year", "Quarter", "منتجات نباتية", "الإجمالي"},
			Rows: [][]sheet.Cell{
				{sheet.Text("الهند"), sheet.Text("2023"), sheet.Text("الربع الرابع"), sheet.Number(12.5), sheet.Empty()},
			},
		},
	}

	headers, records := Flatten(sets)
	assert.Equal(t, []string{ColSourceFile, "الدولة", "Year", "Quarter", "الإجمالي", "منتجات نباتية"}, headers)
	assert.Equal(t, [][]string{
		{"ITR Q32023A.xlsx", "الصين", "2023", "الربع الثالث", "300", ""},
		{"ITR Q42023A.xlsx", "الهند", "2023", "الربع الرابع", "", "12.5"},
	}, records)
}

func TestExportWritesOneFilePerTable(t *testing.T) {
	out := dataprocessing.Output{}
	out.Add(dataprocessing.RecordSet{
		Label:      "2.1",
		SourceFile: "a.xlsx",
		Columns:    []string{"Section_number", "Year"},
		Rows:       [][]sheet.Cell{{sheet.Number(1), sheet.Text("2023")}},
	})
	out.Add(dataprocessing.RecordSet{
		Label:      "1.1",
		SourceFile: "a.xlsx",
		Columns:    []string{"Section_number", "Year"},
		Rows:       [][]sheet.Cell{{sheet.Number(2), sheet.Text("2023")}},
	})
	out.Add(dataprocessing.RecordSet{Label: "9.9", SourceFile: "a.xlsx", Columns: []string{"x"}})

	w := newTestWriter(t)
	written, err := NewTableExporter(w).Export(out)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(w.Dir(), "Exports_by_departments.csv"),
		filepath.Join(w.Dir(), "Imports_by_departments.csv"),
	}, written)

	assert.Equal(t, [][]string{
		{ColSourceFile, "Section_number", "Year"},
		{"a.xlsx", "2", "2023"},
	}, readCSV(t, written[0]))
}

func TestExportNothing(t *testing.T) {
	w := newTestWriter(t)
	written, err := NewTableExporter(w).Export(dataprocessing.Output{})
	require.NoError(t, err)
	assert.Empty(t, written)
	assert.NoDirExists(t, w.Dir())
}
