package sheet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		raw  string
		want Cell
	}{
		{raw: "", want: Empty()},
		{raw: "   ", want: Empty()},
		{raw: "12.5", want: Number(12.5)},
		{raw: "1,250", want: Number(1250)},
		{raw: "0", want: Number(0)},
		{raw: "0.5", want: Number(0.5)},
		{raw: "01", want: Cell{Kind: CellText, Text: "01"}},
		{raw: " 007 ", want: Cell{Kind: CellText, Text: " 007 "}},
		{raw: "2023*", want: Cell{Kind: CellText, Text: "2023*"}},
		{raw: "الربع الأول", want: Cell{Kind: CellText, Text: "الربع الأول"}},
		{raw: "NaN", want: Cell{Kind: CellText, Text: "NaN"}},
		{raw: "Inf", want: Cell{Kind: CellText, Text: "Inf"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCell(tt.raw))
		})
	}
}

func TestCellMarshalJSON(t *testing.T) {
	data, err := json.Marshal([]Cell{Text("مصر"), Number(1.5), Empty()})
	require.NoError(t, err)
	assert.JSONEq(t, `["مصر", 1.5, null]`, string(data))
}

func TestHeaderNames(t *testing.T) {
	names := HeaderNames([]string{"الفهرس", "", "2023", "2023", " "}, 6)
	assert.Equal(t, []string{"الفهرس", "Unnamed: 1", "2023", "2023.1", "Unnamed: 4", "Unnamed: 5"}, names)
}

func TestNewSheet(t *testing.T) {
	s := NewSheet("a.xlsx", "1.1", [][]string{
		{"title"},
		{"x", "1"},
		{"y"},
	})

	assert.Equal(t, []string{"title", "Unnamed: 1"}, s.Header)
	require.Len(t, s.Rows, 2)
	assert.Len(t, s.Rows[1], 2, "short rows are padded")
	assert.Equal(t, Number(1), s.Rows[0][1])
	assert.Equal(t, "a.xlsx:1.1", s.Identity())
}

func TestTableColumnOps(t *testing.T) {
	tbl := NewTable([]string{"الدولة", "Unnamed: 1", "الإجمالي"}, grid(
		[]string{"الصين", "", "10"},
		[]string{"الهند", "x", ""},
		[]string{"مصر", "", "5"},
	))

	t.Run("drop placeholder columns", func(t *testing.T) {
		out := tbl.DropPlaceholderColumns()
		assert.Equal(t, []string{"الدولة", "الإجمالي"}, out.Columns)
		assert.Equal(t, 2, out.Width())
	})

	t.Run("drop rows with empty total", func(t *testing.T) {
		out, err := tbl.DropRowsWhereEmpty("الإجمالي")
		require.NoError(t, err)
		assert.Equal(t, 2, out.Len())
		assert.Equal(t, 3, tbl.Len(), "receiver is untouched")
	})

	t.Run("drop rows on unknown column", func(t *testing.T) {
		_, err := tbl.DropRowsWhereEmpty("Total")
		assert.ErrorIs(t, err, ErrColumnsMissing)
	})

	t.Run("insert constant", func(t *testing.T) {
		out, err := tbl.InsertConstant(2, "Year", Text("2023"))
		require.NoError(t, err)
		assert.Equal(t, []string{"الدولة", "Unnamed: 1", "Year", "الإجمالي"}, out.Columns)
		assert.Equal(t, Text("2023"), out.Rows[1][2])
		assert.Equal(t, 3, tbl.Width(), "receiver is untouched")
	})

	t.Run("insert conflict", func(t *testing.T) {
		_, err := tbl.InsertConstant(0, "الدولة", Text("x"))
		assert.ErrorIs(t, err, ErrColumnInsertConflict)
	})

	t.Run("append column length mismatch", func(t *testing.T) {
		_, err := tbl.AppendColumn("v", []Cell{Number(1)})
		assert.Error(t, err)
	})

	t.Run("negative column access", func(t *testing.T) {
		c, err := tbl.At(2, -1)
		require.NoError(t, err)
		assert.Equal(t, Number(5), c)

		_, err = tbl.At(0, -4)
		assert.ErrorIs(t, err, ErrColumnsMissing)
	})

	t.Run("drop rows beyond length", func(t *testing.T) {
		assert.Equal(t, 0, tbl.DropRows(5).Len())
	})
}
