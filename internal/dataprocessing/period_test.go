package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstattrade/internal/sheet"
)

func TestMapQuarter(t *testing.T) {
	tests := []struct {
		label  string
		want   string
		mapped bool
	}{
		{label: "الربع الأول", want: "Q1", mapped: true},
		{label: "الربع الثاني", want: "Q2", mapped: true},
		{label: "الربع الثالث", want: "Q3", mapped: true},
		{label: "الربع الرابع", want: "Q4", mapped: true},
		{label: " الربع الرابع ", want: "Q4", mapped: true},
		{label: "غير ذلك"},
		{label: ""},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := MapQuarter(tt.label)
			assert.Equal(t, tt.mapped, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name      string
		cell      sheet.Cell
		want      sheet.Cell
		extracted bool
	}{
		{name: "footnote marker", cell: sheet.Text("2023*"), want: sheet.Text("2023"), extracted: true},
		{name: "embedded", cell: sheet.Text("الربع الأول 2024 (أولي)"), want: sheet.Text("2024"), extracted: true},
		{name: "arabic-indic digits", cell: sheet.Text("٢٠٢٣"), want: sheet.Text("2023"), extracted: true},
		{name: "first run wins", cell: sheet.Text("2022-2023"), want: sheet.Text("2022"), extracted: true},
		{name: "numeric passthrough", cell: sheet.Number(42), want: sheet.Number(42)},
		{name: "no match passthrough", cell: sheet.Text("FY"), want: sheet.Text("FY")},
		{name: "too short", cell: sheet.Text("123"), want: sheet.Text("123")},
		{name: "empty passthrough", cell: sheet.Empty(), want: sheet.Empty()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractYear(tt.cell)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.extracted, got.Extracted)
			assert.Equal(t, !tt.extracted, got.Fallback())
		})
	}
}

func TestStripQuarterDigits(t *testing.T) {
	tests := []struct {
		name string
		cell sheet.Cell
		want string
	}{
		{name: "trailing footnote", cell: sheet.Text("الربع الأول 1"), want: "الربع الأول"},
		{name: "no digits", cell: sheet.Text("الربع الثاني"), want: "الربع الثاني"},
		{name: "glued footnote eats a letter", cell: sheet.Text("الربع الثالث1"), want: "الربع الثال"},
		{name: "every pair removed", cell: sheet.Text("الربع الرابع 1 2"), want: "الربع الرابع"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripQuarterDigits(tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := StripQuarterDigits(sheet.Number(1))
	assert.ErrorIs(t, err, ErrQuarterUnmapped)
}

func TestExtractQuarterYear(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    Period
		wantErr error
	}{
		{
			name: "title",
			text: "الصادرات غير البترولية حسب الدول - الربع الثالث 2023",
			want: Period{Year: "2023", Quarter: "Q3"},
		},
		{
			name: "year first",
			text: "2024 الربع الأول",
			want: Period{Year: "2024", Quarter: "Q1"},
		},
		{
			name: "arabic-indic year",
			text: "الربع الرابع ٢٠٢٢",
			want: Period{Year: "2022", Quarter: "Q4"},
		},
		{
			name:    "unmapped quarter word",
			text:    "الربع الخامس 2023",
			wantErr: ErrQuarterUnmapped,
		},
		{
			name:    "no quarter phrase",
			text:    "التجارة الدولية 2023",
			wantErr: ErrQuarterUnmapped,
		},
		{
			name:    "no year",
			text:    "الربع الثالث",
			wantErr: ErrYearNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractQuarterYear(tt.text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
