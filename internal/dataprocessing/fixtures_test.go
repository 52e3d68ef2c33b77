package dataprocessing

import (
	"testing"

	"gstattrade/internal/sheet"
	"gstattrade/internal/shared/testutil"
)

// departmentRaw is a "by departments" sheet as excelize returns it. The first
// slice is the spreadsheet header row; grid rows are numbered from the next:
//
//	0 title, 1 blank, 2 "وصف القسم" + quarter names, 3 years, 4 caption,
//	5..7 sections, 8 "الإجمالي", 9 source note
func departmentRaw() [][]string {
	return [][]string{
		{},
		{"", "جدول 1.1 الصادرات السلعية حسب الأقسام"},
		{},
		{"الفهرس", "وصف القسم", "الربع الثالث1", "الربع الثاني", "الربع الثالث 2"},
		{"", "", "2022*", "2023", "٢٠٢٣"},
		{"", "", "مليون ريال", "مليون ريال", "مليون ريال"},
		{"1", "الحيوانات الحية والمنتجات الحيوانية", "1,200.5", "1100", "1300"},
		{"2", "منتجات نباتية", "900", "950", "1000"},
		{"3", "شحوم ودهون", "50", "", "70"},
		{"", "الإجمالي", "2150.5", "2050", "2370"},
		{"", "المصدر: الهيئة العامة للإحصاء"},
	}
}

// countryRaw is a "by country" sheet for the third quarter of 2023.
func countryRaw() [][]string {
	return [][]string{
		{},
		{"", "الصادرات غير البترولية حسب الدول والأقسام الرئيسية - الربع الثالث 2023"},
		{},
		{"", "الأقسام\nالدولة", "الحيوانات الحية والمنتجات الحيوانية", "منتجات  نباتية", "الإجمالي"},
		{"", "الصين", "100", "200", "300"},
		{"", "الهند", "50", "", "50"},
		{"", "ملاحظة: القيم بالمليون ريال"},
	}
}

func departmentSheet(file, label string) sheet.Sheet {
	return sheet.NewSheet(file, label, departmentRaw())
}

func countrySheet(file, label string) sheet.Sheet {
	return sheet.NewSheet(file, label, countryRaw())
}

// writeWorkbook saves an .xlsx with one sheet per entry of sheets.
func writeWorkbook(t *testing.T, dir, name string, sheets map[string][][]string) string {
	t.Helper()
	return testutil.WriteWorkbook(t, dir, name, sheets)
}
