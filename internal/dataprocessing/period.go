package dataprocessing

import (
	"fmt"
	"regexp"
	"strings"

	"gstattrade/internal/sheet"
)

// quarterCodes maps the Arabic quarter names to canonical quarter codes.
var quarterCodes = map[string]string{
	"الربع الأول":  "Q1",
	"الربع الثاني": "Q2",
	"الربع الثالث": "Q3",
	"الربع الرابع": "Q4",
}

const digitClass = `[0-9٠-٩۰-۹]`

var (
	// digitPrefixPattern matches any character followed by a digit. It strips
	// footnote numerals such as the "1" in "الربع الأول 1"; it is narrow on
	// purpose and does not understand multi-digit tokens.
	digitPrefixPattern = regexp.MustCompile(`.` + digitClass)

	yearPattern = regexp.MustCompile(digitClass + `{4}`)

	quarterPhrasePattern = regexp.MustCompile(`الربع[\s\p{Z}][\p{L}\p{M}\p{N}_]+`)
)

// MapQuarter maps an Arabic quarter label ("الربع الأول") to its code ("Q1").
func MapQuarter(label string) (string, bool) {
	code, ok := quarterCodes[strings.TrimSpace(label)]
	return code, ok
}

// Extraction is the tagged result of reading a period value from a cell.
// Extracted is false when the cell did not match and Value is the original
// cell passed through unchanged.
type Extraction struct {
	Value     sheet.Cell
	Extracted bool
}

// Fallback reports whether the original value was passed through.
func (e Extraction) Fallback() bool { return !e.Extracted }

// ExtractYear returns the first run of four digits in a text cell, with
// Arabic-Indic digits folded to ASCII. Non-text cells and text without such
// a run are returned as a fallback.
func ExtractYear(c sheet.Cell) Extraction {
	if !c.IsText() {
		return Extraction{Value: c}
	}
	m := yearPattern.FindString(c.Text)
	if m == "" {
		return Extraction{Value: c}
	}
	return Extraction{Value: sheet.Text(foldDigits(m)), Extracted: true}
}

// StripQuarterDigits removes every "character followed by a digit" pair from
// a quarter label and trims the result.
func StripQuarterDigits(c sheet.Cell) (string, error) {
	if !c.IsText() {
		return "", fmt.Errorf("quarter cell %q is not text: %w", c.String(), ErrQuarterUnmapped)
	}
	return strings.TrimSpace(digitPrefixPattern.ReplaceAllString(c.Text, "")), nil
}

// Period is a reporting period read from a country sheet title.
type Period struct {
	Year    string
	Quarter string
}

// ExtractQuarterYear reads "الربع <word>" and a four digit year from the same
// text, e.g. a title such as "الصادرات غير البترولية، الربع الثالث 2023".
func ExtractQuarterYear(text string) (Period, error) {
	phrase := quarterPhrasePattern.FindString(text)
	if phrase == "" {
		return Period{}, fmt.Errorf("no quarter phrase in %q: %w", text, ErrQuarterUnmapped)
	}
	code, ok := MapQuarter(phrase)
	if !ok {
		return Period{}, fmt.Errorf("%q: %w", phrase, ErrQuarterUnmapped)
	}

	year := yearPattern.FindString(text)
	if year == "" {
		return Period{}, fmt.Errorf("no year in %q: %w", text, ErrYearNotFound)
	}
	return Period{Year: foldDigits(year), Quarter: code}, nil
}

func foldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		}
		return r
	}, s)
}
