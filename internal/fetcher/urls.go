package fetcher

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// BuildURLs returns the release URLs to try, seeds first. The start year
// contributes only its fourth quarter; every later year through
// currentYear contributes Q1..Q4.
func BuildURLs(template string, seeds []string, startYear, currentYear int) []string {
	urls := append([]string{}, seeds...)
	for year := startYear; year <= currentYear; year++ {
		first := 1
		if year == startYear {
			first = 4
		}
		for quarter := first; quarter <= 4; quarter++ {
			urls = append(urls, expand(template, quarter, year))
		}
	}
	return urls
}

func expand(template string, quarter, year int) string {
	return strings.NewReplacer(
		"{quarter}", strconv.Itoa(quarter),
		"{year}", strconv.Itoa(year),
	).Replace(template)
}

// FileName returns the URL-decoded last path segment of rawURL.
func FileName(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", rawURL, err)
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		return "", fmt.Errorf("url %q has no file name", rawURL)
	}
	return name, nil
}
