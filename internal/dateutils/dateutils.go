// Package dateutils parses statement dates against a fixed, ordered list of
// accepted formats and provides the calendar bucketing used by analytics.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateOrder selects which family of ambiguous numeric dates is tried first.
type DateOrder string

const (
	// DayFirst reads 03/02/2024 as 3 February 2024.
	DayFirst DateOrder = "dmy"
	// MonthFirst reads 03/02/2024 as 2 March 2024.
	MonthFirst DateOrder = "mdy"
)

// ParseDateOrder validates a configured date order.
func ParseDateOrder(s string) (DateOrder, error) {
	switch DateOrder(strings.ToLower(strings.TrimSpace(s))) {
	case DayFirst:
		return DayFirst, nil
	case MonthFirst:
		return MonthFirst, nil
	case "":
		return "", fmt.Errorf("date order is required (dmy or mdy)")
	default:
		return "", fmt.Errorf("unknown date order %q (want dmy or mdy)", s)
	}
}

// Common layouts used when rendering dates.
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"
	DateLayoutUS       = "01/02/2006"
)

// DateFormat is one accepted input format: a Go layout used for parsing and
// a pattern used to locate the date inside free text.
type DateFormat struct {
	Name    string
	Layout  string
	Pattern *regexp.Regexp
}

const monthAbbr = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`
const monthFull = `(?:january|february|march|april|may|june|july|august|september|october|november|december)`

var (
	isoFormats = []DateFormat{
		{"iso", "2006-1-2", regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`)},
		{"iso_slash", "2006/1/2", regexp.MustCompile(`\b\d{4}/\d{1,2}/\d{1,2}\b`)},
	}
	dayFirstLong = []DateFormat{
		{"dmy_dot", "2.1.2006", regexp.MustCompile(`\b\d{1,2}\.\d{1,2}\.\d{4}\b`)},
		{"dmy_slash", "2/1/2006", regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)},
		{"dmy_dash", "2-1-2006", regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`)},
	}
	monthFirstLong = []DateFormat{
		{"mdy_slash", "1/2/2006", regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)},
		{"mdy_dash", "1-2-2006", regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`)},
		{"mdy_dot", "1.2.2006", regexp.MustCompile(`\b\d{1,2}\.\d{1,2}\.\d{4}\b`)},
	}
	dayFirstShort = []DateFormat{
		{"dmy_dot_short", "2.1.06", regexp.MustCompile(`\b\d{1,2}\.\d{1,2}\.\d{2}\b`)},
		{"dmy_slash_short", "2/1/06", regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2}\b`)},
	}
	monthFirstShort = []DateFormat{
		{"mdy_slash_short", "1/2/06", regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2}\b`)},
	}
	namedMonthFormats = []DateFormat{
		{"d_month_y", "2 January 2006", regexp.MustCompile(`(?i)\b\d{1,2}\s+` + monthFull + `\s+\d{4}\b`)},
		{"d_mon_y", "2 Jan 2006", regexp.MustCompile(`(?i)\b\d{1,2}\s+` + monthAbbr + `\s+\d{4}\b`)},
		{"d-mon-y", "2-Jan-2006", regexp.MustCompile(`(?i)\b\d{1,2}-` + monthAbbr + `-\d{4}\b`)},
		{"mon_d_y", "Jan 2, 2006", regexp.MustCompile(`(?i)\b` + monthAbbr + `\s+\d{1,2},\s+\d{4}\b`)},
	}
)

// Formats returns the accepted formats in priority order for the given date
// order: ISO first, then four-digit years in the configured order, then the
// other order as an unambiguous fallback, then two-digit years, then dates
// with month names.
func Formats(order DateOrder) []DateFormat {
	first, second := dayFirstLong, monthFirstLong
	firstShort, secondShort := dayFirstShort, monthFirstShort
	if order == MonthFirst {
		first, second = monthFirstLong, dayFirstLong
		firstShort, secondShort = monthFirstShort, dayFirstShort
	}

	out := make([]DateFormat, 0, 16)
	out = append(out, isoFormats...)
	out = append(out, first...)
	out = append(out, second...)
	out = append(out, firstShort...)
	out = append(out, secondShort...)
	out = append(out, namedMonthFormats...)
	return out
}

// Parser parses dates against an ordered format list and a plausible year
// window. It is immutable and safe for concurrent use.
type Parser struct {
	formats []DateFormat
	minYear int
	maxYear int
}

// NewParser creates a Parser. A zero year bound disables that side of the
// window.
func NewParser(order DateOrder, minYear, maxYear int) *Parser {
	return &Parser{
		formats: Formats(order),
		minYear: minYear,
		maxYear: maxYear,
	}
}

// Match is a date located inside a larger string.
type Match struct {
	Date   time.Time
	Format string
	Value  string
	Start  int
	End    int
}

// Parse parses a string holding only a date. Returns the date and the name
// of the format that matched.
func (p *Parser) Parse(value string) (time.Time, string, error) {
	cleaned := CleanDateString(value)
	if cleaned == "" {
		return time.Time{}, "", fmt.Errorf("empty date")
	}
	for _, f := range p.formats {
		if t, err := time.Parse(f.Layout, cleaned); err == nil && p.plausible(t) {
			return t, f.Name, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", value)
}

// Find locates the first date in text. Formats are tried in priority order;
// for each, every occurrence of its pattern is tried left to right and the
// first one that parses wins.
func (p *Parser) Find(text string) (Match, bool) {
	for _, f := range p.formats {
		for _, loc := range f.Pattern.FindAllStringIndex(text, -1) {
			candidate := text[loc[0]:loc[1]]
			t, err := time.Parse(f.Layout, normalizeSpaces(candidate))
			if err != nil || !p.plausible(t) {
				continue
			}
			return Match{Date: t, Format: f.Name, Value: candidate, Start: loc[0], End: loc[1]}, true
		}
	}
	return Match{}, false
}

// ParseOrFind parses value as a whole and otherwise looks for a date inside
// it, which covers table cells such as "05.01.2024 14:32".
func (p *Parser) ParseOrFind(value string) (time.Time, error) {
	if t, _, err := p.Parse(value); err == nil {
		return t, nil
	}
	if m, ok := p.Find(value); ok {
		return m.Date, nil
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", value)
}

func (p *Parser) plausible(t time.Time) bool {
	if p.minYear > 0 && t.Year() < p.minYear {
		return false
	}
	if p.maxYear > 0 && t.Year() > p.maxYear {
		return false
	}
	return true
}

var spaceRun = regexp.MustCompile(`\s+`)

// CleanDateString trims the value and collapses inner whitespace.
func CleanDateString(dateStr string) string {
	return normalizeSpaces(strings.TrimSpace(dateStr))
}

func normalizeSpaces(s string) string {
	return spaceRun.ReplaceAllString(s, " ")
}

// ToISODate formats a date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// TruncateToDay drops the time component, keeping the calendar date in UTC.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfMonth returns the first day of the month for a given date.
func StartOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// StartOfISOWeek returns the Monday that starts the ISO week of date.
func StartOfISOWeek(date time.Time) time.Time {
	d := TruncateToDay(date)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// ISOWeekKey returns the ISO week bucket key, e.g. "2024-W01".
func ISOWeekKey(date time.Time) string {
	year, week := date.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// MonthKey returns the calendar month bucket key, e.g. "2024-01".
func MonthKey(date time.Time) string {
	return date.Format("2006-01")
}
