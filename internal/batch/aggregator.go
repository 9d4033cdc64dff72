// Package batch analyzes many statement files and merges their outcomes
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start models.Date `json:"start" yaml:"start"`
	End   models.Date `json:"end" yaml:"end"`
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s", dr.Start, dr.End)
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// ReportRange returns the span of days that carry activity in a report.
// Returns a zero DateRange when the report has no transactions.
func ReportRange(r *models.Report) DateRange {
	if r == nil {
		return DateRange{}
	}
	var dr DateRange
	for _, d := range r.Insights.DailyNet {
		dr = dr.Merge(DateRange{Start: d.Date, End: d.Date})
	}
	return dr
}

// FileResult is the outcome of one file. Exactly one of Envelope and Err
// is set.
type FileResult struct {
	Path     string
	Envelope *models.Envelope
	Err      error
	Duration time.Duration
}

// Failure records a file that could not be analyzed.
type Failure struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

// Summary merges the reports of a batch.
type Summary struct {
	Files        int                    `json:"files" yaml:"files"`
	Succeeded    int                    `json:"succeeded" yaml:"succeeded"`
	Failed       int                    `json:"failed" yaml:"failed"`
	Transactions int                    `json:"transactions" yaml:"transactions"`
	SkippedLines int                    `json:"skipped_lines" yaml:"skipped_lines"`
	TotalEarned  decimal.Decimal        `json:"total_earned" yaml:"total_earned"`
	TotalSpent   decimal.Decimal        `json:"total_spent" yaml:"total_spent"`
	Net          decimal.Decimal        `json:"net" yaml:"net"`
	DateRange    DateRange              `json:"date_range" yaml:"date_range"`
	Categories   []models.CategoryTotal `json:"categories" yaml:"categories"`
	Sources      []string               `json:"sources" yaml:"sources"`
	Failures     []Failure              `json:"failures" yaml:"failures"`
}

// Aggregator merges per-file results into a Summary
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	return &Aggregator{logger: logging.OrNop(logger)}
}

// Summarize merges totals, category sums and date ranges of the successful
// results. Failed files are listed but contribute nothing else.
func (a *Aggregator) Summarize(results []FileResult) Summary {
	s := Summary{
		Files:       len(results),
		TotalEarned: decimal.Zero,
		TotalSpent:  decimal.Zero,
		Net:         decimal.Zero,
		Categories:  []models.CategoryTotal{},
		Sources:     []string{},
		Failures:    []Failure{},
	}
	categories := make(map[string]*models.CategoryTotal)

	for _, res := range results {
		if res.Err != nil || res.Envelope == nil || res.Envelope.Report == nil {
			s.Failed++
			msg := "no report produced"
			if res.Err != nil {
				msg = res.Err.Error()
			}
			s.Failures = append(s.Failures, Failure{File: filepath.Base(res.Path), Error: msg})
			continue
		}
		s.Succeeded++
		s.Sources = append(s.Sources, filepath.Base(res.Path))

		r := res.Envelope.Report
		s.Transactions += r.Count
		s.SkippedLines += r.SkippedLines
		s.TotalEarned = s.TotalEarned.Add(r.TotalEarned)
		s.TotalSpent = s.TotalSpent.Add(r.TotalSpent)
		s.Net = s.Net.Add(r.Net)
		s.DateRange = s.DateRange.Merge(ReportRange(r))

		for _, c := range r.CategoryBreakdown {
			acc, ok := categories[c.Category]
			if !ok {
				acc = &models.CategoryTotal{
					Category: c.Category,
					Total:    decimal.Zero,
					Income:   decimal.Zero,
					Spending: decimal.Zero,
				}
				categories[c.Category] = acc
			}
			acc.Total = acc.Total.Add(c.Total)
			acc.Income = acc.Income.Add(c.Income)
			acc.Spending = acc.Spending.Add(c.Spending)
			acc.Count += c.Count
		}
	}

	for _, c := range categories {
		s.Categories = append(s.Categories, *c)
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		ci, cj := s.Categories[i], s.Categories[j]
		if !ci.Total.Equal(cj.Total) {
			return ci.Total.LessThan(cj.Total)
		}
		return ci.Category < cj.Category
	})

	a.logger.Info("Batch summarized",
		logging.F(logging.FieldCount, s.Files),
		logging.F("succeeded", s.Succeeded),
		logging.F("failed", s.Failed),
		logging.F("transactions", s.Transactions),
		logging.F("date_range", s.DateRange.String()))
	return s
}

// OutputFilename names the report written for an input file.
// Format: {base}_{start_date}_{end_date}.{ext}, or {base}.{ext} when the
// report has no dated activity.
func OutputFilename(inputPath string, dr DateRange, ext string) string {
	base := sanitizeName(strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)))
	if s := dr.String(); s != "" {
		return fmt.Sprintf("%s_%s.%s", base, s, ext)
	}
	return fmt.Sprintf("%s.%s", base, ext)
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			b.WriteRune('_')
		case r == ' ':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "statement"
	}
	return b.String()
}
