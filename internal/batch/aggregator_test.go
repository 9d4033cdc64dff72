package batch

import (
	"errors"
	"testing"
	"time"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(m time.Month, d int) models.Date {
	return models.DateOf(2024, m, d)
}

func TestDateRange_Merge(t *testing.T) {
	jan := DateRange{Start: day(time.January, 1), End: day(time.January, 31)}
	feb := DateRange{Start: day(time.February, 1), End: day(time.February, 29)}

	tests := []struct {
		name  string
		a, b  DateRange
		start models.Date
		end   models.Date
	}{
		{"disjoint", jan, feb, day(time.January, 1), day(time.February, 29)},
		{"reversed", feb, jan, day(time.January, 1), day(time.February, 29)},
		{"empty left", DateRange{}, feb, day(time.February, 1), day(time.February, 29)},
		{"empty right", jan, DateRange{}, day(time.January, 1), day(time.January, 31)},
		{"contained", jan, DateRange{Start: day(time.January, 5), End: day(time.January, 6)}, day(time.January, 1), day(time.January, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Merge(tt.b)
			assert.Equal(t, tt.start, got.Start)
			assert.Equal(t, tt.end, got.End)
		})
	}

	assert.Equal(t, "", DateRange{}.String())
	assert.Equal(t, "2024-01-01_2024-01-31", jan.String())
}

func reportFor(count int, earned, spent string, days ...models.Date) *models.Envelope {
	e, s := decimal.RequireFromString(earned), decimal.RequireFromString(spent)
	r := &models.Report{
		Count:        count,
		TotalEarned:  e,
		TotalSpent:   s,
		Net:          e.Sub(s),
		SkippedLines: 1,
		CategoryBreakdown: []models.CategoryTotal{
			{Category: "groceries", Total: s.Neg(), Income: decimal.Zero, Spending: s, Count: count},
		},
	}
	for _, d := range days {
		r.Insights.DailyNet = append(r.Insights.DailyNet, models.DailyNet{Date: d})
	}
	return &models.Envelope{Report: r}
}

func TestAggregator_Summarize(t *testing.T) {
	logger := logging.NewMockLogger()
	agg := NewAggregator(logger)

	results := []FileResult{
		{Path: "/in/feb.pdf", Envelope: reportFor(2, "100", "40", day(time.February, 3), day(time.February, 20))},
		{Path: "/in/broken.pdf", Err: errors.New("not a PDF")},
		{Path: "/in/jan.csv", Envelope: reportFor(3, "0", "60", day(time.January, 10))},
	}

	s := agg.Summarize(results)
	assert.Equal(t, 3, s.Files)
	assert.Equal(t, 2, s.Succeeded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 5, s.Transactions)
	assert.Equal(t, 2, s.SkippedLines)
	assert.Equal(t, "100", s.TotalEarned.String())
	assert.Equal(t, "100", s.TotalSpent.String())
	assert.Equal(t, "0", s.Net.String())
	assert.Equal(t, "2024-01-10_2024-02-20", s.DateRange.String())
	assert.Equal(t, []string{"feb.pdf", "jan.csv"}, s.Sources)
	assert.Equal(t, []Failure{{File: "broken.pdf", Error: "not a PDF"}}, s.Failures)

	require.Len(t, s.Categories, 1)
	assert.Equal(t, "groceries", s.Categories[0].Category)
	assert.Equal(t, 5, s.Categories[0].Count)
	assert.Equal(t, "-100", s.Categories[0].Total.String())

	assert.True(t, logger.HasEntry("INFO", "Batch summarized"))
}

func TestAggregator_SummarizeEmpty(t *testing.T) {
	s := NewAggregator(nil).Summarize(nil)
	assert.Zero(t, s.Files)
	assert.NotNil(t, s.Categories)
	assert.NotNil(t, s.Failures)
	assert.True(t, s.Net.IsZero())
	assert.Equal(t, "", s.DateRange.String())
}

func TestOutputFilename(t *testing.T) {
	dr := DateRange{Start: day(time.January, 1), End: day(time.January, 31)}
	assert.Equal(t, "march_statement_2024-01-01_2024-01-31.json", OutputFilename("/data/march statement.pdf", dr, "json"))
	assert.Equal(t, "jan.yaml", OutputFilename("jan.csv", DateRange{}, "yaml"))
}
