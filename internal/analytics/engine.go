// Package analytics computes the report over an extracted ledger: totals,
// category breakdown, running balance, period summaries, trends, anomaly
// flags and derived insights.
package analytics

import (
	"sort"
	"time"

	"fjacquet/statement-analyzer/internal/dateutils"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Engine computes reports. It holds only immutable options and is safe for
// concurrent use.
type Engine struct {
	opts          models.AnalyticsOptions
	creditMarkers []string
	inflowMarkers []string
}

// NewEngine creates an Engine after validating opts.
func NewEngine(opts models.AnalyticsOptions) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		opts:          opts,
		creditMarkers: creditMarkers(opts.CreditKeywords, defaultCreditMarkers),
		inflowMarkers: creditMarkers(opts.CreditKeywords, defaultInflowMarkers),
	}, nil
}

// Analyze builds a report over txs. When asOf is set, transactions dated
// after it are left out and counted. txs is not modified, and equal inputs
// produce equal reports.
func (e *Engine) Analyze(txs []models.Transaction, asOf *time.Time) *models.Report {
	report := &models.Report{}
	ledger := txs
	if asOf != nil {
		cutoff := models.NewDate(*asOf)
		report.AsOf = &cutoff
		ledger = make([]models.Transaction, 0, len(txs))
		for _, tx := range txs {
			if tx.Date.After(cutoff) {
				report.ExcludedAfterAsOf++
				continue
			}
			ledger = append(ledger, tx)
		}
	}

	report.Count = len(ledger)
	report.TotalEarned, report.TotalSpent = totals(ledger)
	report.Net = report.TotalEarned.Sub(report.TotalSpent)
	report.CategoryBreakdown = categoryBreakdown(ledger)
	report.BalanceSeries = balanceSeries(ledger)
	report.WeeklySummary = periodSummaries(ledger, dateutils.ISOWeekKey, dateutils.StartOfISOWeek)
	report.MonthlySummary = periodSummaries(ledger, dateutils.MonthKey, dateutils.StartOfMonth)
	report.Trends = trends(report.MonthlySummary)
	report.Anomalies = e.anomalies(ledger)
	report.Insights = e.insights(ledger, report)
	return report
}

func totals(txs []models.Transaction) (earned, spent decimal.Decimal) {
	for _, tx := range txs {
		if tx.Amount.IsPositive() {
			earned = earned.Add(tx.Amount)
		} else {
			spent = spent.Add(tx.Amount.Abs())
		}
	}
	return earned, spent
}

// categoryBreakdown sums by category. The totals add up to the net flow.
func categoryBreakdown(txs []models.Transaction) []models.CategoryTotal {
	index := map[string]int{}
	out := []models.CategoryTotal{}
	for _, tx := range txs {
		name := tx.CategoryOrDefault()
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, models.CategoryTotal{Category: name})
		}
		ct := &out[i]
		ct.Total = ct.Total.Add(tx.Amount)
		ct.Count++
		if tx.Amount.IsPositive() {
			ct.Income = ct.Income.Add(tx.Amount)
		} else {
			ct.Spending = ct.Spending.Add(tx.Amount.Abs())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Abs().Cmp(out[j].Total.Abs()); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// chronological returns the ledger indices ordered by date. Same-date
// transactions keep document order.
func chronological(txs []models.Transaction) []int {
	idx := make([]int, len(txs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := txs[idx[a]], txs[idx[b]]
		if !ta.Date.Equal(tb.Date.Time) {
			return ta.Date.Before(tb.Date)
		}
		return ta.Seq < tb.Seq
	})
	return idx
}

func balanceSeries(txs []models.Transaction) []models.BalancePoint {
	out := make([]models.BalancePoint, 0, len(txs))
	running := decimal.Zero
	for _, i := range chronological(txs) {
		tx := txs[i]
		running = running.Add(tx.Amount)
		out = append(out, models.BalancePoint{
			Date:           tx.Date,
			Seq:            tx.Seq,
			Amount:         tx.Amount,
			RunningBalance: running,
		})
	}
	return out
}

func periodSummaries(txs []models.Transaction, key func(time.Time) string, start func(time.Time) time.Time) []models.PeriodSummary {
	index := map[string]int{}
	out := []models.PeriodSummary{}
	for _, tx := range txs {
		k := key(tx.Date.Time)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, models.PeriodSummary{PeriodKey: k, Start: models.NewDate(start(tx.Date.Time))})
		}
		p := &out[i]
		p.Count++
		p.Net = p.Net.Add(tx.Amount)
		if tx.Amount.IsPositive() {
			p.Earned = p.Earned.Add(tx.Amount)
		} else {
			p.Spent = p.Spent.Add(tx.Amount.Abs())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// trends compares each month with the previous non-empty month.
func trends(months []models.PeriodSummary) []models.Trend {
	out := make([]models.Trend, 0, len(months))
	for i, m := range months {
		t := models.Trend{PeriodKey: m.PeriodKey, Net: m.Net, Status: models.TrendNoBaseline}
		if i > 0 {
			prev := months[i-1].Net
			delta := m.Net.Sub(prev)
			t.DeltaAbs = &delta
			if prev.IsZero() {
				t.Status = models.TrendZeroBaseline
			} else {
				pct := delta.Div(prev.Abs()).Mul(hundred).Round(2)
				t.DeltaPct = &pct
				t.Status = models.TrendOK
			}
		}
		out = append(out, t)
	}
	return out
}
