package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"fjacquet/statement-analyzer/internal/currencyutils"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// RenderText renders a human-readable summary of an envelope. Amounts use
// the envelope currency when one is set.
func RenderText(env *models.Envelope) string {
	var b strings.Builder
	r := env.Report
	money := func(d decimal.Decimal) string { return currencyutils.FormatAmount(d, env.Meta.Currency) }

	source := env.Meta.Source
	if source == "" {
		source = "(stdin)"
	}
	fmt.Fprintf(&b, "Statement report: %s\n", source)
	fmt.Fprintf(&b, "Run %s, rules %s, date order %s\n", env.Meta.ID, env.Meta.RulesVersion, env.Meta.DateOrder)
	if r.AsOf != nil {
		fmt.Fprintf(&b, "As of %s (%d later transactions excluded)\n", r.AsOf, r.ExcludedAfterAsOf)
	}

	section(&b, "Totals")
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Transactions\t%d\t\n", r.Count)
	fmt.Fprintf(tw, "Earned\t%s\t\n", money(r.TotalEarned))
	fmt.Fprintf(tw, "Spent\t%s\t\n", money(r.TotalSpent))
	fmt.Fprintf(tw, "Net\t%s\t\n", money(r.Net))
	_ = tw.Flush()

	if len(r.CategoryBreakdown) > 0 {
		section(&b, "Categories")
		tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CATEGORY\tCOUNT\tINCOME\tSPENDING\tTOTAL")
		for _, c := range r.CategoryBreakdown {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n", c.Category, c.Count, money(c.Income), money(c.Spending), money(c.Total))
		}
		_ = tw.Flush()
	}

	if len(r.MonthlySummary) > 0 {
		section(&b, "Months")
		trends := map[string]models.Trend{}
		for _, t := range r.Trends {
			trends[t.PeriodKey] = t
		}
		tw = tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "MONTH\tCOUNT\tEARNED\tSPENT\tNET\tCHANGE")
		for _, m := range r.MonthlySummary {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", m.PeriodKey, m.Count, money(m.Earned), money(m.Spent), money(m.Net), trendLabel(trends[m.PeriodKey]))
		}
		_ = tw.Flush()
	}

	section(&b, "Anomalies")
	a := r.Anomalies
	if a.Status == models.AnomalyInsufficientSample {
		fmt.Fprintf(&b, "Not computed: %d transactions, %d needed\n", a.SampleSize, a.MinSample)
	} else {
		fmt.Fprintf(&b, "Method %s, threshold %s, %d flagged\n", a.Method, money(a.Threshold), len(a.Flags))
		for _, f := range a.Flags {
			fmt.Fprintf(&b, "  #%d %s %s %s (x%s)\n", f.Seq, f.Date, f.Description, money(f.Amount), f.Magnitude.String())
		}
	}

	renderInsights(&b, r.Insights, money)
	if env.Extraction != nil {
		renderExtraction(&b, env.Extraction)
	}
	return b.String()
}

func renderInsights(b *strings.Builder, in models.Insights, money func(decimal.Decimal) string) {
	section(b, "Insights")
	if in.OpeningBalance != nil && in.ClosingBalance != nil {
		fmt.Fprintf(b, "Balance %s -> %s", money(*in.OpeningBalance), money(*in.ClosingBalance))
		if n := len(in.BalanceMismatches); n > 0 {
			fmt.Fprintf(b, " (%d mismatches)", n)
		}
		b.WriteString("\n")
	}
	if len(in.TopSpend) > 0 {
		b.WriteString("Top spend:\n")
		for _, t := range in.TopSpend {
			fmt.Fprintf(b, "  %s %s %s [%s]\n", t.Date, t.Description, money(t.Amount), t.Category)
		}
	}
	if len(in.MoneyLeaks) > 0 {
		b.WriteString("Recurring small debits:\n")
		for _, l := range in.MoneyLeaks {
			fmt.Fprintf(b, "  %s: %d x %s = %s\n", l.Description, l.Count, money(l.Average), money(l.Total))
		}
	}
	cl := in.CreditLoad
	fmt.Fprintf(b, "Credit load: %s%% of spend (%s), %s\n", cl.PercentOfSpend.StringFixed(2), money(cl.Total), cl.Warning)
	if cl.InflowCount > 0 {
		fmt.Fprintf(b, "Borrowed income: %s (%s%%), real income %s\n", money(cl.Inflows), cl.DependencyPercent.StringFixed(2), money(cl.RealIncome))
	}
	if sb := in.SafetyBuffer; sb.Balance != nil && sb.Status != models.BufferNone {
		fmt.Fprintf(b, "Safety buffer: %s months of spend, %s\n", sb.Months.StringFixed(1), sb.Status)
	}
	if h := in.HealthScore; h != nil {
		fmt.Fprintf(b, "Health score: %d/100, %s\n", h.Score, h.Status)
		for _, f := range h.Factors {
			fmt.Fprintf(b, "  %s %d/%d: %s\n", f.Name, f.Score, f.Max, f.Note)
		}
	}
}

func renderExtraction(b *strings.Builder, s *models.ExtractionStats) {
	section(b, "Extraction")
	fmt.Fprintf(b, "Pages %d (table %d, text fallback %d), extracted %d, skipped %d",
		s.Pages, s.TablePages, s.FallbackPages, s.Extracted, s.Skipped)
	if s.Duplicates > 0 {
		fmt.Fprintf(b, ", duplicates %d", s.Duplicates)
	}
	if s.Truncated {
		b.WriteString(", truncated")
	}
	b.WriteString("\n")

	reasons := make([]string, 0, len(s.SkippedByReason))
	for reason := range s.SkippedByReason {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(b, "  %s: %d\n", reason, s.SkippedByReason[reason])
	}
}

func trendLabel(t models.Trend) string {
	switch t.Status {
	case models.TrendOK:
		if t.DeltaPct != nil {
			sign := ""
			if t.DeltaPct.IsPositive() {
				sign = "+"
			}
			return sign + t.DeltaPct.StringFixed(2) + "%"
		}
	case models.TrendZeroBaseline:
		return "n/a (zero baseline)"
	}
	return "-"
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}
