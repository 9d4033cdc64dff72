package analytics

import (
	"math"
	"sort"

	"fjacquet/statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// anomalies flags transactions whose magnitude exceeds a threshold derived
// from the sample. Below the minimum sample size nothing is computed.
func (e *Engine) anomalies(txs []models.Transaction) models.AnomalyReport {
	sample := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if e.opts.AnomalyScope == models.ScopeDebits && !tx.IsDebit() {
			continue
		}
		sample = append(sample, tx)
	}

	report := models.AnomalyReport{
		Status:     models.AnomalyInsufficientSample,
		Method:     e.opts.AnomalyMethod,
		SampleSize: len(sample),
		MinSample:  e.opts.MinSample,
		Flags:      []models.Anomaly{},
	}
	if len(sample) < e.opts.MinSample {
		return report
	}

	magnitudes := make([]decimal.Decimal, len(sample))
	for i, tx := range sample {
		magnitudes[i] = tx.AbsAmount()
	}

	reason := models.ReasonExceedsMedianMultiple
	var threshold decimal.Decimal
	switch e.opts.AnomalyMethod {
	case models.AnomalyStdDev:
		mean, sd := meanStdDev(magnitudes)
		threshold = mean.Add(e.opts.AnomalyStdDevs.Mul(sd))
		reason = models.ReasonExceedsStdDevBand
	default:
		threshold = e.opts.AnomalyMultiplier.Mul(median(magnitudes))
	}
	threshold = threshold.Round(2)
	report.Status = models.AnomalyComputed
	report.Threshold = threshold
	if !threshold.IsPositive() {
		return report
	}

	for i, tx := range sample {
		if magnitudes[i].LessThanOrEqual(threshold) {
			continue
		}
		report.Flags = append(report.Flags, models.Anomaly{
			Seq:         tx.Seq,
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.Amount,
			Magnitude:   magnitudes[i].DivRound(threshold, 2),
			Reason:      reason,
		})
	}
	sort.SliceStable(report.Flags, func(i, j int) bool {
		fi, fj := report.Flags[i], report.Flags[j]
		if c := fi.Magnitude.Cmp(fj.Magnitude); c != 0 {
			return c > 0
		}
		return fi.Seq < fj.Seq
	})
	return report
}

// median returns the middle value, or the mean of the two middle values.
func median(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(two)
}

// meanStdDev returns the mean and population standard deviation.
func meanStdDev(values []decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	if len(values) == 0 {
		return decimal.Zero, decimal.Zero
	}
	n := decimal.NewFromInt(int64(len(values)))
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(v)
	}
	mean := sum.Div(n)

	variance := decimal.Zero
	for _, v := range values {
		d := v.Sub(mean)
		variance = variance.Add(d.Mul(d))
	}
	variance = variance.Div(n)
	return mean, decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))
}
