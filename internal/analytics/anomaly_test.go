package analytics

import (
	"testing"

	"fjacquet/statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnomalies_InsufficientSample(t *testing.T) {
	ledger := []models.Transaction{
		tx(0, "2024-01-01", "-10", "a", ""),
		tx(1, "2024-01-02", "-5000", "b", ""),
	}
	r := newEngine(t).Analyze(ledger, nil)

	assert.Equal(t, models.AnomalyInsufficientSample, r.Anomalies.Status)
	assert.Equal(t, 2, r.Anomalies.SampleSize)
	assert.Equal(t, models.DefaultMinSample, r.Anomalies.MinSample)
	assert.Empty(t, r.Anomalies.Flags)
	assert.NotNil(t, r.Anomalies.Flags)
}

func TestAnomalies_TwoTransactionsNeverFlagged(t *testing.T) {
	ledger := []models.Transaction{
		tx(0, "2024-01-01", "-10", "a", ""),
		tx(1, "2024-01-02", "-1000", "b", ""),
	}

	opts := models.DefaultAnalyticsOptions()
	opts.MinSample = 2
	opts.AnomalyMultiplier = decimal.RequireFromString("1.5")
	_, err := NewEngine(opts)
	require.Error(t, err)

	r := newEngine(t, func(o *models.AnalyticsOptions) {
		o.MinSample = models.MinAnomalySample
		o.AnomalyMultiplier = decimal.RequireFromString("1.5")
	}).Analyze(ledger, nil)
	assert.Equal(t, models.AnomalyInsufficientSample, r.Anomalies.Status)
	assert.Empty(t, r.Anomalies.Flags)
}

func TestAnomalies_Median(t *testing.T) {
	ledger := []models.Transaction{
		tx(0, "2024-01-01", "-10", "a", ""),
		tx(1, "2024-01-02", "-12", "b", ""),
		tx(2, "2024-01-03", "-11", "c", ""),
		tx(3, "2024-01-04", "-9", "d", ""),
		tx(4, "2024-01-05", "-10", "e", ""),
		tx(5, "2024-01-06", "-100", "Big purchase", ""),
	}
	r := newEngine(t).Analyze(ledger, nil)

	a := r.Anomalies
	assert.Equal(t, models.AnomalyComputed, a.Status)
	assert.Equal(t, models.AnomalyMedian, a.Method)
	assert.Equal(t, 6, a.SampleSize)
	// median of 9,10,10,11,12,100 is 10.5; 3 × 10.5
	assertDec(t, "31.5", a.Threshold)
	require.Len(t, a.Flags, 1)
	flag := a.Flags[0]
	assert.Equal(t, 5, flag.Seq)
	assert.Equal(t, "Big purchase", flag.Description)
	assertDec(t, "-100", flag.Amount)
	assertDec(t, "3.17", flag.Magnitude)
	assert.Equal(t, models.ReasonExceedsMedianMultiple, flag.Reason)
}

func TestAnomalies_StdDev(t *testing.T) {
	ledger := []models.Transaction{
		tx(0, "2024-01-01", "-10", "a", ""),
		tx(1, "2024-01-02", "-10", "b", ""),
		tx(2, "2024-01-03", "-10", "c", ""),
		tx(3, "2024-01-04", "-10", "d", ""),
		tx(4, "2024-01-05", "-10", "e", ""),
		tx(5, "2024-01-06", "-100", "f", ""),
	}
	r := newEngine(t, func(o *models.AnalyticsOptions) {
		o.AnomalyMethod = models.AnomalyStdDev
	}).Analyze(ledger, nil)

	a := r.Anomalies
	assert.Equal(t, models.AnomalyComputed, a.Status)
	// mean 25, population sigma sqrt(1125) ≈ 33.54; 25 + 2σ
	assertDec(t, "92.08", a.Threshold)
	require.Len(t, a.Flags, 1)
	assertDec(t, "1.09", a.Flags[0].Magnitude)
	assert.Equal(t, models.ReasonExceedsStdDevBand, a.Flags[0].Reason)
}

func TestAnomalies_DebitScope(t *testing.T) {
	ledger := []models.Transaction{
		tx(0, "2024-01-01", "-10", "a", ""),
		tx(1, "2024-01-02", "-10", "b", ""),
		tx(2, "2024-01-03", "-10", "c", ""),
		tx(3, "2024-01-04", "-10", "d", ""),
		tx(4, "2024-01-05", "5000", "Salary", ""),
	}

	all := newEngine(t).Analyze(ledger, nil).Anomalies
	assert.Equal(t, models.AnomalyComputed, all.Status)
	require.Len(t, all.Flags, 1)
	assert.Equal(t, 4, all.Flags[0].Seq)

	debits := newEngine(t, func(o *models.AnalyticsOptions) {
		o.AnomalyScope = models.ScopeDebits
	}).Analyze(ledger, nil).Anomalies
	assert.Equal(t, models.AnomalyInsufficientSample, debits.Status)
	assert.Equal(t, 4, debits.SampleSize)
}

func TestAnomalies_OrderedByMagnitudeThenSeq(t *testing.T) {
	ledger := []models.Transaction{
		tx(0, "2024-01-01", "-10", "a", ""),
		tx(1, "2024-01-02", "-10", "b", ""),
		tx(2, "2024-01-03", "-10", "c", ""),
		tx(3, "2024-01-04", "-60", "tie one", ""),
		tx(4, "2024-01-05", "-10", "d", ""),
		tx(5, "2024-01-06", "-90", "largest", ""),
		tx(6, "2024-01-07", "60", "tie two", ""),
	}
	r := newEngine(t).Analyze(ledger, nil)

	// median 10, threshold 30
	seqs := []int{}
	for _, f := range r.Anomalies.Flags {
		seqs = append(seqs, f.Seq)
	}
	assert.Equal(t, []int{5, 3, 6}, seqs)
}

func TestMedianAndStdDev(t *testing.T) {
	values := func(xs ...int64) []decimal.Decimal {
		out := make([]decimal.Decimal, len(xs))
		for i, x := range xs {
			out[i] = decimal.NewFromInt(x)
		}
		return out
	}

	assertDec(t, "0", median(nil))
	assertDec(t, "3", median(values(5, 1, 3)))
	assertDec(t, "2.5", median(values(4, 1, 3, 2)))

	in := values(3, 1, 2)
	_ = median(in)
	assertDec(t, "3", in[0], "median must not reorder its input")

	mean, sd := meanStdDev(values(2, 4, 4, 4, 5, 5, 7, 9))
	assertDec(t, "5", mean)
	assertDec(t, "2", sd)
}
