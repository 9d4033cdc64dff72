package analytics

import (
	"testing"

	"fjacquet/statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHint(t models.Transaction, balance string) models.Transaction {
	b := decimal.RequireFromString(balance)
	t.BalanceHint = &b
	return t
}

func TestInsights_BalanceHints(t *testing.T) {
	ledger := []models.Transaction{
		withHint(tx(0, "2024-01-01", "-10", "a", ""), "90"),
		withHint(tx(1, "2024-01-02", "-5", "b", ""), "85"),
		withHint(tx(2, "2024-01-03", "-5", "c", ""), "70"),
		tx(3, "2024-01-04", "-1", "no hint", ""),
		withHint(tx(4, "2024-01-05", "-2", "d", ""), "60"),
	}
	in := newEngine(t).Analyze(ledger, nil).Insights

	require.NotNil(t, in.OpeningBalance)
	require.NotNil(t, in.ClosingBalance)
	assertDec(t, "100", *in.OpeningBalance)
	assertDec(t, "60", *in.ClosingBalance)

	require.Len(t, in.BalanceMismatches, 1)
	assert.Equal(t, 2, in.BalanceMismatches[0].Seq)
	assertDec(t, "80", in.BalanceMismatches[0].Expected)
	assertDec(t, "70", in.BalanceMismatches[0].Reported)
}

func TestInsights_DailyNetAndTopSpend(t *testing.T) {
	ledger := []models.Transaction{
		tx(0, "2024-01-02", "-30", "b", "x"),
		tx(1, "2024-01-01", "100", "salary", ""),
		tx(2, "2024-01-01", "-40", "a", ""),
		tx(3, "2024-01-02", "-40", "c", ""),
	}
	in := newEngine(t, func(o *models.AnalyticsOptions) { o.TopSpendCount = 2 }).Analyze(ledger, nil).Insights

	require.Len(t, in.DailyNet, 2)
	assert.Equal(t, "2024-01-01", in.DailyNet[0].Date.String())
	assertDec(t, "60", in.DailyNet[0].Net)
	assertDec(t, "-70", in.DailyNet[1].Net)

	require.Len(t, in.TopSpend, 2)
	assert.Equal(t, 2, in.TopSpend[0].Seq)
	assert.Equal(t, 3, in.TopSpend[1].Seq)
	assert.Equal(t, models.CategoryUncategorized, in.TopSpend[0].Category)
}

func TestInsights_MoneyLeaks(t *testing.T) {
	var ledger []models.Transaction
	seq := 0
	add := func(n int, amount, description string) {
		for i := 0; i < n; i++ {
			ledger = append(ledger, tx(seq, "2024-01-01", amount, description, ""))
			seq++
		}
	}
	add(7, "-5", "Coffee corner")
	add(3, "-3", "Snack machine")
	add(4, "-15", "Parking")
	add(3, "-16", "Too big")

	in := newEngine(t).Analyze(ledger, nil).Insights

	require.Len(t, in.MoneyLeaks, 2)
	assert.Equal(t, "Parking", in.MoneyLeaks[0].Description)
	assert.Equal(t, 4, in.MoneyLeaks[0].Count)
	assertDec(t, "60", in.MoneyLeaks[0].Total)
	assertDec(t, "15", in.MoneyLeaks[0].Average)
	assert.Equal(t, "Coffee corner", in.MoneyLeaks[1].Description)
	assertDec(t, "35", in.MoneyLeaks[1].Total)
}

func TestInsights_CreditLoad(t *testing.T) {
	tests := []struct {
		name    string
		ledger  []models.Transaction
		percent string
		warning models.CreditWarning
		payees  int
	}{
		{
			name: "high",
			ledger: []models.Transaction{
				tx(0, "2024-01-05", "-300", "Loan repayment Halyk", ""),
				tx(1, "2024-02-05", "-300", "Loan repayment Halyk", ""),
				tx(2, "2024-01-10", "-400", "Groceries", ""),
				tx(3, "2024-01-11", "1000", "Credit transfer in", ""),
			},
			percent: "60",
			warning: models.CreditWarningHigh,
			payees:  1,
		},
		{
			name: "medium with cyrillic stem",
			ledger: []models.Transaction{
				tx(0, "2024-01-05", "-30", "Погашение кредита", ""),
				tx(1, "2024-01-10", "-70", "Groceries", ""),
			},
			percent: "30",
			warning: models.CreditWarningMedium,
			payees:  0,
		},
		{
			name: "low",
			ledger: []models.Transaction{
				tx(0, "2024-01-05", "-10", "Installment plan", ""),
				tx(1, "2024-01-10", "-90", "Groceries", ""),
			},
			percent: "10",
			warning: models.CreditWarningLow,
			payees:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			load := newEngine(t).Analyze(tt.ledger, nil).Insights.CreditLoad
			assertDec(t, tt.percent, load.PercentOfSpend)
			assert.Equal(t, tt.warning, load.Warning)
			assert.Len(t, load.RecurringPayees, tt.payees)
		})
	}
}

func TestInsights_CreditInflows(t *testing.T) {
	ledger := []models.Transaction{
		tx(0, "2024-01-01", "1000", "Salary ACME", ""),
		tx(1, "2024-01-03", "500", "Loan disbursement Kaspi", ""),
		tx(2, "2024-01-04", "300", "Credit transfer from John", ""),
		tx(3, "2024-01-05", "-100", "Loan repayment Kaspi", ""),
	}
	load := newEngine(t).Analyze(ledger, nil).Insights.CreditLoad

	assert.Equal(t, 1, load.InflowCount)
	assertDec(t, "500", load.Inflows)
	assertDec(t, "1300", load.RealIncome)
	// 500 of 1800 earned
	assertDec(t, "27.78", load.DependencyPercent)
	assertDec(t, "100", load.Total)
}

func TestInsights_CustomCreditKeywords(t *testing.T) {
	ledger := []models.Transaction{
		tx(0, "2024-01-05", "-50", "Mortgage ACME", ""),
		tx(1, "2024-01-06", "-50", "Loan payment", ""),
	}
	load := newEngine(t, func(o *models.AnalyticsOptions) {
		o.CreditKeywords = []string{"MORTGAGE"}
	}).Analyze(ledger, nil).Insights.CreditLoad

	assert.Equal(t, 1, load.Count)
	assertDec(t, "50", load.Total)
}
