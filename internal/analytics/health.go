package analytics

import (
	"fjacquet/statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
)

// band maps a value range to a factor score.
type band struct {
	bound decimal.Decimal
	score int
	note  string
}

func dec(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// Bands are ordered from best to worst. Percentage bands match values up
// to and including their bound; month bands match values at or above it.
var (
	expenseRatioBands = []band{
		{dec(70), 30, "expenses well below income"},
		{dec(85), 20, "expenses below income"},
		{dec(100), 10, "expenses equal income"},
	}
	creditLoadBands = []band{
		{dec(10), 25, "low credit load"},
		{dec(20), 20, "moderate credit load"},
		{dec(30), 10, "high credit load"},
	}
	leakBands = []band{
		{dec(5), 15, "minimal small recurring spend"},
		{dec(10), 10, "moderate small recurring spend"},
		{dec(20), 5, "high small recurring spend"},
	}
	bufferBands = []band{
		{dec(6), 20, "six months of spend or more"},
		{dec(3), 15, "three months of spend or more"},
		{dec(1), 8, "at least one month of spend"},
	}
)

// Maximum score of each factor. They add up to 100.
const (
	expenseRatioMax  = 30
	creditLoadMax    = 25
	savingsBufferMax = 20
	moneyLeaksMax    = 15
	netResultMax     = 10
)

func upTo(v decimal.Decimal, bands []band, rest string) (int, string) {
	for _, b := range bands {
		if v.LessThanOrEqual(b.bound) {
			return b.score, b.note
		}
	}
	return 0, rest
}

func atLeast(v decimal.Decimal, bands []band, rest string) (int, string) {
	for _, b := range bands {
		if v.GreaterThanOrEqual(b.bound) {
			return b.score, b.note
		}
	}
	return 0, rest
}

func factor(name string, limit, score int, note string) models.HealthFactor {
	return models.HealthFactor{Name: name, Score: score, Max: limit, Note: note}
}

func expenseRatioFactor(earned, spent decimal.Decimal) models.HealthFactor {
	if !earned.IsPositive() {
		return factor(models.FactorExpenseRatio, expenseRatioMax, 0, "no income")
	}
	ratio := spent.Div(earned).Mul(hundred)
	score, note := upTo(ratio, expenseRatioBands, "expenses exceed income")
	return factor(models.FactorExpenseRatio, expenseRatioMax, score, note)
}

func creditLoadFactor(percentOfSpend decimal.Decimal) models.HealthFactor {
	score, note := upTo(percentOfSpend, creditLoadBands, "critical credit load")
	return factor(models.FactorCreditLoad, creditLoadMax, score, note)
}

func savingsBufferFactor(months decimal.Decimal) models.HealthFactor {
	score, note := atLeast(months, bufferBands, "no savings buffer")
	return factor(models.FactorSavingsBuffer, savingsBufferMax, score, note)
}

func moneyLeaksFactor(leakPercent decimal.Decimal) models.HealthFactor {
	score, note := upTo(leakPercent, leakBands, "critical small recurring spend")
	return factor(models.FactorMoneyLeaks, moneyLeaksMax, score, note)
}

func netResultFactor(net decimal.Decimal) models.HealthFactor {
	if net.IsPositive() {
		return factor(models.FactorNetResult, netResultMax, netResultMax, "positive net flow")
	}
	return factor(models.FactorNetResult, netResultMax, 0, "negative or zero net flow")
}

// leakPercent is the share of spend that goes to money leaks.
func leakPercent(leaks []models.MoneyLeak, spent decimal.Decimal) decimal.Decimal {
	if !spent.IsPositive() {
		return decimal.Zero
	}
	var total decimal.Decimal
	for _, l := range leaks {
		total = total.Add(l.Total)
	}
	return total.Div(spent).Mul(hundred)
}

func healthStatus(score int) models.HealthStatus {
	switch {
	case score >= 80:
		return models.HealthExcellent
	case score >= 60:
		return models.HealthGood
	case score >= 40:
		return models.HealthAtRisk
	default:
		return models.HealthCritical
	}
}

// healthScore sums five factors: expense ratio, credit load, savings
// buffer, money leaks and net result.
func healthScore(r *models.Report, in models.Insights, coveredMonths decimal.Decimal) *models.HealthScore {
	factors := []models.HealthFactor{
		expenseRatioFactor(r.TotalEarned, r.TotalSpent),
		creditLoadFactor(in.CreditLoad.PercentOfSpend),
		savingsBufferFactor(coveredMonths),
		moneyLeaksFactor(leakPercent(in.MoneyLeaks, r.TotalSpent)),
		netResultFactor(r.Net),
	}
	score := 0
	for _, f := range factors {
		score += f.Score
	}
	return &models.HealthScore{Score: score, Status: healthStatus(score), Factors: factors}
}

// safetyBuffer divides the closing balance by the average spend of the
// months present in the ledger. It also returns the unrounded month count.
func safetyBuffer(closing *decimal.Decimal, spent decimal.Decimal, months int) (models.SafetyBuffer, decimal.Decimal) {
	if months < 1 {
		months = 1
	}
	monthly := spent.Div(dec(int64(months)))
	buf := models.SafetyBuffer{MonthlySpend: monthly.Round(2), Balance: closing, Status: models.BufferNone}
	if closing == nil || closing.IsNegative() {
		return buf, decimal.Zero
	}

	covered := decimal.Zero
	if monthly.IsPositive() {
		covered = closing.Div(monthly)
	}
	buf.Months = covered.Round(1)
	switch {
	case covered.GreaterThanOrEqual(dec(6)):
		buf.Status = models.BufferSafe
	case covered.GreaterThanOrEqual(dec(3)):
		buf.Status = models.BufferAcceptable
	case covered.GreaterThanOrEqual(dec(1)):
		buf.Status = models.BufferWeak
	default:
		buf.Status = models.BufferCritical
	}
	return buf, covered
}
