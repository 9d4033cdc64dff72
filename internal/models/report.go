package models

import "github.com/shopspring/decimal"

// Report is the output of one analytics run. It holds no timestamps or
// generated identifiers, so equal inputs give equal reports.
type Report struct {
	AsOf              *Date           `json:"as_of,omitempty" yaml:"as_of,omitempty"`
	Count             int             `json:"count" yaml:"count"`
	ExcludedAfterAsOf int             `json:"excluded_after_as_of" yaml:"excluded_after_as_of"`
	TotalEarned       decimal.Decimal `json:"total_earned" yaml:"total_earned"`
	TotalSpent        decimal.Decimal `json:"total_spent" yaml:"total_spent"`
	Net               decimal.Decimal `json:"net" yaml:"net"`

	CategoryBreakdown []CategoryTotal `json:"category_breakdown" yaml:"category_breakdown"`
	BalanceSeries     []BalancePoint  `json:"balance_series" yaml:"balance_series"`
	WeeklySummary     []PeriodSummary `json:"weekly_summary" yaml:"weekly_summary"`
	MonthlySummary    []PeriodSummary `json:"monthly_summary" yaml:"monthly_summary"`
	Trends            []Trend         `json:"trends" yaml:"trends"`
	Anomalies         AnomalyReport   `json:"anomalies" yaml:"anomalies"`
	Insights          Insights        `json:"insights" yaml:"insights"`

	SkippedLines    int            `json:"skipped_lines" yaml:"skipped_lines"`
	SkippedByReason map[string]int `json:"skipped_by_reason,omitempty" yaml:"skipped_by_reason,omitempty"`
}

// CategoryTotal is the sum of one category. Total is signed; Income and
// Spending split it into inflow and outflow magnitudes.
type CategoryTotal struct {
	Category string          `json:"category" yaml:"category"`
	Total    decimal.Decimal `json:"total" yaml:"total"`
	Income   decimal.Decimal `json:"income" yaml:"income"`
	Spending decimal.Decimal `json:"spending" yaml:"spending"`
	Count    int             `json:"count" yaml:"count"`
}

// BalancePoint is one step of the running balance.
type BalancePoint struct {
	Date           Date            `json:"date" yaml:"date"`
	Seq            int             `json:"seq" yaml:"seq"`
	Amount         decimal.Decimal `json:"amount" yaml:"amount"`
	RunningBalance decimal.Decimal `json:"running_balance" yaml:"running_balance"`
}

// PeriodSummary aggregates one ISO week or calendar month.
type PeriodSummary struct {
	PeriodKey string          `json:"period_key" yaml:"period_key"`
	Start     Date            `json:"start" yaml:"start"`
	Earned    decimal.Decimal `json:"earned" yaml:"earned"`
	Spent     decimal.Decimal `json:"spent" yaml:"spent"`
	Net       decimal.Decimal `json:"net" yaml:"net"`
	Count     int             `json:"count" yaml:"count"`
}

// TrendStatus qualifies a period-over-period delta.
type TrendStatus string

const (
	TrendNoBaseline   TrendStatus = "no_baseline"
	TrendZeroBaseline TrendStatus = "zero_baseline"
	TrendOK           TrendStatus = "ok"
)

// Trend is the month-over-month change in net flow.
type Trend struct {
	PeriodKey string           `json:"period_key" yaml:"period_key"`
	Net       decimal.Decimal  `json:"net" yaml:"net"`
	DeltaAbs  *decimal.Decimal `json:"delta_abs" yaml:"delta_abs"`
	DeltaPct  *decimal.Decimal `json:"delta_pct" yaml:"delta_pct"`
	Status    TrendStatus      `json:"status" yaml:"status"`
}

// AnomalyStatus tells whether anomaly detection ran.
type AnomalyStatus string

const (
	AnomalyInsufficientSample AnomalyStatus = "insufficient_sample"
	AnomalyComputed           AnomalyStatus = "computed"
)

// Anomaly reasons.
const (
	ReasonExceedsMedianMultiple = "exceeds_median_multiple"
	ReasonExceedsStdDevBand     = "exceeds_stddev_band"
)

// AnomalyReport holds the detection outcome. Flags is empty, never nil, when
// the status is insufficient_sample.
type AnomalyReport struct {
	Status     AnomalyStatus   `json:"status" yaml:"status"`
	Method     AnomalyMethod   `json:"method" yaml:"method"`
	Threshold  decimal.Decimal `json:"threshold" yaml:"threshold"`
	SampleSize int             `json:"sample_size" yaml:"sample_size"`
	MinSample  int             `json:"min_sample" yaml:"min_sample"`
	Flags      []Anomaly       `json:"flags" yaml:"flags"`
}

// Anomaly references a flagged transaction by its Seq.
type Anomaly struct {
	Seq         int             `json:"seq" yaml:"seq"`
	Date        Date            `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Magnitude   decimal.Decimal `json:"magnitude" yaml:"magnitude"`
	Reason      string          `json:"reason" yaml:"reason"`
}

// TransactionRef is a compact transaction reference used in insights.
type TransactionRef struct {
	Seq         int             `json:"seq" yaml:"seq"`
	Date        Date            `json:"date" yaml:"date"`
	Description string          `json:"description" yaml:"description"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Category    string          `json:"category" yaml:"category"`
}

// Insights are derived views beyond the core metrics.
type Insights struct {
	OpeningBalance    *decimal.Decimal  `json:"opening_balance" yaml:"opening_balance"`
	ClosingBalance    *decimal.Decimal  `json:"closing_balance" yaml:"closing_balance"`
	BalanceMismatches []BalanceMismatch `json:"balance_mismatches" yaml:"balance_mismatches"`
	DailyNet          []DailyNet        `json:"daily_net" yaml:"daily_net"`
	TopSpend          []TransactionRef  `json:"top_spend" yaml:"top_spend"`
	MoneyLeaks        []MoneyLeak       `json:"money_leaks" yaml:"money_leaks"`
	CreditLoad        CreditLoad        `json:"credit_load" yaml:"credit_load"`
	SafetyBuffer      SafetyBuffer      `json:"safety_buffer" yaml:"safety_buffer"`
	// HealthScore is nil for an empty ledger.
	HealthScore *HealthScore `json:"health_score" yaml:"health_score"`
}

// BalanceMismatch marks a transaction whose reported balance disagrees with
// the previous reported balance plus its amount.
type BalanceMismatch struct {
	Seq      int             `json:"seq" yaml:"seq"`
	Expected decimal.Decimal `json:"expected" yaml:"expected"`
	Reported decimal.Decimal `json:"reported" yaml:"reported"`
}

// DailyNet is the net flow of one calendar day.
type DailyNet struct {
	Date Date            `json:"date" yaml:"date"`
	Net  decimal.Decimal `json:"net" yaml:"net"`
}

// MoneyLeak is a recurring small debit.
type MoneyLeak struct {
	Description string          `json:"description" yaml:"description"`
	Count       int             `json:"count" yaml:"count"`
	Total       decimal.Decimal `json:"total" yaml:"total"`
	Average     decimal.Decimal `json:"average" yaml:"average"`
}

// CreditWarning grades the share of spend going to loan repayments.
type CreditWarning string

const (
	CreditWarningLow    CreditWarning = "low"
	CreditWarningMedium CreditWarning = "medium"
	CreditWarningHigh   CreditWarning = "high"
)

// CreditLoad summarizes loan and installment payments, and the loan
// proceeds counted as income.
type CreditLoad struct {
	Total           decimal.Decimal  `json:"total" yaml:"total"`
	Count           int              `json:"count" yaml:"count"`
	PercentOfSpend  decimal.Decimal  `json:"percent_of_spend" yaml:"percent_of_spend"`
	RecurringPayees []RecurringPayee `json:"recurring_payees" yaml:"recurring_payees"`
	Warning         CreditWarning    `json:"warning" yaml:"warning"`
	Inflows         decimal.Decimal  `json:"inflows" yaml:"inflows"`
	InflowCount     int              `json:"inflow_count" yaml:"inflow_count"`
	// RealIncome is total earned minus Inflows.
	RealIncome        decimal.Decimal `json:"real_income" yaml:"real_income"`
	DependencyPercent decimal.Decimal `json:"dependency_percent" yaml:"dependency_percent"`
}

// RecurringPayee is a loan payee seen at least twice.
type RecurringPayee struct {
	Description string          `json:"description" yaml:"description"`
	Count       int             `json:"count" yaml:"count"`
	Average     decimal.Decimal `json:"average" yaml:"average"`
}

// BufferStatus grades the safety buffer.
type BufferStatus string

const (
	BufferNone       BufferStatus = "none"
	BufferCritical   BufferStatus = "critical"
	BufferWeak       BufferStatus = "weak"
	BufferAcceptable BufferStatus = "acceptable"
	BufferSafe       BufferStatus = "safe"
)

// SafetyBuffer is the number of months of average spend that the closing
// balance covers. Status is none when there is no closing balance or it is
// negative.
type SafetyBuffer struct {
	Months       decimal.Decimal  `json:"months" yaml:"months"`
	MonthlySpend decimal.Decimal  `json:"monthly_spend" yaml:"monthly_spend"`
	Balance      *decimal.Decimal `json:"balance" yaml:"balance"`
	Status       BufferStatus     `json:"status" yaml:"status"`
}

// HealthStatus bands the health score.
type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthAtRisk    HealthStatus = "at_risk"
	HealthCritical  HealthStatus = "critical"
)

// Health factor names.
const (
	FactorExpenseRatio  = "expense_ratio"
	FactorCreditLoad    = "credit_load"
	FactorSavingsBuffer = "savings_buffer"
	FactorMoneyLeaks    = "money_leaks"
	FactorNetResult     = "net_result"
)

// HealthFactor is one scored component of the health score.
type HealthFactor struct {
	Name  string `json:"name" yaml:"name"`
	Score int    `json:"score" yaml:"score"`
	Max   int    `json:"max" yaml:"max"`
	Note  string `json:"note" yaml:"note"`
}

// HealthScore rates the ledger from 0 to 100. Score is the sum of the
// factor scores.
type HealthScore struct {
	Score   int            `json:"score" yaml:"score"`
	Status  HealthStatus   `json:"status" yaml:"status"`
	Factors []HealthFactor `json:"factors" yaml:"factors"`
}
