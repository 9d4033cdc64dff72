package models

import (
	"fmt"

	"fjacquet/statement-analyzer/internal/dateutils"

	"github.com/shopspring/decimal"
)

// ExtractionOptions configures the extraction pipeline. It is passed by
// value and never changed after construction.
type ExtractionOptions struct {
	DateOrder     dateutils.DateOrder
	MinLineLength int
	MinYear       int
	MaxYear       int
	// KeywordCues enables description keywords as a sign source.
	KeywordCues bool
	// CreditKeywords and DebitKeywords replace the built-in cue lists when
	// non-empty.
	CreditKeywords []string
	DebitKeywords  []string
	// MaxPages truncates longer documents. Zero means unlimited.
	MaxPages    int
	Deduplicate bool
	// SpaceThousands allows a plain space as a thousands separator in
	// free-text amounts, as in "16 313,00".
	SpaceThousands bool
}

// Extraction defaults.
const (
	DefaultMinLineLength = 10
	DefaultMinYear       = 2000
	DefaultMaxYear       = 2100
	DefaultMaxPages      = 100
)

// DefaultExtractionOptions returns the defaults for the given date order.
// The order has no default of its own.
func DefaultExtractionOptions(order dateutils.DateOrder) ExtractionOptions {
	return ExtractionOptions{
		DateOrder:      order,
		MinLineLength:  DefaultMinLineLength,
		MinYear:        DefaultMinYear,
		MaxYear:        DefaultMaxYear,
		KeywordCues:    true,
		MaxPages:       DefaultMaxPages,
		SpaceThousands: true,
	}
}

// Validate checks the options for consistency.
func (o ExtractionOptions) Validate() error {
	if _, err := dateutils.ParseDateOrder(string(o.DateOrder)); err != nil {
		return fmt.Errorf("extraction options: %w", err)
	}
	if o.MinLineLength < 0 {
		return fmt.Errorf("extraction options: min line length must not be negative")
	}
	if o.MinYear > 0 && o.MaxYear > 0 && o.MinYear > o.MaxYear {
		return fmt.Errorf("extraction options: min year %d is after max year %d", o.MinYear, o.MaxYear)
	}
	if o.MaxPages < 0 {
		return fmt.Errorf("extraction options: max pages must not be negative")
	}
	return nil
}

// AnomalyMethod selects how the anomaly threshold is derived.
type AnomalyMethod string

const (
	// AnomalyMedian flags amounts above multiplier × median |amount|.
	AnomalyMedian AnomalyMethod = "median"
	// AnomalyStdDev flags amounts above mean |amount| + N standard deviations.
	AnomalyStdDev AnomalyMethod = "stddev"
)

// AnomalyScope selects which transactions feed and receive anomaly flags.
type AnomalyScope string

const (
	ScopeAll    AnomalyScope = "all"
	ScopeDebits AnomalyScope = "debits"
)

// AnalyticsOptions configures the analytics engine.
type AnalyticsOptions struct {
	AnomalyMethod     AnomalyMethod
	AnomalyMultiplier decimal.Decimal
	AnomalyStdDevs    decimal.Decimal
	AnomalyScope      AnomalyScope
	MinSample         int

	LeakMaxAmount decimal.Decimal
	LeakMinCount  int
	LeakMinTotal  decimal.Decimal
	TopSpendCount int
	// CreditKeywords replaces the built-in loan keyword stems when non-empty.
	CreditKeywords []string
}

// Analytics defaults.
const (
	DefaultMinSample     = 5
	DefaultLeakMinCount  = 3
	DefaultTopSpendCount = 10
)

// MinAnomalySample is the smallest accepted MinSample. Two amounts cannot
// establish a distribution.
const MinAnomalySample = 3

// DefaultAnalyticsOptions returns the analytics defaults.
func DefaultAnalyticsOptions() AnalyticsOptions {
	return AnalyticsOptions{
		AnomalyMethod:     AnomalyMedian,
		AnomalyMultiplier: decimal.NewFromInt(3),
		AnomalyStdDevs:    decimal.NewFromInt(2),
		AnomalyScope:      ScopeAll,
		MinSample:         DefaultMinSample,
		LeakMaxAmount:     decimal.NewFromInt(15),
		LeakMinCount:      DefaultLeakMinCount,
		LeakMinTotal:      decimal.NewFromInt(30),
		TopSpendCount:     DefaultTopSpendCount,
	}
}

// Validate checks the options for consistency.
func (o AnalyticsOptions) Validate() error {
	switch o.AnomalyMethod {
	case AnomalyMedian, AnomalyStdDev:
	default:
		return fmt.Errorf("analytics options: unknown anomaly method %q", o.AnomalyMethod)
	}
	switch o.AnomalyScope {
	case ScopeAll, ScopeDebits:
	default:
		return fmt.Errorf("analytics options: unknown anomaly scope %q", o.AnomalyScope)
	}
	if !o.AnomalyMultiplier.IsPositive() {
		return fmt.Errorf("analytics options: anomaly multiplier must be positive")
	}
	if o.AnomalyStdDevs.IsNegative() {
		return fmt.Errorf("analytics options: anomaly stddevs must not be negative")
	}
	if o.MinSample < MinAnomalySample {
		return fmt.Errorf("analytics options: min sample must be at least %d", MinAnomalySample)
	}
	if o.TopSpendCount < 0 || o.LeakMinCount < 0 {
		return fmt.Errorf("analytics options: counts must not be negative")
	}
	return nil
}
