// Package models provides the data structures used throughout the application.
package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Transaction is one ledger entry extracted from a statement. It is built
// only by TransactionBuilder and is not modified afterwards except for its
// category.
type Transaction struct {
	Date        Date             `csv:"Date" yaml:"date"`
	Description string           `csv:"Description" yaml:"description"`
	Amount      decimal.Decimal  `csv:"Amount" yaml:"amount"`
	Category    string           `csv:"Category" yaml:"category,omitempty"`
	RawSource   string           `csv:"RawSource" yaml:"raw_source"`
	BalanceHint *decimal.Decimal `csv:"-" yaml:"balance_hint,omitempty"`
	Page        int              `csv:"Page" yaml:"page"`
	Seq         int              `csv:"Seq" yaml:"seq"`
	SignSource  SignSource       `csv:"SignSource" yaml:"sign_source"`
	Mode        ExtractionMode   `csv:"Mode" yaml:"mode"`
}

// SetCategory assigns the category label. An empty label is stored as-is and
// reported as uncategorized.
func (t *Transaction) SetCategory(category string) {
	t.Category = category
}

// CategoryOrDefault returns the category, or CategoryUncategorized when unset.
func (t Transaction) CategoryOrDefault() string {
	if t.Category == "" {
		return CategoryUncategorized
	}
	return t.Category
}

// IsDebit returns true for outflows.
func (t Transaction) IsDebit() bool {
	return t.Amount.IsNegative()
}

// IsCredit returns true for inflows.
func (t Transaction) IsCredit() bool {
	return t.Amount.IsPositive()
}

// AbsAmount returns the magnitude of the amount.
func (t Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// Ref returns a lightweight reference to the transaction for reports.
func (t Transaction) Ref() TransactionRef {
	return TransactionRef{
		Seq:         t.Seq,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.CategoryOrDefault(),
	}
}

// FormatAmount renders an amount with at least two fractional digits.
func FormatAmount(d decimal.Decimal) string {
	places := int32(2)
	if exp := -d.Exponent(); exp > places {
		places = exp
	}
	return d.StringFixed(places)
}

type transactionJSON struct {
	Date        Date           `json:"date"`
	Description string         `json:"description"`
	Amount      string         `json:"amount"`
	Category    string         `json:"category,omitempty"`
	RawSource   string         `json:"raw_source"`
	BalanceHint *string        `json:"balance_hint,omitempty"`
	Page        int            `json:"page"`
	Seq         int            `json:"seq"`
	SignSource  SignSource     `json:"sign_source"`
	Mode        ExtractionMode `json:"mode"`
}

// MarshalJSON renders amounts as fixed-point strings so "-45.60" keeps its
// trailing zero.
func (t Transaction) MarshalJSON() ([]byte, error) {
	out := transactionJSON{
		Date:        t.Date,
		Description: t.Description,
		Amount:      FormatAmount(t.Amount),
		Category:    t.Category,
		RawSource:   t.RawSource,
		Page:        t.Page,
		Seq:         t.Seq,
		SignSource:  t.SignSource,
		Mode:        t.Mode,
	}
	if t.BalanceHint != nil {
		s := FormatAmount(*t.BalanceHint)
		out.BalanceHint = &s
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var in transactionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(in.Amount)
	if err != nil {
		return err
	}
	*t = Transaction{
		Date:        in.Date,
		Description: in.Description,
		Amount:      amount,
		Category:    in.Category,
		RawSource:   in.RawSource,
		Page:        in.Page,
		Seq:         in.Seq,
		SignSource:  in.SignSource,
		Mode:        in.Mode,
	}
	if in.BalanceHint != nil {
		hint, err := decimal.NewFromString(*in.BalanceHint)
		if err != nil {
			return err
		}
		t.BalanceHint = &hint
	}
	return nil
}
