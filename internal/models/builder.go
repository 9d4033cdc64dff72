package models

import (
	"strings"

	"fjacquet/statement-analyzer/internal/currencyutils"
	"fjacquet/statement-analyzer/internal/dateutils"
	"fjacquet/statement-analyzer/internal/parsererror"
	"fjacquet/statement-analyzer/internal/textutils"
)

// TransactionBuilder turns extracted Fields into validated transactions. It
// holds only immutable configuration and is safe for concurrent use.
type TransactionBuilder struct {
	dates *dateutils.Parser
}

// NewTransactionBuilder creates a builder using the date order and year
// window from opts.
func NewTransactionBuilder(opts ExtractionOptions) *TransactionBuilder {
	return &TransactionBuilder{
		dates: dateutils.NewParser(opts.DateOrder, opts.MinYear, opts.MaxYear),
	}
}

// Build validates the fields and returns the transaction. It fails with
// *parsererror.InvalidDateError or *parsererror.InvalidAmountError.
func (b *TransactionBuilder) Build(f Fields) (Transaction, error) {
	return b.newDraft(f).
		withDate(f.DateStr).
		withAmount(f.AmountStr, f.Direction, f.SignSource).
		withDescription(f.Description).
		withBalance(f.BalanceStr).
		result()
}

// draft accumulates a transaction; the first error short-circuits the
// remaining steps.
type draft struct {
	b   *TransactionBuilder
	tx  Transaction
	err error
}

func (b *TransactionBuilder) newDraft(f Fields) *draft {
	return &draft{
		b: b,
		tx: Transaction{
			RawSource: f.Raw,
			Page:      f.Page,
			Mode:      f.Mode,
		},
	}
}

func (d *draft) withDate(value string) *draft {
	if d.err != nil {
		return d
	}
	t, err := d.b.dates.ParseOrFind(value)
	if err != nil {
		d.err = &parsererror.InvalidDateError{Value: value}
		return d
	}
	d.tx.Date = NewDate(t)
	return d
}

func (d *draft) withAmount(value string, dir Direction, source SignSource) *draft {
	if d.err != nil {
		return d
	}
	if strings.TrimSpace(value) == "" {
		d.err = &parsererror.InvalidAmountError{Value: value, Reason: "amount is empty"}
		return d
	}
	amount, err := currencyutils.ParseAmount(value)
	if err != nil {
		d.err = &parsererror.InvalidAmountError{Value: value, Reason: "not a number"}
		return d
	}
	if amount.IsZero() {
		d.err = &parsererror.InvalidAmountError{Value: value, Reason: "amount is zero"}
		return d
	}

	amount = amount.Abs()
	if dir != DirectionCredit {
		amount = amount.Neg()
	}
	if source == "" {
		source = SignDefault
	}
	d.tx.Amount = amount
	d.tx.SignSource = source
	return d
}

func (d *draft) withDescription(value string) *draft {
	if d.err != nil {
		return d
	}
	desc := textutils.NormalizeDescription(value)
	if desc == "" {
		desc = DescriptionUnknown
	}
	d.tx.Description = desc
	return d
}

// withBalance records the balance hint. A hint that does not parse is
// dropped since it is only used for consistency checks.
func (d *draft) withBalance(value string) *draft {
	if d.err != nil || strings.TrimSpace(value) == "" {
		return d
	}
	balance, err := currencyutils.ParseAmount(value)
	if err != nil {
		return d
	}
	d.tx.BalanceHint = &balance
	return d
}

func (d *draft) result() (Transaction, error) {
	if d.err != nil {
		return Transaction{}, d.err
	}
	return d.tx, nil
}
