package models

import (
	"errors"
	"testing"
	"time"

	"fjacquet/statement-analyzer/internal/dateutils"
	"fjacquet/statement-analyzer/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionBuilder_Build(t *testing.T) {
	tests := []struct {
		name        string
		order       dateutils.DateOrder
		fields      Fields
		date        Date
		amount      string
		description string
		source      SignSource
	}{
		{
			name:  "default debit",
			order: dateutils.DayFirst,
			fields: Fields{
				DateStr: "05/01/2024", Description: "Grocery Store   Purchase", AmountStr: "45.67",
				Direction: DirectionDebit, SignSource: SignExplicit,
			},
			date:        DateOf(2024, time.January, 5),
			amount:      "-45.67",
			description: "Grocery Store Purchase",
			source:      SignExplicit,
		},
		{
			name:  "month first",
			order: dateutils.MonthFirst,
			fields: Fields{
				DateStr: "05/01/2024", Description: "Grocery Store Purchase", AmountStr: "45.67",
				Direction: DirectionDebit, SignSource: SignExplicit,
			},
			date:        DateOf(2024, time.May, 1),
			amount:      "-45.67",
			description: "Grocery Store Purchase",
			source:      SignExplicit,
		},
		{
			name:  "credit keeps magnitude positive",
			order: dateutils.DayFirst,
			fields: Fields{
				DateStr: "03.02.2024", Description: "Salary Deposit", AmountStr: "120000.00",
				Direction: DirectionCredit, SignSource: SignKeyword,
			},
			date:        DateOf(2024, time.February, 3),
			amount:      "120000.00",
			description: "Salary Deposit",
			source:      SignKeyword,
		},
		{
			name:  "signed amount text is overridden by direction",
			order: dateutils.DayFirst,
			fields: Fields{
				DateStr: "2024-03-01", Description: "Refund", AmountStr: "-12.00",
				Direction: DirectionCredit, SignSource: SignMarker,
			},
			date:        DateOf(2024, time.March, 1),
			amount:      "12",
			description: "Refund",
			source:      SignMarker,
		},
		{
			name:        "empty description and missing sign source",
			order:       dateutils.DayFirst,
			fields:      Fields{DateStr: "01.04.2024", Description: "   ", AmountStr: "1 234,50"},
			date:        DateOf(2024, time.April, 1),
			amount:      "-1234.50",
			description: DescriptionUnknown,
			source:      SignDefault,
		},
		{
			name:        "dot thousands cell",
			order:       dateutils.DayFirst,
			fields:      Fields{DateStr: "05.01.2024", Description: "Rent", AmountStr: "1.234"},
			date:        DateOf(2024, time.January, 5),
			amount:      "-1234",
			description: "Rent",
			source:      SignDefault,
		},
		{
			name:        "date cell with time",
			order:       dateutils.DayFirst,
			fields:      Fields{DateStr: "05.01.2024 14:32", Description: "Taxi", AmountStr: "8.20"},
			date:        DateOf(2024, time.January, 5),
			amount:      "-8.20",
			description: "Taxi",
			source:      SignDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewTransactionBuilder(DefaultExtractionOptions(tt.order))
			tx, err := b.Build(tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.date, tx.Date)
			assert.True(t, decimal.RequireFromString(tt.amount).Equal(tx.Amount), "amount %s", tx.Amount)
			assert.Equal(t, tt.description, tx.Description)
			assert.Equal(t, tt.source, tx.SignSource)
			assert.False(t, tx.Amount.IsZero())
		})
	}
}

func TestTransactionBuilder_BuildErrors(t *testing.T) {
	b := NewTransactionBuilder(DefaultExtractionOptions(dateutils.DayFirst))

	tests := []struct {
		name     string
		fields   Fields
		sentinel error
	}{
		{"bad date", Fields{DateStr: "31/31/2024", Description: "x", AmountStr: "1.00"}, parsererror.ErrInvalidDate},
		{"empty date", Fields{DateStr: "", Description: "x", AmountStr: "1.00"}, parsererror.ErrInvalidDate},
		{"zero amount", Fields{DateStr: "01.01.2024", Description: "x", AmountStr: "0.00"}, parsererror.ErrInvalidAmount},
		{"not a number", Fields{DateStr: "01.01.2024", Description: "x", AmountStr: "12.34.56"}, parsererror.ErrInvalidAmount},
		{"empty amount", Fields{DateStr: "01.01.2024", Description: "x", AmountStr: " "}, parsererror.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := b.Build(tt.fields)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel))
			assert.Equal(t, Transaction{}, tx)
		})
	}
}

func TestTransactionBuilder_DateErrorShortCircuits(t *testing.T) {
	b := NewTransactionBuilder(DefaultExtractionOptions(dateutils.DayFirst))
	_, err := b.Build(Fields{DateStr: "nope", AmountStr: "0"})

	var dateErr *parsererror.InvalidDateError
	require.ErrorAs(t, err, &dateErr)
	assert.Equal(t, "nope", dateErr.Value)
}

func TestTransactionBuilder_BalanceHint(t *testing.T) {
	b := NewTransactionBuilder(DefaultExtractionOptions(dateutils.DayFirst))

	tx, err := b.Build(Fields{DateStr: "01.01.2024", Description: "Coffee", AmountStr: "3.50", BalanceStr: "1,000.00"})
	require.NoError(t, err)
	require.NotNil(t, tx.BalanceHint)
	assert.True(t, decimal.NewFromInt(1000).Equal(*tx.BalanceHint))

	tx, err = b.Build(Fields{DateStr: "01.01.2024", Description: "Coffee", AmountStr: "3.50", BalanceStr: "n/a"})
	require.NoError(t, err)
	assert.Nil(t, tx.BalanceHint)
}

func TestTransactionBuilder_CarriesProvenance(t *testing.T) {
	b := NewTransactionBuilder(DefaultExtractionOptions(dateutils.DayFirst))
	tx, err := b.Build(Fields{
		DateStr: "01.01.2024", Description: "Coffee", AmountStr: "3.50",
		Raw: "01.01.2024 | Coffee | 3.50", Mode: ModeTable, Page: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "01.01.2024 | Coffee | 3.50", tx.RawSource)
	assert.Equal(t, ModeTable, tx.Mode)
	assert.Equal(t, 2, tx.Page)
	assert.Empty(t, tx.Category)
}
