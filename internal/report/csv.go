package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"fjacquet/statement-analyzer/internal/models"

	"github.com/gocarina/gocsv"
)

// transactionRow is the flat CSV shape of a transaction. Amounts are
// rendered as fixed-point strings.
type transactionRow struct {
	Seq         int    `csv:"seq"`
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
	Balance     string `csv:"balance"`
	Page        int    `csv:"page"`
	Mode        string `csv:"mode"`
	SignSource  string `csv:"sign_source"`
	RawSource   string `csv:"raw_source"`
}

// WriteTransactionsCSV writes transactions with a header row. A zero
// delimiter means comma.
func WriteTransactionsCSV(w io.Writer, transactions []models.Transaction, delimiter rune) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}
	if delimiter == 0 {
		delimiter = ','
	}

	rows := make([]*transactionRow, 0, len(transactions))
	for _, tx := range transactions {
		row := &transactionRow{
			Seq:         tx.Seq,
			Date:        tx.Date.String(),
			Description: tx.Description,
			Amount:      models.FormatAmount(tx.Amount),
			Category:    tx.CategoryOrDefault(),
			Page:        tx.Page,
			Mode:        string(tx.Mode),
			SignSource:  string(tx.SignSource),
			RawSource:   tx.RawSource,
		}
		if tx.BalanceHint != nil {
			row.Balance = models.FormatAmount(*tx.BalanceHint)
		}
		rows = append(rows, row)
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}
