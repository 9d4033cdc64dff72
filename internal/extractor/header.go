package extractor

import (
	"strings"

	"fjacquet/statement-analyzer/internal/textutils"
)

// headerVocabulary lists, per role, the stems that name a column. Roles are
// checked in this order so "Transaction date" is a date column and
// "Debit amount" a debit column.
var headerVocabulary = []struct {
	role  Role
	stems []string
}{
	{RoleBalance, []string{"balance", "running balance", "остаток", "saldo"}},
	{RoleDebit, []string{"debit", "withdrawal", "paid out", "money out", "расход", "списание", "дебет"}},
	{RoleCredit, []string{"credit", "deposit", "paid in", "money in", "приход", "поступлени", "зачислени", "кредит"}},
	{RoleDate, []string{"date", "posting date", "value date", "дата", "datum"}},
	{RoleAmount, []string{"amount", "sum", "сумма", "betrag", "montant"}},
	{RoleDescription, []string{"description", "details", "narrative", "particulars", "transaction", "описание", "детали", "назначение", "операция"}},
}

func headerRole(cell string) (Role, bool) {
	folded := textutils.Fold(cell)
	if folded == "" {
		return RoleIgnore, false
	}
	for _, entry := range headerVocabulary {
		for _, stem := range entry.stems {
			if textutils.ContainsWordPrefix(folded, stem) {
				return entry.role, true
			}
		}
	}
	return RoleDescription, false
}

// DetectHeader recognizes a column header row: it names a date column and at
// least one money column, and none of its cells holds a date value. The
// returned layout fixes one role per column.
func (s *TableStrategy) DetectHeader(row []string) (*Layout, bool) {
	columns := make([]Role, len(row))
	hasDate, hasMoney := false, false
	names := make([]string, 0, len(row))

	for i, cell := range row {
		cell = strings.TrimSpace(cell)
		if _, found := s.dates.Find(cell); found {
			return nil, false
		}
		if _, isAmount := cellAmount(cell, s.space, false); isAmount {
			return nil, false
		}
		role, known := headerRole(cell)
		columns[i] = role
		if !known {
			continue
		}
		names = append(names, roleName(role))
		switch role {
		case RoleDate:
			if hasDate {
				// A second date column, such as value date, is not read.
				columns[i] = RoleIgnore
			}
			hasDate = true
		case RoleAmount, RoleDebit, RoleCredit:
			hasMoney = true
		}
	}
	if !hasDate || !hasMoney {
		return nil, false
	}
	return &Layout{Name: "header:" + strings.Join(names, "_"), Columns: columns}, true
}

func roleName(r Role) string {
	switch r {
	case RoleDate:
		return "date"
	case RoleAmount:
		return "amount"
	case RoleDebit:
		return "debit"
	case RoleCredit:
		return "credit"
	case RoleBalance:
		return "balance"
	case RoleIgnore:
		return "ignore"
	default:
		return "desc"
	}
}
