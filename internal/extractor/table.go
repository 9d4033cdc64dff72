package extractor

import (
	"strings"

	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/parsererror"
	"fjacquet/statement-analyzer/internal/textutils"
)

// Role is the meaning of a table column.
type Role int

const (
	RoleDescription Role = iota
	RoleDate
	RoleAmount
	RoleDebit
	RoleCredit
	RoleBalance
	RoleIgnore
)

// Layout maps row cells to roles. Positional layouts fix the roles of the
// first (Head) and last (Tail) cells and read every cell in between as
// description. Header layouts fix a role per column index.
type Layout struct {
	Name    string
	Head    []Role
	Tail    []Role
	Columns []Role
}

// Built-in layouts in the order they are tried. The first is the default.
var (
	LayoutDefault            = &Layout{Name: "date_desc_amount", Head: []Role{RoleDate}, Tail: []Role{RoleAmount}}
	LayoutBalance            = &Layout{Name: "date_desc_amount_balance", Head: []Role{RoleDate}, Tail: []Role{RoleAmount, RoleBalance}}
	LayoutDebitCredit        = &Layout{Name: "date_desc_debit_credit", Head: []Role{RoleDate}, Tail: []Role{RoleDebit, RoleCredit}}
	LayoutDebitCreditBalance = &Layout{Name: "date_desc_debit_credit_balance", Head: []Role{RoleDate}, Tail: []Role{RoleDebit, RoleCredit, RoleBalance}}
	LayoutDateAmountDesc     = &Layout{Name: "date_amount_desc", Head: []Role{RoleDate, RoleAmount}}
	LayoutDescDateAmount     = &Layout{Name: "desc_date_amount", Tail: []Role{RoleDate, RoleAmount}}

	builtinLayouts = []*Layout{
		LayoutDefault,
		LayoutBalance,
		LayoutDebitCredit,
		LayoutDebitCreditBalance,
		LayoutDateAmountDesc,
		LayoutDescDateAmount,
	}
)

// LayoutScan is reported when no positional layout fit and the row was
// scanned cell by cell.
const LayoutScan = "scan"

// roles assigns a role to every cell of a row of width n.
func (l *Layout) roles(n int) ([]Role, bool) {
	out := make([]Role, n)
	if l.Columns != nil {
		for i := range out {
			if i < len(l.Columns) {
				out[i] = l.Columns[i]
			} else {
				out[i] = RoleIgnore
			}
		}
		return out, true
	}
	if n < len(l.Head)+len(l.Tail) {
		return nil, false
	}
	copy(out, l.Head)
	copy(out[n-len(l.Tail):], l.Tail)
	return out, true
}

// TableStrategy extracts fields from table rows.
type TableStrategy struct {
	shared
}

// NewTableStrategy creates a TableStrategy.
func NewTableStrategy(opts models.ExtractionOptions) *TableStrategy {
	return &TableStrategy{shared: newShared(opts)}
}

// Name returns the strategy name.
func (s *TableStrategy) Name() string { return string(models.ModeTable) }

// Extract maps a row with the given layout, or with the built-in layouts
// followed by a cell scan when layout is nil. The default layout wins
// whenever it yields a date and an amount.
func (s *TableStrategy) Extract(row []string, layout *Layout) (Result, error) {
	cells := make([]string, len(row))
	for i, c := range row {
		cells[i] = strings.TrimSpace(c)
	}
	raw := strings.Join(cells, " | ")

	if layout != nil {
		if res, ok := s.apply(cells, layout, true); ok {
			res.Fields.Raw = raw
			return res, nil
		}
		return Result{}, s.noMatch(cells, raw)
	}

	for _, l := range builtinLayouts {
		if res, ok := s.apply(cells, l, false); ok {
			res.Fields.Raw = raw
			return res, nil
		}
	}
	if res, ok := s.scan(cells); ok {
		res.Fields.Raw = raw
		return res, nil
	}
	return Result{}, s.noMatch(cells, raw)
}

func (s *TableStrategy) noMatch(cells []string, raw string) error {
	missing := "amount"
	found := false
	for _, c := range cells {
		if _, err := s.dates.ParseOrFind(c); err == nil {
			found = true
			break
		}
	}
	if !found {
		missing = "date"
	}
	return &parsererror.NoMatchError{Mode: string(models.ModeTable), Missing: missing, Raw: raw}
}

// apply maps cells through a layout. Positional layouts require every
// description cell to be non-empty text rather than a stray amount, so that
// a wider row falls through to the layout that fits it. Header layouts are
// trusted as given.
func (s *TableStrategy) apply(cells []string, l *Layout, trusted bool) (Result, bool) {
	roles, ok := l.roles(len(cells))
	if !ok {
		return Result{}, false
	}

	var (
		dateStr  string
		desc     []string
		amount   *amountToken
		column   models.Direction
		balance  string
		debitTok *amountToken
		credTok  *amountToken
	)
	for i, role := range roles {
		cell := cells[i]
		switch role {
		case RoleDate:
			if _, err := s.dates.ParseOrFind(cell); err != nil {
				return Result{}, false
			}
			dateStr = cell
		case RoleAmount:
			tok, ok := cellAmount(cell, s.space, false)
			if !ok {
				return Result{}, false
			}
			amount = &tok
		case RoleDebit:
			if tok, ok := cellAmount(cell, s.space, false); ok && !isZero(tok.Magnitude) {
				debitTok = &tok
			} else if cell != "" && !ok {
				return Result{}, false
			}
		case RoleCredit:
			if tok, ok := cellAmount(cell, s.space, false); ok && !isZero(tok.Magnitude) {
				credTok = &tok
			} else if cell != "" && !ok {
				return Result{}, false
			}
		case RoleBalance:
			tok, ok := cellAmount(cell, s.space, false)
			if !ok {
				if !trusted {
					return Result{}, false
				}
				continue
			}
			balance = tok.signed()
		case RoleDescription:
			if !trusted {
				if cell == "" {
					return Result{}, false
				}
				if _, isAmount := cellAmount(cell, s.space, true); isAmount {
					return Result{}, false
				}
			}
			if cell != "" {
				desc = append(desc, cell)
			}
		}
	}

	switch {
	case debitTok != nil && credTok != nil:
		return Result{}, false
	case debitTok != nil:
		amount, column = debitTok, models.DirectionDebit
	case credTok != nil:
		amount, column = credTok, models.DirectionCredit
	}
	if dateStr == "" || amount == nil {
		return Result{}, false
	}

	description := textutils.CollapseWhitespace(strings.Join(desc, " "))
	dir, source := s.resolveSign(*amount, column, description)
	return Result{
		Layout: l.Name,
		Fields: models.Fields{
			DateStr:     dateStr,
			Description: description,
			AmountStr:   amount.Magnitude,
			Direction:   dir,
			SignSource:  source,
			BalanceStr:  balance,
			Mode:        models.ModeTable,
		},
	}, true
}

// scan takes the first cell holding a date, the rightmost amount cell as the
// amount and the next amount cell leftwards as the balance. Other cells form
// the description.
func (s *TableStrategy) scan(cells []string) (Result, bool) {
	dateIdx := -1
	for i, c := range cells {
		if _, _, err := s.dates.Parse(c); err == nil {
			dateIdx = i
			break
		}
	}
	if dateIdx < 0 {
		for i, c := range cells {
			if _, err := s.dates.ParseOrFind(c); err == nil {
				dateIdx = i
				break
			}
		}
	}
	if dateIdx < 0 {
		return Result{}, false
	}

	amountIdx, balanceIdx := -1, -1
	var amount, balance amountToken
	for i := len(cells) - 1; i >= 0; i-- {
		if i == dateIdx {
			continue
		}
		tok, ok := cellAmount(cells[i], s.space, false)
		if !ok {
			continue
		}
		if amountIdx < 0 {
			amountIdx, amount = i, tok
			continue
		}
		balanceIdx, balance = i, tok
		break
	}
	if amountIdx < 0 {
		return Result{}, false
	}

	var desc []string
	for i, c := range cells {
		if i == dateIdx || i == amountIdx || i == balanceIdx || c == "" {
			continue
		}
		if _, isAmount := cellAmount(c, s.space, true); isAmount {
			continue
		}
		desc = append(desc, c)
	}

	description := textutils.CollapseWhitespace(strings.Join(desc, " "))
	dir, source := s.resolveSign(amount, "", description)
	fields := models.Fields{
		DateStr:     cells[dateIdx],
		Description: description,
		AmountStr:   amount.Magnitude,
		Direction:   dir,
		SignSource:  source,
		Mode:        models.ModeTable,
	}
	if balanceIdx >= 0 {
		fields.BalanceStr = balance.signed()
	}
	return Result{Layout: LayoutScan, Fields: fields}, true
}
