package analytics

import (
	"sort"

	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/textutils"

	"github.com/shopspring/decimal"
)

// defaultCreditMarkers are stems that mark a loan or installment payment.
var defaultCreditMarkers = []string{
	"credit", "loan", "installment", "repayment",
	"кредит", "рассрочк", "погашен", "займ",
}

// defaultInflowMarkers mark incoming loan proceeds. "credit" alone is left
// out since banks use it for any incoming transfer.
var defaultInflowMarkers = []string{"loan", "кредит", "займ"}

const maxMoneyLeaks = 10

var (
	creditHighPercent   = decimal.NewFromInt(40)
	creditMediumPercent = decimal.NewFromInt(25)
)

func creditMarkers(custom, defaults []string) []string {
	if len(custom) == 0 {
		return defaults
	}
	out := make([]string, 0, len(custom))
	for _, m := range custom {
		if f := textutils.Fold(m); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (e *Engine) insights(txs []models.Transaction, r *models.Report) models.Insights {
	in := models.Insights{
		BalanceMismatches: []models.BalanceMismatch{},
		DailyNet:          dailyNet(txs),
		TopSpend:          topSpend(txs, e.opts.TopSpendCount),
		MoneyLeaks:        e.moneyLeaks(txs),
		CreditLoad:        e.creditLoad(txs, r.TotalEarned, r.TotalSpent),
	}
	in.OpeningBalance, in.ClosingBalance, in.BalanceMismatches = balanceHints(txs)

	var covered decimal.Decimal
	in.SafetyBuffer, covered = safetyBuffer(in.ClosingBalance, r.TotalSpent, len(r.MonthlySummary))
	if len(txs) > 0 {
		in.HealthScore = healthScore(r, in, covered)
	}
	return in
}

// balanceHints derives opening and closing balances from the running
// balances printed on statement lines, and reports consecutive lines whose
// balances do not add up. It is a consistency check only.
func balanceHints(txs []models.Transaction) (opening, closing *decimal.Decimal, mismatches []models.BalanceMismatch) {
	mismatches = []models.BalanceMismatch{}
	var prev *decimal.Decimal
	for _, tx := range txs {
		hint := tx.BalanceHint
		if hint == nil {
			prev = nil
			continue
		}
		if opening == nil {
			o := hint.Sub(tx.Amount)
			opening = &o
		}
		if prev != nil {
			expected := prev.Add(tx.Amount)
			if !expected.Equal(*hint) {
				mismatches = append(mismatches, models.BalanceMismatch{Seq: tx.Seq, Expected: expected, Reported: *hint})
			}
		}
		c := *hint
		closing = &c
		prev = &c
	}
	return opening, closing, mismatches
}

func dailyNet(txs []models.Transaction) []models.DailyNet {
	index := map[string]int{}
	out := []models.DailyNet{}
	for _, tx := range txs {
		key := tx.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, models.DailyNet{Date: tx.Date})
		}
		out[i].Net = out[i].Net.Add(tx.Amount)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func topSpend(txs []models.Transaction, n int) []models.TransactionRef {
	debits := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.IsDebit() {
			debits = append(debits, tx)
		}
	}
	sort.SliceStable(debits, func(i, j int) bool {
		if c := debits[i].AbsAmount().Cmp(debits[j].AbsAmount()); c != 0 {
			return c > 0
		}
		return debits[i].Seq < debits[j].Seq
	})
	if len(debits) > n {
		debits = debits[:n]
	}
	out := make([]models.TransactionRef, len(debits))
	for i, tx := range debits {
		out[i] = tx.Ref()
	}
	return out
}

type payeeTotal struct {
	description string
	count       int
	total       decimal.Decimal
}

// groupDebits sums the magnitude of debits by description, in first-seen
// order.
func groupDebits(txs []models.Transaction, keep func(models.Transaction) bool) []payeeTotal {
	index := map[string]int{}
	var out []payeeTotal
	for _, tx := range txs {
		if !tx.IsDebit() || !keep(tx) {
			continue
		}
		i, ok := index[tx.Description]
		if !ok {
			i = len(out)
			index[tx.Description] = i
			out = append(out, payeeTotal{description: tx.Description})
		}
		out[i].count++
		out[i].total = out[i].total.Add(tx.AbsAmount())
	}
	return out
}

// moneyLeaks finds small debits that recur often enough to add up.
func (e *Engine) moneyLeaks(txs []models.Transaction) []models.MoneyLeak {
	groups := groupDebits(txs, func(tx models.Transaction) bool {
		return tx.AbsAmount().LessThanOrEqual(e.opts.LeakMaxAmount)
	})

	out := []models.MoneyLeak{}
	for _, g := range groups {
		if g.count < e.opts.LeakMinCount || g.total.LessThan(e.opts.LeakMinTotal) {
			continue
		}
		out = append(out, models.MoneyLeak{
			Description: g.description,
			Count:       g.count,
			Total:       g.total,
			Average:     g.total.DivRound(decimal.NewFromInt(int64(g.count)), 2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Description < out[j].Description
	})
	if len(out) > maxMoneyLeaks {
		out = out[:maxMoneyLeaks]
	}
	return out
}

func matchesAny(tx models.Transaction, markers []string) bool {
	folded := textutils.Fold(tx.Description)
	for _, m := range markers {
		if textutils.ContainsWordPrefix(folded, m) {
			return true
		}
	}
	return false
}

// creditLoad measures the share of spend that goes to loan repayments and
// the share of income that is borrowed.
func (e *Engine) creditLoad(txs []models.Transaction, earned, spent decimal.Decimal) models.CreditLoad {
	load := models.CreditLoad{RecurringPayees: []models.RecurringPayee{}, Warning: models.CreditWarningLow}
	groups := groupDebits(txs, func(tx models.Transaction) bool {
		return matchesAny(tx, e.creditMarkers)
	})
	for _, g := range groups {
		load.Total = load.Total.Add(g.total)
		load.Count += g.count
		if g.count >= 2 {
			load.RecurringPayees = append(load.RecurringPayees, models.RecurringPayee{
				Description: g.description,
				Count:       g.count,
				Average:     g.total.DivRound(decimal.NewFromInt(int64(g.count)), 2),
			})
		}
	}
	sort.SliceStable(load.RecurringPayees, func(i, j int) bool {
		pi, pj := load.RecurringPayees[i], load.RecurringPayees[j]
		if pi.Count != pj.Count {
			return pi.Count > pj.Count
		}
		return pi.Description < pj.Description
	})

	if spent.IsPositive() {
		load.PercentOfSpend = load.Total.Div(spent).Mul(hundred).Round(2)
	}
	switch {
	case load.PercentOfSpend.GreaterThan(creditHighPercent):
		load.Warning = models.CreditWarningHigh
	case load.PercentOfSpend.GreaterThan(creditMediumPercent):
		load.Warning = models.CreditWarningMedium
	}

	for _, tx := range txs {
		if tx.Amount.IsPositive() && matchesAny(tx, e.inflowMarkers) {
			load.Inflows = load.Inflows.Add(tx.Amount)
			load.InflowCount++
		}
	}
	load.RealIncome = earned.Sub(load.Inflows)
	if earned.IsPositive() {
		load.DependencyPercent = load.Inflows.Div(earned).Mul(hundred).Round(2)
	}
	return load
}
