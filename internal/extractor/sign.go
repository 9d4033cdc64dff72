package extractor

import (
	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/textutils"
)

// Default keyword cues used to infer the sign of unmarked amounts.
var (
	DefaultCreditCues = []string{
		"salary", "deposit", "refund", "cashback", "interest",
		"payment received", "incoming",
		"зарплата", "пополнение", "возврат",
	}
	DefaultDebitCues = []string{
		"purchase", "fee", "withdrawal", "charge",
		"покупка", "комиссия", "снятие",
	}
)

// SignCues infers a direction from description keywords.
type SignCues struct {
	enabled bool
	credit  []string
	debit   []string
}

// NewSignCues builds the cue lists from opts, falling back to the defaults.
func NewSignCues(opts models.ExtractionOptions) *SignCues {
	c := &SignCues{
		enabled: opts.KeywordCues,
		credit:  DefaultCreditCues,
		debit:   DefaultDebitCues,
	}
	if len(opts.CreditKeywords) > 0 {
		c.credit = fold(opts.CreditKeywords)
	}
	if len(opts.DebitKeywords) > 0 {
		c.debit = fold(opts.DebitKeywords)
	}
	return c
}

// Infer returns the direction suggested by the description. It returns false
// when cues are disabled, when nothing matches, or when both credit and debit
// cues match.
func (c *SignCues) Infer(description string) (models.Direction, bool) {
	if !c.enabled {
		return "", false
	}
	folded := textutils.Fold(description)
	credit := textutils.ContainsAnyWord(folded, c.credit) != ""
	debit := textutils.ContainsAnyWord(folded, c.debit) != ""
	switch {
	case credit && !debit:
		return models.DirectionCredit, true
	case debit && !credit:
		return models.DirectionDebit, true
	default:
		return "", false
	}
}

func fold(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if f := textutils.Fold(w); f != "" {
			out = append(out, f)
		}
	}
	return out
}
