package extractor

import (
	"strings"

	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/parsererror"
	"fjacquet/statement-analyzer/internal/textutils"
)

// Text layouts reported in Result.Layout.
const (
	TextLayoutAmount        = "text_amount"
	TextLayoutAmountBalance = "text_amount_balance"
)

// TextStrategy extracts fields from a free-text line.
type TextStrategy struct {
	shared
}

// NewTextStrategy creates a TextStrategy.
func NewTextStrategy(opts models.ExtractionOptions) *TextStrategy {
	return &TextStrategy{shared: newShared(opts)}
}

// Name returns the strategy name.
func (s *TextStrategy) Name() string { return string(models.ModeText) }

// Extract finds the first date in accepted-format priority order, then the
// monetary tokens in the rest of the line. With one token it is the amount;
// with more, the second to last is the amount and the last is the running
// balance. What remains of the line is the description.
func (s *TextStrategy) Extract(line string) (Result, error) {
	match, ok := s.dates.Find(line)
	if !ok {
		return Result{}, &parsererror.NoMatchError{Mode: string(models.ModeText), Missing: "date", Raw: line}
	}
	masked := line[:match.Start] + strings.Repeat(" ", match.End-match.Start) + line[match.End:]

	var tokens []amountToken
	for _, tok := range scanAmounts(masked, s.space) {
		if tok.qualified() {
			tokens = append(tokens, tok)
		}
	}
	if len(tokens) == 0 {
		return Result{}, &parsererror.NoMatchError{Mode: string(models.ModeText), Missing: "amount", Raw: line}
	}

	amount := tokens[0]
	var balance *amountToken
	layout := TextLayoutAmount
	if len(tokens) >= 2 {
		amount = tokens[len(tokens)-2]
		balance = &tokens[len(tokens)-1]
		layout = TextLayoutAmountBalance
	}

	description := cut(masked, amount)
	if balance != nil {
		description = cut(description, *balance)
	}
	description = textutils.CollapseWhitespace(description)

	dir, source := s.resolveSign(amount, "", description)
	fields := models.Fields{
		DateStr:     match.Value,
		Description: description,
		AmountStr:   amount.Magnitude,
		Direction:   dir,
		SignSource:  source,
		Raw:         line,
		Mode:        models.ModeText,
	}
	if balance != nil {
		fields.BalanceStr = balance.signed()
	}
	return Result{Layout: layout, Fields: fields}, nil
}

// cut blanks a token's span, keeping byte offsets of the other tokens valid.
func cut(s string, tok amountToken) string {
	return s[:tok.Start] + strings.Repeat(" ", tok.End-tok.Start) + s[tok.End:]
}
