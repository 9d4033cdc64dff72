// Package classifier filters free-text statement lines down to the ones that
// may hold a transaction. It rejects page numbers, column headers, running
// totals and section titles. Rejection errs on the side of dropping a line:
// the pipeline's table-first strategy recovers most of what is lost here.
package classifier

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/textutils"
)

// Verdict is the outcome of classifying one line.
type Verdict string

const (
	Candidate     Verdict = "candidate"
	RejectEmpty   Verdict = "empty"
	RejectShort   Verdict = "too_short"
	RejectNoDigit Verdict = "no_digit"
	RejectPage    Verdict = "page_number"
	RejectHeader  Verdict = "header"
	RejectSummary Verdict = "summary"
)

var pageNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:page|p\.|pg\.?|стр\.?|страница|seite)\s*\d+\s*(?:of|/|из|von)\s*\d+$`),
	regexp.MustCompile(`^(?:page|стр\.?|страница|seite)\s*\d+$`),
	regexp.MustCompile(`^-\s*\d+\s*-$`),
	regexp.MustCompile(`^\d+\s*(?:/|of|из)\s*\d+$`),
}

// summaryPrefixes reject a line when it starts with one of them.
var summaryPrefixes = []string{
	"total",
	"subtotal",
	"sub-total",
	"grand total",
	"totals",
	"statement period",
	"statement date",
	"account number",
	"account no",
	"iban",
	"итого",
	"всего",
	"остаток",
	"период",
	"номер счета",
}

// summaryPhrases reject a line wherever they occur.
var summaryPhrases = []string{
	"opening balance",
	"closing balance",
	"balance brought forward",
	"balance carried forward",
	"brought forward",
	"carried forward",
	"входящий остаток",
	"исходящий остаток",
}

var headerWords = []string{
	"date", "posting date", "value date", "description", "details", "narrative",
	"amount", "debit", "credit", "balance", "withdrawal", "deposit", "reference",
	"дата", "описание", "сумма", "расход", "приход", "остаток", "операция",
}

var amountLike = regexp.MustCompile(`\d[.,]\d{2}\b`)

// Classifier decides whether a text line is a candidate transaction line.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	minLength int
}

// New creates a Classifier using the minimum line length from opts.
func New(opts models.ExtractionOptions) *Classifier {
	return &Classifier{minLength: opts.MinLineLength}
}

// IsCandidate reports whether line may hold a transaction.
func (c *Classifier) IsCandidate(line string) bool {
	return c.Classify(line) == Candidate
}

// Classify returns Candidate or the reason the line was rejected.
func (c *Classifier) Classify(line string) Verdict {
	clean := textutils.CollapseWhitespace(line)
	if clean == "" {
		return RejectEmpty
	}
	if utf8.RuneCountInString(clean) < c.minLength {
		return RejectShort
	}
	if strings.IndexFunc(clean, unicode.IsDigit) < 0 {
		return RejectNoDigit
	}

	folded := strings.ToLower(clean)
	for _, re := range pageNumberPatterns {
		if re.MatchString(folded) {
			return RejectPage
		}
	}
	for _, prefix := range summaryPrefixes {
		if startsWithWord(folded, prefix) {
			return RejectSummary
		}
	}
	for _, phrase := range summaryPhrases {
		if textutils.ContainsWord(folded, phrase) {
			return RejectSummary
		}
	}
	if isHeader(folded) {
		return RejectHeader
	}
	return Candidate
}

// isHeader treats a line naming two or more columns and carrying no amount as
// a repeated column header.
func isHeader(folded string) bool {
	if amountLike.MatchString(folded) {
		return false
	}
	hits := 0
	for _, w := range headerWords {
		if textutils.ContainsWord(folded, w) {
			hits++
		}
	}
	return hits >= 2
}

func startsWithWord(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	rest := s[len(word):]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
