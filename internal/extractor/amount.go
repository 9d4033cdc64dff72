package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"fjacquet/statement-analyzer/internal/models"
)

const (
	currencySymbolClass = `[€$£¥₽₸₹₺₴₩₪]`
	currencyCodeAlt     = `USD|EUR|GBP|CHF|KZT|RUB|JPY|CNY|TRY|UAH|PLN|CAD|AUD|тг|руб`
)

func amountPattern(groupSeps string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` +
		`(?P<pre>[-+−]\s?|\()?\s*` +
		`(?P<cur1>` + currencySymbolClass + `|(?:` + currencyCodeAlt + `)\s)?\s*` +
		`(?P<num>\d{1,3}(?:[` + groupSeps + `]\d{3})+(?:[.,]\d{1,2})?|\d+(?:[.,]\d{1,2})?)` +
		`(?P<post>-|\))?` +
		`(?:\s*(?P<cur2>` + currencySymbolClass + `|(?:` + currencyCodeAlt + `)\.?))?` +
		`(?:\s*(?P<mark>CR|DR)\b)?`)
}

var (
	amountWithSpaces = amountPattern(`,.'’ \x{00A0}\x{202F}`)
	amountNoSpaces   = amountPattern(`,.'’`)
)

// amountToken is a monetary value located in text.
type amountToken struct {
	Text      string
	Magnitude string
	// Sign is -1 or +1 when written explicitly, 0 otherwise.
	Sign        int
	Marker      models.Direction
	HasCurrency bool
	HasFraction bool
	Start       int
	End         int
}

// qualified reports whether the token is clearly money rather than a bare
// number such as a reference or a quantity.
func (t amountToken) qualified() bool {
	return t.HasFraction || t.Sign != 0 || t.HasCurrency || t.Marker != ""
}

// signed returns the magnitude with a leading minus when the token is
// negative by sign or DR marker.
func (t amountToken) signed() string {
	if t.Sign < 0 || (t.Sign == 0 && t.Marker == models.DirectionDebit) {
		return "-" + t.Magnitude
	}
	return t.Magnitude
}

func scanAmounts(text string, spaceThousands bool) []amountToken {
	re := amountNoSpaces
	if spaceThousands {
		re = amountWithSpaces
	}
	names := re.SubexpNames()

	var tokens []amountToken
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		group := func(name string) (string, int, int) {
			for i, n := range names {
				if n == name && loc[2*i] >= 0 {
					return text[loc[2*i]:loc[2*i+1]], loc[2*i], loc[2*i+1]
				}
			}
			return "", -1, -1
		}

		num, numStart, numEnd := group("num")
		if num == "" || !bounded(text, numStart, numEnd) {
			continue
		}
		pre, preStart, _ := group("pre")
		post, _, postEnd := group("post")
		// A hyphen joining two numbers, as in "1234-5678", is not a sign.
		if pre != "" && pre != "(" && preStart > 0 {
			if r, _ := utf8.DecodeLastRuneInString(text[:preStart]); unicode.IsLetter(r) || unicode.IsDigit(r) {
				pre = ""
			}
		}
		if post == "-" && postEnd < len(text) {
			if r, _ := utf8.DecodeRuneInString(text[postEnd:]); unicode.IsDigit(r) {
				post = ""
			}
		}
		cur1, _, _ := group("cur1")
		cur2, _, _ := group("cur2")
		mark, _, _ := group("mark")

		tok := amountToken{
			Text:        strings.TrimSpace(text[loc[0]:loc[1]]),
			Magnitude:   num,
			HasCurrency: cur1 != "" || cur2 != "",
			HasFraction: hasFraction(num),
			Start:       loc[0],
			End:         loc[1],
		}
		pre = strings.TrimSpace(pre)
		switch {
		case pre == "(" && post == ")":
			tok.Sign = -1
		case pre == "-" || pre == "−" || post == "-":
			tok.Sign = -1
		case pre == "+":
			tok.Sign = 1
		}
		switch strings.ToUpper(mark) {
		case "CR":
			tok.Marker = models.DirectionCredit
		case "DR":
			tok.Marker = models.DirectionDebit
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// bounded rejects numbers glued to letters or digits, as in "ABC123".
func bounded(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func hasFraction(num string) bool {
	i := strings.LastIndexAny(num, ".,")
	if i < 0 {
		return false
	}
	digits := len(num) - i - 1
	return digits == 1 || digits == 2
}

// cellAmount reads a table cell that must hold a single amount and nothing
// else but currency and sign decorations. Strict cells also require the
// amount to look like money.
func cellAmount(cell string, spaceThousands, strict bool) (amountToken, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return amountToken{}, false
	}
	tokens := scanAmounts(cell, spaceThousands)
	if len(tokens) != 1 {
		return amountToken{}, false
	}
	tok := tokens[0]
	rest := cell[:tok.Start] + cell[tok.End:]
	if strings.IndexFunc(rest, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0 {
		return amountToken{}, false
	}
	if strict && !tok.qualified() {
		return amountToken{}, false
	}
	return tok, true
}

// isZero reports whether a magnitude holds only zeros.
func isZero(magnitude string) bool {
	return strings.IndexFunc(magnitude, func(r rune) bool { return r >= '1' && r <= '9' }) < 0
}
