// Package currencyutils parses statement amount strings into decimals and
// renders amounts for display.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// CurrencySymbols lists the symbols stripped from amounts. Codes are handled
// by currencyCodes.
const CurrencySymbols = `€$£¥₣₤₧₹₺₽₩฿₫₲₴₸₼₪`

var (
	symbolRe      = regexp.MustCompile(`[` + CurrencySymbols + `]`)
	currencyCodes = regexp.MustCompile(`(?i)\b(?:USD|EUR|GBP|CHF|KZT|RUB|JPY|CNY|TRY|UAH|PLN|CAD|AUD)\b|(?i)тг\.?|(?i)руб\.?`)
	groupSepRe    = regexp.MustCompile(`[\s\x{00A0}\x{202F}'’]`)
	threeDigits   = regexp.MustCompile(`^\d{3}$`)
	leadingGroup  = regexp.MustCompile(`^[1-9]\d{0,2}$`)
)

// ParseAmount parses an amount string into a decimal. It handles US and
// European separators, apostrophe and space grouping, currency symbols and
// codes, leading or trailing minus signs and accounting parentheses.
// An empty string parses to zero.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	if strings.TrimSpace(amountStr) == "" {
		return decimal.Zero, nil
	}

	standardized := StandardizeAmount(amountStr)
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// StandardizeAmount converts an amount string to a form accepted by
// decimal.NewFromString. "CHF 1'234.56" becomes "1234.56", "(1.234,56 €)"
// becomes "-1234.56".
func StandardizeAmount(amountStr string) string {
	s := strings.TrimSpace(amountStr)
	s = currencyCodes.ReplaceAllString(s, "")
	s = symbolRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "−", "-")
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	switch {
	case strings.HasPrefix(s, "-"):
		negative = !negative
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	case strings.HasSuffix(s, "-"):
		negative = !negative
		s = s[:len(s)-1]
	}

	s = groupSepRe.ReplaceAllString(s, "")
	s = normalizeSeparators(s)

	if negative && s != "" {
		return "-" + s
	}
	return s
}

// normalizeSeparators resolves "," and "." into a single decimal point.
// When both appear the later one is the decimal separator. When only one kind
// appears, it is a thousands separator only if every group after it has
// exactly three digits and it either repeats or follows a leading group of
// one to three digits without a leading zero. "1.234" and "1,234" are both
// 1234; "0.125" and "12.50" keep their decimals.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		return resolveSingle(s, ",")
	case lastDot >= 0:
		return resolveSingle(s, ".")
	default:
		return s
	}
}

func resolveSingle(s, sep string) string {
	parts := strings.Split(s, sep)
	if len(parts) == 2 {
		if leadingGroup.MatchString(parts[0]) && threeDigits.MatchString(parts[1]) {
			return parts[0] + parts[1]
		}
		return parts[0] + "." + parts[1]
	}
	for _, p := range parts[1:] {
		if !threeDigits.MatchString(p) {
			// Malformed grouping such as "123.45.67" is left for the
			// decimal parser to reject.
			return s
		}
	}
	return strings.Join(parts, "")
}

// FormatAmount renders an amount for display. Known ISO currency codes use
// the currency's symbol and grouping; anything else falls back to two
// decimals followed by the code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code != "" {
		if c := money.GetCurrency(code); c != nil {
			minor := amount.Shift(int32(c.Fraction)).Round(0).IntPart()
			return money.New(minor, code).Display()
		}
		return amount.StringFixed(2) + " " + code
	}
	return amount.StringFixed(2)
}
