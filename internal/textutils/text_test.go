package textutils_test

import (
	"testing"

	"fjacquet/statement-analyzer/internal/textutils"

	"github.com/stretchr/testify/assert"
)

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"inner runs", "Grocery   Store \t Purchase", "Grocery Store Purchase"},
		{"edges", "  Coffee  ", "Coffee"},
		{"nbsp", "Rent\u00a0\u00a0March", "Rent March"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textutils.CollapseWhitespace(tt.input))
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	// Full-width letters fold to ASCII under NFKC.
	assert.Equal(t, "ATM Fee", textutils.NormalizeDescription("ＡＴＭ  Fee"))
	assert.Equal(t, "atm fee", textutils.Fold(" ＡＴＭ Fee "))
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		word     string
		expected bool
	}{
		{"whole word", "salary deposit march", "deposit", true},
		{"inside word", "prefee charged", "fee", false},
		{"at end", "monthly fee", "fee", true},
		{"punctuation boundary", "refund: order 12", "refund", true},
		{"phrase", "payment received from acme", "payment received", true},
		{"cyrillic", "зарплата за март", "зарплата", true},
		{"cyrillic inside word", "подзарплата", "зарплата", false},
		{"second occurrence", "feeder fee", "fee", true},
		{"empty word", "anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, textutils.ContainsWord(tt.text, tt.word))
		})
	}
}

func TestContainsWordPrefix(t *testing.T) {
	assert.True(t, textutils.ContainsWordPrefix("оплата рассрочки", "рассрочк"))
	assert.False(t, textutils.ContainsWordPrefix("беспроцентнаярассрочка", "рассрочк"))
	assert.Equal(t, "loan", textutils.ContainsAnyWord("car loan payment", []string{"credit", "loan"}))
	assert.Equal(t, "", textutils.ContainsAnyWord("groceries", []string{"credit", "loan"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", textutils.Truncate("abc", 5))
	assert.Equal(t, "ab...", textutils.Truncate("abcdef", 2))
	assert.Equal(t, "кр...", textutils.Truncate("кредит", 2))
}
