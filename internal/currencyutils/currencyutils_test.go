package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{"plain", "45.67", "45.67", false},
		{"leading minus", "-45.67", "-45.67", false},
		{"unicode minus", "−12.50", "-12.5", false},
		{"leading plus", "+120000.00", "120000", false},
		{"trailing minus", "45.67-", "-45.67", false},
		{"parentheses", "(1,234.56)", "-1234.56", false},
		{"us grouping", "1,234.56", "1234.56", false},
		{"european grouping", "1.234,56", "1234.56", false},
		{"european decimal only", "45,67", "45.67", false},
		{"comma thousands", "1,234", "1234", false},
		{"dot thousands", "1.234", "1234", false},
		{"negative dot thousands", "-12.500", "-12500", false},
		{"leading zero keeps decimals", "0.125", "0.125", false},
		{"comma leading zero keeps decimals", "0,125", "0.125", false},
		{"four digit lead keeps decimals", "1234.567", "1234.567", false},
		{"two decimals", "12.50", "12.5", false},
		{"space thousands", "16 313,00", "16313", false},
		{"nbsp thousands", "1 234,50", "1234.5", false},
		{"apostrophe thousands", "CHF 1'234.56", "1234.56", false},
		{"repeated dot groups", "1.234.567", "1234567", false},
		{"symbol prefix", "$99.99", "99.99", false},
		{"symbol suffix with parens", "(1.234,56 €)", "-1234.56", false},
		{"tenge suffix", "5 000,00 тг", "5000", false},
		{"empty", "", "0", false},
		{"malformed groups", "123.45.67", "", true},
		{"letters", "abc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestStandardizeAmount(t *testing.T) {
	assert.Equal(t, "-1234.56", StandardizeAmount("(1.234,56 €)"))
	assert.Equal(t, "1234.56", StandardizeAmount("CHF 1'234.56"))
	assert.Equal(t, "-45.67", StandardizeAmount(" - 45.67 "))
	assert.Equal(t, "", StandardizeAmount("  "))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatAmount(decimal.RequireFromString("1234.56"), "usd"))
	assert.Equal(t, "-$45.67", FormatAmount(decimal.RequireFromString("-45.67"), "USD"))
	assert.Equal(t, "12.30 XYZ", FormatAmount(decimal.RequireFromString("12.3"), "XYZ"))
	assert.Equal(t, "12.30", FormatAmount(decimal.RequireFromString("12.3"), ""))
}
