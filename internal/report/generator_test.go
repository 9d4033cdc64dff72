package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleEnvelope(currency string) *models.Envelope {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }
	pct := d("33.33")
	opening, closing := d("100"), d("2400")
	report := &models.Report{
		Count:       3,
		TotalEarned: d("2500"),
		TotalSpent:  d("200"),
		Net:         d("2300"),
		CategoryBreakdown: []models.CategoryTotal{
			{Category: "salary", Total: d("2500"), Income: d("2500"), Spending: decimal.Zero, Count: 1},
			{Category: "groceries", Total: d("-200"), Income: decimal.Zero, Spending: d("200"), Count: 2},
		},
		MonthlySummary: []models.PeriodSummary{
			{PeriodKey: "2024-01", Start: models.DateOf(2024, time.January, 1), Net: d("2300"), Count: 3},
		},
		Trends: []models.Trend{{PeriodKey: "2024-01", Net: d("2300"), DeltaPct: &pct, Status: models.TrendOK}},
		Anomalies: models.AnomalyReport{
			Status: models.AnomalyInsufficientSample, Method: models.AnomalyMedian,
			SampleSize: 3, MinSample: 5, Flags: []models.Anomaly{},
		},
		Insights: models.Insights{
			OpeningBalance: &opening,
			ClosingBalance: &closing,
			CreditLoad:     models.CreditLoad{Warning: models.CreditWarningLow},
			SafetyBuffer: models.SafetyBuffer{
				Months: d("12"), MonthlySpend: d("200"), Balance: &closing, Status: models.BufferSafe,
			},
			HealthScore: &models.HealthScore{Score: 95, Status: models.HealthExcellent, Factors: []models.HealthFactor{
				{Name: models.FactorExpenseRatio, Score: 30, Max: 30, Note: "expenses well below income"},
			}},
		},
	}
	stats := models.NewExtractionStats()
	stats.Pages = 1
	stats.Extracted = 3
	stats.RecordSkip("no_match")

	return models.NewEnvelope(models.Meta{
		Source:       "march.pdf",
		Currency:     currency,
		RulesVersion: "default-v1",
		DateOrder:    "dmy",
	}, report, &stats)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML, " text ": FormatText} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestGenerator_JSON(t *testing.T) {
	g := NewGenerator(logging.NewMockLogger())
	out, err := g.Generate(sampleEnvelope(""), FormatJSON)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	meta := decoded["meta"].(map[string]interface{})
	assert.Equal(t, "default-v1", meta["rules_version"])
	assert.NotEmpty(t, meta["id"])

	report := decoded["report"].(map[string]interface{})
	assert.Equal(t, float64(3), report["count"])
	assert.Equal(t, "2300", report["net"])
	extraction := decoded["extraction"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"no_match": float64(1)}, extraction["skipped_by_reason"])
}

func TestGenerator_YAML(t *testing.T) {
	out, err := NewGenerator(nil).Generate(sampleEnvelope(""), FormatYAML)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	assert.Contains(t, decoded, "meta")
	report := decoded["report"].(map[string]interface{})
	assert.Equal(t, 3, report["count"])
	assert.Contains(t, string(out), "2024-01-01")
}

func TestGenerator_Text(t *testing.T) {
	out, err := NewGenerator(nil).Generate(sampleEnvelope("USD"), FormatText)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "Statement report: march.pdf")
	assert.Contains(t, text, "$2,300.00")
	assert.Contains(t, text, "groceries")
	assert.Contains(t, text, "+33.33%")
	assert.Contains(t, text, "Not computed: 3 transactions, 5 needed")
	assert.Contains(t, text, "no_match: 1")
	assert.Contains(t, text, "Safety buffer: 12.0 months of spend, safe")
	assert.Contains(t, text, "Health score: 95/100, excellent")
	assert.Contains(t, text, "expense_ratio 30/30: expenses well below income")
	assert.NotContains(t, text, "Borrowed income")

	plain := RenderText(sampleEnvelope(""))
	assert.Contains(t, plain, "2300.00")
}

func TestGenerator_Errors(t *testing.T) {
	g := NewGenerator(nil)
	_, err := g.Generate(nil, FormatJSON)
	assert.Error(t, err)
	_, err = g.Generate(sampleEnvelope(""), Format("xml"))
	assert.Error(t, err)
}

func TestWriteTransactionsCSV(t *testing.T) {
	balance := decimal.RequireFromString("954.4")
	txs := []models.Transaction{
		{
			Seq: 0, Date: models.DateOf(2024, time.January, 5), Description: "Coffee; large",
			Amount: decimal.RequireFromString("-45.6"), Category: "restaurants",
			BalanceHint: &balance, Mode: models.ModeText, SignSource: models.SignExplicit,
			RawSource: "05.01.2024 Coffee; large -45.60 954.40",
		},
		{
			Seq: 1, Date: models.DateOf(2024, time.January, 6), Description: "Unknown",
			Amount: decimal.NewFromInt(100), Mode: models.ModeTable, SignSource: models.SignDefault,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactionsCSV(&buf, txs, ';'))

	r := csv.NewReader(strings.NewReader(buf.String()))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	header := records[0]
	assert.Equal(t, []string{"seq", "date", "description", "amount", "category", "balance", "page", "mode", "sign_source", "raw_source"}, header)
	assert.Equal(t, []string{"0", "2024-01-05", "Coffee; large", "-45.60", "restaurants", "954.40", "0", "text", "explicit", "05.01.2024 Coffee; large -45.60 954.40"}, records[1])
	assert.Equal(t, models.CategoryUncategorized, records[2][4])
	assert.Equal(t, "100.00", records[2][3])
	assert.Equal(t, "", records[2][5])

	assert.Error(t, WriteTransactionsCSV(&buf, nil, ','))
}
