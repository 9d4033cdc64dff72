package parser

import (
	"testing"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestNewBaseSource(t *testing.T) {
	t.Run("with provided logger", func(t *testing.T) {
		mockLog := logging.NewMockLogger()
		base := NewBaseSource(mockLog)
		assert.Equal(t, mockLog, base.GetLogger())
	})

	t.Run("with nil logger uses nop", func(t *testing.T) {
		base := NewBaseSource(nil)
		assert.NotNil(t, base.GetLogger())
		assert.NotPanics(t, func() { base.GetLogger().Info("ignored") })
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var base BaseSource
		assert.NotNil(t, base.GetLogger())
	})
}

func TestBaseSource_SetLogger(t *testing.T) {
	mockLog := logging.NewMockLogger()
	base := NewBaseSource(nil)

	base.SetLogger(mockLog)
	assert.Equal(t, mockLog, base.GetLogger())

	base.SetLogger(nil)
	assert.Equal(t, mockLog, base.GetLogger())
}

func TestBaseSource_LoadedSummary(t *testing.T) {
	mockLog := logging.NewMockLogger()
	base := NewBaseSource(mockLog)

	base.loaded("csv", &models.Document{Pages: []models.PageUnit{
		{Index: 0, Rows: [][]string{{"a"}, {"b"}}, Lines: []string{"a", "b"}},
		{Index: 1, Lines: []string{"c"}},
	}})

	entries := mockLog.GetEntriesByLevel("DEBUG")
	if assert.Len(t, entries, 1) {
		pages, _ := entries[0].FieldValue(logging.FieldPage)
		rows, _ := entries[0].FieldValue("rows")
		lines, _ := entries[0].FieldValue("lines")
		assert.Equal(t, 2, pages)
		assert.Equal(t, 2, rows)
		assert.Equal(t, 3, lines)
	}
}

func TestJoinCells(t *testing.T) {
	assert.Equal(t, "05.01.2024  Coffee  -4.50", joinCells([]string{" 05.01.2024", "", "Coffee ", "-4.50"}))
	assert.Equal(t, "", joinCells(nil))
}
