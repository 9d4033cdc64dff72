package store

import (
	"os"
	"path/filepath"
	"testing"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0600)
	require.NoError(t, err)
}

func TestDefaultRules(t *testing.T) {
	cfg, err := DefaultRules()
	require.NoError(t, err)
	assert.Equal(t, DefaultRulesVersion, cfg.Version)

	names := make([]string, 0, len(cfg.Categories))
	for _, c := range cfg.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"transfers", "cash_withdrawal", "salary", "fees", "taxes", "utilities",
		"groceries", "restaurants", "transport", "fuel", "health", "shopping",
		"subscriptions", "education",
	}, names)
}

func TestLoadRules_EmptyFileNameUsesDefaults(t *testing.T) {
	s := NewCategoryStore("", nil)
	cfg, err := s.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, DefaultRulesVersion, cfg.Version)
}

func TestLoadRules_FromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "rules.yaml")
	writeFile(t, file, `version: custom-1
categories:
  - name: pets
    keywords: [vet, petshop]
merchants:
  acme corp: office
`)
	logger := logging.NewMockLogger()
	s := NewCategoryStore(file, logger)

	cfg, err := s.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, "custom-1", cfg.Version)
	require.Len(t, cfg.Categories, 1)
	assert.Equal(t, "pets", cfg.Categories[0].Name)
	assert.Equal(t, "office", cfg.Merchants["acme corp"])
	assert.True(t, logger.HasEntry("DEBUG", "Loaded category rules"))
}

func TestLoadRules_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"malformed yaml", `{malformed: yaml: content}`, "error parsing"},
		{"empty rule set", "version: x\n", "no categories"},
		{"missing name", "categories:\n  - keywords: [a]\n", "Name"},
		{"bad pattern", "categories:\n  - name: broken\n    patterns: ['(unclosed']\n", "invalid pattern"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file := filepath.Join(dir, "rules"+string(rune('a'+i))+".yaml")
			writeFile(t, file, tt.content)
			_, err := NewCategoryStore(file, nil).LoadRules()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	_, err := NewCategoryStore(filepath.Join(dir, "missing.yaml"), nil).LoadRules()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveRules_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "rules.yaml")
	s := NewCategoryStore(path, nil)

	cfg := &models.CategoriesConfig{
		Version:    "v2",
		Categories: []models.CategoryRule{{Name: "pets", Keywords: []string{"vet"}}},
	}
	require.NoError(t, s.SaveRules(path, cfg))

	loaded, err := s.LoadRules()
	require.NoError(t, err)
	assert.Equal(t, cfg.Version, loaded.Version)
	assert.Equal(t, cfg.Categories, loaded.Categories)
}

func TestMockCategoryStore(t *testing.T) {
	m := &MockCategoryStore{}
	cfg, err := m.LoadRules()
	require.NoError(t, err)
	assert.Empty(t, cfg.Categories)
	assert.Equal(t, 1, m.Loads)

	m.LoadError = os.ErrPermission
	_, err = m.LoadRules()
	assert.ErrorIs(t, err, os.ErrPermission)
}
