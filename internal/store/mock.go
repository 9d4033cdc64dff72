package store

import (
	"fjacquet/statement-analyzer/internal/models"
)

// MockCategoryStore is a mock rule source for testing.
type MockCategoryStore struct {
	Rules     *models.CategoriesConfig
	LoadError error
	Loads     int
}

// LoadRules returns the mock rules, or an empty rule set.
func (m *MockCategoryStore) LoadRules() (*models.CategoriesConfig, error) {
	m.Loads++
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.Rules == nil {
		return &models.CategoriesConfig{}, nil
	}
	return m.Rules, nil
}
