package categorizer

import "fjacquet/statement-analyzer/internal/models"

// RuleStore supplies a category rule set. It allows dependency injection of
// file-backed or in-memory rules.
type RuleStore interface {
	LoadRules() (*models.CategoriesConfig, error)
}
