// Package categorizer maps transaction descriptions to categories. A Chain
// tries its strategies in order:
// 1. Direct merchant mapping on the whole description
// 2. Ordered keyword, stem and pattern rules
// 3. Fuzzy matching of rule keywords and merchants, when enabled
//
// Categorization is a pure function of the description. A Chain is built
// once and is safe for concurrent use.
package categorizer

import (
	"fmt"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/textutils"
)

// Categorizer assigns a category to a description. It never fails; unknown
// descriptions map to models.CategoryUncategorized.
type Categorizer interface {
	Categorize(description string) string
}

// Func adapts a plain function to the Categorizer interface.
type Func func(description string) string

// Categorize calls f.
func (f Func) Categorize(description string) string { return f(description) }

// Chain runs strategies in order and returns the first match.
type Chain struct {
	strategies []Strategy
	version    string
	logger     logging.Logger
}

// Option customizes a Chain.
type Option func(*chainConfig)

type chainConfig struct {
	logger        logging.Logger
	fuzzyDistance int
}

// WithLogger sets the logger used for per-match debug output.
func WithLogger(logger logging.Logger) Option {
	return func(c *chainConfig) { c.logger = logger }
}

// WithFuzzyDistance enables the fuzzy fallback with the given maximum edit
// distance. Zero disables it.
func WithFuzzyDistance(n int) Option {
	return func(c *chainConfig) { c.fuzzyDistance = n }
}

// New builds a Chain from a rule set.
func New(cfg *models.CategoriesConfig, opts ...Option) (*Chain, error) {
	if cfg == nil {
		return nil, fmt.Errorf("category rules are nil")
	}
	cc := chainConfig{}
	for _, o := range opts {
		o(&cc)
	}

	keywords, err := NewKeywordStrategy(cfg.Categories)
	if err != nil {
		return nil, err
	}
	strategies := []Strategy{NewDirectMappingStrategy(cfg.Merchants), keywords}
	if cc.fuzzyDistance > 0 {
		strategies = append(strategies, NewFuzzyStrategy(cfg, cc.fuzzyDistance))
	}

	return &Chain{
		strategies: strategies,
		version:    cfg.Version,
		logger:     logging.OrNop(cc.logger),
	}, nil
}

// NewFromStore loads the rules from store and builds a Chain.
func NewFromStore(store RuleStore, opts ...Option) (*Chain, error) {
	cfg, err := store.LoadRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load category rules: %w", err)
	}
	return New(cfg, opts...)
}

// Categorize returns the category of description, or
// models.CategoryUncategorized when no strategy matches.
func (c *Chain) Categorize(description string) string {
	folded := textutils.Fold(description)
	if folded == "" {
		return models.CategoryUncategorized
	}
	for _, s := range c.strategies {
		if category, ok := s.Match(folded); ok {
			c.logger.Debug("Description categorized",
				logging.F(logging.FieldStrategy, s.Name()),
				logging.F(logging.FieldCategory, category))
			return category
		}
	}
	return models.CategoryUncategorized
}

// Version returns the version of the rule set.
func (c *Chain) Version() string {
	return c.version
}

// StrategyNames lists the strategies in evaluation order.
func (c *Chain) StrategyNames() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Apply returns a copy of txs with every category set by c. The input is
// not modified.
func Apply(c Categorizer, txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	for i := range out {
		out[i].SetCategory(c.Categorize(out[i].Description))
	}
	return out
}
