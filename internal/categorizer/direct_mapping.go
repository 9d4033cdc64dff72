package categorizer

import (
	"fjacquet/statement-analyzer/internal/textutils"
)

// DirectMappingStrategy categorizes by exact match of the whole folded
// description against a merchant table.
type DirectMappingStrategy struct {
	merchants map[string]string
}

// NewDirectMappingStrategy creates a DirectMappingStrategy. Keys are folded
// so that lookups ignore case and spacing.
func NewDirectMappingStrategy(merchants map[string]string) *DirectMappingStrategy {
	m := make(map[string]string, len(merchants))
	for key, category := range merchants {
		if folded := textutils.Fold(key); folded != "" && category != "" {
			m[folded] = category
		}
	}
	return &DirectMappingStrategy{merchants: m}
}

// Name returns the name of this strategy for logging and debugging.
func (s *DirectMappingStrategy) Name() string {
	return "DirectMapping"
}

// Match looks folded up in the merchant table.
func (s *DirectMappingStrategy) Match(folded string) (string, bool) {
	category, ok := s.merchants[folded]
	return category, ok
}

// Len reports the number of merchants.
func (s *DirectMappingStrategy) Len() int {
	return len(s.merchants)
}
