package categorizer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/textutils"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// minFuzzyLength keeps short keywords such as "atm" out of fuzzy matching.
const minFuzzyLength = 5

type fuzzyTarget struct {
	text     string
	words    int
	category string
}

// FuzzyStrategy tolerates small misspellings of rule keywords and merchant
// names. A description window of the same word count matches a target when
// one is a subsequence of the other within maxDistance edits.
type FuzzyStrategy struct {
	targets     []fuzzyTarget
	maxDistance int
}

// NewFuzzyStrategy builds targets from rule keywords, in rule order, then
// merchant names in sorted order.
func NewFuzzyStrategy(cfg *models.CategoriesConfig, maxDistance int) *FuzzyStrategy {
	s := &FuzzyStrategy{maxDistance: maxDistance}
	add := func(text, category string) {
		text = textutils.Fold(text)
		if utf8.RuneCountInString(text) < minFuzzyLength {
			return
		}
		s.targets = append(s.targets, fuzzyTarget{
			text:     text,
			words:    len(strings.Fields(text)),
			category: category,
		})
	}

	for _, rule := range cfg.Categories {
		for _, kw := range rule.Keywords {
			add(kw, rule.Name)
		}
	}
	merchants := make([]string, 0, len(cfg.Merchants))
	for name := range cfg.Merchants {
		merchants = append(merchants, name)
	}
	sort.Strings(merchants)
	for _, name := range merchants {
		add(name, cfg.Merchants[name])
	}
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *FuzzyStrategy) Name() string {
	return "Fuzzy"
}

// Match returns the category of the closest target. Ties go to the earlier
// target.
func (s *FuzzyStrategy) Match(folded string) (string, bool) {
	if s.maxDistance <= 0 || len(s.targets) == 0 {
		return "", false
	}
	words := strings.Fields(folded)

	bestRank, bestCategory := s.maxDistance+1, ""
	for _, target := range s.targets {
		for start := 0; start+target.words <= len(words); start++ {
			window := strings.Join(words[start:start+target.words], " ")
			if abs(utf8.RuneCountInString(window)-utf8.RuneCountInString(target.text)) > s.maxDistance {
				continue
			}
			rank := fuzzy.RankMatch(target.text, window)
			if rank < 0 {
				rank = fuzzy.RankMatch(window, target.text)
			}
			if rank >= 0 && rank < bestRank {
				bestRank, bestCategory = rank, target.category
			}
		}
	}
	if bestCategory == "" {
		return "", false
	}
	return bestCategory, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
