package categorizer

import (
	"fmt"
	"regexp"

	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/textutils"

	"github.com/cloudflare/ahocorasick"
)

// term is one keyword or stem of a rule.
type term struct {
	rule   int
	text   string
	prefix bool
}

type compiledRule struct {
	name     string
	patterns []*regexp.Regexp
}

// KeywordStrategy evaluates ordered category rules. All keywords and stems
// of all rules are located in one Aho-Corasick pass; hits are then checked
// for word boundaries and the earliest matching rule wins.
type KeywordStrategy struct {
	rules   []compiledRule
	matcher *ahocorasick.Matcher
	// entries is index-aligned with the matcher dictionary. Several rules
	// may share one dictionary entry.
	entries [][]term
}

// NewKeywordStrategy compiles the rules of cfg.
func NewKeywordStrategy(rules []models.CategoryRule) (*KeywordStrategy, error) {
	s := &KeywordStrategy{rules: make([]compiledRule, len(rules))}
	index := map[string]int{}
	var dict [][]byte

	add := func(t term) {
		if t.text == "" {
			return
		}
		i, ok := index[t.text]
		if !ok {
			i = len(dict)
			index[t.text] = i
			dict = append(dict, []byte(t.text))
			s.entries = append(s.entries, nil)
		}
		s.entries[i] = append(s.entries[i], t)
	}

	for i, rule := range rules {
		s.rules[i].name = rule.Name
		for _, kw := range rule.Keywords {
			add(term{rule: i, text: textutils.Fold(kw)})
		}
		for _, stem := range rule.Stems {
			add(term{rule: i, text: textutils.Fold(stem), prefix: true})
		}
		for _, p := range rule.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("category %s: invalid pattern %q: %w", rule.Name, p, err)
			}
			s.rules[i].patterns = append(s.rules[i].patterns, re)
		}
	}
	if len(dict) > 0 {
		s.matcher = ahocorasick.NewMatcher(dict)
	}
	return s, nil
}

// Name returns the name of this strategy for logging and debugging.
func (s *KeywordStrategy) Name() string {
	return "Keyword"
}

// Match returns the first rule, in rule order, with a keyword, stem or
// pattern present in folded.
func (s *KeywordStrategy) Match(folded string) (string, bool) {
	best := len(s.rules)
	if s.matcher != nil {
		for _, hit := range s.matcher.Match([]byte(folded)) {
			for _, t := range s.entries[hit] {
				if t.rule >= best {
					continue
				}
				if t.prefix && textutils.ContainsWordPrefix(folded, t.text) ||
					!t.prefix && textutils.ContainsWord(folded, t.text) {
					best = t.rule
				}
			}
		}
	}

	for i := 0; i < best; i++ {
		for _, re := range s.rules[i].patterns {
			if re.MatchString(folded) {
				return s.rules[i].name, true
			}
		}
	}
	if best < len(s.rules) {
		return s.rules[best].name, true
	}
	return "", false
}

// Len reports the number of rules.
func (s *KeywordStrategy) Len() int {
	return len(s.rules)
}
