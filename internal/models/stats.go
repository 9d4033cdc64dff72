package models

// ExtractionStats describes the coverage of one pipeline run so callers can
// audit what was dropped.
type ExtractionStats struct {
	Pages           int            `json:"pages" yaml:"pages"`
	TablePages      int            `json:"table_pages" yaml:"table_pages"`
	FallbackPages   int            `json:"fallback_pages" yaml:"fallback_pages"`
	RowsSeen        int            `json:"rows_seen" yaml:"rows_seen"`
	LinesSeen       int            `json:"lines_seen" yaml:"lines_seen"`
	Candidates      int            `json:"candidates" yaml:"candidates"`
	Extracted       int            `json:"extracted" yaml:"extracted"`
	Skipped         int            `json:"skipped" yaml:"skipped"`
	SkippedByReason map[string]int `json:"skipped_by_reason" yaml:"skipped_by_reason"`
	Duplicates      int            `json:"duplicates" yaml:"duplicates"`
	Truncated       bool           `json:"truncated" yaml:"truncated"`
}

// NewExtractionStats returns stats with an initialized reason map.
func NewExtractionStats() ExtractionStats {
	return ExtractionStats{SkippedByReason: map[string]int{}}
}

// RecordSkip counts one dropped row or line.
func (s *ExtractionStats) RecordSkip(reason string) {
	if s.SkippedByReason == nil {
		s.SkippedByReason = map[string]int{}
	}
	s.Skipped++
	s.SkippedByReason[reason]++
}

// Merge adds other into s.
func (s *ExtractionStats) Merge(other ExtractionStats) {
	s.Pages += other.Pages
	s.TablePages += other.TablePages
	s.FallbackPages += other.FallbackPages
	s.RowsSeen += other.RowsSeen
	s.LinesSeen += other.LinesSeen
	s.Candidates += other.Candidates
	s.Extracted += other.Extracted
	s.Duplicates += other.Duplicates
	s.Truncated = s.Truncated || other.Truncated
	for reason, n := range other.SkippedByReason {
		if s.SkippedByReason == nil {
			s.SkippedByReason = map[string]int{}
		}
		s.SkippedByReason[reason] += n
	}
	s.Skipped += other.Skipped
}
