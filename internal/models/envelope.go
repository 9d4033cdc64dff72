package models

import (
	"time"

	"github.com/google/uuid"
)

// Meta identifies one run. It is kept out of Report so analytics stays
// deterministic.
type Meta struct {
	ID           string    `json:"id" yaml:"id"`
	Source       string    `json:"source" yaml:"source"`
	GeneratedAt  time.Time `json:"generated_at" yaml:"generated_at"`
	Currency     string    `json:"currency,omitempty" yaml:"currency,omitempty"`
	RulesVersion string    `json:"rules_version" yaml:"rules_version"`
	DateOrder    string    `json:"date_order" yaml:"date_order"`
}

// Envelope wraps a report with its run metadata and extraction coverage.
type Envelope struct {
	Meta         Meta             `json:"meta" yaml:"meta"`
	Extraction   *ExtractionStats `json:"extraction,omitempty" yaml:"extraction,omitempty"`
	Report       *Report          `json:"report" yaml:"report"`
	Transactions []Transaction    `json:"transactions,omitempty" yaml:"transactions,omitempty"`
}

// NewEnvelope stamps meta with a fresh ID and the current time when they are
// unset.
func NewEnvelope(meta Meta, report *Report, stats *ExtractionStats) *Envelope {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now().UTC()
	}
	return &Envelope{Meta: meta, Report: report, Extraction: stats}
}
