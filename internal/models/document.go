package models

import (
	"fmt"

	"fjacquet/statement-analyzer/internal/parsererror"
)

// Document is the fully materialized content of one statement: an ordered
// sequence of page units produced by a layout decoder.
type Document struct {
	Source string     `json:"source,omitempty" yaml:"source,omitempty"`
	Pages  []PageUnit `json:"pages" yaml:"pages" validate:"dive"`
}

// PageUnit is one page or section. Rows holds table cells when the decoder
// found a table; Lines holds the raw text lines of the same page.
type PageUnit struct {
	Index   int        `json:"index" yaml:"index" validate:"gte=0"`
	Section string     `json:"section,omitempty" yaml:"section,omitempty"`
	Rows    [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
	Lines   []string   `json:"lines,omitempty" yaml:"lines,omitempty"`
}

// HasTable reports whether the page unit carries at least one table row.
func (p PageUnit) HasTable() bool {
	return len(p.Rows) > 0
}

// IsEmpty reports whether the document has no page units.
func (d *Document) IsEmpty() bool {
	return d == nil || len(d.Pages) == 0
}

// Validate checks the structure of the page sequence: indices must be
// non-negative and must not decrease. Several units may share an index when
// a page is split into sections.
func (d *Document) Validate() error {
	source := "document"
	if d != nil && d.Source != "" {
		source = d.Source
	}
	if d == nil {
		return &parsererror.InvalidFormatError{
			FilePath:       source,
			ExpectedFormat: "page-unit sequence",
			Msg:            "document is nil",
		}
	}

	prev := -1
	for i, p := range d.Pages {
		if p.Index < 0 {
			return &parsererror.InvalidFormatError{
				FilePath:       source,
				ExpectedFormat: "non-negative page indices",
				Msg:            fmt.Sprintf("page unit %d has index %d", i, p.Index),
			}
		}
		if p.Index < prev {
			return &parsererror.InvalidFormatError{
				FilePath:       source,
				ExpectedFormat: "non-decreasing page indices",
				Msg:            fmt.Sprintf("page %d follows page %d", p.Index, prev),
			}
		}
		prev = p.Index
	}
	return nil
}
