// Package extractor locates the date, description and amount of a single
// statement row or line. Two strategies exist: TableStrategy maps table
// cells positionally, TextStrategy searches a free-text line. Both return a
// Result or a *parsererror.NoMatchError and never panic into the caller.
package extractor

import (
	"fjacquet/statement-analyzer/internal/dateutils"
	"fjacquet/statement-analyzer/internal/models"
)

// Result is a successful extraction.
type Result struct {
	Fields models.Fields
	// Layout names the column layout or text rule that matched.
	Layout string
}

// RowStrategy extracts fields from table rows.
type RowStrategy interface {
	Name() string
	// Extract maps a row. A nil layout tries the built-in layouts in order.
	Extract(row []string, layout *Layout) (Result, error)
	// DetectHeader reports whether row is a column header and, if so, the
	// layout it describes.
	DetectHeader(row []string) (*Layout, bool)
}

// LineStrategy extracts fields from free-text lines.
type LineStrategy interface {
	Name() string
	Extract(line string) (Result, error)
}

// shared holds what both strategies need.
type shared struct {
	dates *dateutils.Parser
	cues  *SignCues
	space bool
}

func newShared(opts models.ExtractionOptions) shared {
	return shared{
		dates: dateutils.NewParser(opts.DateOrder, opts.MinYear, opts.MaxYear),
		cues:  NewSignCues(opts),
		space: opts.SpaceThousands,
	}
}

// resolveSign applies the sign priority: explicit sign, then marker, then
// keyword cue, then default debit.
func (s shared) resolveSign(tok amountToken, column models.Direction, description string) (models.Direction, models.SignSource) {
	switch {
	case tok.Sign < 0:
		return models.DirectionDebit, models.SignExplicit
	case tok.Sign > 0:
		return models.DirectionCredit, models.SignExplicit
	case tok.Marker != "":
		return tok.Marker, models.SignMarker
	case column != "":
		return column, models.SignMarker
	}
	if dir, ok := s.cues.Infer(description); ok {
		return dir, models.SignKeyword
	}
	return models.DirectionDebit, models.SignDefault
}
