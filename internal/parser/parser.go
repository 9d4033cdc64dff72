// Package parser turns statement files into page-unit documents for the
// extraction pipeline. Each Source understands one physical format; none of
// them interprets transactions.
package parser

import (
	"context"
	"io"

	"fjacquet/statement-analyzer/internal/models"
)

// Source reads one physical document format.
type Source interface {
	// Parse materializes the whole document. Page indices are assigned in
	// reading order starting at zero.
	Parse(ctx context.Context, r io.Reader) (*models.Document, error)
	// Name identifies the source in logs and errors.
	Name() string
}
