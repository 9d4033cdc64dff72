package parser

import (
	"context"
	"fmt"
	"strings"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/parsererror"
)

// BaseSource provides the logger plumbing shared by every Source.
//
// Sources embed it:
//
//	type MySource struct {
//		BaseSource
//	}
type BaseSource struct {
	logger logging.Logger
}

// NewBaseSource creates a BaseSource. A nil logger discards output.
func NewBaseSource(logger logging.Logger) BaseSource {
	return BaseSource{logger: logging.OrNop(logger)}
}

// SetLogger replaces the logger. Nil is ignored.
func (b *BaseSource) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// GetLogger returns the current logger.
func (b *BaseSource) GetLogger() logging.Logger {
	return logging.OrNop(b.logger)
}

// loaded logs a one-line summary of a materialized document.
func (b *BaseSource) loaded(name string, doc *models.Document) {
	rows, lines := 0, 0
	for _, p := range doc.Pages {
		rows += len(p.Rows)
		lines += len(p.Lines)
	}
	b.GetLogger().Debug("Document loaded",
		logging.F(logging.FieldSource, name),
		logging.F(logging.FieldPage, len(doc.Pages)),
		logging.F("rows", rows),
		logging.F("lines", lines))
}

func invalidFormat(source, expected, msg string, content []byte) error {
	snippet := strings.TrimSpace(string(content))
	if len(snippet) > 40 {
		snippet = snippet[:40]
	}
	return &parsererror.InvalidFormatError{
		FilePath:             source,
		ExpectedFormat:       expected,
		ActualContentSnippet: snippet,
		Msg:                  msg,
	}
}

func checkContext(ctx context.Context, source string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", source, err)
	}
	return nil
}

// joinCells renders a table row as a text line so that the text fallback
// can still read a grid whose columns the table strategy did not recognize.
func joinCells(row []string) string {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return strings.Join(cells, "  ")
}

func linesFromRows(rows [][]string) []string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, joinCells(r))
	}
	return lines
}
