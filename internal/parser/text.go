package parser

import (
	"context"
	"fmt"
	"io"
	"strings"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"golang.org/x/net/html/charset"
)

// TextSource reads plain-text statements, such as pdftotext output. Pages
// are separated by form feeds.
type TextSource struct {
	BaseSource
	// Encoding is an optional charset label like "windows-1251". Empty
	// means UTF-8.
	Encoding string
}

// NewTextSource creates a TextSource.
func NewTextSource(logger logging.Logger, encoding string) *TextSource {
	return &TextSource{BaseSource: NewBaseSource(logger), Encoding: encoding}
}

// Name implements Source.
func (s *TextSource) Name() string { return "text" }

// Parse implements Source.
func (s *TextSource) Parse(ctx context.Context, r io.Reader) (*models.Document, error) {
	if err := checkContext(ctx, s.Name()); err != nil {
		return nil, err
	}
	if s.Encoding != "" {
		decoded, err := charset.NewReaderLabel(s.Encoding, r)
		if err != nil {
			return nil, fmt.Errorf("text: unsupported encoding %q: %w", s.Encoding, err)
		}
		r = decoded
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read input: %w", err)
	}
	doc := SplitPages(string(data))
	s.loaded(s.Name(), doc)
	return doc, nil
}

// SplitPages splits text on form feeds into page units of lines. A trailing
// form feed does not open an empty page.
func SplitPages(text string) *models.Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")
	if strings.TrimSpace(text) == "" {
		return &models.Document{Pages: []models.PageUnit{}}
	}

	raw := strings.Split(text, "\f")
	if len(raw) > 1 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}

	doc := &models.Document{Pages: make([]models.PageUnit, 0, len(raw))}
	for i, page := range raw {
		page = strings.TrimSuffix(page, "\n")
		var lines []string
		if page != "" {
			lines = strings.Split(page, "\n")
		}
		for j, l := range lines {
			lines[j] = strings.TrimRight(l, "\r")
		}
		doc.Pages = append(doc.Pages, models.PageUnit{Index: i, Lines: lines})
	}
	return doc
}
