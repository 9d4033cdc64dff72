package parser

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// CSVSource reads a bank CSV export as a single page unit of table rows.
// Each row is also kept as a text line for the text fallback.
type CSVSource struct {
	BaseSource
	Delimiter rune
}

// NewCSVSource creates a CSVSource. A zero delimiter means comma.
func NewCSVSource(logger logging.Logger, delimiter rune) *CSVSource {
	if delimiter == 0 {
		delimiter = ','
	}
	return &CSVSource{BaseSource: NewBaseSource(logger), Delimiter: delimiter}
}

// Name implements Source.
func (s *CSVSource) Name() string { return "csv" }

// Parse implements Source.
func (s *CSVSource) Parse(ctx context.Context, r io.Reader) (*models.Document, error) {
	if err := checkContext(ctx, s.Name()); err != nil {
		return nil, err
	}

	reader := gocsv.LazyCSVReader(r)
	if cr, ok := reader.(*csv.Reader); ok {
		cr.Comma = s.Delimiter
		cr.FieldsPerRecord = -1
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: failed to read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, record)
	}

	doc := &models.Document{Pages: []models.PageUnit{}}
	if len(rows) > 0 {
		doc.Pages = append(doc.Pages, models.PageUnit{Index: 0, Rows: rows, Lines: linesFromRows(rows)})
	}
	s.loaded(s.Name(), doc)
	return doc, nil
}

// XLSXSource reads a spreadsheet export. Every sheet becomes one page unit
// named after the sheet.
type XLSXSource struct {
	BaseSource
}

// NewXLSXSource creates an XLSXSource.
func NewXLSXSource(logger logging.Logger) *XLSXSource {
	return &XLSXSource{BaseSource: NewBaseSource(logger)}
}

// Name implements Source.
func (s *XLSXSource) Name() string { return "xlsx" }

// Parse implements Source.
func (s *XLSXSource) Parse(ctx context.Context, r io.Reader) (*models.Document, error) {
	if err := checkContext(ctx, s.Name()); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, invalidFormat(s.Name(), "XLSX workbook", err.Error(), nil)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.GetLogger().Warn("Failed to close workbook", logging.F(logging.FieldError, err.Error()))
		}
	}()

	doc := &models.Document{Pages: []models.PageUnit{}}
	for i, sheet := range f.GetSheetList() {
		if err := checkContext(ctx, s.Name()); err != nil {
			return nil, err
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("xlsx: failed to read sheet %s: %w", sheet, err)
		}
		doc.Pages = append(doc.Pages, models.PageUnit{
			Index:   i,
			Section: sheet,
			Rows:    rows,
			Lines:   linesFromRows(rows),
		})
	}
	s.loaded(s.Name(), doc)
	return doc, nil
}
