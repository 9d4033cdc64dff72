// Package pipeline turns a page-unit document into an ordered ledger. Each
// page unit is read table-first: when its table rows yield no transaction,
// its raw text lines are classified and read in text mode instead. Rows and
// lines that fail are dropped and counted; only a structurally invalid
// document is an error.
package pipeline

import (
	"fmt"
	"strings"

	"fjacquet/statement-analyzer/internal/classifier"
	"fjacquet/statement-analyzer/internal/extractor"
	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/parsererror"
	"fjacquet/statement-analyzer/internal/textutils"
)

// Result is the outcome of one ExtractAll call.
type Result struct {
	Transactions []models.Transaction
	Stats        models.ExtractionStats
}

// Pipeline orchestrates classification, extraction and building. It holds
// only immutable configuration, so one Pipeline may serve many goroutines.
type Pipeline struct {
	opts       models.ExtractionOptions
	classifier *classifier.Classifier
	table      extractor.RowStrategy
	text       extractor.LineStrategy
	builder    *models.TransactionBuilder
	logger     logging.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) { p.logger = logging.OrNop(logger) }
}

// WithRowStrategy replaces the table-mode strategy.
func WithRowStrategy(s extractor.RowStrategy) Option {
	return func(p *Pipeline) { p.table = s }
}

// WithLineStrategy replaces the text-mode strategy.
func WithLineStrategy(s extractor.LineStrategy) Option {
	return func(p *Pipeline) { p.text = s }
}

// New creates a Pipeline. It fails when opts are invalid, most notably when
// no date order was configured.
func New(opts models.ExtractionOptions, options ...Option) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		opts:       opts,
		classifier: classifier.New(opts),
		table:      extractor.NewTableStrategy(opts),
		text:       extractor.NewTextStrategy(opts),
		builder:    models.NewTransactionBuilder(opts),
		logger:     logging.NewNopLogger(),
	}
	for _, o := range options {
		o(p)
	}
	return p, nil
}

// ExtractAll extracts every transaction of doc in document order. An empty
// document gives an empty result. The only error is
// *parsererror.InvalidFormatError.
func (p *Pipeline) ExtractAll(doc *models.Document) (*Result, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		Transactions: []models.Transaction{},
		Stats:        models.NewExtractionStats(),
	}
	pages := doc.Pages
	if p.opts.MaxPages > 0 && len(pages) > p.opts.MaxPages {
		p.logger.Warn("Document exceeds page limit, truncating",
			logging.F(logging.FieldSource, doc.Source),
			logging.F(logging.FieldCount, len(pages)),
			logging.F("max_pages", p.opts.MaxPages))
		pages = pages[:p.opts.MaxPages]
		res.Stats.Truncated = true
	}

	for _, page := range pages {
		txs, stats := p.extractPage(page)
		res.Stats.Merge(stats)
		res.Transactions = append(res.Transactions, txs...)
	}

	if p.opts.Deduplicate {
		res.Transactions, res.Stats.Duplicates = dedupe(res.Transactions)
	}
	for i := range res.Transactions {
		res.Transactions[i].Seq = i
	}
	res.Stats.Extracted = len(res.Transactions)

	p.logger.Info("Extraction completed",
		logging.F(logging.FieldSource, doc.Source),
		logging.F(logging.FieldCount, res.Stats.Extracted),
		logging.F(logging.FieldSkipped, res.Stats.Skipped),
		logging.F("pages", res.Stats.Pages),
		logging.F("fallback_pages", res.Stats.FallbackPages))
	return res, nil
}

// extractPage applies the table-first policy to one page unit. When the
// fallback runs, the row skips are dropped from the stats because the same
// content is read again from the text lines.
func (p *Pipeline) extractPage(page models.PageUnit) ([]models.Transaction, models.ExtractionStats) {
	stats := models.NewExtractionStats()
	stats.Pages = 1

	if page.HasTable() {
		stats.TablePages = 1
		tableStats := models.NewExtractionStats()
		txs := p.extractRows(page, &tableStats)
		stats.RowsSeen = tableStats.RowsSeen
		if len(txs) > 0 || len(page.Lines) == 0 {
			stats.Merge(tableStats)
			return txs, stats
		}
		stats.FallbackPages = 1
		p.logger.Debug("Table yielded no transactions, falling back to text",
			logging.F(logging.FieldPage, page.Index),
			logging.F(logging.FieldCount, len(page.Lines)))
	}

	return p.extractLines(page, &stats), stats
}

func (p *Pipeline) extractRows(page models.PageUnit, stats *models.ExtractionStats) []models.Transaction {
	var (
		out    []models.Transaction
		layout *extractor.Layout
	)
	for i, row := range page.Rows {
		stats.RowsSeen++
		if blankRow(row) {
			continue
		}
		if l, ok := p.table.DetectHeader(row); ok {
			layout = l
			p.logger.Debug("Header row fixes column layout",
				logging.F(logging.FieldPage, page.Index),
				logging.F(logging.FieldRow, i),
				logging.F(logging.FieldLayout, l.Name))
			continue
		}

		res, err := p.table.Extract(row, layout)
		if err != nil {
			p.skip(stats, page.Index, i, models.ModeTable, strings.Join(row, " | "), err)
			continue
		}
		res.Fields.Page = page.Index
		tx, err := p.builder.Build(res.Fields)
		if err != nil {
			p.skip(stats, page.Index, i, models.ModeTable, res.Fields.Raw, err)
			continue
		}
		out = append(out, tx)
	}
	return out
}

func (p *Pipeline) extractLines(page models.PageUnit, stats *models.ExtractionStats) []models.Transaction {
	var out []models.Transaction
	for i, line := range page.Lines {
		stats.LinesSeen++
		switch verdict := p.classifier.Classify(line); verdict {
		case classifier.Candidate:
		case classifier.RejectEmpty:
			continue
		default:
			stats.RecordSkip(models.SkipReasonRejected)
			p.logger.Debug("Line rejected by classifier",
				logging.F(logging.FieldPage, page.Index),
				logging.F(logging.FieldRow, i),
				logging.F(logging.FieldReason, string(verdict)))
			continue
		}
		stats.Candidates++

		res, err := p.text.Extract(line)
		if err != nil {
			p.skip(stats, page.Index, i, models.ModeText, line, err)
			continue
		}
		res.Fields.Page = page.Index
		tx, err := p.builder.Build(res.Fields)
		if err != nil {
			p.skip(stats, page.Index, i, models.ModeText, line, err)
			continue
		}
		out = append(out, tx)
	}
	return out
}

func (p *Pipeline) skip(stats *models.ExtractionStats, page, row int, mode models.ExtractionMode, raw string, err error) {
	reason := parsererror.Reason(err)
	stats.RecordSkip(reason)
	p.logger.Debug("Skipping unparseable input",
		logging.F(logging.FieldPage, page),
		logging.F(logging.FieldRow, row),
		logging.F(logging.FieldMode, string(mode)),
		logging.F(logging.FieldReason, reason),
		logging.F("raw", textutils.Truncate(raw, 120)),
		logging.F(logging.FieldError, err.Error()))
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// dedupe drops exact repeats of date, amount, description and raw source,
// keeping the first occurrence.
func dedupe(txs []models.Transaction) ([]models.Transaction, int) {
	seen := make(map[string]struct{}, len(txs))
	out := txs[:0]
	dropped := 0
	for _, tx := range txs {
		key := fmt.Sprintf("%s|%s|%s|%s", tx.Date, tx.Amount.String(), tx.Description, tx.RawSource)
		if _, ok := seen[key]; ok {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tx)
	}
	return out, dropped
}
