// Package statement runs the full flow for one document: load, extract,
// categorize, analyze and wrap the report in an envelope.
package statement

import (
	"context"
	"fmt"
	"time"

	"fjacquet/statement-analyzer/internal/analytics"
	"fjacquet/statement-analyzer/internal/categorizer"
	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/metrics"
	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/parser"
	"fjacquet/statement-analyzer/internal/pipeline"
)

// Extractor is the extraction capability the service needs.
type Extractor interface {
	ExtractAll(doc *models.Document) (*pipeline.Result, error)
}

// versioned is implemented by categorizers that know their rule set version.
type versioned interface {
	Version() string
}

// Service wires the core components together. It holds no per-call state.
type Service struct {
	extractor   Extractor
	categorizer categorizer.Categorizer
	engine      *analytics.Engine
	registry    *parser.Registry
	recorder    metrics.Recorder
	logger      logging.Logger

	dateOrder           string
	currency            string
	includeTransactions bool
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) { s.recorder = metrics.OrNop(r) }
}

// WithRegistry sets the document source registry used by the *File methods.
func WithRegistry(r *parser.Registry) Option {
	return func(s *Service) { s.registry = r }
}

// WithCurrency sets the display currency recorded in envelopes.
func WithCurrency(code string) Option {
	return func(s *Service) { s.currency = code }
}

// WithDateOrder records the configured date order in envelopes.
func WithDateOrder(order string) Option {
	return func(s *Service) { s.dateOrder = order }
}

// WithTransactions includes the categorized ledger in envelopes.
func WithTransactions(include bool) Option {
	return func(s *Service) { s.includeTransactions = include }
}

// NewService creates a Service. All three core components are required.
func NewService(ex Extractor, cat categorizer.Categorizer, engine *analytics.Engine, opts ...Option) (*Service, error) {
	if ex == nil || cat == nil || engine == nil {
		return nil, fmt.Errorf("statement service requires an extractor, a categorizer and an analytics engine")
	}
	s := &Service{
		extractor:   ex,
		categorizer: cat,
		engine:      engine,
		recorder:    metrics.NopRecorder{},
		logger:      logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(s)
	}
	if s.registry == nil {
		s.registry = parser.NewRegistry(s.logger)
	}
	return s, nil
}

// RulesVersion reports the categorizer rule set version, when known.
func (s *Service) RulesVersion() string {
	if v, ok := s.categorizer.(versioned); ok {
		return v.Version()
	}
	return ""
}

// Categorize exposes the configured categorizer.
func (s *Service) Categorize(description string) string {
	return s.categorizer.Categorize(description)
}

// Extract runs the pipeline and categorizes the resulting ledger.
func (s *Service) Extract(doc *models.Document) (*pipeline.Result, error) {
	source := sourceName(doc)
	res, err := s.extractor.ExtractAll(doc)
	if err != nil {
		s.recorder.RecordDocument(source, metrics.StatusFailed)
		return nil, err
	}
	s.recorder.RecordExtraction(res.Stats)
	s.recorder.RecordDocument(source, metrics.StatusSuccess)
	res.Transactions = categorizer.Apply(s.categorizer, res.Transactions)
	return res, nil
}

// Analyze extracts, categorizes and analyzes doc. asOf, when set, excludes
// later transactions from the report.
func (s *Service) Analyze(doc *models.Document, asOf *time.Time) (*models.Envelope, error) {
	res, err := s.Extract(doc)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report := s.engine.Analyze(res.Transactions, asOf)
	elapsed := time.Since(start)
	s.recorder.RecordAnalysis(elapsed, len(report.Anomalies.Flags))

	report.SkippedLines = res.Stats.Skipped
	if len(res.Stats.SkippedByReason) > 0 {
		report.SkippedByReason = make(map[string]int, len(res.Stats.SkippedByReason))
		for k, v := range res.Stats.SkippedByReason {
			report.SkippedByReason[k] = v
		}
	}

	stats := res.Stats
	env := models.NewEnvelope(models.Meta{
		Source:       sourceName(doc),
		Currency:     s.currency,
		RulesVersion: s.RulesVersion(),
		DateOrder:    s.dateOrder,
	}, report, &stats)
	if s.includeTransactions {
		env.Transactions = res.Transactions
	}

	s.logger.Info("Statement analyzed",
		logging.F(logging.FieldSource, env.Meta.Source),
		logging.F(logging.FieldCount, report.Count),
		logging.F(logging.FieldSkipped, report.SkippedLines),
		logging.F(logging.FieldDuration, elapsed.Milliseconds()))
	return env, nil
}

// ExtractFile loads a statement file and extracts its categorized ledger.
func (s *Service) ExtractFile(ctx context.Context, path string) (*pipeline.Result, error) {
	doc, err := s.registry.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.Extract(doc)
}

// AnalyzeFile loads a statement file and analyzes it.
func (s *Service) AnalyzeFile(ctx context.Context, path string, asOf *time.Time) (*models.Envelope, error) {
	doc, err := s.registry.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return s.Analyze(doc, asOf)
}

func sourceName(doc *models.Document) string {
	if doc == nil || doc.Source == "" {
		return "document"
	}
	return doc.Source
}
