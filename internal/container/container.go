// Package container provides dependency injection for the statement analyzer.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"fmt"
	"time"

	"fjacquet/statement-analyzer/internal/analytics"
	"fjacquet/statement-analyzer/internal/api"
	"fjacquet/statement-analyzer/internal/batch"
	"fjacquet/statement-analyzer/internal/categorizer"
	"fjacquet/statement-analyzer/internal/config"
	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/metrics"
	"fjacquet/statement-analyzer/internal/parser"
	"fjacquet/statement-analyzer/internal/pipeline"
	"fjacquet/statement-analyzer/internal/report"
	"fjacquet/statement-analyzer/internal/statement"
	"fjacquet/statement-analyzer/internal/store"
)

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger       logging.Logger
	pdfExtractor parser.PDFExtractor
	encoding     string
	delimiter    rune
	transactions bool
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPDFExtractor replaces the pdftotext-based extractor.
func WithPDFExtractor(e parser.PDFExtractor) Option {
	return func(o *options) { o.pdfExtractor = e }
}

// WithEncoding sets the charset label used to decode text statements.
func WithEncoding(label string) Option {
	return func(o *options) { o.encoding = label }
}

// WithInputDelimiter sets the field delimiter of CSV statements.
func WithInputDelimiter(d rune) Option {
	return func(o *options) { o.delimiter = d }
}

// WithTransactions includes the categorized ledger in analysis envelopes.
func WithTransactions(include bool) Option {
	return func(o *options) { o.transactions = include }
}

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger      logging.Logger
	config      *config.Config
	store       *store.CategoryStore
	categorizer *categorizer.Chain
	pipeline    *pipeline.Pipeline
	engine      *analytics.Engine
	registry    *parser.Registry
	recorder    *metrics.PrometheusRecorder
	service     *statement.Service
	generator   *report.Generator
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	categoryStore := store.NewCategoryStore(cfg.Categories.File, logger)
	chain, err := categorizer.NewFromStore(categoryStore,
		categorizer.WithLogger(logger),
		categorizer.WithFuzzyDistance(cfg.Categories.FuzzyThreshold))
	if err != nil {
		return nil, fmt.Errorf("failed to build categorizer: %w", err)
	}

	p, err := pipeline.New(cfg.ExtractionOptions(), pipeline.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to build extraction pipeline: %w", err)
	}

	engine, err := analytics.NewEngine(cfg.AnalyticsOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to build analytics engine: %w", err)
	}

	registryOpts := []parser.RegistryOption{
		parser.WithEncoding(o.encoding),
		parser.WithCSVDelimiter(o.delimiter),
	}
	if o.pdfExtractor != nil {
		registryOpts = append(registryOpts, parser.WithPDFExtractor(o.pdfExtractor))
	}
	registry := parser.NewRegistry(logger, registryOpts...)

	recorder := metrics.NewPrometheusRecorder()
	svc, err := statement.NewService(p, chain, engine,
		statement.WithLogger(logger),
		statement.WithRecorder(recorder),
		statement.WithRegistry(registry),
		statement.WithCurrency(cfg.Output.Currency),
		statement.WithDateOrder(cfg.Extraction.DateOrder),
		statement.WithTransactions(o.transactions))
	if err != nil {
		return nil, err
	}

	logger.Info("Container initialized successfully",
		logging.F("rules_version", chain.Version()),
		logging.F(logging.FieldStrategy, chain.StrategyNames()),
		logging.F("date_order", cfg.Extraction.DateOrder))

	return &Container{
		logger:      logger,
		config:      cfg,
		store:       categoryStore,
		categorizer: chain,
		pipeline:    p,
		engine:      engine,
		registry:    registry,
		recorder:    recorder,
		service:     svc,
		generator:   report.NewGenerator(logger),
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Chain {
	return c.categorizer
}

// GetStore returns the container's category store instance.
func (c *Container) GetStore() *store.CategoryStore {
	return c.store
}

func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

func (c *Container) GetEngine() *analytics.Engine {
	return c.engine
}

func (c *Container) GetRegistry() *parser.Registry {
	return c.registry
}

func (c *Container) GetMetrics() *metrics.PrometheusRecorder {
	return c.recorder
}

func (c *Container) GetService() *statement.Service {
	return c.service
}

func (c *Container) GetGenerator() *report.Generator {
	return c.generator
}

// NewBatchProcessor builds a batch processor over the statement service.
// A non-positive worker count uses the configured one.
func (c *Container) NewBatchProcessor(workers int, asOf *time.Time) *batch.Processor {
	if workers <= 0 {
		workers = c.config.Batch.Workers
	}
	return batch.NewProcessor(c.service, workers, asOf, c.logger)
}

// NewAggregator builds a batch summary aggregator.
func (c *Container) NewAggregator() *batch.Aggregator {
	return batch.NewAggregator(c.logger)
}

// NewServer builds the HTTP server from the server configuration.
func (c *Container) NewServer() *api.Server {
	return api.NewServer(c.service, api.Options{
		BodyLimit:   c.config.Server.BodyLimit,
		RateLimit:   c.config.Server.RateLimit,
		ReadTimeout: time.Duration(c.config.Server.ReadTimeoutSeconds) * time.Second,
		Metrics:     c.recorder.Handler(),
		Logger:      c.logger,
	})
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Info("Container closed")
	return nil
}
