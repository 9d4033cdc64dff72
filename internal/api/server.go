// Package api exposes statement analysis over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/pipeline"
	"fjacquet/statement-analyzer/internal/report"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Analyzer is the statement service used by the handlers.
type Analyzer interface {
	Analyze(doc *models.Document, asOf *time.Time) (*models.Envelope, error)
	Extract(doc *models.Document) (*pipeline.Result, error)
}

// Options configures a Server.
type Options struct {
	// BodyLimit uses echo's size syntax, e.g. "1M". Empty means 1M.
	BodyLimit string
	// RateLimit is the sustained requests per second per client. Zero
	// disables rate limiting.
	RateLimit float64
	Burst     int

	ReadTimeout time.Duration

	// Metrics is served on GET /metrics when set.
	Metrics http.Handler
	Logger  logging.Logger
}

// Server wraps an echo instance with the statement routes.
type Server struct {
	echo      *echo.Echo
	analyzer  Analyzer
	generator *report.Generator
	logger    logging.Logger
	opts      Options
}

// NewServer creates a Server and registers its routes.
func NewServer(analyzer Analyzer, opts Options) *Server {
	logger := logging.OrNop(opts.Logger)
	if opts.BodyLimit == "" {
		opts.BodyLimit = "1M"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = errorHandler(logger)
	e.Server.ReadTimeout = opts.ReadTimeout

	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(opts.BodyLimit))
	if opts.RateLimit > 0 {
		e.Use(NewRateLimiter(opts.RateLimit, opts.Burst).Middleware())
	}

	s := &Server{
		echo:      e,
		analyzer:  analyzer,
		generator: report.NewGenerator(logger),
		logger:    logger,
		opts:      opts,
	}

	e.GET("/health", s.health)
	v1 := e.Group("/v1")
	v1.POST("/analyze", s.analyze)
	v1.POST("/extract", s.extract)
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics))
	}
	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("HTTP server listening", logging.F("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
