package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/parser"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is used when a Processor is created with a non-positive
// worker count.
const DefaultWorkers = 4

// FileAnalyzer analyzes one statement file.
type FileAnalyzer interface {
	AnalyzeFile(ctx context.Context, path string, asOf *time.Time) (*models.Envelope, error)
}

// Processor analyzes files concurrently with a bounded number of workers.
type Processor struct {
	analyzer FileAnalyzer
	workers  int
	asOf     *time.Time
	logger   logging.Logger
}

// NewProcessor creates a Processor. asOf is passed through to every file.
func NewProcessor(analyzer FileAnalyzer, workers int, asOf *time.Time, logger logging.Logger) *Processor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Processor{
		analyzer: analyzer,
		workers:  workers,
		asOf:     asOf,
		logger:   logging.OrNop(logger),
	}
}

// ProcessFiles analyzes every path and returns one result per path, in input
// order. A failing file is reported in its result and does not stop the
// others. Cancelling ctx marks the files not yet started as failed.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) []FileResult {
	results := make([]FileResult, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(p.workers)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = p.processOne(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	p.logger.Info("Batch processing completed",
		logging.F(logging.FieldCount, len(paths)),
		logging.F("failed", failed),
		logging.F(logging.FieldWorkers, p.workers))
	return results
}

func (p *Processor) processOne(ctx context.Context, path string) FileResult {
	start := time.Now()
	res := FileResult{Path: path}
	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("batch cancelled before %s: %w", filepath.Base(path), err)
		return res
	}

	env, err := p.analyzer.AnalyzeFile(ctx, path, p.asOf)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = err
		p.logger.WithError(err).Warn("Failed to analyze file",
			logging.F(logging.FieldFile, path))
		return res
	}
	res.Envelope = env
	p.logger.Debug("File analyzed",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldDuration, res.Duration.Milliseconds()))
	return res
}

// CollectFiles lists the supported statement files directly inside dir,
// sorted by name.
func CollectFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !parser.IsSupported(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
