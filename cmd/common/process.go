// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/pipeline"
	"fjacquet/statement-analyzer/internal/report"
)

// FileAnalyzer analyzes a statement file into a report envelope.
type FileAnalyzer interface {
	AnalyzeFile(ctx context.Context, path string, asOf *time.Time) (*models.Envelope, error)
}

// FileExtractor extracts the categorized ledger of a statement file.
type FileExtractor interface {
	ExtractFile(ctx context.Context, path string) (*pipeline.Result, error)
}

// ExtractOutput is the JSON shape written by the extract command.
type ExtractOutput struct {
	Source       string                 `json:"source"`
	Transactions []models.Transaction   `json:"transactions"`
	Extraction   models.ExtractionStats `json:"extraction"`
}

// ParseAsOf reads an optional YYYY-MM-DD cutoff date.
func ParseAsOf(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseISODate(raw)
	if err != nil {
		return nil, fmt.Errorf("--as-of: %w", err)
	}
	t := d.Time
	return &t, nil
}

// ResolveFormat picks the report format: an explicit flag wins, then the
// output file extension, then the configured default.
func ResolveFormat(flag, outputPath, fallback string) (report.Format, error) {
	if flag != "" {
		return report.ParseFormat(flag)
	}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".json":
		return report.FormatJSON, nil
	case ".yaml", ".yml":
		return report.FormatYAML, nil
	case ".txt", ".text":
		return report.FormatText, nil
	}
	if fallback == "" {
		return report.FormatJSON, nil
	}
	return report.ParseFormat(fallback)
}

// Extension returns the file extension used for a report format.
func Extension(f report.Format) string {
	if f == report.FormatText {
		return "txt"
	}
	return string(f)
}

// WriteOutput writes data to path, or to stdout when path is empty.
func WriteOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// AnalyzeFile runs the analysis of inputFile and writes the rendered report.
func AnalyzeFile(ctx context.Context, a FileAnalyzer, gen *report.Generator, inputFile, outputFile string, format report.Format, asOf *time.Time, log logging.Logger) error {
	log = logging.OrNop(log)
	env, err := a.AnalyzeFile(ctx, inputFile, asOf)
	if err != nil {
		return fmt.Errorf("error analyzing %s: %w", inputFile, err)
	}
	out, err := gen.Generate(env, format)
	if err != nil {
		return err
	}
	if err := WriteOutput(outputFile, out); err != nil {
		return err
	}
	log.Info("Analysis completed successfully",
		logging.F(logging.FieldInputFile, inputFile),
		logging.F(logging.FieldOutputFile, outputFile),
		logging.F(logging.FieldCount, env.Report.Count),
		logging.F(logging.FieldSkipped, env.Report.SkippedLines))
	return nil
}

// ExtractFile extracts the ledger of inputFile. A .json output gets the
// ledger with its extraction stats; anything else gets CSV.
func ExtractFile(ctx context.Context, ex FileExtractor, inputFile, outputFile string, delimiter rune, log logging.Logger) error {
	log = logging.OrNop(log)
	res, err := ex.ExtractFile(ctx, inputFile)
	if err != nil {
		return fmt.Errorf("error extracting %s: %w", inputFile, err)
	}

	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile) // #nosec G304 -- CLI tool requires user-provided output paths
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				log.WithError(cerr).Warn("Failed to close output file")
			}
		}()
		w = f
	}

	if strings.EqualFold(filepath.Ext(outputFile), ".json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(ExtractOutput{
			Source:       filepath.Base(inputFile),
			Transactions: res.Transactions,
			Extraction:   res.Stats,
		})
	} else {
		err = report.WriteTransactionsCSV(w, res.Transactions, delimiter)
	}
	if err != nil {
		return err
	}

	log.Info("Extraction completed successfully",
		logging.F(logging.FieldInputFile, inputFile),
		logging.F(logging.FieldOutputFile, outputFile),
		logging.F(logging.FieldCount, len(res.Transactions)),
		logging.F(logging.FieldSkipped, res.Stats.Skipped))
	return nil
}
