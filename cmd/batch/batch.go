// Package batch handles batch processing of files
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/statement-analyzer/cmd/common"
	"fjacquet/statement-analyzer/cmd/root"
	"fjacquet/statement-analyzer/internal/batch"
	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/report"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SummaryBaseName is the file name, without extension, of the merged summary.
const SummaryBaseName = "batch_summary"

var (
	workers int
	asOf    string
	format  string
)

// Cmd represents the batch command
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Batch analyze statements from a directory",
	Long: `Batch analyze every supported statement in an input directory and write
one report per file to another directory, plus a merged summary.

Files are analyzed concurrently. A file that fails is listed in the summary
and does not stop the others.

Example:
  statement-analyzer batch -i statements/ -o reports/ --workers 8 --date-order dmy`,
	RunE: batchFunc,
}

func init() {
	Cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of files analyzed concurrently (default: from config)")
	Cmd.Flags().StringVar(&asOf, "as-of", "", "Ignore transactions dated after this day (YYYY-MM-DD)")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Report format: json, yaml or text (default: from config)")

	// Override the usage text for the input/output flags in batch context
	Cmd.SetUsageTemplate(`Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags (for batch, -i/-o refer to directories):
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`)
}

func batchFunc(cmd *cobra.Command, args []string) error {
	inputDir := root.SharedFlags.Input
	outputDir := root.SharedFlags.Output
	if inputDir == "" || outputDir == "" {
		return fmt.Errorf("input and output directories must be specified")
	}
	cutoff, err := common.ParseAsOf(asOf)
	if err != nil {
		return err
	}

	c, err := root.NewContainer(nil)
	if err != nil {
		return err
	}
	f, err := common.ResolveFormat(format, "", c.GetConfig().Output.Format)
	if err != nil {
		return err
	}

	files, err := batch.CollectFiles(inputDir)
	if err != nil {
		return err
	}
	logger := c.GetLogger()
	if len(files) == 0 {
		logger.Warn("No supported files found in input directory",
			logging.F(logging.FieldFile, inputDir))
		return nil
	}

	summary, err := Run(cmd.Context(), c.NewBatchProcessor(workers, cutoff), c.NewAggregator(),
		c.GetGenerator(), files, outputDir, f, logger)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Batch processing completed. %d of %d files analyzed.", summary.Succeeded, summary.Files))
	return nil
}

// Run analyzes files, writes one report per successful file into outputDir
// and writes the merged summary next to them.
func Run(ctx context.Context, p *batch.Processor, agg *batch.Aggregator, gen *report.Generator, files []string, outputDir string, f report.Format, logger logging.Logger) (batch.Summary, error) {
	logger = logging.OrNop(logger)
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return batch.Summary{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	results := p.ProcessFiles(ctx, files)
	for i := range results {
		res := &results[i]
		if res.Err != nil {
			continue
		}
		out, err := gen.Generate(res.Envelope, f)
		if err == nil {
			name := batch.OutputFilename(res.Path, batch.ReportRange(res.Envelope.Report), common.Extension(f))
			err = common.WriteOutput(filepath.Join(outputDir, name), out)
		}
		if err != nil {
			logger.WithError(err).Error("Failed to write report",
				logging.F(logging.FieldFile, res.Path))
			res.Envelope, res.Err = nil, err
		}
	}

	summary := agg.Summarize(results)
	data, ext, err := encodeSummary(summary, f)
	if err != nil {
		return summary, err
	}
	if err := common.WriteOutput(filepath.Join(outputDir, SummaryBaseName+"."+ext), data); err != nil {
		return summary, err
	}
	return summary, nil
}

// encodeSummary renders the summary as YAML for yaml reports and as JSON
// otherwise.
func encodeSummary(s batch.Summary, f report.Format) ([]byte, string, error) {
	if f == report.FormatYAML {
		data, err := yaml.Marshal(s)
		return data, "yaml", err
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, "", err
	}
	return append(data, '\n'), "json", nil
}
