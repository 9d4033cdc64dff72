// Package analyze handles the statement analysis command
package analyze

import (
	"fmt"

	"fjacquet/statement-analyzer/cmd/common"
	"fjacquet/statement-analyzer/cmd/root"
	"fjacquet/statement-analyzer/internal/config"
	"fjacquet/statement-analyzer/internal/container"

	"github.com/spf13/cobra"
)

var (
	asOf         string
	format       string
	currency     string
	transactions bool
)

// Cmd represents the analyze command
var Cmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a bank statement and write a financial report",
	Long: `Analyze a bank statement: extract its transactions, categorize them and
compute totals, category breakdown, weekly and monthly summaries, trends,
anomalies and insights. The report is wrapped in an envelope carrying the
source, the rule set version and the date order.

Example:
  statement-analyzer analyze -i march.pdf --date-order dmy
  statement-analyzer analyze -i march.pdf -o march.yaml --as-of 2024-03-15
  statement-analyzer analyze -i march.csv --format text --currency EUR`,
	RunE: analyzeFunc,
}

func init() {
	Cmd.Flags().StringVar(&asOf, "as-of", "", "Ignore transactions dated after this day (YYYY-MM-DD)")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Report format: json, yaml or text (default: from output extension or config)")
	Cmd.Flags().StringVar(&currency, "currency", "", "ISO currency code used to display amounts in text reports")
	Cmd.Flags().BoolVar(&transactions, "transactions", false, "Include the categorized transactions in the report")
}

func analyzeFunc(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if input == "" {
		return fmt.Errorf("an input file is required (-i)")
	}
	cutoff, err := common.ParseAsOf(asOf)
	if err != nil {
		return err
	}

	var overrides []config.Override
	if currency != "" {
		overrides = append(overrides, config.WithValue("output.currency", currency))
	}
	c, err := root.NewContainer(overrides, container.WithTransactions(transactions))
	if err != nil {
		return err
	}

	f, err := common.ResolveFormat(format, root.SharedFlags.Output, c.GetConfig().Output.Format)
	if err != nil {
		return err
	}
	return common.AnalyzeFile(cmd.Context(), c.GetService(), c.GetGenerator(),
		input, root.SharedFlags.Output, f, cutoff, c.GetLogger())
}
