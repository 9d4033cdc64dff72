// Package extract handles the transaction export command
package extract

import (
	"fmt"

	"fjacquet/statement-analyzer/cmd/common"
	"fjacquet/statement-analyzer/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract categorized transactions from a bank statement",
	Long: `Extract the transactions of a bank statement, categorize them and export
the ledger. The output is CSV (using the configured delimiter) unless the
output file ends in .json, in which case the extraction statistics are
included.

Example:
  statement-analyzer extract -i march.pdf -o march.csv --date-order dmy
  statement-analyzer extract -i march.txt -o march.json --encoding windows-1251`,
	RunE: extractFunc,
}

func extractFunc(cmd *cobra.Command, args []string) error {
	input := root.SharedFlags.Input
	if input == "" {
		return fmt.Errorf("an input file is required (-i)")
	}
	c, err := root.NewContainer(nil)
	if err != nil {
		return err
	}

	delimiter := ','
	for _, r := range c.GetConfig().Output.Delimiter {
		delimiter = r
		break
	}
	return common.ExtractFile(cmd.Context(), c.GetService(), input, root.SharedFlags.Output, delimiter, c.GetLogger())
}
