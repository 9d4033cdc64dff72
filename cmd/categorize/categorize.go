// Package categorize handles transaction categorization commands
package categorize

import (
	"fmt"

	"fjacquet/statement-analyzer/cmd/root"
	"fjacquet/statement-analyzer/internal/categorizer"
	"fjacquet/statement-analyzer/internal/config"
	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/store"

	"github.com/spf13/cobra"
)

var (
	description string
	rulesFile   string
	fuzzy       int
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a transaction description",
	Long: `Categorize a transaction description with the configured rule set and print
the category. Descriptions that match no rule are "uncategorized".

The rule file defaults to STMT_CATEGORIES_FILE, then to the embedded rules.

Example:
  statement-analyzer categorize --description "MAGNUM SUPERMARKET ALMATY"
  statement-analyzer categorize -d "Netflix.com" --rules my-rules.yaml`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Transaction description to categorize")
	Cmd.Flags().StringVar(&rulesFile, "rules", "", "Category rules YAML file (default: embedded rules)")
	Cmd.Flags().IntVar(&fuzzy, "fuzzy", 0, "Maximum edit distance of the fuzzy fallback (0 disables it)")
	_ = Cmd.MarkFlagRequired("description")
}

// NewChain builds the categorizer for a rule file; an empty file selects
// the embedded rules.
func NewChain(file string, fuzzyDistance int, logger logging.Logger) (*categorizer.Chain, error) {
	return categorizer.NewFromStore(store.NewCategoryStore(file, logger),
		categorizer.WithLogger(logger),
		categorizer.WithFuzzyDistance(fuzzyDistance))
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	file := rulesFile
	if file == "" {
		file = config.GetEnv(config.EnvPrefix+"_CATEGORIES_FILE", "")
	}
	chain, err := NewChain(file, fuzzy, root.Log)
	if err != nil {
		return err
	}

	category := chain.Categorize(description)
	root.Log.Debug("Description categorized",
		logging.F(logging.FieldCategory, category),
		logging.F("rules_version", chain.Version()))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), category)
	return err
}
