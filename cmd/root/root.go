// Package root contains the root command for the application
package root

import (
	"fmt"
	"strings"

	"fjacquet/statement-analyzer/internal/config"
	"fjacquet/statement-analyzer/internal/container"
	"fjacquet/statement-analyzer/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input      string
	Output     string
	ConfigFile string
	DateOrder  string
	LogLevel   string
	Encoding   string
}

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// configured logger once a container is built.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-analyzer",
		Short: "A CLI tool to extract transactions from bank statements and analyze them.",
		Long: `statement-analyzer extracts transactions from bank statements (PDF, text,
CSV, XLSX or page-unit JSON), categorizes them and produces a financial report:
totals, category breakdown, weekly and monthly summaries, trends, anomalies
and insights.

The date order of the statements (dmy or mdy) must be configured, either in
config.yaml, with STMT_EXTRACTION_DATE_ORDER or with --date-order.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to statement-analyzer!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if file, err := config.LoadEnv(); err != nil {
				Log.WithError(err).Warn("Failed to load .env file")
			} else if file != "" {
				Log.Debug("Loaded environment file", logging.F(logging.FieldFile, file))
			}
			if SharedFlags.LogLevel != "" {
				Log = logging.NewLogrusAdapter(SharedFlags.LogLevel, "text")
			}
		},
	}

	// SharedFlags holds the persistent flags of all commands
	SharedFlags = CommonFlags{}

	initialized bool
)

// Init initializes the root command and all flags
func Init() {
	if initialized {
		return
	}
	initialized = true

	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory (default: stdout)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.statement-analyzer, .statement-analyzer or .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.DateOrder, "date-order", "", "Date order of the statements: dmy or mdy (overrides config)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Encoding, "encoding", "", "Charset of text statements, e.g. windows-1251")
}

// LoadConfig reads the configuration with the persistent flag overrides
// applied, followed by the given command overrides.
func LoadConfig(overrides ...config.Override) (*config.Config, error) {
	var all []config.Override
	if SharedFlags.DateOrder != "" {
		all = append(all, config.WithValue("extraction.date_order", strings.ToLower(SharedFlags.DateOrder)))
	}
	if SharedFlags.LogLevel != "" {
		all = append(all, config.WithValue("log.level", SharedFlags.LogLevel))
	}
	all = append(all, overrides...)

	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// NewContainer loads the configuration and wires the application. The
// container logger becomes the shared command logger.
func NewContainer(overrides []config.Override, opts ...container.Option) (*container.Container, error) {
	cfg, err := LoadConfig(overrides...)
	if err != nil {
		return nil, err
	}
	if SharedFlags.Encoding != "" {
		opts = append(opts, container.WithEncoding(SharedFlags.Encoding))
	}
	c, err := container.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	Log = c.GetLogger()
	return c, nil
}
