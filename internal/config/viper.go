// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/statement-analyzer/internal/dateutils"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STMT_LOG_LEVEL.
const EnvPrefix = "STMT"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level" validate:"required"`
		Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
	} `mapstructure:"log" yaml:"log"`

	Extraction struct {
		// DateOrder has no default: ambiguous dates must never be guessed.
		DateOrder      string   `mapstructure:"date_order" yaml:"date_order" validate:"required,oneof=dmy mdy"`
		MinLineLength  int      `mapstructure:"min_line_length" yaml:"min_line_length" validate:"gte=0"`
		MinYear        int      `mapstructure:"min_year" yaml:"min_year" validate:"gte=1900"`
		MaxYear        int      `mapstructure:"max_year" yaml:"max_year" validate:"gtefield=MinYear"`
		KeywordCues    bool     `mapstructure:"keyword_cues" yaml:"keyword_cues"`
		CreditKeywords []string `mapstructure:"credit_keywords" yaml:"credit_keywords"`
		DebitKeywords  []string `mapstructure:"debit_keywords" yaml:"debit_keywords"`
		MaxPages       int      `mapstructure:"max_pages" yaml:"max_pages" validate:"gte=0"`
		Deduplicate    bool     `mapstructure:"deduplicate" yaml:"deduplicate"`
		SpaceThousands bool     `mapstructure:"space_thousands" yaml:"space_thousands"`
	} `mapstructure:"extraction" yaml:"extraction"`

	Analytics struct {
		AnomalyMethod     string   `mapstructure:"anomaly_method" yaml:"anomaly_method" validate:"oneof=median stddev"`
		AnomalyMultiplier float64  `mapstructure:"anomaly_multiplier" yaml:"anomaly_multiplier" validate:"gt=0"`
		AnomalyStdDevs    float64  `mapstructure:"anomaly_stddevs" yaml:"anomaly_stddevs" validate:"gte=0"`
		AnomalyScope      string   `mapstructure:"anomaly_scope" yaml:"anomaly_scope" validate:"oneof=all debits"`
		MinSample         int      `mapstructure:"min_sample" yaml:"min_sample" validate:"gte=3"`
		LeakMaxAmount     float64  `mapstructure:"leak_max_amount" yaml:"leak_max_amount" validate:"gte=0"`
		LeakMinCount      int      `mapstructure:"leak_min_count" yaml:"leak_min_count" validate:"gte=1"`
		LeakMinTotal      float64  `mapstructure:"leak_min_total" yaml:"leak_min_total" validate:"gte=0"`
		TopSpendCount     int      `mapstructure:"top_spend_count" yaml:"top_spend_count" validate:"gte=0"`
		CreditKeywords    []string `mapstructure:"credit_keywords" yaml:"credit_keywords"`
	} `mapstructure:"analytics" yaml:"analytics"`

	Categories struct {
		File           string `mapstructure:"file" yaml:"file"`
		FuzzyThreshold int    `mapstructure:"fuzzy_threshold" yaml:"fuzzy_threshold" validate:"gte=0,lte=3"`
	} `mapstructure:"categories" yaml:"categories"`

	Output struct {
		Format    string `mapstructure:"format" yaml:"format" validate:"oneof=json yaml text"`
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter" validate:"len=1"`
		Currency  string `mapstructure:"currency" yaml:"currency" validate:"omitempty,len=3,alpha"`
	} `mapstructure:"output" yaml:"output"`

	Batch struct {
		Workers int `mapstructure:"workers" yaml:"workers" validate:"gte=1,lte=64"`
	} `mapstructure:"batch" yaml:"batch"`

	Server struct {
		Addr               string  `mapstructure:"addr" yaml:"addr" validate:"required"`
		BodyLimit          string  `mapstructure:"body_limit" yaml:"body_limit" validate:"required"`
		RateLimit          float64 `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0"`
		ReadTimeoutSeconds int     `mapstructure:"read_timeout_seconds" yaml:"read_timeout_seconds" validate:"gte=1"`
	} `mapstructure:"server" yaml:"server"`
}

// Override adjusts the configuration after files and environment are read,
// typically from command-line flags.
type Override func(v *viper.Viper)

// WithValue overrides one configuration key.
func WithValue(key string, value interface{}) Override {
	return func(v *viper.Viper) { v.Set(key, value) }
}

// InitializeConfig loads configuration in increasing priority: defaults,
// config file, STMT_* environment variables, overrides. An empty path
// searches $HOME/.statement-analyzer, .statement-analyzer and the working
// directory for config.yaml.
func InitializeConfig(path string, overrides ...Override) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.statement-analyzer")
		v.AddConfigPath(".statement-analyzer")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Keys without a default are unknown to Unmarshal unless bound explicitly.
	for _, key := range []string{"extraction.date_order", "categories.file", "output.currency"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for _, o := range overrides {
		o(v)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("extraction.min_line_length", models.DefaultMinLineLength)
	v.SetDefault("extraction.min_year", models.DefaultMinYear)
	v.SetDefault("extraction.max_year", models.DefaultMaxYear)
	v.SetDefault("extraction.keyword_cues", true)
	v.SetDefault("extraction.credit_keywords", []string{})
	v.SetDefault("extraction.debit_keywords", []string{})
	v.SetDefault("extraction.max_pages", models.DefaultMaxPages)
	v.SetDefault("extraction.deduplicate", false)
	v.SetDefault("extraction.space_thousands", true)

	v.SetDefault("analytics.anomaly_method", string(models.AnomalyMedian))
	v.SetDefault("analytics.anomaly_multiplier", 3.0)
	v.SetDefault("analytics.anomaly_stddevs", 2.0)
	v.SetDefault("analytics.anomaly_scope", string(models.ScopeAll))
	v.SetDefault("analytics.min_sample", models.DefaultMinSample)
	v.SetDefault("analytics.leak_max_amount", 15.0)
	v.SetDefault("analytics.leak_min_count", models.DefaultLeakMinCount)
	v.SetDefault("analytics.leak_min_total", 30.0)
	v.SetDefault("analytics.top_spend_count", models.DefaultTopSpendCount)
	v.SetDefault("analytics.credit_keywords", []string{})

	v.SetDefault("categories.fuzzy_threshold", 0)

	v.SetDefault("output.format", "json")
	v.SetDefault("output.delimiter", ",")

	v.SetDefault("batch.workers", 4)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.body_limit", "1M")
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.read_timeout_seconds", 30)
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	config.Extraction.DateOrder = strings.ToLower(strings.TrimSpace(config.Extraction.DateOrder))
	config.Output.Currency = strings.ToUpper(config.Output.Currency)

	if err := validator.New().Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: %s", verrs[0].Namespace(), describe(verrs[0]))
		}
		return err
	}

	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s=%s validation (value %v)", fe.Tag(), fe.Param(), fe.Value())
	}
}

// ExtractionOptions converts the extraction section into the immutable
// value consumed by the pipeline.
func (c *Config) ExtractionOptions() models.ExtractionOptions {
	e := c.Extraction
	return models.ExtractionOptions{
		DateOrder:      dateutils.DateOrder(e.DateOrder),
		MinLineLength:  e.MinLineLength,
		MinYear:        e.MinYear,
		MaxYear:        e.MaxYear,
		KeywordCues:    e.KeywordCues,
		CreditKeywords: e.CreditKeywords,
		DebitKeywords:  e.DebitKeywords,
		MaxPages:       e.MaxPages,
		Deduplicate:    e.Deduplicate,
		SpaceThousands: e.SpaceThousands,
	}
}

// AnalyticsOptions converts the analytics section into the immutable value
// consumed by the analytics engine.
func (c *Config) AnalyticsOptions() models.AnalyticsOptions {
	a := c.Analytics
	return models.AnalyticsOptions{
		AnomalyMethod:     models.AnomalyMethod(a.AnomalyMethod),
		AnomalyMultiplier: decimal.NewFromFloat(a.AnomalyMultiplier),
		AnomalyStdDevs:    decimal.NewFromFloat(a.AnomalyStdDevs),
		AnomalyScope:      models.AnomalyScope(a.AnomalyScope),
		MinSample:         a.MinSample,
		LeakMaxAmount:     decimal.NewFromFloat(a.LeakMaxAmount),
		LeakMinCount:      a.LeakMinCount,
		LeakMinTotal:      decimal.NewFromFloat(a.LeakMinTotal),
		TopSpendCount:     a.TopSpendCount,
		CreditKeywords:    a.CreditKeywords,
	}
}
