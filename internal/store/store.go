// Package store loads and saves category rule sets. When no rule file is
// configured, the embedded default rule set is used.
package store

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed rules/default.yaml
var defaultRules []byte

// DefaultRulesVersion is the version of the embedded rule set.
const DefaultRulesVersion = "default-v1"

// CategoryStore manages loading and saving of category rules.
type CategoryStore struct {
	RulesFile string
	logger    logging.Logger
	validate  *validator.Validate
}

// NewCategoryStore creates a store for the given rule file. An empty file
// name selects the embedded defaults.
func NewCategoryStore(rulesFile string, logger logging.Logger) *CategoryStore {
	return &CategoryStore{
		RulesFile: rulesFile,
		logger:    logging.OrNop(logger),
		validate:  validator.New(),
	}
}

// FindConfigFile looks for a rule file in the standard locations.
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".statement-analyzer", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".statement-analyzer", filename))
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadRules returns the configured rule set, or the embedded defaults when
// no file is configured. A configured file that cannot be found is an error.
func (s *CategoryStore) LoadRules() (*models.CategoriesConfig, error) {
	if s.RulesFile == "" {
		return DefaultRules()
	}

	path, err := s.FindConfigFile(s.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("category rules file %s not found: %w", s.RulesFile, err)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("error reading category rules: %w", err)
	}

	cfg, err := ParseRules(data, s.validate)
	if err != nil {
		return nil, fmt.Errorf("error parsing category rules %s: %w", path, err)
	}
	s.logger.Debug("Loaded category rules",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(cfg.Categories)),
		logging.F("version", cfg.Version))
	return cfg, nil
}

// SaveRules writes cfg as YAML to path, creating parent directories.
func (s *CategoryStore) SaveRules(path string, cfg *models.CategoriesConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), models.PermissionDirectory); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling category rules: %w", err)
	}
	if err := os.WriteFile(path, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("error writing category rules: %w", err)
	}
	s.logger.Debug("Saved category rules",
		logging.F(logging.FieldFile, path),
		logging.F(logging.FieldCount, len(cfg.Categories)))
	return nil
}

// DefaultRules parses the embedded rule set.
func DefaultRules() (*models.CategoriesConfig, error) {
	return ParseRules(defaultRules, validator.New())
}

// ParseRules decodes and validates a rule set. Every rule needs a name and
// every pattern must compile.
func ParseRules(data []byte, validate *validator.Validate) (*models.CategoriesConfig, error) {
	var cfg models.CategoriesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Categories) == 0 && len(cfg.Merchants) == 0 {
		return nil, fmt.Errorf("rule set defines no categories")
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, err
	}
	for _, rule := range cfg.Categories {
		for _, p := range rule.Patterns {
			if _, err := regexp.Compile(p); err != nil {
				return nil, fmt.Errorf("category %s: invalid pattern %q: %w", rule.Name, p, err)
			}
		}
	}
	return &cfg, nil
}
