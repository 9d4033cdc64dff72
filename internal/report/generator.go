// Package report renders analysis envelopes and transaction exports.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"gopkg.in/yaml.v3"
)

// Format is an output format for envelopes.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatText Format = "text"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatYAML, FormatText:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported report format: %s", s)
	}
}

// Generator renders envelopes in the supported formats.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator. A nil logger discards output.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logging.OrNop(logger).WithField("component", "ReportGenerator")}
}

// Generate renders env in the given format.
func (g *Generator) Generate(env *models.Envelope, format Format) ([]byte, error) {
	if env == nil || env.Report == nil {
		return nil, fmt.Errorf("cannot render an empty envelope")
	}
	switch format {
	case FormatJSON:
		return g.generateJSON(env)
	case FormatYAML:
		return g.generateYAML(env)
	case FormatText:
		return []byte(RenderText(env)), nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *Generator) generateJSON(env *models.Envelope) ([]byte, error) {
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		g.logger.Error("Failed to marshal JSON report", logging.F(logging.FieldError, err.Error()))
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *Generator) generateYAML(env *models.Envelope) ([]byte, error) {
	out, err := yaml.Marshal(env)
	if err != nil {
		g.logger.Error("Failed to marshal YAML report", logging.F(logging.FieldError, err.Error()))
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}
