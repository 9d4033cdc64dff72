package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// JSONSource reads a Document already decoded by an external layout tool:
//
//	{"pages": [{"index": 0, "rows": [["05.01.2024", "Coffee", "-4.50"]], "lines": ["..."]}]}
type JSONSource struct {
	BaseSource
	validate *validator.Validate
}

// NewJSONSource creates a JSONSource.
func NewJSONSource(logger logging.Logger) *JSONSource {
	return &JSONSource{BaseSource: NewBaseSource(logger), validate: validator.New()}
}

// Name implements Source.
func (s *JSONSource) Name() string { return "json" }

// Parse implements Source.
func (s *JSONSource) Parse(ctx context.Context, r io.Reader) (*models.Document, error) {
	if err := checkContext(ctx, s.Name()); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("json: failed to read input: %w", err)
	}
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalidFormat(s.Name(), "page-unit document JSON", err.Error(), data)
	}
	if err := s.check(s.Name(), &doc, data); err != nil {
		return nil, err
	}
	s.loaded(s.Name(), &doc)
	return &doc, nil
}

func (s *JSONSource) check(name string, doc *models.Document, data []byte) error {
	if doc.Pages == nil {
		doc.Pages = []models.PageUnit{}
	}
	if err := s.validate.Struct(doc); err != nil {
		return invalidFormat(name, "page-unit document", err.Error(), data)
	}
	return doc.Validate()
}

// YAMLSource reads the same document shape as JSONSource from YAML. It is
// handy for hand-written fixtures.
type YAMLSource struct {
	JSONSource
}

// NewYAMLSource creates a YAMLSource.
func NewYAMLSource(logger logging.Logger) *YAMLSource {
	return &YAMLSource{JSONSource: *NewJSONSource(logger)}
}

// Name implements Source.
func (s *YAMLSource) Name() string { return "yaml" }

// Parse implements Source.
func (s *YAMLSource) Parse(ctx context.Context, r io.Reader) (*models.Document, error) {
	if err := checkContext(ctx, s.Name()); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("yaml: failed to read input: %w", err)
	}
	var doc models.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalidFormat(s.Name(), "page-unit document YAML", err.Error(), data)
	}
	if err := s.check(s.Name(), &doc, data); err != nil {
		return nil, err
	}
	s.loaded(s.Name(), &doc)
	return &doc, nil
}
