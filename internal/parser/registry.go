package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"
)

// SourceType names a supported input format.
type SourceType string

const (
	Text SourceType = "text"
	PDF  SourceType = "pdf"
	JSON SourceType = "json"
	YAML SourceType = "yaml"
	CSV  SourceType = "csv"
	XLSX SourceType = "xlsx"
)

var extensions = map[string]SourceType{
	".txt":  Text,
	".text": Text,
	".pdf":  PDF,
	".json": JSON,
	".yaml": YAML,
	".yml":  YAML,
	".csv":  CSV,
	".xlsx": XLSX,
}

// Registry builds sources by type or file extension.
type Registry struct {
	logger       logging.Logger
	pdfExtractor PDFExtractor
	encoding     string
	delimiter    rune
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithPDFExtractor replaces pdftotext, typically with a mock.
func WithPDFExtractor(e PDFExtractor) RegistryOption {
	return func(r *Registry) { r.pdfExtractor = e }
}

// WithEncoding sets the charset label for text input.
func WithEncoding(label string) RegistryOption {
	return func(r *Registry) { r.encoding = label }
}

// WithCSVDelimiter sets the CSV field delimiter.
func WithCSVDelimiter(d rune) RegistryOption {
	return func(r *Registry) { r.delimiter = d }
}

// NewRegistry creates a Registry.
func NewRegistry(logger logging.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{logger: logging.OrNop(logger)}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Get returns a new Source of the given type.
func (r *Registry) Get(t SourceType) (Source, error) {
	switch t {
	case Text:
		return NewTextSource(r.logger, r.encoding), nil
	case PDF:
		return NewPDFSource(r.logger, r.pdfExtractor), nil
	case JSON:
		return NewJSONSource(r.logger), nil
	case YAML:
		return NewYAMLSource(r.logger), nil
	case CSV:
		return NewCSVSource(r.logger, r.delimiter), nil
	case XLSX:
		return NewXLSXSource(r.logger), nil
	default:
		return nil, fmt.Errorf("unknown source type: %s", t)
	}
}

// TypeForFile maps a file name to its source type by extension.
func TypeForFile(path string) (SourceType, bool) {
	t, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return t, ok
}

// IsSupported reports whether a file has a known extension.
func IsSupported(path string) bool {
	_, ok := TypeForFile(path)
	return ok
}

// SupportedExtensions lists the recognized extensions in sorted order.
func SupportedExtensions() []string {
	out := make([]string, 0, len(extensions))
	for ext := range extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ForFile returns the Source for a file name.
func (r *Registry) ForFile(path string) (Source, error) {
	t, ok := TypeForFile(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q (supported: %s)",
			filepath.Ext(path), strings.Join(SupportedExtensions(), ", "))
	}
	return r.Get(t)
}

// LoadFile opens and parses a file, recording its base name as the
// document source.
func (r *Registry) LoadFile(ctx context.Context, path string) (*models.Document, error) {
	src, err := r.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path) // #nosec G304 -- path is a user-supplied statement file
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("Failed to close file",
				logging.F(logging.FieldFile, path),
				logging.F(logging.FieldError, err.Error()))
		}
	}()

	doc, err := src.Parse(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	doc.Source = filepath.Base(path)
	return doc, nil
}
