package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"
)

// PDFExtractor converts a PDF file on disk to layout-preserving text, one
// form feed per page.
type PDFExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// RealPDFExtractor runs the pdftotext command from poppler-utils.
type RealPDFExtractor struct {
	// Binary defaults to "pdftotext" on PATH.
	Binary string
}

// NewRealPDFExtractor creates a RealPDFExtractor.
func NewRealPDFExtractor() *RealPDFExtractor {
	return &RealPDFExtractor{Binary: "pdftotext"}
}

// ExtractText implements PDFExtractor.
func (e *RealPDFExtractor) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	bin := e.Binary
	if bin == "" {
		bin = "pdftotext"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-layout", "-enc", "UTF-8", pdfPath, "-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running pdftotext: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// MockPDFExtractor returns canned text. It records the paths it was asked
// to extract.
type MockPDFExtractor struct {
	MockText string
	MockErr  error
	Calls    []string
}

// NewMockPDFExtractor creates a MockPDFExtractor.
func NewMockPDFExtractor(mockText string, mockErr error) *MockPDFExtractor {
	return &MockPDFExtractor{MockText: mockText, MockErr: mockErr}
}

// ExtractText implements PDFExtractor.
func (e *MockPDFExtractor) ExtractText(_ context.Context, pdfPath string) (string, error) {
	e.Calls = append(e.Calls, pdfPath)
	if e.MockErr != nil {
		return "", e.MockErr
	}
	return e.MockText, nil
}

// PDFSource spools the PDF to a temporary file, converts it to text and
// splits the text into pages.
type PDFSource struct {
	BaseSource
	extractor PDFExtractor
}

// NewPDFSource creates a PDFSource. A nil extractor uses pdftotext.
func NewPDFSource(logger logging.Logger, extractor PDFExtractor) *PDFSource {
	if extractor == nil {
		extractor = NewRealPDFExtractor()
	}
	return &PDFSource{BaseSource: NewBaseSource(logger), extractor: extractor}
}

// Name implements Source.
func (s *PDFSource) Name() string { return "pdf" }

// Parse implements Source.
func (s *PDFSource) Parse(ctx context.Context, r io.Reader) (*models.Document, error) {
	if err := checkContext(ctx, s.Name()); err != nil {
		return nil, err
	}

	head := make([]byte, 5)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("pdf: failed to read input: %w", err)
	}
	head = head[:n]
	if !bytes.Equal(head, []byte("%PDF-")) {
		return nil, invalidFormat(s.Name(), "PDF document", "missing %PDF- header", head)
	}

	tempFile, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("pdf: failed to create temporary file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			s.GetLogger().Warn("Failed to remove temporary file",
				logging.F(logging.FieldFile, tempFile.Name()),
				logging.F(logging.FieldError, err.Error()))
		}
	}()

	_, err = io.Copy(tempFile, io.MultiReader(bytes.NewReader(head), r))
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("pdf: failed to write temporary file: %w", err)
	}

	text, err := s.extractor.ExtractText(ctx, tempFile.Name())
	if err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	doc := SplitPages(text)
	s.loaded(s.Name(), doc)
	return doc, nil
}
