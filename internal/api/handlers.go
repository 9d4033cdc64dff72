package api

import (
	"net/http"
	"strings"
	"time"

	"fjacquet/statement-analyzer/internal/logging"
	"fjacquet/statement-analyzer/internal/models"
	"fjacquet/statement-analyzer/internal/report"

	"github.com/labstack/echo/v4"
)

// ExtractResponse is the body returned by POST /v1/extract.
type ExtractResponse struct {
	Transactions []models.Transaction   `json:"transactions"`
	Extraction   models.ExtractionStats `json:"extraction"`
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) analyze(c echo.Context) error {
	doc, err := s.bindDocument(c)
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(c.QueryParam("as_of"))
	if err != nil {
		return err
	}
	format := report.FormatJSON
	if f := c.QueryParam("format"); f != "" {
		if format, err = report.ParseFormat(f); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	env, err := s.analyzer.Analyze(doc, asOf)
	if err != nil {
		return err
	}

	switch format {
	case report.FormatJSON:
		return c.JSON(http.StatusOK, env)
	case report.FormatYAML:
		out, err := s.generator.Generate(env, format)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/yaml", out)
	default:
		out, err := s.generator.Generate(env, format)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, echo.MIMETextPlainCharsetUTF8, out)
	}
}

func (s *Server) extract(c echo.Context) error {
	doc, err := s.bindDocument(c)
	if err != nil {
		return err
	}
	res, err := s.analyzer.Extract(doc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ExtractResponse{
		Transactions: res.Transactions,
		Extraction:   res.Stats,
	})
}

func (s *Server) bindDocument(c echo.Context) (*models.Document, error) {
	doc := new(models.Document)
	if err := c.Bind(doc); err != nil {
		return nil, err
	}
	if err := c.Validate(doc); err != nil {
		return nil, err
	}
	if doc.Pages == nil {
		doc.Pages = []models.PageUnit{}
	}
	s.logger.Debug("Document received",
		logging.F(logging.FieldSource, doc.Source),
		logging.F(logging.FieldPage, len(doc.Pages)))
	return doc, nil
}

// parseAsOf reads an optional YYYY-MM-DD cutoff. The whole day is included.
func parseAsOf(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseISODate(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "as_of must be a YYYY-MM-DD date")
	}
	t := d.Time
	return &t, nil
}
