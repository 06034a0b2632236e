package ui

import (
	stderrors "errors"
	"html/template"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"cholwatch/adapters/excel"
	"cholwatch/app"
	"cholwatch/domain/core"
	"cholwatch/domain/dataset"
	"cholwatch/domain/risk"
	"cholwatch/internal/chart"
	"cholwatch/internal/errors"
	"cholwatch/internal/guidance"

	"github.com/gin-gonic/gin"
)

// uploadField is the multipart form field carrying the dataset
const uploadField = "dataset"

// multipartOverhead is the slack allowed on top of the file limit for form framing
const multipartOverhead = 64 * 1024

// EmptyDataMessage is shown when no usable reading remains after filtering
const EmptyDataMessage = "No cholesterol data found in the uploaded file."

type categoryCard struct {
	Category risk.Category
	Label    string
	Style    risk.Style
	Count    int
	Note     template.HTML
}

type pageData struct {
	Title       string
	Column      string
	MaxUploadMB int64
	Extensions  string
	Error       string
	Report      *app.Report
	Chart       template.HTML
	Categories  []categoryCard
	Empty       string
}

func (s *Server) newPage() pageData {
	return pageData{
		Title:       AppTitle,
		Column:      s.analysis.Options().Column,
		MaxUploadMB: s.config.MaxUploadBytes / (1024 * 1024),
		Extensions:  strings.Join(excel.SupportedExtensions(), ","),
	}
}

// handleIndex renders the upload form
func (s *Server) handleIndex(c *gin.Context) {
	s.renderTemplate(c, http.StatusOK, "index.html", s.newPage())
}

// handleAnalyze runs the pipeline on an uploaded file and renders the report
func (s *Server) handleAnalyze(c *gin.Context) {
	page := s.newPage()

	report, err := s.analyzeUpload(c)
	if err != nil {
		page.Error = userMessage(err)
		s.renderTemplate(c, statusFor(err), "index.html", page)
		return
	}

	page.Report = report
	if report.Empty {
		page.Empty = EmptyDataMessage
	} else {
		page.Chart = chart.RenderHistogram(report.Histogram, report.Density, chart.RiskMarkers(), chart.DefaultOptions())
	}
	page.Categories = categoryCards(report)

	s.renderTemplate(c, http.StatusOK, "report.html", page)
}

// handleAPIAnalyze runs the pipeline and returns the report as JSON
func (s *Server) handleAPIAnalyze(c *gin.Context) {
	report, err := s.analyzeUpload(c)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": userMessage(err), "code": errors.GetCode(err)})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// analyzeUpload validates the multipart upload and hands it to the analysis service
func (s *Server) analyzeUpload(c *gin.Context) (*app.Report, error) {
	header, err := s.formFile(c)
	if err != nil {
		return nil, err
	}

	if _, err := excel.FileType(header.Filename); err != nil {
		return nil, errors.UnsupportedFormat(filepath.Base(header.Filename))
	}

	f, err := header.Open()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, errors.Wrap(err, "failed to open uploaded file"))
	}
	defer f.Close()

	return s.analysis.Analyze(c.Request.Context(), dataset.Upload{
		Filename: filepath.Base(header.Filename),
		Size:     header.Size,
		File:     f,
	})
}

// formFile extracts the uploaded file, enforcing the size limit
func (s *Server) formFile(c *gin.Context) (*multipart.FileHeader, error) {
	limit := s.config.MaxUploadBytes
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)
	}

	header, err := c.FormFile(uploadField)
	if err != nil {
		if isBodyTooLarge(err) {
			return nil, errors.UploadTooLarge(c.Request.ContentLength, limit)
		}
		return nil, errors.InvalidInput("no file uploaded: choose a .csv or .xlsx file")
	}
	if limit > 0 && header.Size > limit {
		return nil, errors.UploadTooLarge(header.Size, limit)
	}
	return header, nil
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

// statusFor maps an error code to an HTTP status
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeColumnMissing:
		return http.StatusUnprocessableEntity
	case errors.CodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	case errors.CodeInvalidInput, errors.CodeUnsupportedFormat, errors.CodeValidationError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// genericFailure replaces messages of errors that carry no user-facing text
const genericFailure = "The file could not be analyzed."

// userMessage returns the text shown in the error banner
func userMessage(err error) string {
	switch {
	case core.IsNotFoundError(err):
		if appErr := innermostAppError(err); appErr != nil {
			return appErr.Message
		}
	case !errors.IsAppError(err), errors.HasCode(err, errors.CodeInternalError):
		return genericFailure
	}
	return err.Error()
}

// innermostAppError returns the deepest AppError in err's chain
func innermostAppError(err error) *errors.AppError {
	var found *errors.AppError
	for e := err; e != nil; e = stderrors.Unwrap(e) {
		if appErr, ok := e.(*errors.AppError); ok {
			found = appErr
		}
	}
	return found
}

func categoryCards(report *app.Report) []categoryCard {
	cards := make([]categoryCard, 0, len(risk.Categories))
	for _, category := range risk.Categories {
		cards = append(cards, categoryCard{
			Category: category,
			Label:    category.Label(),
			Style:    risk.StyleFor(category),
			Count:    report.Counts[category],
			Note:     guidance.Note(category),
		})
	}
	return cards
}
