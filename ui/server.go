package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"cholwatch/app"
	"cholwatch/domain/risk"
	"cholwatch/internal"
	"cholwatch/internal/ops"
	"cholwatch/internal/profiling"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html static
var embeddedFiles embed.FS

// AppTitle is shown in the page title and header
const AppTitle = "Cholesterol Level Monitoring App"

// Config holds web server settings
type Config struct {
	Port           string
	MaxUploadBytes int64
}

// Server represents the web server for the monitoring app
type Server struct {
	router    *gin.Engine
	templates *template.Template
	analysis  *app.AnalysisService
	logger    *internal.Logger
	config    Config
}

// NewServer creates a new web server instance
func NewServer(config Config, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Server{
		router: gin.New(),
		logger: logger,
		config: config,
	}
}

// Initialize parses templates and registers middleware and routes
func (s *Server) Initialize(analysis *app.AnalysisService) error {
	s.analysis = analysis

	funcMap := template.FuncMap{
		"fmtValue": risk.FormatValue,
		"fmtFloat": func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"add":      func(a, b int) int { return a + b },
		"cell": func(row map[string]string, header string) string {
			return row[header]
		},
		"pct": func(n, total int) string {
			if total == 0 {
				return "0%"
			}
			return fmt.Sprintf("%.0f%%", float64(n)/float64(total)*100)
		},
		"summaryRows": summaryRows,
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates
	s.logger.Debug("[TemplateInit] Parsed templates: %s", templates.DefinedTemplates())

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.POST("/analyze", s.handleAnalyze)
	s.router.POST("/api/analyze", s.handleAPIAnalyze)
	s.router.GET("/healthz", s.handleHealth)
}

// Handler exposes the router for tests and custom listeners
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves on the configured port until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.config.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return ops.Serve(ctx, srv, "WebServer", s.logger)
}

type summaryRow struct {
	Label string
	Value string
}

// summaryRows flattens a summary into label/value pairs for the stats table
func summaryRows(sum *profiling.Summary) []summaryRow {
	if sum == nil {
		return nil
	}
	f := func(v float64) string { return fmt.Sprintf("%.1f", v) }
	return []summaryRow{
		{"Count", fmt.Sprintf("%d", sum.Count)},
		{"Mean", f(sum.Mean)},
		{"Std. deviation", f(sum.StdDev)},
		{"Min", f(sum.Min)},
		{"Median", f(sum.Median)},
		{"Max", f(sum.Max)},
	}
}

func staticFS() (fs.FS, error) {
	return fs.Sub(embeddedFiles, "static")
}
