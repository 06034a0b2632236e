package container

import (
	"fmt"
	"net/http"

	"cholwatch/adapters/excel"
	"cholwatch/app"
	"cholwatch/internal"
	"cholwatch/internal/config"
	"cholwatch/internal/metrics"
	"cholwatch/internal/ops"
	"cholwatch/ports"
	"cholwatch/ui"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Observability
	Registry *prometheus.Registry
	Metrics  *metrics.AnalysisMetrics

	// Pipeline
	Reader   ports.TableReader
	Analysis *app.AnalysisService

	// Listeners; OpsServer is nil when the ops endpoint is disabled
	WebServer *ui.Server
	OpsServer *http.Server
}

// New wires every component from cfg
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(cfg.Level()),
	}

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.NewAnalysisMetrics(c.Registry)

	c.Reader = excel.NewDataReader(excel.DefaultExcelConfig(), c.Logger)
	c.Analysis = app.NewAnalysisService(c.Reader, app.AnalysisOptions{
		Column:        cfg.Analysis.Column,
		PreviewRows:   cfg.Analysis.PreviewRows,
		HistogramBins: cfg.Analysis.HistogramBins,
	}, c.Metrics, c.Logger)

	gin.SetMode(cfg.Server.GinMode)
	c.WebServer = ui.NewServer(ui.Config{
		Port:           cfg.Server.Port,
		MaxUploadBytes: cfg.Server.MaxUploadBytes(),
	}, c.Logger)
	if err := c.WebServer.Initialize(c.Analysis); err != nil {
		return nil, fmt.Errorf("failed to initialize web server: %w", err)
	}

	if cfg.Ops.Enabled {
		c.OpsServer = ops.NewServer(cfg.Ops.Port, c.Registry)
	}

	c.Logger.Debug("[Container] Initialized (column=%q, ops=%t)", cfg.Analysis.Column, cfg.Ops.Enabled)
	return c, nil
}
