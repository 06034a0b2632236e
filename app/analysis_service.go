package app

import (
	"context"
	"time"

	"cholwatch/adapters/datareadiness/coercer"
	"cholwatch/domain/core"
	"cholwatch/domain/dataset"
	"cholwatch/domain/risk"
	"cholwatch/internal"
	"cholwatch/internal/errors"
	"cholwatch/internal/metrics"
	"cholwatch/internal/profiling"
	"cholwatch/ports"
)

// AnalysisOptions controls which column is classified and how much is previewed
type AnalysisOptions struct {
	Column        string
	PreviewRows   int
	HistogramBins int
}

// DefaultAnalysisOptions mirrors the defaults in config
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{Column: "chol", PreviewRows: 5, HistogramBins: profiling.DefaultBins}
}

// DroppedCounts records cells excluded before classification
type DroppedCounts struct {
	Missing     int `json:"missing"`
	Unparseable int `json:"unparseable"`
}

// Report is everything the presentation layer needs for one upload
type Report struct {
	ID        core.ReportID `json:"id"`
	Filename  string        `json:"filename"`
	Column    string        `json:"column"`
	CreatedAt time.Time     `json:"created_at"`

	Headers     []string      `json:"headers"`
	TotalRows   int           `json:"total_rows"`
	DataPreview []dataset.Row `json:"data_preview"`

	// Empty is set when no usable reading remained after filtering.
	// It is a normal outcome, not an error.
	Empty bool `json:"empty"`

	Classified  []risk.ClassifiedReading `json:"classified"`
	RiskPreview []risk.ClassifiedReading `json:"risk_preview"`
	Advisories  []risk.Advisory          `json:"advisories"`
	Counts      map[risk.Category]int    `json:"counts"`
	Dropped     DroppedCounts            `json:"dropped"`

	Summary   *profiling.Summary  `json:"summary,omitempty"`
	Histogram profiling.Histogram `json:"histogram"`
	Density   []profiling.Point   `json:"density,omitempty"`
}

// AnalysisService runs the upload -> classify -> summarize pipeline
type AnalysisService struct {
	reader   ports.TableReader
	coercer  *coercer.NumericCoercer
	analyzer *profiling.DistributionAnalyzer
	metrics  *metrics.AnalysisMetrics
	logger   *internal.Logger
	opts     AnalysisOptions
}

// NewAnalysisService creates an analysis service. metrics may be nil.
func NewAnalysisService(reader ports.TableReader, opts AnalysisOptions, m *metrics.AnalysisMetrics, logger *internal.Logger) *AnalysisService {
	defaults := DefaultAnalysisOptions()
	if opts.Column == "" {
		opts.Column = defaults.Column
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = defaults.PreviewRows
	}
	if opts.HistogramBins <= 0 {
		opts.HistogramBins = defaults.HistogramBins
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		reader:   reader,
		coercer:  coercer.NewNumericCoercer(coercer.DefaultCoercionConfig()),
		analyzer: profiling.NewDistributionAnalyzer(opts.HistogramBins),
		metrics:  m,
		logger:   logger,
		opts:     opts,
	}
}

// Options returns the effective options
func (s *AnalysisService) Options() AnalysisOptions {
	return s.opts
}

// Analyze reads an upload and classifies its cholesterol column.
// A missing column returns a COLUMN_MISSING error and nothing is classified.
func (s *AnalysisService) Analyze(ctx context.Context, upload dataset.Upload) (*Report, error) {
	start := time.Now()
	id := core.NewReportID()
	s.logger.Info("[Analyze %s] Reading %s (%d bytes)", core.ID(id).Short(), upload.Filename, upload.Size)

	table, err := s.reader.Read(ctx, upload.File, upload.Filename)
	if err != nil {
		s.logger.Warn("[Analyze %s] FAILED - could not read %s: %v", core.ID(id).Short(), upload.Filename, err)
		s.metrics.RecordOutcome(metrics.OutcomeReadError, time.Since(start))
		return nil, errors.Wrapf(err, "failed to read %s", upload.Filename)
	}

	report, err := s.AnalyzeTable(table)
	if err != nil {
		s.logger.Warn("[Analyze %s] FAILED - %v", core.ID(id).Short(), err)
		s.metrics.RecordOutcome(metrics.OutcomeColumnMissing, time.Since(start))
		return nil, err
	}
	report.ID = id
	report.Filename = upload.Filename

	outcome := metrics.OutcomeOK
	if report.Empty {
		outcome = metrics.OutcomeEmpty
	}
	s.metrics.RecordOutcome(outcome, time.Since(start))
	s.metrics.RecordReadings(report.Counts, report.Dropped.Missing, report.Dropped.Unparseable)

	s.logger.Info("[Analyze %s] %s: %d rows, %d classified (normal=%d borderline=%d high=%d) in %s",
		core.ID(id).Short(), outcome, report.TotalRows, len(report.Classified),
		report.Counts[risk.Normal], report.Counts[risk.BorderlineHigh], report.Counts[risk.HighRisk],
		time.Since(start).Round(time.Microsecond))
	return report, nil
}

// AnalyzeTable runs the pipeline on an already parsed table
func (s *AnalysisService) AnalyzeTable(table *dataset.Table) (*Report, error) {
	column := s.opts.Column
	if !table.HasColumn(column) {
		appErr := errors.ColumnMissing(column)
		appErr.Cause = core.NewColumnNotFoundError(column)
		return nil, appErr
	}

	coerced := s.coercer.CoerceColumn(table.Column(column))
	classified := risk.Classify(coerced.Readings)

	report := &Report{
		Column:      column,
		CreatedAt:   time.Now().UTC(),
		Headers:     table.Headers,
		TotalRows:   table.Len(),
		DataPreview: table.Head(s.opts.PreviewRows),
		Classified:  classified,
		Counts:      risk.Counts(classified),
		Dropped:     DroppedCounts{Missing: coerced.Missing, Unparseable: coerced.Unparseable},
		Histogram:   profiling.Histogram{Bins: []profiling.Bin{}},
	}

	if len(classified) == 0 {
		report.Empty = true
		report.RiskPreview = []risk.ClassifiedReading{}
		report.Advisories = []risk.Advisory{}
		return report, nil
	}

	preview := s.opts.PreviewRows
	if preview > len(classified) {
		preview = len(classified)
	}
	report.RiskPreview = classified[:preview]
	report.Advisories = risk.Advise(classified)

	values := risk.Values(classified)
	if summary, err := s.analyzer.Summarize(values); err == nil {
		report.Summary = &summary
	}
	report.Histogram = s.analyzer.Histogram(values)
	report.Density = s.analyzer.KDE(values, report.Histogram)

	return report, nil
}
