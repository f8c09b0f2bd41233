// Package service runs the store comparison pipeline end to end.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/okian/alurastore/internal/adapters/chart"
	"github.com/okian/alurastore/internal/adapters/export"
	"github.com/okian/alurastore/internal/adapters/source"
	"github.com/okian/alurastore/internal/domain/analysis"
	"github.com/okian/alurastore/internal/domain/sales"
	"github.com/okian/alurastore/internal/report"
	"github.com/okian/alurastore/pkg/logger"
	"github.com/okian/alurastore/pkg/metrics"
)

// Loader fetches the raw store tables.
type Loader interface {
	Load(ctx context.Context, sources []sales.Source) ([]sales.Table, error)
}

// Renderer draws chart images and returns their paths.
type Renderer interface {
	RenderBars(ctx context.Context, c chart.BarChart) (string, error)
	RenderGroupedBars(ctx context.Context, c chart.GroupedBarChart) (string, error)
}

// Exporter writes the aggregates to a file.
type Exporter interface {
	Write(ctx context.Context, s analysis.Summary, path string) error
}

// Service wires the pipeline stages.
type Service struct {
	loader   Loader
	renderer Renderer
	exporter Exporter

	// Configuration
	sources     []sales.Source
	topN        int
	exportPath  string
	metricsPath string

	out    io.Writer
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader replaces the default URL/file loader.
func WithLoader(l Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithRenderer replaces the default chart renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithExporter replaces the default workbook exporter.
func WithExporter(e Exporter) Option {
	return func(s *Service) {
		if e != nil {
			s.exporter = e
		}
	}
}

// WithSources sets the store datasets in load order.
func WithSources(sources []sales.Source) Option {
	return func(s *Service) {
		s.sources = sources
	}
}

// WithTopN sets how many categories and products are ranked per store.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithExportPath enables the workbook export.
func WithExportPath(path string) Option {
	return func(s *Service) {
		s.exportPath = path
	}
}

// WithMetricsPath enables writing the metrics textfile after the run.
func WithMetricsPath(path string) Option {
	return func(s *Service) {
		s.metricsPath = path
	}
}

// WithOutput sets where the console transcript goes.
func WithOutput(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.out = w
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a Service with default adapters.
func New(opts ...Option) *Service {
	s := &Service{
		topN: analysis.DefaultTopN,
		out:  os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		s.loader = source.NewLoader(source.WithLogger(s.logger))
	}
	if s.renderer == nil {
		s.renderer = chart.NewRenderer(chart.WithLogger(s.logger))
	}
	if s.exporter == nil {
		s.exporter = export.NewWorkbook(export.WithLogger(s.logger))
	}
	return s
}

// Run executes the pipeline once. The first error aborts the run and is
// returned with the failing stage name prepended.
func (s *Service) Run(ctx context.Context) error {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))
	start := time.Now()

	log.Info(ctx, "pipeline started", logger.Int("sources", len(s.sources)))
	err := s.run(ctx, log)
	if err != nil {
		metrics.RecordPipelineError(errorKind(err))
		metrics.RecordRun("failure")
		log.Error(ctx, "pipeline failed", logger.Error(err), logger.Duration("took", time.Since(start)))
	} else {
		metrics.RecordRun("success")
		log.Info(ctx, "pipeline finished", logger.Duration("took", time.Since(start)))
	}

	if s.metricsPath != "" {
		metrics.RecordRuntimeStats()
		if werr := metrics.WriteTextfile(s.metricsPath); werr != nil {
			log.Warn(ctx, "metrics textfile not written", logger.Error(werr))
			if err == nil {
				err = fmt.Errorf("metrics: %w", werr)
			}
		}
	}
	return err
}

func (s *Service) run(ctx context.Context, log logger.Logger) error {
	rep := report.New(s.out)

	rep.LoadStarted()
	var tables []sales.Table
	if err := stage(ctx, log, "load", func() (err error) {
		tables, err = s.loader.Load(ctx, s.sources)
		return err
	}); err != nil {
		return err
	}
	rep.Loaded(tables)
	rep.LoadFinished()

	var unified *sales.Unified
	if err := stage(ctx, log, "consolidate", func() (err error) {
		unified, err = sales.Consolidate(tables)
		return err
	}); err != nil {
		return err
	}
	log.Debug(ctx, "tables consolidated", logger.Int("rows", unified.Len()))

	var records []sales.Record
	if err := stage(ctx, log, "normalize", func() (err error) {
		records, err = sales.Normalize(unified)
		return err
	}); err != nil {
		return err
	}
	metrics.RecordRecordsNormalized(len(records))

	rep.AnalysisStarted()
	var summary analysis.Summary
	_ = stage(ctx, log, "analyze", func() error {
		summary = analysis.Summarize(records, s.topN)
		return nil
	})
	for _, sv := range summary.Revenue {
		metrics.UpdateStoreRevenue(sv.Store, sv.Value.InexactFloat64())
	}
	rep.WriteResults(summary)
	rep.WriteRecommendation(summary)

	rep.ChartsStarted()
	if err := stage(ctx, log, "charts", func() error {
		return s.renderCharts(ctx, summary)
	}); err != nil {
		return err
	}

	if s.exportPath != "" {
		if err := stage(ctx, log, "export", func() error {
			return s.exporter.Write(ctx, summary, s.exportPath)
		}); err != nil {
			return err
		}
	}

	rep.Completed()
	if err := rep.Err(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

func (s *Service) renderCharts(ctx context.Context, summary analysis.Summary) error {
	bars, grouped := Charts(summary)
	for _, c := range bars {
		if _, err := s.renderer.RenderBars(ctx, c); err != nil {
			return err
		}
	}
	_, err := s.renderer.RenderGroupedBars(ctx, grouped)
	return err
}

// stage times fn and prefixes its error with the stage name.
func stage(ctx context.Context, log logger.Logger, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	took := time.Since(start)
	metrics.RecordStageDuration(name, float64(took.Microseconds())/1000)
	log.Debug(ctx, "stage done", logger.String("stage", name), logger.Duration("took", took))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
