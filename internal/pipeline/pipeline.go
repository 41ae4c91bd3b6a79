// Package pipeline runs the full analysis pass: load, clean, segment,
// aggregate, select, test, autocorrelate, render, export. One Run call
// is one complete batch; there is no partial or incremental mode.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"i94cli/internal/analysis"
	"i94cli/internal/config"
	"i94cli/internal/dataset"
	"i94cli/internal/errors"
	"i94cli/internal/exporter"
)

// Pipeline executes the analysis stages in order. All stages run on the
// calling goroutine; determinism matters more here than wall-clock time.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	tracer trace.Tracer

	manifest *exporter.Manifest
	tables   []exporter.Table
}

// New builds a pipeline from validated configuration
func New(cfg *config.Config, logger *slog.Logger, tracer trace.Tracer) *Pipeline {
	return &Pipeline{
		cfg:    cfg,
		logger: logger,
		tracer: tracer,
	}
}

// Run executes the whole pipeline and returns the run manifest. A load
// failure aborts the run; statistical steps that cannot run on the data
// at hand are recorded in the manifest as skipped and the run continues.
func (p *Pipeline) Run(ctx context.Context) (*exporter.Manifest, error) {
	p.manifest = exporter.NewManifest(p.cfg.Input.Path)
	p.tables = nil

	if err := p.prepareOutputDirs(); err != nil {
		return nil, err
	}

	rows, err := p.load(ctx)
	if err != nil {
		return nil, err
	}

	rows, report := p.clean(ctx, rows)
	p.manifest.GapReport = report
	p.manifest.RowsCleaned = len(rows)

	rows = dataset.WithCalendar(rows)
	day, night := dataset.SplitDayNight(rows)

	if err := p.summaries(ctx, day, night); err != nil {
		return nil, err
	}
	if err := p.monthly(ctx, day); err != nil {
		return nil, err
	}
	if err := p.weekdayProfile(ctx, day); err != nil {
		return nil, err
	}
	if err := p.hourlyProfile(ctx, day); err != nil {
		return nil, err
	}
	if err := p.temperature(ctx, day); err != nil {
		return nil, err
	}
	if err := p.weather(ctx, day); err != nil {
		return nil, err
	}

	sel, err := p.selection(ctx, day)
	if err != nil {
		return nil, err
	}
	p.manifest.Selection = sel

	if err := p.welch(ctx, day, sel); err != nil {
		return nil, err
	}
	if err := p.autocorrelation(ctx, day, sel); err != nil {
		return nil, err
	}
	if err := p.heatmaps(ctx, rows, sel.Months); err != nil {
		return nil, err
	}

	if err := p.export(ctx); err != nil {
		return nil, err
	}

	return p.manifest, nil
}

// load reads the raw observation table
func (p *Pipeline) load(ctx context.Context) ([]dataset.Observation, error) {
	ctx, span := p.stage(ctx, "load")
	defer span.End()

	rows, err := dataset.Load(p.cfg.Input.Path, p.logger)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	p.manifest.RowsLoaded = len(rows)
	span.SetAttributes(attribute.Int("rows", len(rows)))

	p.logger.InfoContext(ctx, "loaded observations",
		slog.String("path", p.cfg.Input.Path),
		slog.Int("rows", len(rows)))
	return rows, nil
}

// clean repairs duplicates, description variants and reports gaps
func (p *Pipeline) clean(ctx context.Context, rows []dataset.Observation) ([]dataset.Observation, dataset.GapReport) {
	ctx, span := p.stage(ctx, "clean")
	defer span.End()

	cleaned, report := dataset.Clean(ctx, p.logger, rows)
	span.SetAttributes(
		attribute.Int("duplicates_dropped", report.DuplicatesDropped),
		attribute.Int("missing_hours", report.MissingHours),
	)
	return cleaned, report
}

func (p *Pipeline) prepareOutputDirs() error {
	for _, dir := range []string{p.chartsDir(), p.tablesDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.NewStorageError("create output directory "+dir, err)
		}
	}
	return nil
}

// stage opens a span for one pipeline stage
func (p *Pipeline) stage(ctx context.Context, name string) (context.Context, trace.Span) {
	return p.tracer.Start(ctx, "pipeline."+name)
}

func (p *Pipeline) chartsDir() string {
	return filepath.Join(p.cfg.Output.Dir, p.cfg.Output.ChartsSubdir)
}

func (p *Pipeline) tablesDir() string {
	return filepath.Join(p.cfg.Output.Dir, p.cfg.Output.TablesSubdir)
}

// chartPath builds the output path for a named chart and records it as
// a run artifact up front; render errors abort the run anyway.
func (p *Pipeline) chartPath(name string) string {
	path := filepath.Join(p.chartsDir(), name+".png")
	p.manifest.AddArtifact(path)
	return path
}

func (p *Pipeline) addTable(t exporter.Table) {
	p.tables = append(p.tables, t)
}

// export writes all accumulated tables, the optional workbook and the
// run manifest.
func (p *Pipeline) export(ctx context.Context) error {
	ctx, span := p.stage(ctx, "export")
	defer span.End()

	for _, t := range p.tables {
		path, err := exporter.WriteTableCSV(ctx, p.logger, p.tablesDir(), t)
		if err != nil {
			span.RecordError(err)
			return err
		}
		p.manifest.AddArtifact(path)
	}

	if p.cfg.Output.WriteWorkbook && len(p.tables) > 0 {
		path := filepath.Join(p.cfg.Output.Dir, "tables.xlsx")
		if err := exporter.WriteWorkbook(ctx, p.logger, path, p.tables); err != nil {
			span.RecordError(err)
			return err
		}
		p.manifest.AddArtifact(path)
	}

	manifestPath := filepath.Join(p.cfg.Output.Dir, "manifest.json")
	return p.manifest.Write(ctx, p.logger, manifestPath)
}

// skip records a statistical step that could not run on this data
func (p *Pipeline) skip(ctx context.Context, name string, err error) {
	p.manifest.SkippedTests = append(p.manifest.SkippedTests, exporter.SkippedTest{
		Name:   name,
		Code:   errors.CodeOf(err),
		Reason: err.Error(),
	})

	p.logger.WarnContext(ctx, "skipped statistical step",
		slog.String("step", name),
		slog.String("reason", err.Error()))
}

// warmSeason builds the configured warm-season month range
func (p *Pipeline) warmSeason() analysis.MonthRange {
	return analysis.MonthRange{
		First: p.cfg.Analysis.WarmSeasonFirst(),
		Last:  p.cfg.Analysis.WarmSeasonLast(),
	}
}

// slug converts a category name into a file-name fragment
func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
