package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/scrutineer/internal/domain"
	"github.com/ahrav/scrutineer/internal/ports"
)

// Engine executes the consolidation pipeline: load raw rows, fuse split
// poll records, build ridings, and generate the selected report. The
// pipeline is synchronous and holds no state between runs, so a run is
// idempotent for a given dataset and configuration.
type Engine struct {
	// source loads raw poll rows from the dataset.
	source ports.RowSource
	// registry creates the configured report unit.
	registry ports.ReportRegistry
	// collector records stage durations.
	collector ports.MetricsCollector
	// logger receives run diagnostics, never report output.
	logger *slog.Logger
	// tracer is the OpenTelemetry tracer for the pipeline stages.
	tracer trace.Tracer
}

// RunResult is the outcome of one pipeline run: the generated records
// plus enough metadata to identify what produced them.
type RunResult struct {
	// RunID uniquely identifies this run in diagnostics and traces.
	RunID string `json:"run_id"`

	// Report is the report type that was generated.
	Report string `json:"report"`

	// GeneratedAt records when generation completed.
	GeneratedAt time.Time `json:"generated_at"`

	// Rows is the number of raw rows loaded from the dataset.
	Rows int `json:"rows"`

	// Polls is the number of fused poll records.
	Polls int `json:"polls"`

	// Ridings is the number of electoral districts built.
	Ridings int `json:"ridings"`

	// Records holds the report's record slice, ready for serialization.
	Records any `json:"records"`
}

// NewEngine creates a pipeline engine. A nil logger falls back to
// slog.Default.
func NewEngine(source ports.RowSource, registry ports.ReportRegistry, collector ports.MetricsCollector, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		source:    source,
		registry:  registry,
		collector: collector,
		logger:    logger,
		tracer:    otel.Tracer("scrutineer-pipeline"),
	}
}

// Run executes load → fuse → build → generate for the given configuration.
// Reports always complete for however much valid data survived ingestion's
// local recovery; only a configuration error, an unreadable dataset
// directory, or a report construction failure aborts the run.
func (e *Engine) Run(ctx context.Context, cfg RunConfig) (*RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID, "report", cfg.Report)

	ctx, span := e.tracer.Start(ctx, "Engine.Run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("report.type", cfg.Report),
			attribute.String("dataset.dir", cfg.DatasetDir),
		),
	)
	defer span.End()

	// The report unit is built before any I/O so a bad configuration
	// fails fast instead of after a full dataset load.
	unit, err := e.registry.CreateReport(cfg.Report, cfg.Report, cfg.ReportParameters())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := unit.Validate(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("report %s: %w", unit.Name(), err)
	}

	rows, err := e.loadStage(ctx, logger)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	fused := e.fuseStage(ctx, logger, rows)
	ridings := e.buildStage(ctx, logger, fused)

	records, err := e.generateStage(ctx, logger, unit, ridings)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("pipeline.rows", len(rows)),
		attribute.Int("pipeline.polls", len(fused)),
		attribute.Int("pipeline.ridings", len(ridings)),
	)

	return &RunResult{
		RunID:       runID,
		Report:      cfg.Report,
		GeneratedAt: time.Now().UTC(),
		Rows:        len(rows),
		Polls:       len(fused),
		Ridings:     len(ridings),
		Records:     records,
	}, nil
}

func (e *Engine) loadStage(ctx context.Context, logger *slog.Logger) ([]domain.Poll, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.load")
	defer span.End()

	start := time.Now()
	rows, err := e.source.Load(ctx)
	e.collector.RecordStageDuration("load", time.Since(start))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	span.SetAttributes(attribute.Int("rows.count", len(rows)))
	logger.Info("dataset loaded", "rows", len(rows))
	return rows, nil
}

func (e *Engine) fuseStage(ctx context.Context, logger *slog.Logger, rows []domain.Poll) []domain.Poll {
	_, span := e.tracer.Start(ctx, "Engine.fuse")
	defer span.End()

	start := time.Now()
	fused := domain.FusePolls(rows)
	e.collector.RecordStageDuration("fuse", time.Since(start))

	span.SetAttributes(attribute.Int("polls.count", len(fused)))
	logger.Info("polls fused", "raw", len(rows), "fused", len(fused))
	return fused
}

func (e *Engine) buildStage(ctx context.Context, logger *slog.Logger, fused []domain.Poll) []domain.Riding {
	_, span := e.tracer.Start(ctx, "Engine.build")
	defer span.End()

	start := time.Now()
	ridings := domain.BuildRidings(fused)
	e.collector.RecordStageDuration("build", time.Since(start))

	span.SetAttributes(attribute.Int("ridings.count", len(ridings)))
	logger.Info("ridings built", "ridings", len(ridings))
	return ridings
}

func (e *Engine) generateStage(ctx context.Context, logger *slog.Logger, unit ports.ReportUnit, ridings []domain.Riding) (any, error) {
	ctx, span := e.tracer.Start(ctx, "Engine.generate")
	defer span.End()

	start := time.Now()
	records, err := unit.Generate(ctx, ridings)
	e.collector.RecordStageDuration("generate", time.Since(start))
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("generate report %s: %w", unit.Name(), err)
	}

	logger.Info("report generated", "unit", unit.Name())
	return records, nil
}
