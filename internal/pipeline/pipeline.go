package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"olistcli/internal/dataprocessing"
	"olistcli/internal/infrastructure"
	"olistcli/internal/loader"
)

// ErrNoData marks a run that produced no analytical table.
var ErrNoData = dataprocessing.ErrNoData

// Status is the outcome of a run
type Status string

const (
	StatusReady  Status = "ready"
	StatusNoData Status = "no_data"
)

// Result is the tagged outcome of one run. A ready result carries the table;
// a no-data result carries the cause and the step that failed.
type Result struct {
	RunID      string
	Status     Status
	Table      *dataprocessing.Table
	Cause      error
	FailedStep string
	Steps      []*StepState
}

// Ready reports whether the run produced a table
func (r Result) Ready() bool {
	return r.Status == StatusReady
}

// Err returns nil for a ready result and otherwise the cause wrapped with ErrNoData
func (r Result) Err() error {
	if r.Ready() {
		return nil
	}
	if errors.Is(r.Cause, ErrNoData) {
		return r.Cause
	}
	return fmt.Errorf("%w: %w", ErrNoData, r.Cause)
}

// Step returns the state of the named step
func (r Result) Step(id string) *StepState {
	for _, s := range r.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Runner executes the load and build steps once per Run call.
type Runner struct {
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
	clock   clockwork.Clock
}

// Option configures a Runner
type Option func(*Runner)

// WithLogger sets the runner logger
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets the tracer used for the run and step spans
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithMetrics records run metrics into m
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithClock sets the clock used for step timing
func WithClock(clock clockwork.Clock) Option {
	return func(r *Runner) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewRunner creates a runner with the given options
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		logger: slog.Default(),
		tracer: otel.Tracer("olistcli/pipeline"),
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loads the dataset under baseDir and builds the analytical table. It
// never returns a partial table: any failure yields a StatusNoData result.
// The context gets a fresh run id as trace id unless it already has one.
func (r *Runner) Run(ctx context.Context, baseDir string) Result {
	ctx = infrastructure.EnsureTraceID(ctx)
	runID := infrastructure.GetTraceID(ctx)
	logger := infrastructure.WithComponent(r.logger, "pipeline")

	ctx, span := r.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("run_id", runID),
		attribute.String("base_dir", baseDir),
	))
	defer span.End()

	load := NewStepState(StepLoad, "Load tables")
	build := NewStepState(StepBuild, "Build analytical table")
	result := Result{RunID: runID, Steps: []*StepState{load, build}}

	logger.InfoContext(ctx, "Pipeline started", slog.String("base_dir", baseDir))

	var tables *loader.Tables
	err := r.runStep(ctx, load, func(ctx context.Context) error {
		var err error
		tables, err = loader.Load(ctx, baseDir,
			loader.WithLogger(r.logger),
			loader.WithTracer(r.tracer))
		return err
	})
	if err != nil {
		return r.fail(ctx, span, logger, result, load, err)
	}
	counts := tables.RowCounts()
	load.SetMetadata("rows", counts)
	if r.metrics != nil {
		for table, n := range counts {
			r.metrics.ObserveTable(table, n)
		}
	}

	var table *dataprocessing.Table
	err = r.runStep(ctx, build, func(ctx context.Context) error {
		var err error
		table, err = dataprocessing.Build(ctx, tables,
			dataprocessing.WithLogger(r.logger),
			dataprocessing.WithTracer(r.tracer))
		return err
	})
	if err != nil {
		return r.fail(ctx, span, logger, result, build, err)
	}
	build.SetMetadata("rows_out", table.Stats.RowsOut)
	r.observeBuild(table.Stats)

	result.Status = StatusReady
	result.Table = table
	if r.metrics != nil {
		r.metrics.ObserveRun(string(StatusReady))
	}
	span.SetAttributes(attribute.Int("rows", table.Len()))
	logger.InfoContext(ctx, "Pipeline completed",
		slog.Int("rows", table.Len()),
		slog.Duration("load_duration", load.Duration()),
		slog.Duration("build_duration", build.Duration()))
	return result
}

func (r *Runner) runStep(ctx context.Context, step *StepState, fn func(context.Context) error) error {
	ctx, span := r.tracer.Start(ctx, "pipeline."+step.ID)
	defer span.End()

	step.Start(r.clock.Now())
	err := fn(ctx)
	if err != nil {
		step.Fail(r.clock.Now(), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		step.Complete(r.clock.Now())
	}

	if r.metrics != nil {
		r.metrics.ObserveStep(step.ID, step.Duration())
	}
	return err
}

func (r *Runner) fail(ctx context.Context, span trace.Span, logger *slog.Logger, result Result, step *StepState, err error) Result {
	result.Status = StatusNoData
	result.Cause = err
	result.FailedStep = step.ID

	span.SetStatus(codes.Error, err.Error())
	if r.metrics != nil {
		r.metrics.ObserveRun(string(StatusNoData))
	}
	infrastructure.WithError(logger, err).ErrorContext(ctx, "Pipeline produced no data",
		slog.String("step", step.ID))
	return result
}

func (r *Runner) observeBuild(stats dataprocessing.Stats) {
	if r.metrics == nil {
		return
	}
	r.metrics.OutputRows.Set(float64(stats.RowsOut))
	infrastructure.ObserveCounts(r.metrics.DroppedRows, stats.Dropped)
	infrastructure.ObserveCounts(r.metrics.UnmatchedKeys, stats.Unmatched)
	infrastructure.ObserveCounts(r.metrics.DuplicateKeys, stats.Duplicates)
}
