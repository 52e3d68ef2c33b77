package dataprocessing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"gstattrade/internal/infrastructure"
	"gstattrade/internal/sheet"
)

// Stages reported in SheetError.Stage and the skip metric.
const (
	StageBind    = "bind"
	StageReshape = "reshape"
	StagePanic   = "panic"
)

// Result is the outcome of one batch: the accumulated records, the
// workbooks that were actually read, and every sheet skipped on the way.
type Result struct {
	Output  Output
	Files   []string
	Skipped []*SheetError
}

// Reshaper turns one sheet of a family into records.
type Reshaper func(sheet.Sheet) (Reshaped, error)

// Transformer dispatches sheets to their reshaper and accumulates the
// output. It holds no state between calls.
type Transformer struct {
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *infrastructure.ETLMetrics
	reshapers map[Family]Reshaper
}

// NewTransformer creates a transformer. A nil tracer or metrics disables
// the corresponding telemetry.
func NewTransformer(logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.ETLMetrics) *Transformer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	reshapers := map[Family]Reshaper{
		FamilyDepartments: ReshapeDepartments,
		FamilyCountries:   ReshapeCountries,
	}
	return &Transformer{
		logger:    infrastructure.WithComponent(logger, "transformer"),
		tracer:    tracer,
		metrics:   metrics,
		reshapers: reshapers,
	}
}

// TransformFiles reads every bound sheet of each workbook, in the order
// given, and reshapes them. A workbook that cannot be opened is logged,
// skipped and left out of Result.Files. It fails with ErrNoInputFiles when
// the path list is empty or no workbook yields a bound sheet.
func (t *Transformer) TransformFiles(ctx context.Context, paths []string) (Result, error) {
	if len(paths) == 0 {
		return Result{}, ErrNoInputFiles
	}

	result := Result{Output: Output{}}
	read := 0
	for _, path := range paths {
		fileCtx, span := t.tracer.Start(ctx, "transform.file",
			trace.WithAttributes(attribute.String("file", filepath.Base(path))))

		sheets, err := ReadWorkbook(path, Labels(), t.logger)
		if err != nil {
			t.logger.ErrorContext(fileCtx, "Workbook skipped",
				slog.String("file", filepath.Base(path)),
				slog.String("error", err.Error()))
			infrastructure.RecordError(fileCtx, err)
			span.End()
			continue
		}

		result.Files = append(result.Files, path)
		read += len(sheets)

		r := t.Transform(fileCtx, sheets)
		result.Output.Merge(r.Output)
		result.Skipped = append(result.Skipped, r.Skipped...)
		span.End()
	}

	if read == 0 {
		return result, fmt.Errorf("%d workbooks, %d readable, none with bound sheets: %w",
			len(paths), len(result.Files), ErrNoInputFiles)
	}

	t.logger.InfoContext(ctx, "Batch transformed",
		slog.Int("files", len(result.Files)),
		slog.Int("labels", len(result.Output)),
		slog.Int("skipped_sheets", len(result.Skipped)))

	return result, nil
}

// Transform reshapes sheets one at a time. Per-sheet failures are logged
// and collected in Result.Skipped; they never stop the batch.
func (t *Transformer) Transform(ctx context.Context, sheets []sheet.Sheet) Result {
	result := Result{Output: Output{}}

	for _, s := range sheets {
		rs, err := t.transformSheet(ctx, s)
		if err != nil {
			var se *SheetError
			if !errors.As(err, &se) {
				se = newSheetError(s.File, s.Label, StageReshape, err)
			}
			t.logger.ErrorContext(ctx, "Sheet skipped",
				slog.String("file", se.File),
				slog.String("sheet", se.Sheet),
				slog.String("stage", se.Stage),
				slog.String("error", se.Err.Error()))
			t.metrics.SheetSkipped(ctx, s.Label, se.Stage)
			result.Skipped = append(result.Skipped, se)
			continue
		}

		result.Output.Add(rs)
		t.metrics.SheetTransformed(ctx, s.Label)
	}

	return result
}

func (t *Transformer) transformSheet(ctx context.Context, s sheet.Sheet) (rs RecordSet, err error) {
	ctx, span := t.tracer.Start(ctx, "transform.sheet", trace.WithAttributes(
		attribute.String("file", s.File),
		attribute.String("sheet", s.Label),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = newSheetError(s.File, s.Label, StagePanic, fmt.Errorf("recovered: %v", r))
		}
		if err != nil {
			infrastructure.RecordError(ctx, err)
		}
	}()

	binding, ok := BindingFor(s.Label)
	if !ok {
		return RecordSet{}, newSheetError(s.File, s.Label, StageBind, ErrUnboundSheet)
	}

	reshape, ok := t.reshapers[binding.Family]
	if !ok {
		return RecordSet{}, newSheetError(s.File, s.Label, StageBind,
			fmt.Errorf("family %q: %w", binding.Family, ErrUnboundSheet))
	}
	reshaped, err := reshape(s)
	if err != nil {
		return RecordSet{}, newSheetError(s.File, s.Label, StageReshape, err)
	}

	for _, w := range reshaped.Warnings {
		level := slog.LevelWarn
		if errors.Is(w, ErrPeriodExtractionFallback) {
			level = slog.LevelDebug
		}
		t.logger.Log(ctx, level, "Sheet reshaped with warning",
			slog.String("file", s.File),
			slog.String("sheet", s.Label),
			slog.String("warning", w.Error()))
	}

	span.SetAttributes(attribute.Int("records", reshaped.Records.Len()))
	return reshaped.Records, nil
}
