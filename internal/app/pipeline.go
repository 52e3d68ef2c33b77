package app

import (
	"context"
	"fmt"
	"log/slog"

	"gstattrade/internal/dataprocessing"
	"gstattrade/internal/fetcher"
	"gstattrade/internal/files"
	"gstattrade/internal/loader"
	"gstattrade/internal/operations"
)

// Step identifiers
const (
	StepFetch     = "fetch"
	StepDiscover  = "discover"
	StepTransform = "transform"
	StepLoad      = "load"
	StepArchive   = "archive"
)

// Operation context keys
const (
	KeyFetchReport = "fetch_report"
	KeyFiles       = "files"
	KeyResult      = "transform_result"
	KeyLoadResults = "load_results"
)

// RunSteps returns the full pipeline. skipFetch drops the download step.
func (a *Application) RunSteps(skipFetch bool) []operations.Step {
	var steps []operations.Step
	if !skipFetch {
		steps = append(steps, a.FetchStep())
	}
	return append(steps, a.LoadSteps()...)
}

// LoadSteps returns the steps that process what is already downloaded.
func (a *Application) LoadSteps() []operations.Step {
	return []operations.Step{
		a.DiscoverStep(),
		a.TransformStep(),
		a.LoadStep(),
		a.ArchiveStep(),
	}
}

// FetchStep downloads releases not yet archived.
func (a *Application) FetchStep() operations.Step {
	return operations.NewStep(StepFetch, "Fetch releases", func(ctx context.Context, state *operations.OperationState) error {
		opts := append([]fetcher.Option{fetcher.WithMetrics(a.Metrics)}, a.fetchOpts...)
		f := fetcher.New(a.Config.Fetch, a.Paths.DownloadDir, a.Archive, a.Logger, opts...)

		report, err := f.Fetch(ctx)
		if err != nil {
			return err
		}
		state.SetContext(KeyFetchReport, report)
		state.Note(fmt.Sprintf("%d downloaded, %d skipped, %d failed",
			len(report.Downloaded), len(report.Skipped), len(report.Failed)))
		return nil
	})
}

// DiscoverStep lists the workbooks waiting in the download directory and
// stops the operation when there are none.
func (a *Application) DiscoverStep() operations.Step {
	return operations.NewStep(StepDiscover, "Discover workbooks", func(ctx context.Context, state *operations.OperationState) error {
		found, err := files.NewDiscovery(a.Paths.BaseDir).FindExcelFiles(a.Paths.DownloadDir)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			a.Logger.InfoContext(ctx, "No new files", slog.String("dir", a.Paths.DownloadDir))
			state.Note("no new files")
			return operations.ErrStopOperation
		}

		paths := files.Paths(found)
		state.SetContext(KeyFiles, paths)
		state.Note(fmt.Sprintf("%d workbooks", len(paths)))
		return nil
	})
}

// TransformStep reshapes every bound sheet of the discovered workbooks.
func (a *Application) TransformStep() operations.Step {
	return operations.NewStep(StepTransform, "Transform sheets", func(ctx context.Context, state *operations.OperationState) error {
		paths, _ := operations.ContextValue[[]string](state, KeyFiles)

		result, err := a.Transformer().TransformFiles(ctx, paths)
		if err != nil {
			return err
		}
		state.SetContext(KeyResult, result)
		state.Note(fmt.Sprintf("%d labels, %d sheets skipped", len(result.Output), len(result.Skipped)))
		return nil
	})
}

// LoadStep writes the transformed output and audits each table. Any table
// failure fails the step, which keeps the workbooks out of the archive.
func (a *Application) LoadStep() operations.Step {
	return operations.NewStep(StepLoad, "Load tables", func(ctx context.Context, state *operations.OperationState) error {
		result, ok := operations.ContextValue[dataprocessing.Result](state, KeyResult)
		if !ok {
			return fmt.Errorf("no transform result")
		}

		store, err := loader.OpenStore(ctx, a.Paths.Database, a.Config.Database.Schema)
		if err != nil {
			return err
		}
		defer store.Close()

		audit, err := loader.OpenAuditLog(ctx, a.Paths.AuditDB)
		if err != nil {
			return err
		}
		defer audit.Close()

		l := loader.New(store, audit, a.Config.Database.Name, a.Logger,
			loader.WithTracer(a.OTelProviders.Tracer),
			loader.WithMetrics(a.Metrics))

		results, err := l.Load(ctx, result.Output)
		state.SetContext(KeyLoadResults, results)
		if err != nil {
			return err
		}

		var inserted int64
		for _, r := range results {
			inserted += r.Inserted
		}
		state.Note(fmt.Sprintf("%d tables, %d rows inserted", len(results), inserted))
		return nil
	})
}

// ArchiveStep moves the workbooks the transform step read into the archive
// directory. Unreadable downloads stay where they are for the next run.
func (a *Application) ArchiveStep() operations.Step {
	return operations.NewStep(StepArchive, "Archive workbooks", func(ctx context.Context, state *operations.OperationState) error {
		result, ok := operations.ContextValue[dataprocessing.Result](state, KeyResult)
		if !ok {
			return fmt.Errorf("no transform result")
		}
		paths := result.Files
		if err := a.Archive.ArchiveAll(paths); err != nil {
			return err
		}
		state.Note(fmt.Sprintf("%d archived", len(paths)))
		return nil
	})
}

// Transformer returns a batch transformer wired to the application's
// logger and telemetry.
func (a *Application) Transformer() *dataprocessing.Transformer {
	return dataprocessing.NewTransformer(a.Logger, a.OTelProviders.Tracer, a.Metrics)
}

// Inspect transforms the workbooks at paths without touching the database
// or the archive.
func (a *Application) Inspect(ctx context.Context, paths []string) (dataprocessing.Result, error) {
	return a.Transformer().TransformFiles(ctx, paths)
}
