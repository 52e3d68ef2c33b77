package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"gstattrade/internal/app"
	"gstattrade/internal/dataprocessing"
	"gstattrade/internal/exporter"
	"gstattrade/internal/files"
	"gstattrade/internal/infrastructure"
	"gstattrade/internal/operations"
	"gstattrade/internal/sheet"
	"gstattrade/internal/validation"
)

type rootOptions struct {
	configFile string
	skipFetch  bool
	csvDir     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   app.AppName,
		Short: "Extract and load GSTAT quarterly trade statistics",
		Long: `gstat downloads the quarterly international trade workbooks, reshapes
the department and country tables into flat records and merges them into
SQLite, recording one audit entry per table load.`,
		Version:      app.Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a YAML config file")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch new releases, then transform, load and archive them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, opts, func(a *app.Application) []operations.Step {
				return a.RunSteps(opts.skipFetch)
			})
		},
	}
	runCmd.Flags().BoolVar(&opts.skipFetch, "skip-fetch", false, "process the download directory without fetching")

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download releases that are not archived yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, opts, func(a *app.Application) []operations.Step {
				return []operations.Step{a.FetchStep()}
			})
		},
	}

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Transform, load and archive the workbooks already downloaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return execute(cmd, opts, func(a *app.Application) []operations.Step {
				return a.LoadSteps()
			})
		},
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect PATH...",
		Short: "Print the records extracted from workbooks as JSON",
		Long: `inspect transforms the given workbooks and prints the resulting records
without touching the database or the archive. A PATH may be a workbook,
a directory of workbooks or a glob pattern. With --csv the records are also
written as one CSV file per destination table.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd, opts, args)
		},
	}

	inspectCmd.Flags().StringVar(&opts.csvDir, "csv", "", "also write one CSV per table into this directory")

	root.AddCommand(runCmd, fetchCmd, loadCmd, inspectCmd)
	return root
}

func execute(cmd *cobra.Command, opts *rootOptions, steps func(*app.Application) []operations.Step) error {
	a, err := app.NewApplication(opts.configFile)
	if err != nil {
		return err
	}
	defer shutdown(a)

	if err := a.StartStatusServer(); err != nil {
		return fmt.Errorf("failed to start status server: %w", err)
	}

	state, err := a.Execute(cmd.Context(), steps(a))
	printSummary(cmd.OutOrStdout(), state)
	return err
}

func shutdown(a *app.Application) {
	if err := a.Stop(context.Background()); err != nil {
		a.Logger.Error("Shutdown failed", "error", err)
	}
	_ = infrastructure.CloseLogFile()
}

func printSummary(w io.Writer, state *operations.OperationState) {
	if state == nil {
		return
	}
	snap := state.Snapshot()
	fmt.Fprintf(w, "operation %s %s in %s\n", snap.ID, snap.Status, snap.Duration)
	for _, step := range snap.Steps {
		line := fmt.Sprintf("  %-10s %-9s", step.ID, step.Status)
		if step.Message != "" {
			line += " " + step.Message
		}
		if step.Error != "" {
			line += " error: " + step.Error
		}
		fmt.Fprintln(w, line)
	}
}

type inspectReport struct {
	Tables  map[string][]inspectTable `json:"tables"`
	Skipped []inspectSkip             `json:"skipped,omitempty"`
}

type inspectTable struct {
	Table      string         `json:"table"`
	SourceFile string         `json:"source_file"`
	Columns    []string       `json:"columns"`
	Rows       [][]sheet.Cell `json:"rows"`
}

type inspectSkip struct {
	File  string `json:"file"`
	Sheet string `json:"sheet"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

func inspect(cmd *cobra.Command, opts *rootOptions, args []string) error {
	a, err := app.NewApplication(opts.configFile)
	if err != nil {
		return err
	}
	defer shutdown(a)

	paths, err := expandPaths(validation.NewFileValidator(a.Logger), args)
	if err != nil {
		return err
	}

	result, err := a.Inspect(cmd.Context(), paths)
	if err != nil {
		return err
	}

	if opts.csvDir != "" {
		written, err := exporter.NewTableExporter(exporter.NewCSVWriter(opts.csvDir, a.Logger)).Export(result.Output)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
		}
	}

	data, err := json.MarshalIndent(newInspectReport(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// expandPaths turns workbook paths, directories and glob patterns into a
// list of validated workbooks.
func expandPaths(validator *validation.FileValidator, args []string) ([]string, error) {
	discovery := files.NewDiscovery("")
	var paths []string
	for _, arg := range args {
		var found []files.FileInfo
		var err error
		if info, statErr := os.Stat(arg); statErr == nil && info.IsDir() {
			found, err = discovery.FindExcelFiles(arg)
		} else {
			found, err = discovery.FindFilesByPattern(filepath.Dir(arg), filepath.Base(arg))
		}
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no workbooks match %s", arg)
		}
		for _, path := range files.Paths(found) {
			if err := validator.ValidateWorkbook(path); err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func newInspectReport(result dataprocessing.Result) inspectReport {
	report := inspectReport{Tables: make(map[string][]inspectTable, len(result.Output))}
	for label, sets := range result.Output {
		binding, _ := dataprocessing.BindingFor(label)
		for _, rs := range sets {
			report.Tables[label] = append(report.Tables[label], inspectTable{
				Table:      binding.Table,
				SourceFile: rs.SourceFile,
				Columns:    rs.Columns,
				Rows:       rs.Rows,
			})
		}
	}
	for _, s := range result.Skipped {
		report.Skipped = append(report.Skipped, inspectSkip{
			File:  s.File,
			Sheet: s.Sheet,
			Stage: s.Stage,
			Error: s.Err.Error(),
		})
	}
	return report
}
