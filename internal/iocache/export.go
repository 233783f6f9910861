package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/internal/parquet"
)

// ExportPaths returns the Parquet files written for an export prefix.
func ExportPaths(outputFile string) (runs, metrics, centrality string) {
	return outputFile + ".analysis_runs.parquet",
		outputFile + ".batch_metrics.parquet",
		outputFile + ".author_centrality.parquet"
}

// ExecuteAnalysisExport exports every analysis table of the store to Parquet files.
func ExecuteAnalysisExport(store contract.AnalysisStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis store is not configured. Set --analysis-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total analysis runs: %d\n", status.TotalRuns)

	analysisRuns, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	batchMetrics, err := store.GetAllBatchMetrics()
	if err != nil {
		return fmt.Errorf("failed to retrieve batch metrics: %w", err)
	}
	authorCentrality, err := store.GetAllAuthorCentrality()
	if err != nil {
		return fmt.Errorf("failed to retrieve author centrality: %w", err)
	}

	runsFile, metricsFile, centralityFile := ExportPaths(outputFile)

	if err := parquet.WriteAnalysisRunsParquet(parquet.ConvertAnalysisRunRecords(analysisRuns), runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analysis runs to: %s\n", len(analysisRuns), runsFile)

	if err := parquet.WriteBatchMetricsParquet(parquet.ConvertBatchMetricRecords(batchMetrics), metricsFile); err != nil {
		return fmt.Errorf("failed to write batch metrics: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d batch metrics to: %s\n", len(batchMetrics), metricsFile)

	if err := parquet.WriteAuthorCentralityParquet(parquet.ConvertAuthorCentralityRecords(authorCentrality), centralityFile); err != nil {
		return fmt.Errorf("failed to write author centrality: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d author centrality rows to: %s\n", len(authorCentrality), centralityFile)

	return nil
}
