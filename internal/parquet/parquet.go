// Package parquet provides data structures and functions for exporting coredev
// analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/coredev/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single coredev analysis run with metadata.
// This struct maps to the coredev_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this analysis run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// StartTime is when the analysis began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the analysis completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the analysis run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalBatchesAnalyzed is the number of batches produced by this run
	TotalBatchesAnalyzed int32 `parquet:"total_batches_analyzed,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// BatchMetric is one named metric of one batch.
// This struct maps to the coredev_batch_metrics database table.
type BatchMetric struct {
	AnalysisID  int64     `parquet:"analysis_id,snappy"`
	BatchIndex  int32     `parquet:"batch_index,snappy"`
	BatchStart  time.Time `parquet:"batch_start,snappy"`
	MetricName  string    `parquet:"metric_name,snappy,dict"`
	MetricValue float64   `parquet:"metric_value,snappy"`
}

// AuthorCentrality is the centrality of one author in one (batch, signal) graph.
// This struct maps to the coredev_author_centrality database table.
type AuthorCentrality struct {
	AnalysisID  int64   `parquet:"analysis_id,snappy"`
	BatchIndex  int32   `parquet:"batch_index,snappy"`
	Signal      string  `parquet:"signal,snappy,dict"`
	Author      string  `parquet:"author,snappy"`
	Closeness   float64 `parquet:"closeness,snappy"`
	Betweenness float64 `parquet:"betweenness,snappy"`
	Centrality  float64 `parquet:"centrality,snappy"`
	Items       int32   `parquet:"items,snappy"`
	IsCore      bool    `parquet:"is_core"`
}

// writeRows writes rows to a new Parquet file whose schema is derived from T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteBatchMetricsParquet writes a slice of BatchMetric structs to a Parquet file.
func WriteBatchMetricsParquet(data []BatchMetric, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteAuthorCentralityParquet writes a slice of AuthorCentrality structs to a Parquet file.
func WriteAuthorCentralityParquet(data []AuthorCentrality, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:           record.AnalysisID,
			StartTime:            record.StartTime,
			EndTime:              record.EndTime,
			RunDurationMs:        record.RunDurationMs,
			TotalBatchesAnalyzed: record.TotalBatchesAnalyzed,
			ConfigParams:         record.ConfigParams,
		}
	}
	return result
}

// ConvertBatchMetricRecords converts schema.BatchMetricRecord to BatchMetric for Parquet export.
func ConvertBatchMetricRecords(records []schema.BatchMetricRecord) []BatchMetric {
	result := make([]BatchMetric, len(records))
	for i, record := range records {
		result[i] = BatchMetric(record)
	}
	return result
}

// ConvertAuthorCentralityRecords converts schema.AuthorCentralityRecord to AuthorCentrality for Parquet export.
func ConvertAuthorCentralityRecords(records []schema.AuthorCentralityRecord) []AuthorCentrality {
	result := make([]AuthorCentrality, len(records))
	for i, record := range records {
		result[i] = AuthorCentrality(record)
	}
	return result
}
