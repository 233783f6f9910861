package schema

import "time"

// AnalysisRunRecord represents a row from the coredev_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID           int64
	StartTime            time.Time
	EndTime              *time.Time
	RunDurationMs        *int32
	TotalBatchesAnalyzed int32
	ConfigParams         *string
}

// BatchMetricRecord represents a row from the coredev_batch_metrics table.
type BatchMetricRecord struct {
	AnalysisID  int64
	BatchIndex  int32
	BatchStart  time.Time
	MetricName  string
	MetricValue float64
}

// AuthorCentralityRecord represents a row from the coredev_author_centrality table.
type AuthorCentralityRecord struct {
	AnalysisID  int64
	BatchIndex  int32
	Signal      string
	Author      string
	Closeness   float64
	Betweenness float64
	Centrality  float64
	Items       int32
	IsCore      bool
}
