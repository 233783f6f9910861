package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/schema"
)

// Table names for analysis tracking.
const (
	analysisRunsTable     = "coredev_analysis_runs"
	batchMetricsTable     = "coredev_batch_metrics"
	authorCentralityTable = "coredev_author_centrality"
)

// analysisTables lists the analysis tables in creation order.
var analysisTables = []string{analysisRunsTable, batchMetricsTable, authorCentralityTable}

// AnalysisStoreImpl implements the AnalysisStore interface.
type AnalysisStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.AnalysisStore = &AnalysisStoreImpl{} // Compile-time check

// NewAnalysisStore creates a new AnalysisStore with the specified backend.
func NewAnalysisStore(backend schema.DatabaseBackend, connStr string) (contract.AnalysisStore, error) {
	if backend == schema.NoneBackend {
		return &AnalysisStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetAnalysisDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createAnalysisTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create analysis tables: %w", err)
	}

	return &AnalysisStoreImpl{db: db, backend: backend}, nil
}

// createAnalysisTables creates the analysis tracking tables.
func createAnalysisTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for _, table := range analysisTables {
		if _, err := db.Exec(getCreateAnalysisTableQuery(table, backend)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// getCreateAnalysisTableQuery returns the CREATE TABLE query of an analysis table.
func getCreateAnalysisTableQuery(table string, backend schema.DatabaseBackend) string {
	quoted := quoteTableName(table, backend)
	switch table {
	case analysisRunsTable:
		switch backend {
		case schema.MySQLBackend:
			return fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					analysis_id BIGINT AUTO_INCREMENT PRIMARY KEY,
					start_time DATETIME(6) NOT NULL,
					end_time DATETIME(6),
					run_duration_ms INT,
					total_batches_analyzed INT NOT NULL DEFAULT 0,
					config_params TEXT
				);
			`, quoted)
		case schema.PostgreSQLBackend:
			return fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					analysis_id BIGSERIAL PRIMARY KEY,
					start_time TIMESTAMPTZ NOT NULL,
					end_time TIMESTAMPTZ,
					run_duration_ms INT,
					total_batches_analyzed INT NOT NULL DEFAULT 0,
					config_params TEXT
				);
			`, quoted)
		default: // SQLite
			return fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					analysis_id INTEGER PRIMARY KEY AUTOINCREMENT,
					start_time TEXT NOT NULL,
					end_time TEXT,
					run_duration_ms INTEGER,
					total_batches_analyzed INTEGER NOT NULL DEFAULT 0,
					config_params TEXT
				);
			`, quoted)
		}

	case batchMetricsTable:
		switch backend {
		case schema.MySQLBackend:
			return fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					analysis_id BIGINT NOT NULL,
					batch_index INT NOT NULL,
					batch_start DATETIME(6) NOT NULL,
					metric_name VARCHAR(100) NOT NULL,
					metric_value DOUBLE NOT NULL,
					PRIMARY KEY (analysis_id, batch_index, metric_name)
				);
			`, quoted)
		case schema.PostgreSQLBackend:
			return fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					analysis_id BIGINT NOT NULL,
					batch_index INT NOT NULL,
					batch_start TIMESTAMPTZ NOT NULL,
					metric_name TEXT NOT NULL,
					metric_value DOUBLE PRECISION NOT NULL,
					PRIMARY KEY (analysis_id, batch_index, metric_name)
				);
			`, quoted)
		default: // SQLite
			return fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					analysis_id INTEGER NOT NULL,
					batch_index INTEGER NOT NULL,
					batch_start TEXT NOT NULL,
					metric_name TEXT NOT NULL,
					metric_value REAL NOT NULL,
					PRIMARY KEY (analysis_id, batch_index, metric_name)
				);
			`, quoted)
		}

	default: // authorCentralityTable
		switch backend {
		case schema.MySQLBackend:
			return fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					analysis_id BIGINT NOT NULL,
					batch_index INT NOT NULL,
					signal_name VARCHAR(32) NOT NULL,
					author VARCHAR(255) NOT NULL,
					closeness DOUBLE NOT NULL,
					betweenness DOUBLE NOT NULL,
					centrality DOUBLE NOT NULL,
					items INT NOT NULL,
					is_core BOOLEAN NOT NULL,
					PRIMARY KEY (analysis_id, batch_index, signal_name, author)
				);
			`, quoted)
		case schema.PostgreSQLBackend:
			return fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					analysis_id BIGINT NOT NULL,
					batch_index INT NOT NULL,
					signal_name TEXT NOT NULL,
					author TEXT NOT NULL,
					closeness DOUBLE PRECISION NOT NULL,
					betweenness DOUBLE PRECISION NOT NULL,
					centrality DOUBLE PRECISION NOT NULL,
					items INT NOT NULL,
					is_core BOOLEAN NOT NULL,
					PRIMARY KEY (analysis_id, batch_index, signal_name, author)
				);
			`, quoted)
		default: // SQLite
			return fmt.Sprintf(`
				CREATE TABLE IF NOT EXISTS %s (
					analysis_id INTEGER NOT NULL,
					batch_index INTEGER NOT NULL,
					signal_name TEXT NOT NULL,
					author TEXT NOT NULL,
					closeness REAL NOT NULL,
					betweenness REAL NOT NULL,
					centrality REAL NOT NULL,
					items INTEGER NOT NULL,
					is_core BOOLEAN NOT NULL,
					PRIMARY KEY (analysis_id, batch_index, signal_name, author)
				);
			`, quoted)
		}
	}
}

// disabled reports whether the store silently drops every write.
func (as *AnalysisStoreImpl) disabled() bool {
	return as.backend == schema.NoneBackend || as.db == nil
}

// BeginAnalysis creates a new analysis run and returns its unique ID.
func (as *AnalysisStoreImpl) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	if as.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)

	var analysisID int64
	switch as.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING analysis_id`, quotedTableName)
		err = as.db.QueryRow(query, formatTime(startTime, as.backend), string(configJSON)).Scan(&analysisID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = as.db.Exec(query, formatTime(startTime, as.backend), string(configJSON))
		if err == nil {
			analysisID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert analysis run: %w", err)
	}

	return analysisID, nil
}

// RecordBatch stores the metrics and per-author centrality of one batch in a
// single transaction.
func (as *AnalysisStoreImpl) RecordBatch(analysisID int64, result schema.BatchResult) error {
	if as.disabled() {
		return nil
	}

	tx, err := as.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	metricQuery := fmt.Sprintf(`INSERT INTO %s (analysis_id, batch_index, batch_start, metric_name, metric_value) VALUES (%s)`,
		quoteTableName(batchMetricsTable, as.backend), placeholders(as.backend, 5))
	batchStart := formatTime(result.Batch.Start, as.backend)
	for _, m := range result.Metrics {
		if _, err := tx.Exec(metricQuery, analysisID, result.Batch.Index, batchStart, m.Name, m.Value); err != nil {
			return fmt.Errorf("failed to insert metric %s: %w", m.Name, err)
		}
	}

	centralityQuery := fmt.Sprintf(`INSERT INTO %s (analysis_id, batch_index, signal_name, author, closeness, betweenness, centrality, items, is_core) VALUES (%s)`,
		quoteTableName(authorCentralityTable, as.backend), placeholders(as.backend, 9))
	signals := make([]schema.Signal, 0, len(result.Reports))
	for s := range result.Reports {
		signals = append(signals, s)
	}
	sort.Slice(signals, func(i, j int) bool { return signals[i] < signals[j] })
	for _, s := range signals {
		for _, a := range result.Reports[s].Authors {
			if _, err := tx.Exec(centralityQuery, analysisID, result.Batch.Index, string(s), a.Author,
				a.Closeness, a.Betweenness, a.Degree, a.Items, a.Core); err != nil {
				return fmt.Errorf("failed to insert centrality of %s: %w", a.Author, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit batch %d: %w", result.Batch.Index, err)
	}
	return nil
}

// EndAnalysis updates the analysis run with completion data.
func (as *AnalysisStoreImpl) EndAnalysis(analysisID int64, endTime time.Time, totalBatches int) error {
	if as.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(analysisRunsTable, as.backend)

	var startTime time.Time
	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE analysis_id = %s`, quotedTableName, placeholder(as.backend, 1))
	if err := as.db.QueryRow(selectQuery, analysisID).Scan(timeScanner{dest: &startTime}); err != nil {
		return fmt.Errorf("failed to get start_time for analysis %d: %w", analysisID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_batches_analyzed = %s WHERE analysis_id = %s`,
		quotedTableName,
		placeholder(as.backend, 1), placeholder(as.backend, 2), placeholder(as.backend, 3), placeholder(as.backend, 4))
	if _, err := as.db.Exec(updateQuery, formatTime(endTime, as.backend), durationMs, totalBatches, analysisID); err != nil {
		return fmt.Errorf("failed to update analysis run: %w", err)
	}

	return nil
}

// Close closes the underlying connection.
func (as *AnalysisStoreImpl) Close() error {
	if as.db != nil {
		return as.db.Close()
	}
	return nil
}

// GetStatus returns status information about the analysis store.
func (as *AnalysisStoreImpl) GetStatus() (schema.AnalysisStatus, error) {
	status := schema.AnalysisStatus{
		Backend:    string(as.backend),
		Connected:  as.db != nil,
		TableSizes: make(map[string]int64),
	}
	if as.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(analysisRunsTable, as.backend)

	if err := as.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT analysis_id, start_time FROM %s ORDER BY analysis_id DESC LIMIT 1", runsTable)
		if err := as.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, timeScanner{dest: &status.LastRunTime}); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY analysis_id ASC LIMIT 1", runsTable)
		if err := as.db.QueryRow(oldestRunQuery).Scan(timeScanner{dest: &status.OldestRunTime}); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}

		batchesQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_batches_analyzed), 0) FROM %s", runsTable)
		if err := as.db.QueryRow(batchesQuery).Scan(&status.TotalBatchesAnalyzed); err != nil {
			return status, fmt.Errorf("failed to get total batches analyzed: %w", err)
		}
	}

	for _, table := range analysisTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, as.backend))
		if err := as.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllAnalysisRuns retrieves all analysis runs from the store.
func (as *AnalysisStoreImpl) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, start_time, end_time, run_duration_ms, total_batches_analyzed, config_params
		FROM %s ORDER BY analysis_id`, quoteTableName(analysisRunsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AnalysisRunRecord
	for rows.Next() {
		var record schema.AnalysisRunRecord
		if err := rows.Scan(&record.AnalysisID, timeScanner{dest: &record.StartTime}, nullTimeScanner{dest: &record.EndTime},
			&record.RunDurationMs, &record.TotalBatchesAnalyzed, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analysis runs: %w", err)
	}

	return results, nil
}

// GetAllBatchMetrics retrieves all batch metrics from the store.
func (as *AnalysisStoreImpl) GetAllBatchMetrics() ([]schema.BatchMetricRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, batch_index, batch_start, metric_name, metric_value
		FROM %s ORDER BY analysis_id, batch_index, metric_name`, quoteTableName(batchMetricsTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.BatchMetricRecord
	for rows.Next() {
		var record schema.BatchMetricRecord
		if err := rows.Scan(&record.AnalysisID, &record.BatchIndex, timeScanner{dest: &record.BatchStart},
			&record.MetricName, &record.MetricValue); err != nil {
			return nil, fmt.Errorf("failed to scan batch metric: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating batch metrics: %w", err)
	}

	return results, nil
}

// GetAllAuthorCentrality retrieves all author centrality rows from the store.
func (as *AnalysisStoreImpl) GetAllAuthorCentrality() ([]schema.AuthorCentralityRecord, error) {
	if as.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT analysis_id, batch_index, signal_name, author, closeness, betweenness, centrality, items, is_core
		FROM %s ORDER BY analysis_id, batch_index, signal_name, author`, quoteTableName(authorCentralityTable, as.backend))
	rows, err := as.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query author centrality: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.AuthorCentralityRecord
	for rows.Next() {
		var record schema.AuthorCentralityRecord
		if err := rows.Scan(&record.AnalysisID, &record.BatchIndex, &record.Signal, &record.Author,
			&record.Closeness, &record.Betweenness, &record.Centrality, &record.Items, &record.IsCore); err != nil {
			return nil, fmt.Errorf("failed to scan author centrality: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating author centrality: %w", err)
	}

	return results, nil
}
