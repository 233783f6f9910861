package iocache

import (
	"testing"
	"time"

	"github.com/huangsam/coredev/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBatchResult(index int, start time.Time) schema.BatchResult {
	return schema.BatchResult{
		Batch: schema.Batch{Index: index, Start: start, End: start.AddDate(0, 3, 0)},
		Reports: map[schema.Signal]schema.CentralityReport{
			schema.CommitSignal: {
				Signal:     schema.CommitSignal,
				BatchIndex: index,
				Authors: []schema.AuthorCentrality{
					{Author: "alice", Closeness: 1, Betweenness: 1, Degree: 1, Items: 10, Core: true},
					{Author: "bob", Closeness: 0.5, Betweenness: 0, Degree: 0.5, Items: 3},
				},
			},
			schema.PRSignal: {
				Signal:     schema.PRSignal,
				BatchIndex: index,
				Authors:    []schema.AuthorCentrality{{Author: "alice", Closeness: 1, Degree: 1, Items: 2, Core: true}},
			},
		},
		Metrics: []schema.Metric{
			{Name: "numCommits", Value: 13},
			{Name: "busFactor", Value: 1},
		},
	}
}

func TestAnalysisStore_NoneBackend(t *testing.T) {
	store, err := NewAnalysisStore(schema.NoneBackend, "")
	require.NoError(t, err)

	id, err := store.BeginAnalysis(time.Now(), map[string]any{"repo_path": "/x"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)
	assert.NoError(t, store.RecordBatch(id, sampleBatchResult(0, time.Now())))
	assert.NoError(t, store.EndAnalysis(id, time.Now(), 1))

	runs, err := store.GetAllAnalysisRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestAnalysisStore_SQLiteLifecycle(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	id, err := store.BeginAnalysis(start, map[string]any{"batch_months": 3.0, "repo_path": "/repo"})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	batchStart := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordBatch(id, sampleBatchResult(0, batchStart)))
	require.NoError(t, store.RecordBatch(id, sampleBatchResult(1, batchStart.AddDate(0, 3, 0))))
	require.NoError(t, store.EndAnalysis(id, start.Add(1500*time.Millisecond), 2))

	runs, err := store.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, id, run.AnalysisID)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1500), *run.RunDurationMs)
	assert.Equal(t, int32(2), run.TotalBatchesAnalyzed)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"batch_months":3,"repo_path":"/repo"}`, *run.ConfigParams)

	metrics, err := store.GetAllBatchMetrics()
	require.NoError(t, err)
	require.Len(t, metrics, 4)
	// Ordered by batch then metric name.
	assert.Equal(t, "busFactor", metrics[0].MetricName)
	assert.Equal(t, "numCommits", metrics[1].MetricName)
	assert.InDelta(t, 13.0, metrics[1].MetricValue, 1e-9)
	assert.True(t, batchStart.Equal(metrics[0].BatchStart))
	assert.Equal(t, int32(1), metrics[2].BatchIndex)

	centrality, err := store.GetAllAuthorCentrality()
	require.NoError(t, err)
	require.Len(t, centrality, 6)
	first := centrality[0]
	assert.Equal(t, "commit", first.Signal)
	assert.Equal(t, "alice", first.Author)
	assert.True(t, first.IsCore)
	assert.Equal(t, int32(10), first.Items)
	assert.False(t, centrality[1].IsCore)
	assert.Equal(t, "pr", centrality[2].Signal)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, id, status.LastRunID)
	assert.Equal(t, 2, status.TotalBatchesAnalyzed)
	assert.Equal(t, int64(1), status.TableSizes[analysisRunsTable])
	assert.Equal(t, int64(4), status.TableSizes[batchMetricsTable])
	assert.Equal(t, int64(6), status.TableSizes[authorCentralityTable])
}

func TestAnalysisStore_RecordBatchIsAtomic(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	id, err := store.BeginAnalysis(time.Now(), nil)
	require.NoError(t, err)

	result := sampleBatchResult(0, time.Now())
	require.NoError(t, store.RecordBatch(id, result))

	// Recording the same batch again violates the primary key and must leave no partial rows.
	result.Metrics = append([]schema.Metric{{Name: "fresh", Value: 1}}, result.Metrics...)
	assert.Error(t, store.RecordBatch(id, result))

	metrics, err := store.GetAllBatchMetrics()
	require.NoError(t, err)
	assert.Len(t, metrics, 2)
}

func TestAnalysisStore_EndAnalysisUnknownRun(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Error(t, store.EndAnalysis(404, time.Now(), 0))
}

func TestAnalysisStore_MultipleRuns(t *testing.T) {
	store, err := NewAnalysisStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(24 * time.Hour)

	first, err := store.BeginAnalysis(older, nil)
	require.NoError(t, err)
	second, err := store.BeginAnalysis(newer, nil)
	require.NoError(t, err)
	assert.Greater(t, second, first)

	runs, err := store.GetAllAnalysisRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Nil(t, runs[1].EndTime)
	assert.Nil(t, runs[1].RunDurationMs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, second, status.LastRunID)
	assert.True(t, newer.Equal(status.LastRunTime))
	assert.True(t, older.Equal(status.OldestRunTime))
	assert.Equal(t, 0, status.TotalBatchesAnalyzed)
}
