// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/coredev/schema"
)

// GitClient defines the git operations the analysis needs.
// This allows the core analysis logic to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns its output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRemoteURL returns the fetch URL of the named remote.
	GetRemoteURL(ctx context.Context, repoPath string, remote string) (string, error)

	// GetCommitLog returns every commit reachable from HEAD, newest first.
	GetCommitLog(ctx context.Context, repoPath string) ([]schema.CommitRecord, error)

	// GetTags returns all tags with the date of the commit they point at.
	GetTags(ctx context.Context, repoPath string) ([]schema.Tag, error)
}

// LoginResolver maps a commit to the hosting-service login of its author.
// An empty login with a nil error means the commit has no linked account.
type LoginResolver interface {
	ResolveLogin(ctx context.Context, sha string) (string, error)
}

// ParticipationSource supplies pull request, issue and release data.
type ParticipationSource interface {
	PullRequests(ctx context.Context) ([]schema.Participation, error)
	Issues(ctx context.Context) ([]schema.Participation, error)
	Releases(ctx context.Context) ([]schema.Release, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetLoginStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs and storing batch results.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error)

	// RecordBatch stores the metrics and per-author centrality of one batch
	RecordBatch(analysisID int64, result schema.BatchResult) error

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalBatches int) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)
	GetAllBatchMetrics() ([]schema.BatchMetricRecord, error)
	GetAllAuthorCentrality() ([]schema.AuthorCentralityRecord, error)

	// Close closes the underlying connection
	Close() error
}
