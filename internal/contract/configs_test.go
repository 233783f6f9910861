package contract

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/coredev/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func validRawInput() *ConfigRawInput {
	return &ConfigRawInput{
		RepoPathStr:  ".",
		BatchMonths:  DefaultBatchMonths,
		MaxDistance:  DefaultMaxDistance,
		Workers:      4,
		Precision:    DefaultPrecision,
		Output:       "text",
		Color:        "yes",
		GitHubRPS:    DefaultGitHubRPS,
		GraphFormat:  "dot",
		CacheBackend: "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		remoteURL   string
		expectError bool
		check       func(*testing.T, *Config)
	}{
		{
			name:      "valid minimal config",
			modify:    func(*ConfigRawInput) {},
			remoteURL: "",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/mock/repo/root", cfg.RepoPath)
				assert.Equal(t, DefaultBatchMonths, cfg.BatchMonths)
				assert.True(t, cfg.StartDate.IsZero())
				assert.False(t, cfg.HasGitHub())
				assert.True(t, cfg.UseColors)
			},
		},
		{
			name: "start date parsed in UTC",
			modify: func(in *ConfigRawInput) {
				in.StartDate = "2021-03-04"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), cfg.StartDate)
			},
		},
		{
			name:      "github repo inferred from origin",
			modify:    func(*ConfigRawInput) {},
			remoteURL: "git@github.com:acme/widgets.git",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "acme", cfg.GitHubOwner)
				assert.Equal(t, "widgets", cfg.GitHubRepo)
			},
		},
		{
			name: "explicit github repo wins",
			modify: func(in *ConfigRawInput) {
				in.GitHubOwner = "octo"
				in.GitHubRepo = "cat"
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "octo", cfg.GitHubOwner)
				assert.Equal(t, "cat", cfg.GitHubRepo)
			},
		},
		{
			name:        "invalid batch months",
			modify:      func(in *ConfigRawInput) { in.BatchMonths = 0 },
			expectError: true,
		},
		{
			name:        "negative max distance",
			modify:      func(in *ConfigRawInput) { in.MaxDistance = -0.1 },
			expectError: true,
		},
		{
			name:        "malformed start date",
			modify:      func(in *ConfigRawInput) { in.StartDate = "03/04/2021" },
			expectError: true,
		},
		{
			name:        "invalid workers",
			modify:      func(in *ConfigRawInput) { in.Workers = 0 },
			expectError: true,
		},
		{
			name:        "precision too high",
			modify:      func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 },
			expectError: true,
		},
		{
			name:        "invalid output",
			modify:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: true,
		},
		{
			name:        "invalid graph format",
			modify:      func(in *ConfigRawInput) { in.GraphFormat = "gexf" },
			expectError: true,
		},
		{
			name:        "invalid color",
			modify:      func(in *ConfigRawInput) { in.Color = "maybe" },
			expectError: true,
		},
		{
			name:        "owner without repo",
			modify:      func(in *ConfigRawInput) { in.GitHubOwner = "octo" },
			expectError: true,
		},
		{
			name:        "non-positive rate",
			modify:      func(in *ConfigRawInput) { in.GitHubRPS = 0 },
			expectError: true,
		},
		{
			name: "sqlite cache and analysis share a file",
			modify: func(in *ConfigRawInput) {
				in.CacheBackend = "sqlite"
				in.CacheDBConnect = "/tmp/same.db"
				in.AnalysisBackend = "sqlite"
				in.AnalysisDBConnect = "/tmp/same.db"
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			workDir, err := filepath.Abs(".")
			require.NoError(t, err)

			client := &MockGitClient{}
			client.On("GetRepoRoot", ctx, workDir).Return("/mock/repo/root", nil).Maybe()
			client.On("GetRemoteURL", ctx, "/mock/repo/root", DefaultRemote).Return(tt.remoteURL, nil).Maybe()

			input := validRawInput()
			tt.modify(input)
			cfg := &Config{}
			err = ProcessAndValidate(ctx, cfg, client, input)

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
			client.AssertExpectations(t)
		})
	}
}

func TestProcessAndValidate_RepoRootError(t *testing.T) {
	ctx := context.Background()
	client := &MockGitClient{}
	client.On("GetRepoRoot", ctx, mock.Anything).Return("", errors.New("not a git repository"))

	err := ProcessAndValidate(ctx, &Config{}, client, validRawInput())
	assert.ErrorContains(t, err, "not a git repository")
}

func TestProcessAndValidate_TokenFromEnvironment(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	ctx := context.Background()
	client := &MockGitClient{}
	client.On("GetRepoRoot", ctx, mock.Anything).Return("/repo", nil)
	client.On("GetRemoteURL", ctx, "/repo", DefaultRemote).Return("", errors.New("no remote"))

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(ctx, cfg, client, validRawInput()))
	assert.Equal(t, "env-token", cfg.GitHubToken)
	assert.False(t, cfg.HasGitHub())
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/coredev", false},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/coredev", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=coredev", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=coredev", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseGitHubRemote(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		repo  string
		ok    bool
	}{
		{"https://github.com/acme/widgets.git", "acme", "widgets", true},
		{"https://github.com/acme/widgets", "acme", "widgets", true},
		{"git@github.com:acme/widgets.git", "acme", "widgets", true},
		{"ssh://git@github.com/acme/widgets", "acme", "widgets", true},
		{"https://gitlab.com/acme/widgets.git", "", "", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			owner, repo, ok := ParseGitHubRemote(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.owner, owner)
			assert.Equal(t, tt.repo, repo)
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{RepoPath: "/repo", BatchMonths: 3}
	clone := cfg.Clone()
	clone.BatchMonths = 6
	assert.Equal(t, 3.0, cfg.BatchMonths)
	assert.Equal(t, "/repo", clone.RepoPath)
}

func TestConfigParams(t *testing.T) {
	cfg := &Config{
		RepoPath:    "/repo",
		BatchMonths: 3,
		MaxDistance: 0.5,
		Workers:     2,
		StartDate:   time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		GitHubOwner: "acme",
		GitHubRepo:  "widgets",
	}
	params := cfg.ConfigParams()
	assert.Equal(t, "2020-01-02", params["start_date"])
	assert.Equal(t, "acme/widgets", params["github"])
	assert.Equal(t, 3.0, params["batch_months"])
}
