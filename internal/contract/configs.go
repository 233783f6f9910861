package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/huangsam/coredev/schema"
)

// Default values for configuration.
const (
	DefaultBatchMonths = 9999.0
	DefaultMaxDistance = 0.75
	DefaultPrecision   = 2
	MaxPrecision       = 4
	DefaultGitHubRPS   = 1.0
	DefaultRemote      = "origin"
)

// Fixed analysis thresholds.
const (
	HighCentralityThreshold = 0.5
	ExperienceDays          = 150
	SponsoredRatio          = 0.95
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// StartDateFormat is the layout accepted by --start-date.
const StartDateFormat = time.DateOnly

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath    string
	BatchMonths float64
	StartDate   time.Time // zero means no truncation
	MaxDistance float64
	Workers     int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Verbose     bool

	GitHubOwner string
	GitHubRepo  string
	GitHubToken string // Please use env var as this is plaintext
	GitHubRPS   float64

	AliasesFile string
	GraphDir    string
	GraphFormat schema.GraphFormat

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	BatchMonths       float64 `mapstructure:"batch-months"`
	StartDate         string  `mapstructure:"start-date"`
	MaxDistance       float64 `mapstructure:"max-distance"`
	Workers           int     `mapstructure:"workers"`
	Precision         int     `mapstructure:"precision"`
	Output            string  `mapstructure:"output"`
	OutputFile        string  `mapstructure:"output-file"`
	Color             string  `mapstructure:"color"`
	Verbose           bool    `mapstructure:"verbose"`
	GitHubOwner       string  `mapstructure:"github-owner"`
	GitHubRepo        string  `mapstructure:"github-repo"`
	GitHubToken       string  `mapstructure:"github-token"`
	GitHubRPS         float64 `mapstructure:"github-rps"`
	AliasesFile       string  `mapstructure:"aliases-file"`
	GraphDir          string  `mapstructure:"graph-dir"`
	GraphFormat       string  `mapstructure:"graph-format"`
	CacheBackend      string  `mapstructure:"cache-backend"`
	CacheDBConnect    string  `mapstructure:"cache-db-connect"`
	AnalysisBackend   string  `mapstructure:"analysis-backend"`
	AnalysisDBConnect string  `mapstructure:"analysis-db-connect"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// HasGitHub reports whether a GitHub repository is configured.
func (c *Config) HasGitHub() bool {
	return c.GitHubOwner != "" && c.GitHubRepo != ""
}

// ConfigParams returns the settings recorded with each analysis run.
func (c *Config) ConfigParams() map[string]any {
	params := map[string]any{
		"repo_path":    c.RepoPath,
		"batch_months": c.BatchMonths,
		"max_distance": c.MaxDistance,
		"workers":      c.Workers,
	}
	if !c.StartDate.IsZero() {
		params["start_date"] = c.StartDate.Format(StartDateFormat)
	}
	if c.HasGitHub() {
		params["github"] = c.GitHubOwner + "/" + c.GitHubRepo
	}
	return params
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAnalysisInputs(cfg, input); err != nil {
		return err
	}
	if err := resolveGitPath(ctx, cfg, client, input); err != nil {
		return err
	}
	return resolveGitHubRepo(ctx, cfg, client, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return err
	}

	// SQLite stores must not share a file
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output and storage fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Verbose = input.Verbose
	cfg.AliasesFile = input.AliasesFile
	cfg.GraphDir = input.GraphDir

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	cfg.GraphFormat = schema.GraphFormat(strings.ToLower(input.GraphFormat))
	if cfg.GraphFormat == "" {
		cfg.GraphFormat = schema.DOTFormat
	}
	if _, ok := schema.ValidGraphFormats[cfg.GraphFormat]; !ok {
		return fmt.Errorf("invalid graph format '%s'. must be dot, graphml", input.GraphFormat)
	}

	return validateBackendConfigs(cfg, input)
}

// processAnalysisInputs validates the batching, alias and GitHub settings.
func processAnalysisInputs(cfg *Config, input *ConfigRawInput) error {
	if input.BatchMonths <= 0 {
		return fmt.Errorf("batch-months must be greater than 0 (received %g)", input.BatchMonths)
	}
	cfg.BatchMonths = input.BatchMonths

	if input.MaxDistance < 0 {
		return fmt.Errorf("max-distance must not be negative (received %g)", input.MaxDistance)
	}
	cfg.MaxDistance = input.MaxDistance

	cfg.StartDate = time.Time{}
	if s := strings.TrimSpace(input.StartDate); s != "" {
		t, err := time.ParseInLocation(StartDateFormat, s, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid start date '%s'. Expected YYYY-MM-DD: %w", input.StartDate, err)
		}
		cfg.StartDate = t
	}

	if input.GitHubRPS <= 0 {
		return fmt.Errorf("github-rps must be greater than 0 (received %g)", input.GitHubRPS)
	}
	cfg.GitHubRPS = input.GitHubRPS

	cfg.GitHubOwner = strings.TrimSpace(input.GitHubOwner)
	cfg.GitHubRepo = strings.TrimSpace(input.GitHubRepo)
	if (cfg.GitHubOwner == "") != (cfg.GitHubRepo == "") {
		return fmt.Errorf("github-owner and github-repo must be set together")
	}
	cfg.GitHubToken = input.GitHubToken
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}
	return nil
}

// resolveGitPath resolves the Git repository root from the positional path.
func resolveGitPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	gitContextPath := absSearchPath
	if info, statErr := os.Stat(absSearchPath); statErr == nil && !info.IsDir() {
		gitContextPath = filepath.Dir(absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, gitContextPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot
	return nil
}

// resolveGitHubRepo falls back to the origin remote when no GitHub
// repository was given explicitly. A missing or foreign remote is not an error.
func resolveGitHubRepo(ctx context.Context, cfg *Config, client GitClient, _ *ConfigRawInput) error {
	if cfg.HasGitHub() {
		return nil
	}
	url, err := client.GetRemoteURL(ctx, cfg.RepoPath, DefaultRemote)
	if err != nil || url == "" {
		return nil
	}
	if owner, repo, ok := ParseGitHubRemote(url); ok {
		cfg.GitHubOwner = owner
		cfg.GitHubRepo = repo
	}
	return nil
}

var githubRemotePattern = regexp.MustCompile(`github\.com[:/]([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`)

// ParseGitHubRemote extracts owner and repository from a GitHub remote URL
// in either HTTPS or SSH form.
func ParseGitHubRemote(url string) (owner, repo string, ok bool) {
	m := githubRemotePattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
