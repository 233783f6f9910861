// Package main benchmarks the coredev CLI across repositories of different sizes.
// Each command runs several times without the login cache and several times with
// it; the first cached run counts as cold and the rest are averaged as warm.
// Results are written to a timestamped CSV file.
//
// Prerequisites:
// - coredev binary installed and available in PATH
// - Test repositories cloned to the specified base directory
// - Git repositories: csv-parser, fd, git, kubernetes
// - GITHUB_TOKEN set to include pull request and issue signals
//
// Usage: go run benchmark/main.go [repo-base-dir]
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one command on one repository.
type BenchmarkResult struct {
	Repository  string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	RepoBase    string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	TestRepos   []string
	BatchMonths map[string]string
}

// benchmarkCommand is one CLI invocation under test.
type benchmarkCommand struct {
	name string
	args func(repo string) []string
	// done reports whether the combined output shows a finished run.
	done func(output string) bool
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [repo-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		RepoBase:    os.Args[1],
		Timeout:     10 * time.Minute,
		NoCacheRuns: 2,
		CacheRuns:   3,
		TestRepos:   []string{"csv-parser", "fd", "git", "kubernetes"},
		BatchMonths: map[string]string{
			"csv-parser": "12",
			"fd":         "6",
			"git":        "12",
			"kubernetes": "3",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	if output, err := exec.Command("coredev", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config, commandsFor(config))

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// commandsFor lists the commands measured for every repository.
func commandsFor(config BenchmarkConfig) []benchmarkCommand {
	return []benchmarkCommand{
		{
			name: "analyze",
			args: func(repo string) []string {
				return []string{"analyze", "--batch-months", config.BatchMonths[repo], "--color", "no"}
			},
			done: func(output string) bool {
				return strings.Contains(output, "Analysis completed in") && strings.Contains(output, "workers")
			},
		},
		{
			name: "aliases",
			args: func(string) []string { return []string{"aliases", "--color", "no"} },
			done: func(output string) bool { return strings.Contains(output, "aliases,") },
		},
	}
}

// checkPrerequisites verifies that the coredev binary and test repositories exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("coredev"); err != nil {
		return errors.New("coredev binary not found in PATH")
	}
	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		if _, err := os.Stat(repoPath); os.IsNotExist(err) {
			return fmt.Errorf("repository %s not found at %s", repo, repoPath)
		}
	}
	return nil
}

// runBenchmarks executes all commands across configured repositories
func runBenchmarks(config BenchmarkConfig, commands []benchmarkCommand) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d repos, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.TestRepos), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, repo := range config.TestRepos {
		repoPath := filepath.Join(config.RepoBase, repo)
		for _, c := range commands {
			results = append(results, runBenchmarkSuite(config, repo, repoPath, c))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache phases for a command
func runBenchmarkSuite(config BenchmarkConfig, repo, repoPath string, c benchmarkCommand) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", c.name, repo)

	_, noCache := runBenchmark(config, repoPath, c, "none", config.NoCacheRuns)
	cold, warm := runBenchmark(config, repoPath, c, "sqlite", config.CacheRuns)

	result := BenchmarkResult{
		Repository:  repo,
		Command:     c.name,
		NoCacheTime: formatAverage(noCache),
		ColdTime:    "TIMEOUT",
		WarmTime:    formatAverage(warm),
	}
	if cold > 0 {
		result.ColdTime = fmt.Sprintf("%.3fs", cold)
	}
	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", result.NoCacheTime, result.ColdTime, result.WarmTime)
	return result
}

// runBenchmark executes a command numRuns times and returns the first
// successful time and the remaining ones.
func runBenchmark(config BenchmarkConfig, repoPath string, c benchmarkCommand, cacheBackend string, numRuns int) (first float64, rest []float64) {
	args := append(c.args(filepath.Base(repoPath)), "--cache-backend", cacheBackend)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		cmd := exec.CommandContext(ctx, "coredev", args...)
		cmd.Dir = repoPath
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil && c.done(string(output)) {
			times = append(times, elapsed)
		}
	}

	if len(times) == 0 {
		return 0, nil
	}
	if cacheBackend == "none" {
		return times[0], times
	}
	return times[0], times[1:]
}

func formatAverage(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	filename := fmt.Sprintf("/tmp/coredev_benchmark_%s.csv", time.Now().Format("20060102_150405"))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"repo", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Repository, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range []string{"analyze", "aliases"} {
		fmt.Printf("%s:\n", command)
		for _, r := range results {
			if r.Command == command {
				fmt.Printf("  %-12s: No-cache: %s, Cold: %s, Warm: %s\n", r.Repository, r.NoCacheTime, r.ColdTime, r.WarmTime)
			}
		}
	}
}
