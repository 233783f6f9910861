//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	// sharedCoredevPath holds the path to a shared coredev binary built once for all tests.
	sharedCoredevPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getCoredevBinary returns the path to the coredev binary, building it once if needed.
func getCoredevBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "coredev-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		coredevPath := filepath.Join(tempDir, "coredev")
		buildCmd := exec.Command("go", "build", "-o", coredevPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build coredev: %v\n%s", err, out))
		}

		sharedCoredevPath = coredevPath
	})

	return sharedCoredevPath
}

// testCommit describes one commit of a generated repository.
type testCommit struct {
	name  string
	email string
	file  string
	at    time.Time
}

// fixtureCommits spans two quarters with three authors, one of them using two emails.
var fixtureCommits = []testCommit{
	{"Alice Anderson", "alice@example.com", "core.go", time.Date(2023, 1, 5, 10, 0, 0, 0, time.UTC)},
	{"Bob Brown", "bob@example.com", "core.go", time.Date(2023, 1, 20, 11, 0, 0, 0, time.UTC)},
	{"Alice Anderson", "alice@work.example", "util.go", time.Date(2023, 2, 2, 9, 0, 0, 0, time.UTC)},
	{"Carol Chen", "carol@example.com", "util.go", time.Date(2023, 3, 1, 15, 0, 0, 0, time.UTC)},
	{"Bob Brown", "bob@example.com", "util.go", time.Date(2023, 4, 10, 8, 0, 0, 0, time.UTC)},
	{"Carol Chen", "carol@example.com", "core.go", time.Date(2023, 5, 15, 16, 0, 0, 0, time.UTC)},
}

// createTestRepo initializes a Git repository in a temp dir with the given commits.
func createTestRepo(t *testing.T, commits []testCommit) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	runGit(t, dir, nil, "init", "-q")
	for i, c := range commits {
		path := filepath.Join(dir, c.file)
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		_, err = fmt.Fprintf(f, "change %d\n", i)
		require.NoError(t, err)
		require.NoError(t, f.Close())

		date := c.at.Format(time.RFC3339)
		env := []string{
			"GIT_AUTHOR_NAME=" + c.name,
			"GIT_AUTHOR_EMAIL=" + c.email,
			"GIT_AUTHOR_DATE=" + date,
			"GIT_COMMITTER_NAME=" + c.name,
			"GIT_COMMITTER_EMAIL=" + c.email,
			"GIT_COMMITTER_DATE=" + date,
		}
		runGit(t, dir, nil, "add", c.file)
		runGit(t, dir, env, "commit", "-q", "-m", fmt.Sprintf("commit %d", i))
	}
	return dir
}

// runGit runs git in dir and returns its trimmed output.
func runGit(t *testing.T, dir string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

// runCoredev runs the coredev binary in dir and returns its stdout.
func runCoredev(t *testing.T, dir string, env []string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getCoredevBinary(), args...)
	cmd.Dir = dir
	// Keep the developer's home config and caches out of the run.
	cmd.Env = append(os.Environ(), "HOME="+t.TempDir(), "GITHUB_TOKEN=")
	cmd.Env = append(cmd.Env, env...)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return stdout.String(), err
	}
	return stdout.String(), nil
}
