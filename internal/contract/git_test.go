package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// initTestRepo creates a repository with two commits by different authors.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(env []string, args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(), env...)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	commit := func(name, email, date, file string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(file), 0o644))
		run(nil, "add", file)
		env := []string{
			"GIT_AUTHOR_NAME=" + name, "GIT_AUTHOR_EMAIL=" + email, "GIT_AUTHOR_DATE=" + date,
			"GIT_COMMITTER_NAME=" + name, "GIT_COMMITTER_EMAIL=" + email, "GIT_COMMITTER_DATE=" + date,
		}
		run(env, "-c", "commit.gpgsign=false", "commit", "-q", "-m", "add "+file)
	}
	run(nil, "init", "-q")
	commit("Alice", "Alice@Example.com", "2023-01-02T10:00:00+02:00", "a.txt")
	commit("Bob", "bob@example.com", "2023-01-05T11:00:00Z", "b.txt")
	run(nil, "-c", "tag.gpgsign=false", "tag", "v0.1.0")
	run(nil, "remote", "add", "origin", "https://github.com/acme/widgets.git")
	return dir
}

func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)
	ctx := context.Background()
	expectedErr := errors.New("mocked git error")

	mockClient.
		On("Run", ctx, "/path/to/repo", "log", "-1").
		Return([]byte("a1b2c3d commit message"), expectedErr).
		Once()

	out, err := mockClient.Run(ctx, "/path/to/repo", "log", "-1")
	assert.Equal(t, []byte("a1b2c3d commit message"), out)
	assert.Equal(t, expectedErr, err)
	mockClient.AssertExpectations(t)
}

func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client, "NewLocalGitClient should return a non-nil client")
	assert.IsType(t, &LocalGitClient{}, client)
}

func TestLocalGitClient(t *testing.T) {
	skipIfGitNotAvailable(t)
	dir := initTestRepo(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	t.Run("repo root", func(t *testing.T) {
		root, err := client.GetRepoRoot(ctx, dir)
		require.NoError(t, err)
		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(root)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("remote url", func(t *testing.T) {
		url, err := client.GetRemoteURL(ctx, dir, "origin")
		require.NoError(t, err)
		assert.Equal(t, "https://github.com/acme/widgets.git", url)
	})

	t.Run("commit log", func(t *testing.T) {
		commits, err := client.GetCommitLog(ctx, dir)
		require.NoError(t, err)
		require.Len(t, commits, 2)

		// git log lists newest first
		assert.Equal(t, "bob@example.com", commits[0].Author)
		assert.Equal(t, "alice@example.com", commits[1].Author)
		assert.Equal(t, "Alice", commits[1].Name)
		assert.Equal(t, "add a.txt", commits[1].Message)
		_, offset := commits[1].CommittedAt.Zone()
		assert.Equal(t, 2*3600, offset)
		assert.True(t, commits[1].CommittedAt.Equal(time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)))
		assert.Len(t, commits[0].Hash, 40)
	})

	t.Run("tags", func(t *testing.T) {
		tags, err := client.GetTags(ctx, dir)
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, "v0.1.0", tags[0].Name)
		assert.True(t, tags[0].Date.Equal(time.Date(2023, 1, 5, 11, 0, 0, 0, time.UTC)))
	})

	t.Run("not a repository", func(t *testing.T) {
		_, err := client.GetRepoRoot(ctx, t.TempDir())
		assert.Error(t, err)
	})
}

func TestParseCommitLog(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{
			name:  "two commits with noise",
			input: "--abc\x1fA\x1fa@x.io\x1f2023-01-02T10:00:00+02:00\x1fmsg\n\nnoise\n--def\x1fB\x1f\x1f2023-01-03T10:00:00Z\x1f\n",
			want:  2,
		},
		{
			name:  "empty",
			input: "",
			want:  0,
		},
		{
			name:    "missing fields",
			input:   "--abc\x1fA\n",
			wantErr: true,
		},
		{
			name:    "bad date",
			input:   "--abc\x1fA\x1fa@x.io\x1fyesterday\x1fmsg\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commits, err := ParseCommitLog([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, commits, tt.want)
		})
	}

	commits, err := ParseCommitLog([]byte("--def\x1fBob Smith\x1f\x1f2023-01-03T10:00:00Z\x1f\n"))
	require.NoError(t, err)
	assert.Equal(t, "Bob Smith", commits[0].Author, "name is the identity when email is empty")
}

func TestParseTagList(t *testing.T) {
	out := "v1\x1f2023-01-01T00:00:00Z\x1f\nv2\x1f2023-02-01T00:00:00Z\x1f2023-01-15T00:00:00Z\nblob\x1f\x1f\n"
	tags, err := ParseTagList([]byte(out))
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "v1", tags[0].Name)
	assert.Equal(t, time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC), tags[1].Date.UTC())
}

func TestAuthorIdentity(t *testing.T) {
	assert.Equal(t, "jdoe@corp.com", AuthorIdentity("John", "  JDoe@Corp.com "))
	assert.Equal(t, "John Doe", AuthorIdentity(" John Doe ", ""))
}
