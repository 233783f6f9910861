package contract

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/huangsam/coredev/schema"
)

// fieldSep separates fields of one log line; git expands %x1f to it.
const fieldSep = "\x1f"

// commitLinePrefix marks the start of each commit header line.
const commitLinePrefix = "--"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRemoteURL implements the GitClient interface.
func (c *LocalGitClient) GetRemoteURL(ctx context.Context, repoPath string, remote string) (string, error) {
	out, err := c.Run(ctx, repoPath, "config", "--get", "remote."+remote+".url")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetCommitLog implements the GitClient interface.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string) ([]schema.CommitRecord, error) {
	out, err := c.Run(ctx, repoPath,
		"log",
		"--pretty=format:"+commitLinePrefix+"%H%x1f%an%x1f%ae%x1f%cI%x1f%s",
	)
	if err != nil {
		return nil, err
	}
	return ParseCommitLog(out)
}

// GetTags implements the GitClient interface.
func (c *LocalGitClient) GetTags(ctx context.Context, repoPath string) ([]schema.Tag, error) {
	out, err := c.Run(ctx, repoPath,
		"for-each-ref",
		"--sort=creatordate",
		"--format=%(refname:short)%1f%(committerdate:iso-strict)%1f%(*committerdate:iso-strict)",
		"refs/tags",
	)
	if err != nil {
		return nil, err
	}
	return ParseTagList(out)
}

// ParseCommitLog parses the output of GetCommitLog into commit records.
// Lines that do not start a commit are ignored.
func ParseCommitLog(out []byte) ([]schema.CommitRecord, error) {
	var commits []schema.CommitRecord
	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if !strings.HasPrefix(line, commitLinePrefix) {
			continue
		}
		parts := strings.SplitN(line[len(commitLinePrefix):], fieldSep, 5)
		if len(parts) < 4 {
			return nil, fmt.Errorf("malformed commit line %q", line)
		}
		committedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(parts[3]))
		if err != nil {
			return nil, fmt.Errorf("invalid commit date for %s: %w", parts[0], err)
		}
		record := schema.CommitRecord{
			Hash:        strings.TrimSpace(parts[0]),
			Name:        strings.TrimSpace(parts[1]),
			Email:       strings.TrimSpace(parts[2]),
			CommittedAt: committedAt,
		}
		if len(parts) == 5 {
			record.Message = parts[4]
		}
		record.Author = AuthorIdentity(record.Name, record.Email)
		commits = append(commits, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}
	return commits, nil
}

// ParseTagList parses for-each-ref output. Annotated tags use the date of
// the commit they dereference to.
func ParseTagList(out []byte) ([]schema.Tag, error) {
	var tags []schema.Tag
	for line := range strings.SplitSeq(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, fieldSep)
		if len(parts) < 2 {
			return nil, fmt.Errorf("malformed tag line %q", line)
		}
		dateStr := strings.TrimSpace(parts[1])
		if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
			dateStr = strings.TrimSpace(parts[2])
		}
		if dateStr == "" {
			continue // tag pointing at a non-commit object
		}
		date, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date for tag %s: %w", parts[0], err)
		}
		tags = append(tags, schema.Tag{Name: parts[0], Date: date})
	}
	return tags, nil
}

// AuthorIdentity returns the identity key of a commit author: the
// normalized email, or the name when no email is recorded.
func AuthorIdentity(name, email string) string {
	if e := strings.ToLower(strings.TrimSpace(email)); e != "" {
		return e
	}
	return strings.TrimSpace(name)
}
