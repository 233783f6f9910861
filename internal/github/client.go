// Package github fetches pull request, issue and release participation and
// commit logins from the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/coredev/internal/contract"
	"golang.org/x/time/rate"
)

const perPage = 100

// Client wraps the GitHub API client with rate limiting and concurrency.
type Client struct {
	client      *github.Client
	owner       string
	repo        string
	rateLimiter *rate.Limiter
	maxWorkers  int
}

var (
	_ contract.LoginResolver       = &Client{} // Compile-time check
	_ contract.ParticipationSource = &Client{} // Compile-time check
)

// NewClient creates a client for owner/repo allowing rps requests per second.
// An empty token uses unauthenticated access.
func NewClient(owner, repo, token string, rps float64, workers int) *Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &Client{
		client:      client,
		owner:       owner,
		repo:        repo,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), 1),
		maxWorkers:  max(workers, 1),
	}
}

// SetBaseURL points the client at another API endpoint, such as GitHub Enterprise.
func (c *Client) SetBaseURL(raw string) error {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	c.client.BaseURL = u
	return nil
}

// Repo returns the owner/repo slug served by the client.
func (c *Client) Repo() string {
	return c.owner + "/" + c.repo
}

func (c *Client) wait(ctx context.Context) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	return nil
}

// ResolveLogin returns the GitHub login of the author of commit sha, or an
// empty string when the commit email is not linked to an account.
func (c *Client) ResolveLogin(ctx context.Context, sha string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	commit, _, err := c.client.Repositories.GetCommit(ctx, c.owner, c.repo, sha, nil)
	if err != nil {
		return "", fmt.Errorf("fetch commit %s: %w", sha, err)
	}
	return normalizeLogin(commit.GetAuthor().GetLogin()), nil
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// participants collects normalized logins in first-seen order.
type participants struct {
	seen  map[string]struct{}
	order []string
}

func newParticipants() *participants {
	return &participants{seen: map[string]struct{}{}}
}

func (p *participants) add(login string) {
	login = normalizeLogin(login)
	if login == "" {
		return
	}
	if _, ok := p.seen[login]; ok {
		return
	}
	p.seen[login] = struct{}{}
	p.order = append(p.order, login)
}
