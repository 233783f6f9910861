package github

import (
	"context"
	"fmt"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/schema"
	"golang.org/x/sync/errgroup"
)

// PullRequests lists every pull request with its author, commenters and
// reviewers as participants.
func (c *Client) PullRequests(ctx context.Context) ([]schema.Participation, error) {
	var prs []*github.PullRequest
	opts := &github.PullRequestListOptions{State: "all", ListOptions: github.ListOptions{PerPage: perPage}}
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := c.client.PullRequests.List(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch pull requests: %w", err)
		}
		prs = append(prs, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	contract.Logger().WithField("repo", c.Repo()).Debugf("Fetched %d pull requests", len(prs))

	out := make([]schema.Participation, len(prs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)
	for i, pr := range prs {
		g.Go(func() error {
			item, err := c.pullRequestParticipation(gctx, pr)
			if err != nil {
				return err
			}
			out[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) pullRequestParticipation(ctx context.Context, pr *github.PullRequest) (schema.Participation, error) {
	number := pr.GetNumber()
	people := newParticipants()
	people.add(pr.GetUser().GetLogin())

	comments, err := c.issueComments(ctx, number)
	if err != nil {
		return schema.Participation{}, err
	}
	for _, cm := range comments {
		people.add(cm.GetUser().GetLogin())
	}

	reviewOpts := &github.ListOptions{PerPage: perPage}
	for {
		if err := c.wait(ctx); err != nil {
			return schema.Participation{}, err
		}
		reviews, resp, err := c.client.PullRequests.ListReviews(ctx, c.owner, c.repo, number, reviewOpts)
		if err != nil {
			return schema.Participation{}, fmt.Errorf("fetch reviews of #%d: %w", number, err)
		}
		for _, r := range reviews {
			people.add(r.GetUser().GetLogin())
		}
		if resp.NextPage == 0 {
			break
		}
		reviewOpts.Page = resp.NextPage
	}

	commits := 0
	commitOpts := &github.ListOptions{PerPage: perPage}
	for {
		if err := c.wait(ctx); err != nil {
			return schema.Participation{}, err
		}
		page, resp, err := c.client.PullRequests.ListCommits(ctx, c.owner, c.repo, number, commitOpts)
		if err != nil {
			return schema.Participation{}, fmt.Errorf("fetch commits of #%d: %w", number, err)
		}
		commits += len(page)
		if resp.NextPage == 0 {
			break
		}
		commitOpts.Page = resp.NextPage
	}

	return schema.Participation{
		Number:       number,
		CreatedAt:    pr.GetCreatedAt().Time,
		ClosedAt:     closedAt(pr.ClosedAt),
		Participants: people.order,
		CommentCount: len(comments),
		CommitCount:  commits,
	}, nil
}

// Issues lists every issue that is not a pull request with its author and
// commenters as participants.
func (c *Client) Issues(ctx context.Context) ([]schema.Participation, error) {
	var issues []*github.Issue
	opts := &github.IssueListByRepoOptions{State: "all", ListOptions: github.ListOptions{PerPage: perPage}}
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := c.client.Issues.ListByRepo(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch issues: %w", err)
		}
		for _, is := range page {
			if !is.IsPullRequest() {
				issues = append(issues, is)
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	contract.Logger().WithField("repo", c.Repo()).Debugf("Fetched %d issues", len(issues))

	out := make([]schema.Participation, len(issues))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxWorkers)
	for i, is := range issues {
		g.Go(func() error {
			people := newParticipants()
			people.add(is.GetUser().GetLogin())
			comments, err := c.issueComments(gctx, is.GetNumber())
			if err != nil {
				return err
			}
			for _, cm := range comments {
				people.add(cm.GetUser().GetLogin())
			}
			out[i] = schema.Participation{
				Number:       is.GetNumber(),
				CreatedAt:    is.GetCreatedAt().Time,
				ClosedAt:     closedAt(is.ClosedAt),
				Participants: people.order,
				CommentCount: len(comments),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Releases lists every published release.
func (c *Client) Releases(ctx context.Context) ([]schema.Release, error) {
	var out []schema.Release
	opts := &github.ListOptions{PerPage: perPage}
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := c.client.Repositories.ListReleases(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch releases: %w", err)
		}
		for _, r := range page {
			name := r.GetName()
			if name == "" {
				name = r.GetTagName()
			}
			out = append(out, schema.Release{
				Name:      name,
				Author:    normalizeLogin(r.GetAuthor().GetLogin()),
				CreatedAt: r.GetCreatedAt().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (c *Client) issueComments(ctx context.Context, number int) ([]*github.IssueComment, error) {
	var all []*github.IssueComment
	opts := &github.IssueListCommentsOptions{ListOptions: github.ListOptions{PerPage: perPage}}
	for {
		if err := c.wait(ctx); err != nil {
			return nil, err
		}
		page, resp, err := c.client.Issues.ListComments(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("fetch comments of #%d: %w", number, err)
		}
		all = append(all, page...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

func closedAt(ts *github.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}
