package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/huangsam/coredev/core/alias"
	"github.com/huangsam/coredev/core/batch"
	"github.com/huangsam/coredev/core/centrality"
	"github.com/huangsam/coredev/core/graph"
	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/internal/outwriter"
	"github.com/huangsam/coredev/schema"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("coredev.core")

// baseSignals are analyzed first; the core developer graph is built from their results.
var baseSignals = []schema.Signal{schema.CommitSignal, schema.PRSignal, schema.IssueSignal, schema.IssuePRSignal}

// RunAnalysis resolves author identities, splits the history into batches and
// computes the centrality reports and metrics of every batch.
func RunAnalysis(ctx context.Context, cfg *contract.Config, deps Deps) (*schema.AnalysisResult, error) {
	ctx, span := tracer.Start(ctx, "core.RunAnalysis", trace.WithAttributes(attribute.String("repo", cfg.RepoPath)))
	defer span.End()
	start := time.Now()

	// --- 1. Git history ---
	commits, err := deps.Git.GetCommitLog(ctx, cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit log: %w", err)
	}
	result := &schema.AnalysisResult{RepoPath: cfg.RepoPath}
	if len(commits) == 0 {
		contract.Logger().WithField("repo", cfg.RepoPath).Info("No commits found")
		result.Duration = time.Since(start)
		return result, nil
	}

	// --- 2. Identity resolution ---
	extractor, err := loadOrExtractAliases(ctx, cfg, deps, commits)
	if err != nil {
		return nil, err
	}
	seq, err := extractor.ReplaceAliases(commits)
	if err != nil {
		return nil, err
	}
	resolved := slices.Collect(seq)
	result.Aliases = extractor.Groups()

	// --- 3. Batching ---
	batches := batch.Split(resolved, cfg.BatchMonths, cfg.StartDate)
	span.SetAttributes(attribute.Int("commits", len(resolved)), attribute.Int("batches", len(batches)))
	contract.Logger().WithFields(logrus.Fields{
		"commits": len(resolved),
		"authors": len(result.Aliases),
		"batches": len(batches),
	}).Info("Split history into batches")
	for i, d := range batch.Dates(batches) {
		contract.Logger().Debugf("Batch %d starts %s", i, d.Format(time.DateOnly))
	}

	// --- 4. Participation, releases and tags ---
	inputs, err := gatherInputs(ctx, cfg, deps, batches, resolved)
	if err != nil {
		return nil, err
	}

	// --- 5. Per batch analysis ---
	results := make([]schema.BatchResult, len(batches))
	workers := cfg.Workers
	if workers <= 0 {
		workers = contract.DefaultWorkers
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range batches {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			r, err := analyzeBatch(egCtx, cfg, batches[i], inputs[i])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result.Batches = results

	// --- 6. Tracking ---
	if !shouldSuppressOutput(ctx) {
		recordAnalysis(deps.Store, cfg, start, results)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// loadOrExtractAliases reuses the alias file when it exists and otherwise
// extracts aliases from the history and the resolved logins.
func loadOrExtractAliases(ctx context.Context, cfg *contract.Config, deps Deps, commits []schema.CommitRecord) (*alias.Extractor, error) {
	if cfg.AliasesFile != "" {
		if _, err := os.Stat(cfg.AliasesFile); err == nil {
			groups, err := alias.ReadFile(cfg.AliasesFile)
			if err != nil {
				return nil, err
			}
			contract.Logger().WithField("file", cfg.AliasesFile).Info("Loaded aliases")
			return alias.FromGroups(groups), nil
		}
	}
	return extractAliases(ctx, cfg, deps, commits)
}

// extractAliases computes the alias groups of commits from scratch.
func extractAliases(ctx context.Context, cfg *contract.Config, deps Deps, commits []schema.CommitRecord) (*alias.Extractor, error) {
	logins, err := alias.ResolveLogins(ctx, commits, deps.Logins)
	if err != nil {
		return nil, err
	}
	extractor := alias.NewExtractor(cfg.MaxDistance)
	extractor.Extract(commits, logins)
	return extractor, nil
}

// gatherInputs fetches pull requests, issues, releases and tags and assigns
// them to batches.
func gatherInputs(ctx context.Context, cfg *contract.Config, deps Deps, batches []schema.Batch, commits []schema.CommitRecord) ([]batchInputs, error) {
	var (
		prs, issues []schema.Participation
		releases    []schema.Release
	)
	if deps.Participation != nil {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.Go(func() (err error) {
			prs, err = deps.Participation.PullRequests(egCtx)
			if err != nil {
				return fmt.Errorf("failed to fetch pull requests: %w", err)
			}
			return nil
		})
		eg.Go(func() (err error) {
			issues, err = deps.Participation.Issues(egCtx)
			if err != nil {
				return fmt.Errorf("failed to fetch issues: %w", err)
			}
			return nil
		})
		eg.Go(func() (err error) {
			releases, err = deps.Participation.Releases(egCtx)
			if err != nil {
				return fmt.Errorf("failed to fetch releases: %w", err)
			}
			return nil
		})
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	tags, err := deps.Git.GetTags(ctx, cfg.RepoPath)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		contract.LogWarn("Failed to read tags", err)
		tags = nil
	}

	times := make([]time.Time, len(commits))
	for i, c := range commits {
		times[i] = c.CommittedAt
	}
	slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })

	releaseMarks := make([]mark, len(releases))
	for i, r := range releases {
		releaseMarks[i] = mark{Name: r.Name, At: r.CreatedAt}
	}
	tagMarks := make([]mark, len(tags))
	for i, t := range tags {
		tagMarks[i] = mark{Name: t.Name, At: t.Date}
	}
	for _, marks := range [][]mark{releaseMarks, tagMarks} {
		slices.SortStableFunc(marks, func(a, b mark) int { return a.At.Compare(b.At) })
		countCommitsBetween(times, marks)
	}

	createdAt := func(p schema.Participation) time.Time { return p.CreatedAt }
	markAt := func(m mark) time.Time { return m.At }
	prsBy := batch.Assign(batches, prs, createdAt)
	issuesBy := batch.Assign(batches, issues, createdAt)
	releasesBy := batch.Assign(batches, releaseMarks, markAt)
	tagsBy := batch.Assign(batches, tagMarks, markAt)

	inputs := make([]batchInputs, len(batches))
	for i := range batches {
		inputs[i] = batchInputs{PRs: prsBy[i], Issues: issuesBy[i], Releases: releasesBy[i], Tags: tagsBy[i]}
	}
	return inputs, nil
}

// analyzeBatch builds the collaboration graphs of one batch and analyzes them.
func analyzeBatch(ctx context.Context, cfg *contract.Config, b schema.Batch, in batchInputs) (schema.BatchResult, error) {
	ctx, span := tracer.Start(ctx, "core.analyzeBatch", trace.WithAttributes(
		attribute.Int("batch", b.Index),
		attribute.Int("commits", len(b.Commits)),
	))
	defer span.End()

	activity := batch.Activity(b)
	sorted := batch.SortedActivity(activity)
	timezones := batch.Timezones(b)

	// --- 1. Graphs per signal ---
	graphs := map[schema.Signal]*graph.Graph{
		schema.CommitSignal: graph.BuildCommitGraph(b.Commits),
		schema.PRSignal:     graph.BuildParticipationGraph(participantLists(in.PRs)),
		schema.IssueSignal:  graph.BuildParticipationGraph(participantLists(in.Issues)),
	}
	graphs[schema.IssuePRSignal] = graph.Union(graphs[schema.PRSignal], graphs[schema.IssueSignal])

	// --- 2. Centrality ---
	reports := make(map[schema.Signal]schema.CentralityReport, len(schema.AllSignals))
	cores := map[string]struct{}{}
	for _, s := range baseSignals {
		report, err := analyzeSignal(ctx, cfg, b, s, graphs[s])
		if err != nil {
			return schema.BatchResult{}, err
		}
		reports[s] = report
		for _, author := range report.CoreDevelopers {
			cores[author] = struct{}{}
		}
	}
	coreList := make([]string, 0, len(cores))
	for author := range cores {
		coreList = append(coreList, author)
	}
	slices.Sort(coreList)
	report, err := analyzeSignal(ctx, cfg, b, schema.CoreDevSignal, graph.BuildCoreGraph(b.Commits, coreList))
	if err != nil {
		return schema.BatchResult{}, err
	}
	reports[schema.CoreDevSignal] = report

	// --- 3. Metrics ---
	return schema.BatchResult{
		Batch:     b,
		Reports:   reports,
		Activity:  sorted,
		Timezones: timezones,
		Metrics:   batchMetrics(b, activity, timezones, in, reports),
		Stats:     batchStats(sorted, timezones, in, reports),
	}, nil
}

// analyzeSignal analyzes one graph and exports it when a graph directory is set.
func analyzeSignal(ctx context.Context, cfg *contract.Config, b schema.Batch, s schema.Signal, g *graph.Graph) (schema.CentralityReport, error) {
	report, err := centrality.Analyze(ctx, g, s)
	if err != nil {
		return schema.CentralityReport{}, err
	}
	report.BatchIndex = b.Index

	log := contract.Logger().WithFields(logrus.Fields{"batch": b.Index, "signal": s})
	log.WithFields(logrus.Fields{
		"authors": report.TotalAuthors,
		"edges":   g.EdgeCount(),
		"core":    len(report.CoreDevelopers),
	}).Debug("Analyzed graph")

	if cfg.GraphDir != "" && !shouldSuppressOutput(ctx) {
		path, err := outwriter.WriteGraph(cfg.GraphDir, cfg.GraphFormat, b.Index, s, g)
		if err != nil {
			log.WithError(err).Warn("Failed to export graph")
		} else {
			log.WithField("path", path).Debug("Exported graph")
		}
	}
	return report, nil
}

// recordAnalysis stores a finished run. Tracking failures never fail the analysis.
func recordAnalysis(store contract.AnalysisStore, cfg *contract.Config, start time.Time, results []schema.BatchResult) {
	if store == nil {
		return
	}
	analysisID, err := store.BeginAnalysis(start, cfg.ConfigParams())
	if err != nil {
		contract.LogWarn("Analysis tracking failed to begin", err)
		return
	}
	for _, r := range results {
		if err := store.RecordBatch(analysisID, r); err != nil {
			contract.LogWarn(fmt.Sprintf("Failed to record batch %d", r.Batch.Index), err)
		}
	}
	if err := store.EndAnalysis(analysisID, time.Now(), len(results)); err != nil {
		contract.LogWarn("Analysis tracking failed to end", err)
	}
}

func participantLists(items []schema.Participation) [][]string {
	lists := make([][]string, len(items))
	for i, p := range items {
		lists[i] = p.Participants
	}
	return lists
}
