// Package core has the core logic for identity resolution, batching and
// core developer analysis.
package core

import (
	"context"
	"time"

	"github.com/huangsam/coredev/core/alias"
	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/internal/github"
	"github.com/huangsam/coredev/internal/outwriter"
	"github.com/huangsam/coredev/schema"
)

// Deps are the collaborators of an analysis run. Participation, Logins and
// Store are optional.
type Deps struct {
	Git           contract.GitClient
	Logins        contract.LoginResolver
	Participation contract.ParticipationSource
	Store         contract.AnalysisStore
}

// NewDeps wires the local git client, the GitHub client when a repository
// is configured, and the stores of mgr.
func NewDeps(cfg *contract.Config, mgr contract.CacheManager) Deps {
	deps := Deps{Git: contract.NewLocalGitClient()}
	var logins contract.CacheStore
	if mgr != nil {
		deps.Store = mgr.GetAnalysisStore()
		logins = mgr.GetLoginStore()
	}
	if cfg.HasGitHub() {
		client := github.NewClient(cfg.GitHubOwner, cfg.GitHubRepo, cfg.GitHubToken, cfg.GitHubRPS, cfg.Workers)
		deps.Participation = client
		deps.Logins = newCachedLoginResolver(client, logins, client.Repo())
	}
	return deps
}

// ExecuteAnalysis runs the core developer analysis and prints the results.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalysis(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, err := GetAnalysisResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAnalysis(result, cfg)
}

// GetAnalysisResults runs the core developer analysis and returns its result.
func GetAnalysisResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.AnalysisResult, error) {
	start := time.Now()
	result, err := RunAnalysis(ctx, cfg, NewDeps(cfg, mgr))
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// ExecuteAliases extracts the alias groups of the repository, writes them to
// the aliases file when one is configured and prints them.
func ExecuteAliases(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	groups, err := GetAliasResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if cfg.AliasesFile != "" {
		if err := alias.WriteFile(cfg.AliasesFile, groups); err != nil {
			return err
		}
		contract.Logger().WithField("file", cfg.AliasesFile).Info("Wrote aliases")
	}
	return outwriter.NewOutWriter().WriteAliases(groups, cfg)
}

// GetAliasResults extracts the alias groups of the repository. An existing
// aliases file is ignored.
func GetAliasResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.AliasGroup, error) {
	deps := NewDeps(cfg, mgr)
	commits, err := deps.Git.GetCommitLog(ctx, cfg.RepoPath)
	if err != nil {
		return nil, err
	}
	extractor, err := extractAliases(ctx, cfg, deps, commits)
	if err != nil {
		return nil, err
	}
	return extractor.Groups(), nil
}
