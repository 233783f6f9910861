package cmd

import (
	"github.com/huangsam/coredev/core"
	"github.com/huangsam/coredev/internal/contract"
	"github.com/spf13/cobra"
)

// analyzeCmd identifies the core developers of each time window.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-path]",
	Short: "Show the core developers of each time window.",
	Long: `Split the repository history into time windows and find the core developers of each.

For every window, coredev builds collaboration graphs from:
- Commits (authors who committed within a month of each other)
- Pull requests (authors who took part in the same PR)
- Issues (authors who took part in the same issue)
- Issues and pull requests combined

Authors whose degree centrality is above 0.5 in any graph are labeled
core. GitHub signals need --github-owner/--github-repo or a GitHub
origin remote, plus a token in GITHUB_TOKEN.

Examples:
  # Analyze the whole history as one window
  coredev analyze

  # Analyze quarterly windows since 2020
  coredev analyze --batch-months 3 --start-date 2020-01-01

  # Reuse curated author aliases and show window metrics
  coredev analyze --aliases-file aliases.yaml --verbose

  # Export the collaboration graphs for Gephi
  coredev analyze --graph-dir graphs --graph-format graphml

  # Export findings to CSV for tracking
  coredev analyze --output csv --output-file coredevs.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalysis(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run core developer analysis", err)
		}
	},
}

// aliasesCmd shows how author identities are merged.
var aliasesCmd = &cobra.Command{
	Use:   "aliases [repo-path]",
	Short: "Show the author identities merged into each alias.",
	Long: `Group the author emails found in Git history into aliases.

Identities are merged when they resolve to the same GitHub login or when
the local parts of their emails lie within --max-distance of each other.
Writing the groups with --aliases-file lets you curate them by hand and
feed them back into 'coredev analyze'.

Examples:
  # Inspect the alias groups
  coredev aliases

  # Use a stricter email threshold and save the groups
  coredev aliases --max-distance 0.2 --aliases-file aliases.yaml`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAliases(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot extract aliases", err)
		}
	},
}
