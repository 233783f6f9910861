package cmd

import (
	"os"

	"github.com/huangsam/coredev/internal/contract"
	"github.com/huangsam/coredev/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [repo-path]",
	Short: "Start the coredev MCP server",
	Long:  `Launch an MCP server that allows AI agents to run core developer analysis via standard tools.`,
	Args:  cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries the protocol, so logs must stay on stderr.
		contract.SetLogOutput(os.Stderr)
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
