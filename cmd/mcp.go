package cmd

import (
	"github.com/octocred/octocred/internal/ghapi"
	"github.com/octocred/octocred/internal/histstore"
	"github.com/octocred/octocred/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Octocred MCP server",
	Long:  `Launch an MCP server that allows AI agents to run eligibility analyses and query application history via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so setup must not print to stdout.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		client := ghapi.NewClient(cfg.APIBaseURL, cfg.Token)
		return mcp.StartMCPServer(rootCtx, cfg, client, histstore.GetStore())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
