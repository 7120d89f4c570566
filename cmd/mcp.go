package cmd

import (
	"github.com/helexia/contractrisk/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the contractrisk MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents compute penalties, aggregate risk registers and read stored projects.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Output goes through the protocol on stdio, so only the store is set up here
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager, newGenerator())
	},
}
