package cmd

import (
	"log"

	"github.com/crabman-cli/crabman/internal/config"
	"github.com/crabman-cli/crabman/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve man pages over MCP on stdio",
	Long:  `Expose generated documentation to MCP clients: a resource template for reading individual pages and tools for apropos search.`,
	Run:   runMCP,
}

func runMCP(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	server := mcp.NewServer(cfg.Output.Section)
	if err := server.Run(); err != nil {
		log.Fatalf("mcp server: %v", err)
	}
}
