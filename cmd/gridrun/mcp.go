package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/gridrun/bridge"
	"github.com/jonwraymond/gridrun/mcpserver"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools on stdin/stdout",
	Long: `Expose run_code, search_bridge and describe_bridge to an MCP client over
the stdio transport.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	exec, err := newExecutor()
	if err != nil {
		return err
	}
	catalog, err := bridge.NewCatalog()
	if err != nil {
		return err
	}
	srv, err := mcpserver.New(mcpserver.Config{
		Executor: exec,
		Catalog:  catalog,
		Version:  version,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	logger.Info("mcp server ready", "version", version)
	return srv.Run(cmd.Context(), &mcp.StdioTransport{})
}
