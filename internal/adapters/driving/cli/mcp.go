package cli

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cardinalphin/fire-and-forget-notes/internal/adapters/driving/mcp"
)

var mcpPort int

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can search
your notes, save new ones and read your open tasks.

By default the server speaks JSON-RPC over stdio. Use --port to serve
streamable HTTP on localhost instead.

Examples:
  # Stdio mode (for desktop assistants)
  fireforget mcp serve

  # HTTP mode (for MCP Inspector)
  fireforget mcp serve --port 8765

Assistant configuration:
  {
    "mcpServers": {
      "fireforget": {
        "command": "/path/to/fireforget",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	server, err := newMCPServer()
	if err != nil {
		return err
	}

	if mcpPort > 0 {
		addr := net.JoinHostPort("localhost", strconv.Itoa(mcpPort))
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}
	return server.Run(cmd.Context())
}

func newMCPServer() (*mcp.Server, error) {
	return mcp.NewServer(&mcp.Ports{
		Search: searchService,
		Notes:  noteService,
		Tasks:  taskService,
	})
}
