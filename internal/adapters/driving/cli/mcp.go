package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sandiven/DataVerser/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with MCP-compatible AI assistants to extract fragments, infer schemas,
ingest documents and read schema history.

Use --port to serve streamable HTTP instead, for MCP Inspector or remote
clients. --host limits the listen address (default all interfaces).

Examples:
  # Stdio mode (default)
  dataverser mcp serve

  # HTTP on loopback only
  dataverser mcp serve --host 127.0.0.1 --port 8080

Client configuration:
  {
    "mcpServers": {
      "dataverser": {
        "command": "/path/to/dataverser",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().String("host", "", "HTTP listen host")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	host, err := cmd.Flags().GetString("host")
	if err != nil {
		return fmt.Errorf("getting host flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{Ingest: ingestService, Schema: schemaService})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if port <= 0 {
		return server.Run(ctx)
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	display := host
	if display == "" {
		display = "localhost"
	}
	cmd.Printf("MCP server listening on http://%s\n", net.JoinHostPort(display, strconv.Itoa(port)))
	return server.RunHTTP(ctx, addr)
}
