package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing the resolution engine",
	Long: `Start a Model Context Protocol (MCP) server that exposes resolution,
probing, and profile inspection as tools. AI agents can call tools directly
without shell overhead.

Supported transports:
  stdio             Standard I/O (default, for Claude Code / MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  anchor serve
  anchor serve --transport streamable-http --port 8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")

	srv, err := newMCPServer()
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return srv.serve(MCPConfig{Transport: transport, Port: port})
}
