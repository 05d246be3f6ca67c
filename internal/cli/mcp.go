package cli

import (
	"fmt"
	"os"

	"github.com/mvp-joe/macrolens/internal/config"
	"github.com/mvp-joe/macrolens/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpFlags lookFlags

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for macro expansion lookups",
	Long: `Start the Model Context Protocol (MCP) server so coding assistants can ask
for the expanded source of a declaration.

The MCP server:
- Provides the locate_declaration tool (kind, name, for_type, source)
- Expands the crate in --dir (or the current directory) on each call
  unless the caller passes already-expanded source
- Communicates via stdio (standard MCP transport)

Example:
  macrolens mcp --dir path/to/crate`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringVarP(&mcpFlags.binary, "binary", "b", "", "Expand the named binary target instead of the library")
	mcpCmd.Flags().StringVarP(&mcpFlags.integrationTest, "integration-test", "i", "", "Expand the named integration test target")
}

func runMCP(cmd *cobra.Command, args []string) error {
	rootDir, err := resolveCrateDir()
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// stdout carries the protocol, so startup information goes to stderr
	fmt.Fprintf(os.Stderr, "macrolens MCP Server\n")
	fmt.Fprintf(os.Stderr, "Crate: %s\n\n", rootDir)

	svc, err := newService(cfg, rootDir, mcpFlags, nil)
	if err != nil {
		return err
	}
	defer svc.Close()

	server, err := mcp.NewMCPServer(svc)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	// Serve (blocks until shutdown)
	if err := server.Serve(cmdContext(cmd)); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	return nil
}
