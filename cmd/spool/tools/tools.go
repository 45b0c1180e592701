// Package toolscmder provides the tools command for working directly with
// a managed MCP server, outside any agent invocation.
package toolscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spoolhq/spool/pkg/config"
	"github.com/spoolhq/spool/pkg/mcpclient"
)

const toolsLongDesc string = `Work directly with a managed MCP server.

The server is addressed by its coordinates from the mcp.* config keys
(endpoint, database, schema, server_name); the resolved URL is
{endpoint}/api/v2/databases/{database}/schemas/{schema}/mcp-servers/{server_name}.

Subcommands:
  spool tools list                    List the tools the server advertises
  spool tools call <tool> [args...]   Call a tool with key=value arguments

Examples:
  spool tools list
  spool tools call echo message=hello
  spool tools call run_sql query="select count(*) from orders"`

const toolsShortDesc string = "Work directly with a managed MCP server"

func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: toolsShortDesc,
		Long:  toolsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCallCmd())

	return cmd
}

// newMCPClient builds an MCP client from the config file plus any endpoint
// override.
func newMCPClient(configDir, endpointOverride string) (*mcpclient.Client, error) {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	endpoint := cfg.MCP.Endpoint
	if endpointOverride != "" {
		endpoint = endpointOverride
	}

	client, err := mcpclient.NewClient(mcpclient.Config{
		Endpoint:   endpoint,
		Database:   cfg.MCP.Database,
		Schema:     cfg.MCP.Schema,
		ServerName: cfg.MCP.ServerName,
		AuthToken:  cfg.MCP.AuthToken,
	})
	if err != nil {
		return nil, fmt.Errorf("configure the mcp.* config keys first: %w", err)
	}

	return client, nil
}
