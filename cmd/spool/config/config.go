// Package configcmder provides the config command for managing persistent
// spool configuration stored in the .spool/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent spool configuration.

Configuration is stored as config.toml in the .spool/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  runtime.endpoint, runtime.arn, runtime.bearer_token,
  client.timeout_seconds,
  history.backend, history.sqlite_path, history.postgres_dsn,
  events.enabled, events.brokers, events.topic,
  mcp.endpoint, mcp.database, mcp.schema, mcp.server_name, mcp.auth_token,
  serve.listen, serve.script

Use subcommands to get, set, or list configuration values:
  spool config set <key> <value>    Set a configuration value
  spool config get <key>            Get a configuration value
  spool config list                 List all configuration values

Examples:
  spool config set runtime.arn arn:aws:bedrock-agentcore:us-west-2:123456789012:runtime/demo
  spool config set history.backend postgres
  spool config get runtime.endpoint
  spool config list`

const configShortDesc string = "Manage persistent spool configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
