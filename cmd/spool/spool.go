// Package spoolcmder
package spoolcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/spoolhq/spool/cmd/spool/config"
	historycmder "github.com/spoolhq/spool/cmd/spool/history"
	invokecmder "github.com/spoolhq/spool/cmd/spool/invoke"
	servecmder "github.com/spoolhq/spool/cmd/spool/serve"
	toolscmder "github.com/spoolhq/spool/cmd/spool/tools"
	versioncmder "github.com/spoolhq/spool/cmd/spool/version"
)

const spoolLongDesc string = `Spool invokes agents and unwinds their streams.

Send a prompt to an agent runtime and watch the response stream live:
tool calls, reasoning, and status updates render as they happen, and the
assistant's answer is assembled into a transcript saved to local history.

Common commands:
  spool invoke "question"   Invoke an agent and stream the response
  spool serve               Run a local stub runtime for offline testing
  spool tools call          Call a tool on a managed MCP server directly
  spool history list        Show past invocations`

const spoolShortDesc string = "Spool - stream agent invocations"

func NewSpoolCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spool",
		Short: spoolShortDesc,
		Long:  spoolLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .spool config directory")

	// Add subcommands
	cmd.AddCommand(invokecmder.NewInvokeCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(toolscmder.NewToolsCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
