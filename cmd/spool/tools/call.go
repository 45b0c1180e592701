package toolscmder

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spoolhq/spool/pkg/config"
)

const callLongDesc string = `Call a tool on the managed MCP server.

Arguments are key=value pairs. Values that parse as JSON (numbers,
booleans, objects, arrays) are passed through typed; everything else is
sent as a string.

Examples:
  spool tools call echo message=hello
  spool tools call current_time timezone=Europe/Oslo
  spool tools call run_sql query="select 1" limit=10`

const callShortDesc string = "Call a tool on the managed MCP server"

func newCallCmd() *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "call <tool> [key=value...]",
		Short: callShortDesc,
		Long:  callLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			arguments, err := parseArgs(args[1:])
			if err != nil {
				return err
			}

			client, err := newMCPClient(configDir, endpoint)
			if err != nil {
				return err
			}

			out, err := client.CallToolText(cmd.Context(), args[0], arguments)
			if err != nil {
				return err
			}

			fmt.Println(out)

			return nil
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagMCPEndpoint, &endpoint)

	return cmd
}

// parseArgs turns key=value pairs into a tool argument map. Values that
// parse as JSON keep their type.
func parseArgs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	arguments := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("argument %q is not a key=value pair", pair)
		}

		var typed any
		if err := json.Unmarshal([]byte(value), &typed); err == nil {
			arguments[key] = typed
		} else {
			arguments[key] = value
		}
	}

	return arguments, nil
}
