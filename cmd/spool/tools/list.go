package toolscmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spoolhq/spool/pkg/cliui"
	"github.com/spoolhq/spool/pkg/config"
)

const listShortDesc string = "List the tools the managed MCP server advertises"

func newListCmd() *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			client, err := newMCPClient(configDir, endpoint)
			if err != nil {
				return err
			}

			tools, err := client.ListTools(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Printf("  %s %s\n\n",
				cliui.KeyStyle.Render("Server:"),
				cliui.DimStyle.Render(client.URL()),
			)

			if len(tools) == 0 {
				fmt.Printf("  %s\n\n", cliui.DimStyle.Render("No tools advertised."))
				return nil
			}

			for _, tool := range tools {
				fmt.Printf("  %s  %s\n",
					cliui.NameStyle.Render(tool.Name),
					cliui.DimStyle.Render(tool.Description),
				)
			}
			fmt.Println()

			return nil
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagMCPEndpoint, &endpoint)

	return cmd
}
