package historycmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spoolhq/spool/pkg/cliui"
	"github.com/spoolhq/spool/pkg/utils"
)

const listShortDesc string = "List recent invocations"

func newListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			store, err := openStore(cmd.Context(), configDir)
			if err != nil {
				return err
			}
			defer store.Close()

			invocations, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if len(invocations) == 0 {
				fmt.Println("No invocations saved yet.")
				return nil
			}

			fmt.Println()
			for _, inv := range invocations {
				prompt := strings.ReplaceAll(inv.Prompt, "\n", " ")
				fmt.Printf("  %s  %s\n",
					cliui.NameStyle.Render(inv.ID),
					cliui.DimStyle.Render(inv.CreatedAt.Local().Format("2006-01-02 15:04:05")),
				)
				fmt.Printf("    %s\n", utils.Truncate(prompt, 80))
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of invocations to list (0 for all)")

	return cmd
}
