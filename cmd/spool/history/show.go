package historycmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spoolhq/spool/pkg/cliui"
)

const showShortDesc string = "Show one invocation's prompt and transcript"

func newShowCmd() *cobra.Command {
	var render bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: showShortDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			store, err := openStore(cmd.Context(), configDir)
			if err != nil {
				return err
			}
			defer store.Close()

			inv, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Println()
			fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Invocation:"), inv.ID)
			fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Runtime:"), cliui.DimStyle.Render(inv.RuntimeARN))
			fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Session:"), cliui.DimStyle.Render(inv.SessionID))
			fmt.Printf("  %s %s\n\n", cliui.KeyStyle.Render("When:"), inv.CreatedAt.Local().Format("2006-01-02 15:04:05"))

			fmt.Printf("  %s\n    %s\n\n", cliui.KeyStyle.Render("Prompt:"), inv.Prompt)

			fmt.Printf("  %s\n", cliui.KeyStyle.Render("Transcript:"))
			if render {
				rendered, err := cliui.RenderMarkdown(inv.Transcript)
				if err == nil {
					fmt.Print(rendered)
					return nil
				}
			}
			fmt.Printf("%s\n", inv.Transcript)

			return nil
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Render the transcript as markdown")

	return cmd
}
