package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/svillanueva/mochila/internal/cli/formatter"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the packing list",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded(cmd.Context())

			cats := app.Engine.Categories()
			fmt.Println(formatter.FormatPackingList(cats))
			if p := formatter.Progress(cats); p != "" {
				fmt.Println(p)
			}
			fmt.Println(formatter.FormatSyncStatus(app.Engine.IsLoading(), app.Engine.Err(), app.Engine.LastSynced()))
			return nil
		},
	}
}
