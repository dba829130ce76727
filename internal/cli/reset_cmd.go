package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard local state and resynchronize from the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				var confirmed bool
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewConfirm().
							Title("Discard unsaved local changes and reload from the server?").
							Value(&confirmed),
					),
				)
				if err := form.Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Reset cancelled.")
					return nil
				}
			}

			app.loaded = true // Reset performs its own load
			if err := app.Engine.Reset(cmd.Context()); err != nil {
				return fmt.Errorf("resynchronizing: %w", err)
			}
			fmt.Println("Packing list reloaded from the server.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")
	return cmd
}
