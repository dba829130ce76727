package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"cat"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(
		newCategoryAddCmd(app),
		newCategoryRenameCmd(app),
		newCategoryRemoveCmd(app),
		newCategoryMoveCmd(app),
	)

	return cmd
}

func newCategoryAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a category at the end of the list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			app.ensureLoaded(cmd.Context())

			if err := app.Engine.AddCategory(title); err != nil {
				return err
			}
			app.finishMutation(fmt.Sprintf("Added category %q", title))
			return nil
		},
	}
}

func newCategoryRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <category> <new-title>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded(cmd.Context())

			cat, _, err := resolveCategory(app.Engine.Categories(), args[0])
			if err != nil {
				return err
			}
			if err := app.Engine.EditCategoryTitle(*cat.ID, args[1]); err != nil {
				return err
			}
			app.finishMutation(fmt.Sprintf("Renamed %q to %q", cat.Title, args[1]))
			return nil
		},
	}
}

func newCategoryRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <category>",
		Aliases: []string{"rm"},
		Short:   "Remove a category and everything in it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded(cmd.Context())

			cat, _, err := resolveCategory(app.Engine.Categories(), args[0])
			if err != nil {
				return err
			}
			if err := app.Engine.DeleteCategory(*cat.ID); err != nil {
				return err
			}
			app.finishMutation(fmt.Sprintf("Removed category %q", cat.Title))
			return nil
		},
	}
}

func newCategoryMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <category> <position>",
		Short: "Move a category to a new 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded(cmd.Context())

			cats := app.Engine.Categories()
			cat, from, err := resolveCategory(cats, args[0])
			if err != nil {
				return err
			}
			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 1 || pos > len(cats) {
				return fmt.Errorf("position must be between 1 and %d", len(cats))
			}
			if err := app.Engine.ReorderCategories(from, pos-1); err != nil {
				return err
			}
			app.finishMutation(fmt.Sprintf("Moved %q to position %d", cat.Title, pos))
			return nil
		},
	}
}
