package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemEditCmd(app),
		newItemRemoveCmd(app),
		newItemToggleCmd(app),
		newItemMoveCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <category> <text>",
		Short: "Add an item at the end of a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded(cmd.Context())

			cat, _, err := resolveCategory(app.Engine.Categories(), args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			if err := app.Engine.AddItem(*cat.ID, text); err != nil {
				return err
			}
			app.finishMutation(fmt.Sprintf("Added %q to %q", text, cat.Title))
			return nil
		},
	}
}

func newItemEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <category> <item> <new-text>",
		Short: "Replace an item's text",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded(cmd.Context())

			cat, _, err := resolveCategory(app.Engine.Categories(), args[0])
			if err != nil {
				return err
			}
			it, _, err := resolveItem(cat, args[1])
			if err != nil {
				return err
			}
			text := strings.Join(args[2:], " ")
			if err := app.Engine.EditItemText(*cat.ID, *it.ID, text); err != nil {
				return err
			}
			app.finishMutation(fmt.Sprintf("Changed %q to %q", it.Text, text))
			return nil
		},
	}
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <category> <item>",
		Aliases: []string{"rm"},
		Short:   "Remove an item",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded(cmd.Context())

			cat, _, err := resolveCategory(app.Engine.Categories(), args[0])
			if err != nil {
				return err
			}
			it, _, err := resolveItem(cat, args[1])
			if err != nil {
				return err
			}
			if err := app.Engine.DeleteItem(*cat.ID, *it.ID); err != nil {
				return err
			}
			app.finishMutation(fmt.Sprintf("Removed %q from %q", it.Text, cat.Title))
			return nil
		},
	}
}

func newItemToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <category> <item>",
		Aliases: []string{"check", "uncheck"},
		Short:   "Flip an item's checked state",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded(cmd.Context())

			cat, _, err := resolveCategory(app.Engine.Categories(), args[0])
			if err != nil {
				return err
			}
			it, _, err := resolveItem(cat, args[1])
			if err != nil {
				return err
			}
			if err := app.Engine.ToggleItem(*cat.ID, *it.ID); err != nil {
				return err
			}
			state := "checked"
			if it.IsChecked {
				state = "unchecked"
			}
			app.finishMutation(fmt.Sprintf("%s %q", strings.ToUpper(state[:1])+state[1:], it.Text))
			return nil
		},
	}
}

func newItemMoveCmd(app *App) *cobra.Command {
	var toCategory string

	cmd := &cobra.Command{
		Use:   "move <category> <item> <position>",
		Short: "Move an item to a new 1-based position, optionally into another category",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.ensureLoaded(cmd.Context())

			cats := app.Engine.Categories()
			cat, _, err := resolveCategory(cats, args[0])
			if err != nil {
				return err
			}
			it, from, err := resolveItem(cat, args[1])
			if err != nil {
				return err
			}
			pos, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[2])
			}

			if toCategory == "" {
				if pos < 1 || pos > len(cat.Items) {
					return fmt.Errorf("position must be between 1 and %d", len(cat.Items))
				}
				if err := app.Engine.ReorderItems(*cat.ID, from, pos-1); err != nil {
					return err
				}
				app.finishMutation(fmt.Sprintf("Moved %q to position %d", it.Text, pos))
				return nil
			}

			dst, _, err := resolveCategory(cats, toCategory)
			if err != nil {
				return err
			}
			if pos < 1 || pos > len(dst.Items)+1 {
				return fmt.Errorf("position must be between 1 and %d", len(dst.Items)+1)
			}
			if err := app.Engine.MoveItemAcrossCategories(*cat.ID, *dst.ID, from, pos-1); err != nil {
				return err
			}
			app.finishMutation(fmt.Sprintf("Moved %q into %q at position %d", it.Text, dst.Title, pos))
			return nil
		},
	}

	cmd.Flags().StringVar(&toCategory, "to-category", "", "Destination category for a cross-category move")
	return cmd
}
