// Package cli wires the cobra command tree and the interactive checklist.
// Presentation code talks to the sync engine only through ListEngine; it
// never reaches into the aggregate.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/svillanueva/mochila/internal/domain"
	"github.com/svillanueva/mochila/internal/kvstore"
	"github.com/svillanueva/mochila/internal/remote"
)

// ListEngine is the read/mutate contract the presentation layer requires
// from the sync engine.
type ListEngine interface {
	Load(ctx context.Context) error
	Reset(ctx context.Context) error

	Categories() []domain.Category
	ListID() *int64
	IsLoading() bool
	Err() string
	LastSynced() *time.Time

	AddCategory(title string) error
	EditCategoryTitle(categoryID int64, title string) error
	DeleteCategory(categoryID int64) error
	AddItem(categoryID int64, text string) error
	EditItemText(categoryID, itemID int64, text string) error
	DeleteItem(categoryID, itemID int64) error
	ToggleItem(categoryID, itemID int64) error
	ReorderCategories(from, to int) error
	ReorderItems(categoryID int64, from, to int) error
	MoveItemAcrossCategories(fromCategoryID, toCategoryID int64, fromIdx, toIdx int) error

	// Wait blocks until no save is pending or in flight.
	Wait()
}

// App holds everything CLI commands need.
type App struct {
	Engine ListEngine
	Auth   remote.AuthClient
	Creds  *kvstore.Cell[remote.Credentials]
	User   *kvstore.Cell[remote.User]

	// IsInteractive reports whether stdin is a terminal; the bare command
	// launches the checklist TUI only when it is.
	IsInteractive func() bool

	loaded bool
}

// NewRootCmd creates the top-level "mochila" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "mochila",
		Short: "Camp packing-list manager with remote sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newListCmd(app),
		newCategoryCmd(app),
		newItemCmd(app),
		newResetCmd(app),
		newTUICmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
	)

	return root
}

// ensureLoaded fetches the aggregate once per process. A failed load is not
// fatal: the engine starts empty and the failure surfaces through Err().
func (a *App) ensureLoaded(ctx context.Context) {
	if a.loaded {
		return
	}
	a.loaded = true
	if err := a.Engine.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not fetch packing list: %v\n", err)
	}
}

// finishMutation waits for the queued save and reports the outcome. The
// optimistic edit is kept either way.
func (a *App) finishMutation(action string) {
	a.Engine.Wait()
	if msg := a.Engine.Err(); msg != "" {
		fmt.Fprintf(os.Stderr, "%s locally, but not saved remotely: %s\n", action, msg)
		return
	}
	fmt.Printf("%s.\n", action)
}
