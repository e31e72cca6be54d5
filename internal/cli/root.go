// Package cli is the command tree of cachectl, the operator tool for the storefront cache.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

// App is what the commands operate on. Close releases the backing store.
type App struct {
	Snapshots      ports.SnapshotCache
	Favorites      ports.FavoritesResolver
	RecentlyViewed ports.RecentlyViewedResolver
	Tokens         ports.MemberAuthenticator
	Close          func() error
}

// Opener connects to the configured store. It runs once per command invocation.
type Opener func(ctx context.Context) (*App, error)

// NewRootCommand builds the cachectl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "cachectl",
		Short:         "Inspect and clear the storefront cache",
		Long:          `cachectl reads the same key-value store as the storefront cache server and reports or clears catalog snapshots, wishlists and recently viewed lists.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.AddCommand(
		newStatusCmd(open),
		newClearCmd(open),
		newFavoritesCmd(open),
		newRecentCmd(open),
		newTokenCmd(open),
	)
	return root
}

// withApp opens the store, runs fn and closes the store.
func withApp(cmd *cobra.Command, open Opener, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open cache store: %w", err)
	}
	if app.Close != nil {
		defer func() { _ = app.Close() }()
	}
	return fn(ctx, app)
}
