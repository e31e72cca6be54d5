package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newFavoritesCmd(open Opener) *cobra.Command {
	var member string
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "List or clear a member's wishlist",
	}
	cmd.PersistentFlags().StringVar(&member, "member", "", "member id (empty selects the device wishlist)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved favorites",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				items := app.Favorites.ForMember(member).GetAll(ctx)
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.Header([]string{"ID", "Name", "Price", "In Stock", "Added At"})
				var data [][]string
				for _, it := range items {
					price := it.Price
					if it.DiscountedPrice != "" {
						price = it.DiscountedPrice + " (was " + it.Price + ")"
					}
					stock := missingColor("no")
					if it.InStock {
						stock = freshColor("yes")
					}
					data = append(data, []string{it.ID, it.Name, price, stock, it.AddedAt})
				}
				if err := table.Bulk(data); err != nil {
					return err
				}
				return table.Render()
			})
		},
	}, &cobra.Command{
		Use:   "clear",
		Short: "Delete the wishlist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				if err := app.Favorites.ForMember(member).ClearAll(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Favorites cleared for %s\n", memberLabel(member))
				return err
			})
		},
	})
	return cmd
}

func newRecentCmd(open Opener) *cobra.Command {
	var member string
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List or clear a member's recently viewed products",
	}
	cmd.PersistentFlags().StringVar(&member, "member", "", "member id")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recently viewed products, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				entries := app.RecentlyViewed.ForMember(member).GetAll(ctx)
				table := tablewriter.NewWriter(cmd.OutOrStdout())
				table.Header([]string{"#", "ID", "Name", "Viewed At"})
				var data [][]string
				for i, e := range entries {
					viewed := time.UnixMilli(e.ViewedAt).UTC().Format(time.RFC3339)
					data = append(data, []string{strconv.Itoa(i + 1), e.ID, e.Name, viewed})
				}
				if err := table.Bulk(data); err != nil {
					return err
				}
				return table.Render()
			})
		},
	}, &cobra.Command{
		Use:   "clear",
		Short: "Delete the recently viewed list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				if err := app.RecentlyViewed.ForMember(member).ClearAll(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Recently viewed cleared for %s\n", memberLabel(member))
				return err
			})
		},
	})
	return cmd
}

func newTokenCmd(open Opener) *cobra.Command {
	var (
		member   string
		ttl      time.Duration
		operator bool
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign a member token for calling the member API",
		Long: `Sign a short-lived token with the configured JWT secret.

With --operator the token may also invalidate the catalog cache and force refreshes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if member == "" {
				return fmt.Errorf("--member is required")
			}
			if ttl <= 0 {
				return fmt.Errorf("--ttl must be positive")
			}
			return withApp(cmd, open, func(_ context.Context, app *App) error {
				issue := app.Tokens.IssueToken
				if operator {
					issue = app.Tokens.IssueOperatorToken
				}
				token, err := issue(member, ttl)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&member, "member", "", "member id to use as the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime, must be positive")
	cmd.Flags().BoolVar(&operator, "operator", false, "grant the operator role for cache administration")
	return cmd
}

func memberLabel(member string) string {
	if member == "" {
		return "device"
	}
	return "member " + member
}
