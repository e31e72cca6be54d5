package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/cellarhouse/storefront-cache/internal/core/ports"
)

var (
	freshColor   = color.New(color.FgGreen).SprintFunc()
	staleColor   = color.New(color.FgYellow, color.Bold).SprintFunc()
	missingColor = color.New(color.FgHiBlack).SprintFunc()
)

func newStatusCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the age and freshness of the catalog snapshots",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				st := app.Snapshots.Status(ctx)
				out := cmd.OutOrStdout()
				if _, err := fmt.Fprintf(out, "Freshness window: %s\n", time.Duration(st.MaxAgeMillis)*time.Millisecond); err != nil {
					return err
				}
				table := tablewriter.NewWriter(out)
				table.Header([]string{"Snapshot", "Written At", "Age", "State"})
				table.Configure(func(cfg *tablewriter.Config) {
					cfg.Row.Alignment.Global = tw.AlignLeft
				})
				data := [][]string{snapshotRow(st.Products), snapshotRow(st.Collections)}
				if err := table.Bulk(data); err != nil {
					return err
				}
				return table.Render()
			})
		},
	}
}

func snapshotRow(info ports.SnapshotInfo) []string {
	if !info.Present {
		return []string{info.Name, "-", "-", missingColor("missing")}
	}
	age := (time.Duration(info.AgeMillis) * time.Millisecond).Round(time.Second).String()
	state := freshColor("fresh")
	if !info.Fresh {
		state = staleColor("stale")
	}
	return []string{info.Name, info.WrittenAt, age, state}
}

func newClearCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the catalog snapshots so the next read goes to the platform",
		Long: `Remove the product and collection snapshots in one operation.

Memoized recommendations live in each server process and expire on their own.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, open, func(ctx context.Context, app *App) error {
				if err := app.Snapshots.ClearAll(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "Catalog snapshots cleared")
				return err
			})
		},
	}
}
