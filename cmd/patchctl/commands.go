package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dom/patch-meta/internal/analysis"
	"github.com/dom/patch-meta/internal/app"
	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/repository"
)

func newPatchesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "patches",
		Short: "List known patch versions and which of them are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				versions := a.Services.Patch.AvailablePatches(ctx)
				stored, err := storedSnapshots(ctx, a.Repos.Patch, versions)
				if err != nil {
					return err
				}
				renderPatches(cmd.OutOrStdout(), versions, stored, time.Now())
				return nil
			})
		},
	}
}

// storedSnapshots looks up each listed version in the store and returns the
// ones that are present, in list order.
func storedSnapshots(ctx context.Context, repo repository.PatchRepository, versions []string) ([]*domain.PatchSnapshot, error) {
	var stored []*domain.PatchSnapshot
	for _, v := range versions {
		s, found, err := repo.Get(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("load patch %s: %w", v, err)
		}
		if found {
			stored = append(stored, s)
		}
	}
	return stored, nil
}

func newFetchCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch <version>",
		Short: "Fetch and store one patch, then print its notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				snapshot, err := a.Services.Patch.GetPatch(ctx, args[0], force)
				if err != nil {
					return err
				}
				renderSnapshot(cmd.OutOrStdout(), snapshot, time.Now())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "refetch even when the patch is stored")
	return cmd
}

func newAnalyzeCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "analyze <version>",
		Short: "Compare a patch with the previously stored one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				diffs, err := a.Services.Patch.AnalyzePatch(ctx, args[0], force)
				if err != nil {
					return err
				}
				renderDiffs(cmd.OutOrStdout(), diffs)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "refetch the patch before comparing")
	return cmd
}

func newTiersCommand() *cobra.Command {
	var (
		category string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "Rank champions, items and runes by buffs and nerfs over recent patches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				entries, err := a.Services.Patch.TierList(ctx)
				if err != nil {
					return err
				}
				renderTiers(cmd.OutOrStdout(), entries, domain.PatchCategory(category), limit)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show one category (Champions, Items, Runes, ItemsRunes, ...)")
	cmd.Flags().IntVar(&limit, "limit", 30, "maximum number of rows, 0 for all")
	return cmd
}

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history champion|item|rune <name>",
		Short: "Show every change to one champion, item or rune over recent patches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := analysis.ParseHistoryKind(args[0])
			if !ok {
				return fmt.Errorf("unknown history kind %q", args[0])
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				entries, err := a.Services.Patch.History(ctx, kind, args[1])
				if err != nil {
					return err
				}
				renderHistory(cmd.OutOrStdout(), args[1], entries, time.Now())
				return nil
			})
		},
	}
}

func newBackfillCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill",
		Short: "Fetch every known patch that is not stored yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				summary, err := a.Services.Patch.SyncHistory(ctx)
				renderBackfill(cmd.OutOrStdout(), summary)
				return err
			})
		},
	}
}

func newClearCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored patch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete stored patches without --yes")
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Services.Patch.Clear(ctx); err != nil {
					return err
				}
				color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Stored patches deleted")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func newChampionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "champions",
		Short: "Manage the champion catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Refresh the champion catalog from Data Dragon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				count, version, err := a.Services.Champion.SyncFromDataDragon(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Synced %d champions from Data Dragon %s\n", count, version)
				return nil
			})
		},
	})

	return cmd
}
