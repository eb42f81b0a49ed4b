package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/creatorfeed/internal/app"
	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

var statsCmd = &cobra.Command{
	Use:   "stats [profile-id]",
	Short: "Print follower and post counts of a profile",
	Long: `Print the follower and post counts of a profile. Without an argument the
signed-in viewer's own profile is used.

Examples:
  creatorfeed stats 6f0e...
  creatorfeed stats --token $TOKEN`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		id, err := parseID("profile", args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return printStats(ctx, cmd, a, id)
		})
	}

	return withSession(cmd, func(ctx context.Context, a *app.App, _ *app.Session) error {
		viewer, _ := ctxutil.UserIDFromCtx(ctx)
		return printStats(ctx, cmd, a, viewer)
	})
}

func printStats(ctx context.Context, cmd *cobra.Command, a *app.App, id uuid.UUID) error {
	p, err := a.Profiles.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	stats, err := a.Profiles.Stats(ctx, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "@%s (%s)\n", p.Username, p.UserType)
	if p.IsPremiumCreator() {
		fmt.Fprintln(out, "verified creator")
	}
	fmt.Fprintf(out, "followers: %d\nposts:     %d\n", stats.FollowerCount, stats.PostCount)
	return nil
}
