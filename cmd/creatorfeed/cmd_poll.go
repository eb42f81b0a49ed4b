package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/creatorfeed/internal/app"
	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/poll"
)

var voteCmd = &cobra.Command{
	Use:   "vote <post-id> [option]",
	Short: "Show a poll or cast a vote",
	Long: `Show the tally of a post's poll. With an option index (starting at 0) the
vote is cast or changed first; a refused vote leaves the previous tally.

Examples:
  creatorfeed vote 2f1c...
  creatorfeed vote 2f1c... 1 --token $TOKEN`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runVote,
}

func init() {
	rootCmd.AddCommand(voteCmd)
}

func runVote(cmd *cobra.Command, args []string) error {
	postID, err := parseID("post", args[0])
	if err != nil {
		return err
	}

	option := -1
	if len(args) == 2 {
		option, err = strconv.Atoi(args[1])
		if err != nil {
			return domain.NewValidationError("option", "must be a number")
		}
	}

	show := func(ctx context.Context, a *app.App) error {
		p, err := a.Post(ctx, postID)
		if err != nil {
			return err
		}
		pl, err := a.Polls.Open(ctx, *p)
		if err != nil {
			return err
		}
		defer pl.Close()

		if option >= 0 {
			t, err := pl.Vote(ctx, option)
			if err := wait(ctx, t, err); err != nil {
				return err
			}
		}
		return printPoll(cmd.OutOrStdout(), p.Poll, pl.State())
	}

	if option < 0 && accessToken == "" {
		return withApp(cmd, show)
	}
	return withSession(cmd, func(ctx context.Context, a *app.App, _ *app.Session) error {
		return show(ctx, a)
	})
}

func printPoll(out io.Writer, def *domain.PollDefinition, st poll.State) error {
	if st.Err != nil {
		return st.Err
	}
	fmt.Fprintln(out, def.Question)
	for i, opt := range def.Options {
		own := " "
		if st.Own == i {
			own = "*"
		}
		fmt.Fprintf(out, " %s %d. %-24s %3d%%  (%d)\n", own, i, opt, st.Percentages[i], st.Counts[i])
	}
	fmt.Fprintf(out, "%d votes, %s\n", st.Total, st.Phase)
	return nil
}
