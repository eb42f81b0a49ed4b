package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/creatorfeed/internal/app"
	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/feed"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
)

var (
	feedPages int
	feedLike  string
	feedSave  string
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Load the published feed",
	Long: `Load feed pages into a window and print them newest first. Without a
token the feed is loaded anonymously and viewer columns stay empty.

Examples:
  creatorfeed feed
  creatorfeed feed --pages 3
  creatorfeed feed --like 2f1c...  # toggle like on a post of the loaded window`,
	Args: cobra.NoArgs,
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().IntVar(&feedPages, "pages", 1, "Number of pages to load")
	feedCmd.Flags().StringVar(&feedLike, "like", "", "Toggle like on this post ID")
	feedCmd.Flags().StringVar(&feedSave, "save", "", "Toggle save on this post ID")
}

func runFeed(cmd *cobra.Command, _ []string) error {
	if feedPages < 1 {
		return fmt.Errorf("--pages must be at least 1")
	}

	if accessToken == "" {
		if feedLike != "" || feedSave != "" {
			return fmt.Errorf("--like and --save require --token")
		}
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return showFeed(ctx, cmd.OutOrStdout(), a)
		})
	}

	return withSession(cmd, func(ctx context.Context, a *app.App, _ *app.Session) error {
		return showFeed(ctx, cmd.OutOrStdout(), a)
	})
}

func showFeed(ctx context.Context, out io.Writer, a *app.App) error {
	view, err := a.Feed.Open(ctx, nil)
	if err != nil {
		return err
	}
	defer view.Close()

	for i := 0; i < feedPages && view.HasMore(); i++ {
		if _, err := view.LoadMore(ctx); err != nil {
			return err
		}
	}

	if err := toggle(ctx, view, feedLike, view.ToggleLike); err != nil {
		return fmt.Errorf("like: %w", err)
	}
	if err := toggle(ctx, view, feedSave, view.ToggleSave); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	return printFeed(out, view.Items(), view.HasMore())
}

func printFeed(out io.Writer, items []feed.Item, hasMore bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAUTHOR\tLIKES\tLIKED\tSAVED\tKIND\tCONTENT")
	for _, it := range items {
		author := it.UserID.String()[:8]
		if it.Author != nil {
			author = "@" + it.Author.Username
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			it.ID, author, it.LikeCount, mark(it.IsLiked), mark(it.IsSaved), kind(it), excerpt(it.Content, 40))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if hasMore {
		fmt.Fprintln(out, "more posts available: use --pages")
	}
	return nil
}

func kind(it feed.Item) string {
	switch {
	case it.HasPoll():
		return "poll"
	case it.IsPremium:
		return fmt.Sprintf("premium $%.2f", it.Price)
	case len(it.MediaURLs) > 0:
		return "media"
	default:
		return "text"
	}
}

func mark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// toggle runs an optimistic toggle on the post named by rawID and waits for
// the backend to confirm or roll it back. An empty rawID is a no-op.
func toggle(ctx context.Context, view *feed.View, rawID string, fn func(context.Context, uuid.UUID) (*mutation.Ticket, error)) error {
	if rawID == "" {
		return nil
	}
	id, err := parseID("post", rawID)
	if err != nil {
		return err
	}
	if _, ok := view.Item(id); !ok {
		return fmt.Errorf("post %s is not in the loaded pages: %w", id, domain.ErrNotFound)
	}
	t, err := fn(ctx, id)
	return wait(ctx, t, err)
}

func wait(ctx context.Context, t *mutation.Ticket, err error) error {
	if err != nil {
		return err
	}
	_, err = t.Wait(ctx)
	return err
}

func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, domain.NewValidationError(field, "must be a UUID")
	}
	return id, nil
}
