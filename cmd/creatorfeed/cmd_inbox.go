package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/creatorfeed/internal/app"
	"github.com/heartmarshall/creatorfeed/internal/service/notification"
)

var (
	inboxRead    string
	inboxReadAll bool
	inboxDelete  string
	inboxYes     bool
	inboxPages   int
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "List and manage notifications",
	Long: `List the signed-in viewer's notifications, newest first, with the unread
count. Flags mark notifications read or delete one.

Examples:
  creatorfeed inbox --token $TOKEN
  creatorfeed inbox --read 9a3b...
  creatorfeed inbox --read-all
  creatorfeed inbox --delete 9a3b... --yes`,
	Args: cobra.NoArgs,
	RunE: runInbox,
}

func init() {
	rootCmd.AddCommand(inboxCmd)

	inboxCmd.Flags().StringVar(&inboxRead, "read", "", "Mark this notification ID as read")
	inboxCmd.Flags().BoolVar(&inboxReadAll, "read-all", false, "Mark every notification as read")
	inboxCmd.Flags().StringVar(&inboxDelete, "delete", "", "Delete this notification ID")
	inboxCmd.Flags().BoolVar(&inboxYes, "yes", false, "Confirm --delete")
	inboxCmd.Flags().IntVar(&inboxPages, "pages", 1, "Number of pages to list")
}

func runInbox(cmd *cobra.Command, _ []string) error {
	return withSession(cmd, func(ctx context.Context, _ *app.App, s *app.Session) error {
		in := s.Inbox
		if err := in.Err(); err != nil {
			return err
		}
		for i := 1; i < inboxPages && in.HasMore(); i++ {
			if _, err := in.LoadMore(ctx); err != nil {
				return err
			}
		}

		if inboxRead != "" {
			id, err := parseID("notification", inboxRead)
			if err != nil {
				return err
			}
			t, err := in.MarkAsRead(ctx, id)
			if err := wait(ctx, t, err); err != nil {
				return err
			}
		}
		if inboxReadAll {
			t, err := in.MarkAllAsRead(ctx)
			if err := wait(ctx, t, err); err != nil {
				return err
			}
		}
		if inboxDelete != "" {
			id, err := parseID("notification", inboxDelete)
			if err != nil {
				return err
			}
			t, err := in.Delete(ctx, notification.DeleteInput{ID: id, Confirmed: inboxYes})
			if err := wait(ctx, t, err); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d unread\n", in.UnreadCount())

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tTYPE\tFROM\tREAD\tMESSAGE")
		for _, n := range in.Items() {
			from := ""
			if n.Sender != nil {
				from = "@" + n.Sender.Username
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				n.ID, n.CreatedAt.Local().Format(time.DateTime), n.Type, from, mark(n.IsRead), excerpt(n.Message, 48))
		}
		return w.Flush()
	})
}
