package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/creatorfeed/internal/app"
	"github.com/heartmarshall/creatorfeed/internal/transport/rest"
)

var (
	watchOpsAddr  string
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stay signed in and follow realtime changes",
	Long: `Connect the realtime transport, sign in, open the feed and the notification
inbox and merge realtime row changes into both until interrupted. The unread
count is printed whenever it changes; inbound notifications are logged.

Examples:
  creatorfeed watch --token $TOKEN
  creatorfeed watch --ops-addr :9090`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchOpsAddr, "ops-addr", "", "Serve /metrics, /live, /ready and /health on this address")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 2*time.Second, "How often the unread count is checked")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return a.Run(gctx) })
		g.Go(func() error {
			defer cancel()
			return watchSession(gctx, cmd, a)
		})

		if watchOpsAddr != "" {
			srv := &http.Server{Addr: watchOpsAddr, Handler: opsHandler(a), ReadHeaderTimeout: 5 * time.Second}
			g.Go(func() error {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("ops server: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
		}

		if err := g.Wait(); err != nil && !app.IsShutdown(err) {
			return err
		}
		return nil
	})
}

// watchSession signs in once the transport is up so the inbox subscribes
// against a live connection, then reports the unread count until ctx ends.
func watchSession(ctx context.Context, cmd *cobra.Command, a *app.App) error {
	waitRealtime(ctx, a, 10*time.Second)

	s, err := a.Login(ctx, accessToken)
	if err != nil {
		return err
	}
	defer a.Logout()
	ctx = s.Context()

	view, err := a.Feed.Open(ctx, nil)
	if err != nil {
		return err
	}
	defer view.Close()
	if _, err := view.LoadMore(ctx); err != nil {
		slog.WarnContext(ctx, "first feed page failed", slog.String("error", err.Error()))
	}

	out := cmd.OutOrStdout()
	last := -1
	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()
	for {
		if n := s.Inbox.UnreadCount(); n != last {
			fmt.Fprintf(out, "%s unread: %d (feed: %d posts)\n", time.Now().Format(time.TimeOnly), n, view.Len())
			last = n
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// waitRealtime polls until the transport is ready or limit passes. A slow
// transport is not fatal; changes it misses surface on the next refetch.
func waitRealtime(ctx context.Context, a *app.App, limit time.Duration) {
	deadline := time.Now().Add(limit)
	for time.Now().Before(deadline) {
		if err := a.RealtimeReady(ctx); err == nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(100 * time.Millisecond):
		}
	}
	slog.WarnContext(ctx, "realtime not connected yet, continuing")
}

func opsHandler(a *app.App) http.Handler {
	health := rest.NewHealthHandler(app.BuildVersion(), map[string]rest.Check{
		"database": a.Ping,
		"realtime": a.RealtimeReady,
	})
	var metrics http.Handler
	if m := a.Metrics(); m != nil {
		metrics = m.Handler()
	}
	return rest.NewOpsHandler(slog.Default(), health, metrics)
}
