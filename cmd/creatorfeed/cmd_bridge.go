package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/creatorfeed/internal/adapter/postgres/notify"
	"github.com/heartmarshall/creatorfeed/internal/adapter/redisbus"
	"github.com/heartmarshall/creatorfeed/internal/app"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Forward database change events onto Redis",
	Long: `Hold one LISTEN connection to the backend and republish every change event
on the per-table Redis channels, so clients configured with the redis realtime
engine share a single database listener. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runBridge,
}

func init() {
	rootCmd.AddCommand(bridgeCmd)
}

func runBridge(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	client := redisbus.NewClient(cfg.Realtime)
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	forward := redisbus.NewForwarder(redisbus.New(logger, client, cfg.Realtime))
	listener := notify.NewListener(logger, cfg.Database, cfg.Realtime)

	for _, table := range []string{domain.TablePosts, domain.TablePostLikes, domain.TablePollVotes, domain.TableNotifications} {
		if _, err := listener.Subscribe(ctx, domain.ChangeFilter{Table: table}, forward); err != nil {
			return err
		}
	}

	logger.InfoContext(ctx, "bridge started",
		slog.String("channel", cfg.Realtime.Channel),
		slog.String("redis", cfg.Realtime.RedisAddr),
	)
	if err := listener.Run(ctx); err != nil {
		return err
	}
	logger.InfoContext(ctx, "bridge stopped", slog.Int64("forwarded", listener.Delivered()))
	return nil
}
