package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/creatorfeed/internal/app"
	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

var (
	configPath  string
	accessToken string
)

// rootCmd is the base command of the creatorfeed client.
var rootCmd = &cobra.Command{
	Use:   "creatorfeed",
	Short: "Terminal client for the creator platform feed",
	Long: `creatorfeed loads the post feed, reacts to posts and polls, manages the
notification inbox and unlocks premium content against the hosted backend.
Every edit is applied locally first and rolled back if the backend refuses it;
realtime row changes are merged into whatever is open.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default $CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&accessToken, "token", os.Getenv("CREATORFEED_TOKEN"), "Access token of the signed-in viewer")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if msg := domain.UserMessage(err); msg != "Something went wrong" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// withApp loads config, connects and runs fn with a ctx cancelled on signal.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", slog.String("error", err.Error()))
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

// withSession is withApp for commands that need a signed-in viewer. fn gets
// the session context, which carries the viewer ID and is cancelled on signal.
func withSession(cmd *cobra.Command, fn func(ctx context.Context, a *app.App, s *app.Session) error) error {
	return withApp(cmd, func(ctx context.Context, a *app.App) error {
		s, err := a.Login(ctx, accessToken)
		if err != nil {
			return err
		}
		defer a.Logout()
		return fn(s.Context(), a, s)
	})
}
