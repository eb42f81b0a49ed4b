package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/creatorfeed/internal/app"
	"github.com/heartmarshall/creatorfeed/internal/service/profile"
)

var avatarCmd = &cobra.Command{
	Use:   "avatar <image-file>",
	Short: "Upload a new profile avatar",
	Long: `Upload a JPG, PNG or GIF as the signed-in viewer's avatar. The previous
avatar is removed from storage once the profile points at the new one.

Examples:
  creatorfeed avatar ./me.png --token $TOKEN`,
	Args: cobra.ExactArgs(1),
	RunE: runAvatar,
}

func init() {
	rootCmd.AddCommand(avatarCmd)
}

func runAvatar(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read avatar: %w", err)
	}

	return withSession(cmd, func(ctx context.Context, a *app.App, _ *app.Session) error {
		url, err := a.Profiles.UploadAvatar(ctx, profile.UploadAvatarInput{
			FileName:    filepath.Base(args[0]),
			ContentType: http.DetectContentType(data),
			Data:        data,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), url)
		return nil
	})
}
