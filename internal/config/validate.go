package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Realtime.validate(); err != nil {
		return fmt.Errorf("realtime: %w", err)
	}

	if c.Mutation.Timeout <= 0 {
		return fmt.Errorf("mutation.timeout must be > 0 (got %v)", c.Mutation.Timeout)
	}

	if err := c.Feed.validate(); err != nil {
		return fmt.Errorf("feed: %w", err)
	}

	if c.Notifications.PageSize <= 0 || c.Notifications.PageSize > 100 {
		return fmt.Errorf("notifications.page_size must be in 1..100 (got %d)", c.Notifications.PageSize)
	}

	if c.Storage.MaxAvatarBytes <= 0 {
		return fmt.Errorf("storage.max_avatar_bytes must be > 0 (got %d)", c.Storage.MaxAvatarBytes)
	}
	if strings.TrimSpace(c.Storage.AvatarBucket) == "" {
		return fmt.Errorf("storage.avatar_bucket is required")
	}

	return nil
}

func (r *RealtimeConfig) validate() error {
	if !r.IsEngineSupported() {
		return fmt.Errorf("invalid engine %q (must be one of: %s)", r.Engine, strings.Join(RealtimeEngines(), ", "))
	}
	if r.Channel == "" {
		return fmt.Errorf("channel is required")
	}
	if r.BackoffMin <= 0 || r.BackoffMax < r.BackoffMin {
		return fmt.Errorf("backoff range invalid (min %v, max %v)", r.BackoffMin, r.BackoffMax)
	}
	if r.BufferSize <= 0 {
		return fmt.Errorf("buffer_size must be > 0 (got %d)", r.BufferSize)
	}
	return nil
}

func (f *FeedConfig) validate() error {
	if f.PageSize <= 0 || f.PageSize > 100 {
		return fmt.Errorf("page_size must be in 1..100 (got %d)", f.PageSize)
	}
	if f.VisibilityThreshold <= 0 || f.VisibilityThreshold > 1 {
		return fmt.Errorf("visibility_threshold must be in (0, 1] (got %v)", f.VisibilityThreshold)
	}
	if f.LoadMoreThreshold < 0 || f.LoadMoreThreshold > 1 {
		return fmt.Errorf("load_more_threshold must be in [0, 1] (got %v)", f.LoadMoreThreshold)
	}
	return nil
}
