package config

import (
	"slices"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Auth          AuthConfig         `yaml:"auth"`
	Realtime      RealtimeConfig     `yaml:"realtime"`
	Mutation      MutationConfig     `yaml:"mutation"`
	Feed          FeedConfig         `yaml:"feed"`
	Notifications NotificationConfig `yaml:"notifications"`
	Storage       StorageConfig      `yaml:"storage"`
	Metrics       MetricsConfig      `yaml:"metrics"`
	Log           LogConfig          `yaml:"log"`
}

// DatabaseConfig holds PostgreSQL connection settings of the hosted backend.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// ApplicationName tags every session in pg_stat_activity, suffixed with
	// the connection's role.
	ApplicationName string `yaml:"application_name" env:"DATABASE_APPLICATION_NAME" env-default:"creatorfeed"`
	// StatementTimeout bounds gateway queries on the server side. Zero leaves
	// the server default.
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"DATABASE_STATEMENT_TIMEOUT" env-default:"15s"`
}

// AuthConfig holds access-token verification settings.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
	JWTIssuer string `yaml:"jwt_issuer" env:"AUTH_JWT_ISSUER" env-default:"creatorfeed"`
	// Audience is optional; when set, tokens must carry it.
	Audience       string        `yaml:"audience"         env:"AUTH_AUDIENCE"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"1h"`
}

// Realtime engines.
const (
	RealtimeEnginePostgres = "postgres"
	RealtimeEngineRedis    = "redis"
)

// RealtimeConfig selects and tunes the change-event source.
type RealtimeConfig struct {
	Engine        string        `yaml:"engine"         env:"REALTIME_ENGINE"          env-default:"postgres"`
	Channel       string        `yaml:"channel"        env:"REALTIME_CHANNEL"         env-default:"realtime_changes"`
	RedisAddr     string        `yaml:"redis_addr"     env:"REALTIME_REDIS_ADDR"      env-default:"localhost:6379"`
	RedisPassword string        `yaml:"redis_password" env:"REALTIME_REDIS_PASSWORD"`
	RedisDB       int           `yaml:"redis_db"       env:"REALTIME_REDIS_DB"        env-default:"0"`
	BackoffMin    time.Duration `yaml:"backoff_min"    env:"REALTIME_BACKOFF_MIN"     env-default:"500ms"`
	BackoffMax    time.Duration `yaml:"backoff_max"    env:"REALTIME_BACKOFF_MAX"     env-default:"30s"`
	BufferSize    int           `yaml:"buffer_size"    env:"REALTIME_BUFFER_SIZE"     env-default:"64"`
}

// MutationConfig tunes the optimistic mutation coordinator.
type MutationConfig struct {
	// Timeout is the bounded wait after which a pending edit is force-rolled-back.
	Timeout time.Duration `yaml:"timeout" env:"MUTATION_TIMEOUT" env-default:"10s"`
}

// FeedConfig holds pagination and autoplay settings.
type FeedConfig struct {
	PageSize            int     `yaml:"page_size"            env:"FEED_PAGE_SIZE"            env-default:"10"`
	VisibilityThreshold float64 `yaml:"visibility_threshold" env:"FEED_VISIBILITY_THRESHOLD" env-default:"0.5"`
	RootMargin          string  `yaml:"root_margin"          env:"FEED_ROOT_MARGIN"          env-default:"-10% 0px -10% 0px"`
	LoadMoreThreshold   float64 `yaml:"load_more_threshold"  env:"FEED_LOAD_MORE_THRESHOLD"  env-default:"0.1"`
}

// NotificationConfig holds notification inbox settings.
type NotificationConfig struct {
	PageSize int  `yaml:"page_size" env:"NOTIFICATIONS_PAGE_SIZE" env-default:"20"`
	Realtime bool `yaml:"realtime"  env:"NOTIFICATIONS_REALTIME"  env-default:"true"`
}

// StorageConfig holds S3-compatible blob storage settings.
type StorageConfig struct {
	Endpoint       string `yaml:"endpoint"         env:"STORAGE_ENDPOINT"`
	Region         string `yaml:"region"           env:"STORAGE_REGION"           env-default:"us-east-1"`
	AvatarBucket   string `yaml:"avatar_bucket"    env:"STORAGE_AVATAR_BUCKET"    env-default:"avatars"`
	PublicBaseURL  string `yaml:"public_base_url"  env:"STORAGE_PUBLIC_BASE_URL"`
	MaxAvatarBytes int64  `yaml:"max_avatar_bytes" env:"STORAGE_MAX_AVATAR_BYTES" env-default:"5242880"`
	CacheControl   string `yaml:"cache_control"    env:"STORAGE_CACHE_CONTROL"    env-default:"max-age=3600"`
}

// MetricsConfig controls the prometheus collectors.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"   env:"METRICS_ENABLED"   env-default:"true"`
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE" env-default:"creatorfeed"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RealtimeEngines returns the supported realtime engine names.
func RealtimeEngines() []string {
	return []string{RealtimeEnginePostgres, RealtimeEngineRedis}
}

// IsEngineSupported checks whether the configured engine is known.
func (c RealtimeConfig) IsEngineSupported() bool {
	return slices.Contains(RealtimeEngines(), c.Engine)
}
