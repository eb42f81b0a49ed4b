package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/creatorfeed/internal/config"
)

// Connection roles, reported in application_name.
const (
	roleGateway  = "gateway"
	roleListener = "listener"
)

// NewPool opens the gateway pool shared by every repository and pings the
// database so a bad DSN fails at startup.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	params := poolCfg.ConnConfig.RuntimeParams
	tagSession(params, cfg.ApplicationName, roleGateway)
	if cfg.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
	return poolCfg, nil
}

// ListenerConfig returns the settings of the dedicated LISTEN connection of
// the realtime listener. It lives outside the pool and sits idle in
// WaitForNotification, so it gets no statement timeout.
func ListenerConfig(cfg config.DatabaseConfig) (*pgx.ConnConfig, error) {
	connCfg, err := pgx.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}
	tagSession(connCfg.RuntimeParams, cfg.ApplicationName, roleListener)
	return connCfg, nil
}

func tagSession(params map[string]string, name, role string) {
	if name == "" {
		return
	}
	params["application_name"] = name + "/" + role
}
