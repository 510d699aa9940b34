package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a pool for cfg.ConnectionString. Attempt n waits n*RetryInterval
// before the next one.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	return connect(ctx, cfg, cfg.ConnectionString)
}

// ConnectService opens the pool used for pre-session profile reads. When no
// service connection string is configured it returns main unchanged and owned
// reports false, so the caller must not close it twice.
func ConnectService(ctx context.Context, cfg Config, main *pgxpool.Pool) (pool *pgxpool.Pool, owned bool, err error) {
	if cfg.ServiceConnectionString == "" {
		return main, false, nil
	}
	pool, err = connect(ctx, cfg, cfg.ServiceConnectionString)
	if err != nil {
		return nil, false, err
	}
	return pool, true, nil
}

func connect(ctx context.Context, cfg Config, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, ErrEmptyConnectionString
	}
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	poolCfg.MaxConns = cfg.MaxOpenConns
	poolCfg.MinConns = cfg.MaxIdleConns
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for i := range attempts {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}
		lastErr = err

		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrFailedToOpenDBConnection, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrFailedToOpenDBConnection, lastErr)
}
