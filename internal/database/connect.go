package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Connect opens a pool and pings it, retrying up to attempts times while the database comes up.
func Connect(ctx context.Context, dsn string, attempts int, interval time.Duration, logger zerolog.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("database: invalid connection string: %w", err)
	}
	if attempts < 1 {
		attempts = 1
	}

	for i := 1; ; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		if i >= attempts {
			return nil, fmt.Errorf("database: failed to connect after %d attempts: %w", attempts, err)
		}
		logger.Warn().Err(err).Int("attempt", i).Int("max_attempts", attempts).Dur("retry_in", interval).Msg("database not ready")

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("database: %w", ctx.Err())
		case <-time.After(interval):
		}
	}
}
