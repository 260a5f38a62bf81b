package pg

import (
	"context"
	"fmt"
	"time"

	infraconfig "ticker-service/internal/infrastructure/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the pgx pool used for the pair registry. The registry is read at
// startup only, so the pool stays small.
type DB struct{ Pool *pgxpool.Pool }

// Connect opens a pool against url. No connection is made until first use;
// RunMigrations waits for the server to become reachable.
func Connect(ctx context.Context, url string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = infraconfig.DefaultPGMaxConns
	cfg.MinConns = infraconfig.DefaultPGMinConns
	cfg.MaxConnIdleTime = time.Minute
	cfg.ConnConfig.RuntimeParams["application_name"] = "ticker-service"
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (d *DB) Close() { d.Pool.Close() }

// LoadPairs connects, applies migrations and reads the enabled pairs. The
// pool is closed before returning.
func LoadPairs(ctx context.Context, url string) ([]string, error) {
	db, err := Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := RunMigrations(ctx, db); err != nil {
		return nil, err
	}
	return NewPairRepo(db).ListPairs(ctx)
}
