package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/quickstop/cafebot/internal/config"
	"github.com/quickstop/cafebot/internal/domain"
)

// Postgres persists the store document as a single JSONB row. The bot is
// single-instance by design, so a one-row document table keeps the
// load/save contract identical to the file store.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres establishes a connection pool and ensures the document table
// exists.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	if cfg.DSN == "" {
		return nil, errors.New("POSTGRES_DSN required for the postgres store")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	const schema = `
        CREATE TABLE IF NOT EXISTS bot_store (
            id SMALLINT PRIMARY KEY CHECK (id = 1),
            document JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure bot_store table: %w", err)
	}

	logger.Info("connected to postgres")
	return &Postgres{pool: pool}, nil
}

// Load reads the store document, returning an empty store when the row is
// absent.
func (p *Postgres) Load(ctx context.Context) (*domain.Store, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT document FROM bot_store WHERE id = 1`).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.NewStore(), nil
		}
		return nil, fmt.Errorf("select store: %w", err)
	}

	var store domain.Store
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("unmarshal store: %w", err)
	}
	store.Normalize()
	return &store, nil
}

// Save upserts the store document.
func (p *Postgres) Save(ctx context.Context, store *domain.Store) error {
	data, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	const query = `
        INSERT INTO bot_store (id, document, updated_at) VALUES (1, $1, NOW())
        ON CONFLICT (id) DO UPDATE SET document = $1, updated_at = NOW()`
	if _, err := p.pool.Exec(ctx, query, data); err != nil {
		return fmt.Errorf("upsert store: %w", err)
	}
	return nil
}

// Close releases pool resources.
func (p *Postgres) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

// Ping verifies connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return p.pool.Ping(ctx)
}
