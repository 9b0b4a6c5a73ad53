package db

import (
	"context"

	"blogsync/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

func NewPostgresConnection(cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := cfg.GetDSN()
	pool, err := pgxpool.New(context.Background(), dsn)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(context.Background())
	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS image_assets (
	page_id      TEXT        NOT NULL,
	block_id     TEXT        NOT NULL,
	content_hash TEXT        NOT NULL,
	public_id    TEXT        NOT NULL,
	source_url   TEXT        NOT NULL,
	mirror_url   TEXT        NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (page_id, block_id, content_hash)
);
CREATE INDEX IF NOT EXISTS image_assets_page_idx ON image_assets (page_id, created_at);
`

// Migrate создаёт таблицы, если их ещё нет.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
