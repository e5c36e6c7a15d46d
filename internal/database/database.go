// Package database persists finished-game results to Postgres. Like the
// Redis publisher, it is optional: when DB is nil every store is a no-op.
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// DB is the shared connection pool, nil when Postgres is not configured.
var DB *pgxpool.Pool

// Connect initializes the package-level pool and ensures the results table
// exists.
func Connect(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_results (
			id         BIGSERIAL PRIMARY KEY,
			game_code  TEXT        NOT NULL,
			snapshot   JSONB       NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		pool.Close()
		return fmt.Errorf("ensure game_results table: %w", err)
	}
	DB = pool
	logrus.Info("connected to postgres")
	return nil
}

// Close shuts the pool down.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}

// StoreFinalGameState writes the terminal snapshot of a finished game.
func StoreFinalGameState(ctx context.Context, gameCode string, snapshot interface{}) error {
	if DB == nil {
		return nil
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal final snapshot: %w", err)
	}
	_, err = DB.Exec(ctx,
		`INSERT INTO game_results (game_code, snapshot) VALUES ($1, $2)`,
		gameCode, payload)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}
	return nil
}
