package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Shadpls/Eat-Already/internal/shared/config"
)

// schema is applied idempotently at startup. The unique index on username is
// the write-time backstop for the duplicate-signup race.
const schema = `
CREATE TABLE IF NOT EXISTS person (
	id         BIGSERIAL PRIMARY KEY,
	username   TEXT NOT NULL UNIQUE,
	password   BYTEA NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// NewPgxPool creates a PostgreSQL connection pool and ensures the schema
// exists. Pool settings: max 10 connections, min 5 connections, 1-hour max
// lifetime, 30-min idle timeout.
func NewPgxPool(cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse database URL")
		return nil, err
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 5
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConnIdleTime = time.Minute * 30

	logger.Debug().
		Int32("max_conns", poolCfg.MaxConns).
		Int32("min_conns", poolCfg.MinConns).
		Dur("max_conns_lifetime", poolCfg.MaxConnLifetime).
		Dur("max_conns_idletime", poolCfg.MaxConnIdleTime).
		Msg("Database connection pool configuration")

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create database connection pool")
		return nil, err
	}

	if _, err := pool.Exec(context.Background(), schema); err != nil {
		logger.Error().Err(err).Msg("Failed to apply schema")
		pool.Close()
		return nil, err
	}

	logger.Debug().Msg("Database connection pool created and schema ensured")
	return pool, nil
}
