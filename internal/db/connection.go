package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pdfquiz/internal/llm"
)

const createGenerationEvents = `
CREATE TABLE IF NOT EXISTS generation_events (
    id            UUID PRIMARY KEY,
    model         TEXT NOT NULL,
    purpose       TEXT NOT NULL,
    latency_ms    BIGINT NOT NULL,
    input_tokens  INTEGER NOT NULL,
    output_tokens INTEGER NOT NULL,
    success       BOOLEAN NOT NULL,
    error_message TEXT,
    created_at    TIMESTAMPTZ NOT NULL
)`

const insertGenerationEvent = `
INSERT INTO generation_events (
    id, model, purpose, latency_ms, input_tokens, output_tokens, success, error_message, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`

// DB holds the database connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// NewDB connects to the database at url and verifies the connection.
func NewDB(ctx context.Context, url string) (*DB, error) {
	if url == "" {
		return nil, fmt.Errorf("database URL not set")
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// EnsureSchema creates the tables the service writes to.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, createGenerationEvents); err != nil {
		return fmt.Errorf("create generation_events: %w", err)
	}
	return nil
}

// RecordGeneration stores one provider call. It implements llm.EventSink.
func (db *DB) RecordGeneration(ctx context.Context, e llm.GenerationEvent) error {
	_, err := db.Pool.Exec(ctx, insertGenerationEvent,
		e.ID, e.Model, e.Purpose, e.LatencyMs, e.InputTokens, e.OutputTokens,
		e.Success, e.ErrorMessage, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert generation event: %w", err)
	}
	return nil
}

// Close closes the database connection
func (db *DB) Close() {
	db.Pool.Close()
}

var _ llm.EventSink = (*DB)(nil)
