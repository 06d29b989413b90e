// Package store persists stans, categories, briefings, and prompt
// customizations in Postgres. Briefings are unique per (stan_id, date) at
// the schema level and written with an idempotent upsert, so concurrent
// generation runs for the same stan and day converge on one row instead of
// racing a read-then-write check.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // Postgres driver

	"stanbrief/internal/config"
)

// Store wraps the Postgres connection pool.
type Store struct {
	db *sql.DB
}

// NewStore opens the database and creates missing tables.
func NewStore(cfg config.Database) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required: set DATABASE_URL or database.url in config")
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	categoriesTable := `
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		icon TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT ''
	);`

	stansTable := `
	CREATE TABLE IF NOT EXISTS stans (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category_id TEXT REFERENCES categories (id),
		user_id TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		date_added TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`

	// The unique constraint on (stan_id, date) is the duplicate-prevention
	// invariant for same-day briefings.
	briefingsTable := `
	CREATE TABLE IF NOT EXISTS briefings (
		id TEXT PRIMARY KEY,
		stan_id TEXT NOT NULL REFERENCES stans (id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		content TEXT NOT NULL,
		topics JSONB NOT NULL DEFAULT '[]',
		search_sources TEXT[] NOT NULL DEFAULT '{}',
		images JSONB NOT NULL DEFAULT '[]',
		ai_generated BOOLEAN NOT NULL DEFAULT TRUE,
		degraded BOOLEAN NOT NULL DEFAULT FALSE,
		date TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (stan_id, date)
	);`

	promptsTable := `
	CREATE TABLE IF NOT EXISTS stan_prompts (
		user_id TEXT NOT NULL,
		stan_id TEXT NOT NULL REFERENCES stans (id) ON DELETE CASCADE,
		custom_prompt TEXT NOT NULL DEFAULT '',
		focus_areas TEXT[] NOT NULL DEFAULT '{}',
		exclude_topics TEXT[] NOT NULL DEFAULT '{}',
		tone TEXT NOT NULL DEFAULT 'informative',
		length TEXT NOT NULL DEFAULT 'medium',
		include_sources BOOLEAN NOT NULL DEFAULT TRUE,
		include_social_media BOOLEAN NOT NULL DEFAULT TRUE,
		include_fan_reactions BOOLEAN NOT NULL DEFAULT TRUE,
		include_upcoming_events BOOLEAN NOT NULL DEFAULT TRUE,
		PRIMARY KEY (user_id, stan_id)
	);`

	tables := []string{categoriesTable, stansTable, briefingsTable, promptsTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
