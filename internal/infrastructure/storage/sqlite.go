// Package storage persists engine entities in SQLite: one table per entity,
// references by id only. Statements are built with squirrel and executed
// through database/sql on the pure-Go modernc driver.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// builder is the shared statement builder; SQLite uses question placeholders.
var builder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Open opens (or creates) the database file and applies the connection
// pragmas. SQLite allows a single writer, so the pool is capped at one
// connection; contention is then resolved by the busy timeout.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	return db, nil
}

// InitSchema creates the entity tables when they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			id TEXT PRIMARY KEY,
			interests TEXT NOT NULL,
			risk_tolerance TEXT NOT NULL,
			decision_style TEXT NOT NULL,
			notification_threshold INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			profile_id TEXT NOT NULL,
			title TEXT NOT NULL,
			options TEXT NOT NULL,
			scores TEXT,
			status TEXT NOT NULL,
			chosen_option TEXT,
			outcome_rating INTEGER,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_decisions_profile ON decisions (profile_id)`,
		`CREATE TABLE IF NOT EXISTS topics (
			id TEXT PRIMARY KEY,
			profile_id TEXT NOT NULL,
			name TEXT NOT NULL,
			keywords TEXT NOT NULL,
			priority_threshold INTEGER NOT NULL,
			active INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_topics_profile ON topics (profile_id)`,
		`CREATE TABLE IF NOT EXISTS topic_alerts (
			id TEXT PRIMARY KEY,
			topic_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			priority INTEGER NOT NULL,
			message TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_topic_alerts_topic ON topic_alerts (topic_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
