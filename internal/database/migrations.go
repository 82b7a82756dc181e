package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token      TEXT PRIMARY KEY,
		user_id    INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		item_id      INTEGER PRIMARY KEY AUTOINCREMENT,
		creator_id   INTEGER NOT NULL REFERENCES users(user_id),
		name         TEXT NOT NULL,
		description  TEXT NOT NULL,
		starting_bid INTEGER NOT NULL,
		start_date   INTEGER NOT NULL,
		end_date     INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bids (
		bid_id    INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id   INTEGER NOT NULL REFERENCES items(item_id),
		user_id   INTEGER NOT NULL REFERENCES users(user_id),
		amount    INTEGER NOT NULL,
		placed_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		question_id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id     INTEGER NOT NULL REFERENCES items(item_id),
		asked_by    INTEGER NOT NULL REFERENCES users(user_id),
		question    TEXT NOT NULL,
		answer      TEXT
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id       BIGSERIAL PRIMARY KEY,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		token      TEXT PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
		created_at BIGINT NOT NULL,
		expires_at BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		item_id      BIGSERIAL PRIMARY KEY,
		creator_id   BIGINT NOT NULL REFERENCES users(user_id),
		name         TEXT NOT NULL,
		description  TEXT NOT NULL,
		starting_bid BIGINT NOT NULL,
		start_date   BIGINT NOT NULL,
		end_date     BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS bids (
		bid_id    BIGSERIAL PRIMARY KEY,
		item_id   BIGINT NOT NULL REFERENCES items(item_id),
		user_id   BIGINT NOT NULL REFERENCES users(user_id),
		amount    BIGINT NOT NULL,
		placed_at BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		question_id BIGSERIAL PRIMARY KEY,
		item_id     BIGINT NOT NULL REFERENCES items(item_id),
		asked_by    BIGINT NOT NULL REFERENCES users(user_id),
		question    TEXT NOT NULL,
		answer      TEXT
	)`,
}

// Indexes are valid on both drivers.
var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_bids_item_amount ON bids(item_id, amount)`,
	`CREATE INDEX IF NOT EXISTS idx_bids_user ON bids(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_creator ON items(creator_id)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_item ON questions(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at)`,
}

// Statements returns the ordered schema statements for a driver.
func Statements(driver string) []string {
	schema := sqliteSchema
	if driver == DriverPostgres {
		schema = postgresSchema
	}
	stmts := make([]string, 0, len(schema)+len(indexes))
	stmts = append(stmts, schema...)
	return append(stmts, indexes...)
}

// Migrate creates the schema for driver. Every statement is idempotent.
func Migrate(ctx context.Context, db sqlx.ExecerContext, driver string) error {
	for i, stmt := range Statements(driver) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	return nil
}
