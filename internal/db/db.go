package db

import (
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/perflab/perfapi/internal/config"
)

// Open opens the mode's SQLite store file and wraps it in sqlx for named
// queries and struct scanning. Optimized mode switches the journal to
// write-ahead logging so readers are not blocked by a writer's transaction.
func Open(cfg *config.Config) (*sqlx.DB, error) {
	params := url.Values{}
	params.Set("_busy_timeout", "5000")
	if cfg.Mode == config.ModeOptimized {
		params.Set("_journal_mode", "WAL")
	}
	dsn := fmt.Sprintf("file:%s?%s", cfg.DBPath, params.Encode())

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", cfg.DBPath, err)
	}

	// ---- Connection Pool Settings ----
	db.SetMaxOpenConns(cfg.DBMaxOpen)
	db.SetMaxIdleConns(cfg.DBMaxIdle)
	db.SetConnMaxLifetime(time.Duration(cfg.DBMaxLifetime) * time.Second)

	// ---- Connectivity Check ----
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: failed to open store file: %w", err)
	}

	return db, nil
}

const baseSchema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL,
    email TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id)
);
`

const optimizedSchema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);
`

// Migrate creates the two tables (and, in optimized mode, the supporting
// indexes and the username uniqueness constraint). Idempotent; must run once
// before any other store operation.
func Migrate(db *sqlx.DB, mode string) error {
	schema := baseSchema
	if mode == config.ModeOptimized {
		schema = optimizedSchema
	}
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("db: migrate: %w", err)
	}
	return nil
}
