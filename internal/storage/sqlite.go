package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	conn      *sql.DB
	assetsDir string // root directory for uploaded image/video assets
}

// New creates a new DB, opening (or creating) the SQLite file at dbPath.
// assetsDir is the root directory where media assets are stored.
func New(dbPath, assetsDir string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if err := os.MkdirAll(assetsDir, 0755); err != nil {
		return nil, fmt.Errorf("create assets directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite only supports one writer — limit to single connection to prevent SQLITE_BUSY
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, assetsDir: assetsDir}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// AssetsDir returns the root assets directory.
func (db *DB) AssetsDir() string {
	return db.assetsDir
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			camera_x REAL NOT NULL DEFAULT 0,
			camera_y REAL NOT NULL DEFAULT 0,
			camera_zoom REAL NOT NULL DEFAULT 1.0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		// One document row per project: the node collection, serialized
		// whole. Node order inside the JSON is sibling render order.
		`CREATE TABLE IF NOT EXISTS documents (
			project_id TEXT PRIMARY KEY REFERENCES projects(id),
			nodes_json TEXT NOT NULL DEFAULT '[]',
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		// Undo nodes — individual records per undo state
		`CREATE TABLE IF NOT EXISTS undo_nodes (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id),
			parent_id TEXT,
			label TEXT NOT NULL,
			snapshot_json TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_undo_nodes_project ON undo_nodes(project_id)`,
		// Undo state — current position pointer per project
		`CREATE TABLE IF NOT EXISTS undo_state (
			project_id TEXT PRIMARY KEY REFERENCES projects(id),
			current_node_id TEXT NOT NULL REFERENCES undo_nodes(id)
		)`,
		// Uploaded assets registered with the watcher
		`CREATE TABLE IF NOT EXISTS assets (
			id TEXT PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id),
			kind TEXT NOT NULL,
			file_path TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assets_project ON assets(project_id)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			// ALTER TABLE fails if column already exists — safe to ignore
			if strings.Contains(m, "ALTER TABLE") && strings.Contains(err.Error(), "duplicate column") {
				continue
			}
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}

	return nil
}
