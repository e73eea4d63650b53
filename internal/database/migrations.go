package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered, in-code migration list. New schema changes are
// appended with the next version number.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_scenes",
		SQL: `
			CREATE TABLE IF NOT EXISTS scenes (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				detailed_description TEXT NOT NULL DEFAULT '',
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				type TEXT NOT NULL,
				rating REAL NOT NULL DEFAULT 0,
				image_url TEXT NOT NULL DEFAULT '',
				address TEXT NOT NULL DEFAULT '',
				opening_hours TEXT NOT NULL DEFAULT '',
				ticket_price TEXT NOT NULL DEFAULT '',
				contact_phone TEXT NOT NULL DEFAULT '',
				website TEXT NOT NULL DEFAULT '',
				tags TEXT NOT NULL DEFAULT '[]',
				is_favorite INTEGER NOT NULL DEFAULT 0,
				visit_count INTEGER NOT NULL DEFAULT 0,
				last_visited INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_scenes_type ON scenes(type);
		`,
	},
	{
		Version: 2,
		Name:    "create_user_markers",
		SQL: `
			CREATE TABLE IF NOT EXISTS user_markers (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				marker_type TEXT NOT NULL,
				created_at INTEGER NOT NULL,
				tags TEXT NOT NULL DEFAULT '[]',
				color TEXT NOT NULL DEFAULT '#2196F3'
			);
			CREATE INDEX IF NOT EXISTS idx_user_markers_type ON user_markers(marker_type);
		`,
	},
}

// MigrationManager manages database migrations
type MigrationManager struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sql.DB, log zerolog.Logger) *MigrationManager {
	return &MigrationManager{db: db, log: log}
}

// InitMigrationsTable creates the migrations tracking table
func (m *MigrationManager) InitMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns the set of applied migration versions
func (m *MigrationManager) GetAppliedMigrations() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, nil
}

// ApplyMigration applies a single migration
func (m *MigrationManager) ApplyMigration(migration Migration) error {
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	// Execute migration SQL
	if _, err := tx.Exec(migration.SQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
	}

	// Record migration
	if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", migration.Version, migration.Name); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}

	m.log.Info().Int("version", migration.Version).Str("name", migration.Name).Msg("applied migration")
	return nil
}

// RunMigrations runs all pending migrations
func (m *MigrationManager) RunMigrations() error {
	// Initialize migrations table
	if err := m.InitMigrationsTable(); err != nil {
		return err
	}

	// Get applied migrations
	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return err
	}

	// Apply pending migrations
	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		if err := m.ApplyMigration(migration); err != nil {
			return err
		}
	}

	return nil
}
