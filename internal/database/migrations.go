package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations are applied in version order. The speed_limits table stores one
// row per (way, coordinate) feature; coord_key is the coordinate rounded to
// 6 decimals in fixed-width form, matching the exact-lookup bucketing.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_speed_limits",
		SQL: `
			CREATE TABLE IF NOT EXISTS speed_limits (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				way_id INTEGER NOT NULL,
				latitude REAL NOT NULL,
				longitude REAL NOT NULL,
				coord_key TEXT NOT NULL,
				maxspeed TEXT NOT NULL,
				highway TEXT NOT NULL DEFAULT 'unknown',
				name TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_speed_limits_coord_key ON speed_limits(coord_key);
			CREATE INDEX IF NOT EXISTS idx_speed_limits_lat_lon ON speed_limits(latitude, longitude);
		`,
	},
}

// Migrate applies all pending migrations to the database.
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}

		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
		}

		if _, err := db.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		log.Printf("[Migrate] Applied migration %d: %s", m.Version, m.Name)
	}

	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
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

	return applied, rows.Err()
}
