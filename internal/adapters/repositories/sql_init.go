package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// The DDL sticks to types both SQLite and Postgres accept. Booleans are
// stored as 0/1 integers for the same reason.
var schemaStatements = []string{
	`
	CREATE TABLE IF NOT EXISTS scenarios (
		name TEXT PRIMARY KEY,
		current_minute INTEGER NOT NULL
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS drones (
		scenario TEXT NOT NULL,
		drone_id INTEGER NOT NULL,
		max_weight DOUBLE PRECISION NOT NULL,
		battery DOUBLE PRECISION NOT NULL,
		remaining_battery DOUBLE PRECISION NOT NULL,
		speed DOUBLE PRECISION NOT NULL,
		start_x DOUBLE PRECISION NOT NULL,
		start_y DOUBLE PRECISION NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (scenario, drone_id)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS deliveries (
		scenario TEXT NOT NULL,
		delivery_id INTEGER NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		priority INTEGER NOT NULL,
		window_start INTEGER NOT NULL,
		window_end INTEGER NOT NULL,
		assigned_drone_id INTEGER,
		delivered INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (scenario, delivery_id)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS no_fly_zones (
		scenario TEXT NOT NULL,
		zone_id INTEGER NOT NULL,
		active_start INTEGER NOT NULL,
		active_end INTEGER NOT NULL,
		PRIMARY KEY (scenario, zone_id)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS no_fly_zone_vertices (
		scenario TEXT NOT NULL,
		zone_id INTEGER NOT NULL,
		seq INTEGER NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (scenario, zone_id, seq)
	);
	`,
	`
	CREATE TABLE IF NOT EXISTS path_cost_cache (
		namespace TEXT NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		cost DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (namespace, origin, destination)
	);
	`,
	`
	CREATE INDEX IF NOT EXISTS idx_path_cost_cache_destination
	ON path_cost_cache(namespace, destination, origin);
	`,
}

// InitSchema creates the scenario and path cost tables.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
