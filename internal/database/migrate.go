package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/itsatony/headcount/internal/config"
	nuts "github.com/vaudience/go-nuts"
)

// Instants are stored as epoch seconds in both dialects so window
// predicates are plain integer comparisons.
const schemaTemplate = `
CREATE TABLE IF NOT EXISTS cameras (
	id {{pk}},
	name TEXT NOT NULL,
	refresh_rate_seconds BIGINT NOT NULL DEFAULT 0 CHECK (refresh_rate_seconds >= 0),
	last_refresh BIGINT NOT NULL DEFAULT 0,
	endpoint TEXT NOT NULL DEFAULT '',
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS count_observations (
	id {{pk}},
	camera_id BIGINT NOT NULL REFERENCES cameras(id) ON DELETE CASCADE,
	count_in BIGINT NOT NULL CHECK (count_in >= 0),
	count_out BIGINT NOT NULL CHECK (count_out >= 0),
	start_time BIGINT NOT NULL,
	end_time BIGINT NOT NULL,
	observed_date TEXT NOT NULL,
	observed_time TEXT NOT NULL,
	created_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_count_observations_camera_start
	ON count_observations(camera_id, start_time);

CREATE INDEX IF NOT EXISTS idx_count_observations_date
	ON count_observations(observed_date);

CREATE TABLE IF NOT EXISTS schedules (
	id {{pk}},
	camera_id BIGINT NOT NULL REFERENCES cameras(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	start_time BIGINT NOT NULL,
	duration_seconds BIGINT NOT NULL CHECK (duration_seconds > 0),
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_schedules_camera ON schedules(camera_id);
`

func schemaFor(dialect string) (string, error) {
	var pk string
	switch dialect {
	case config.DriverPostgres:
		pk = "BIGSERIAL PRIMARY KEY"
	case config.DriverSQLite:
		pk = "INTEGER PRIMARY KEY AUTOINCREMENT"
	default:
		return "", fmt.Errorf("no schema for dialect %q", dialect)
	}
	return strings.ReplaceAll(schemaTemplate, "{{pk}}", pk), nil
}

// Migrate creates the cameras, count_observations and schedules tables if they don't exist.
func Migrate(ctx context.Context, db DB) error {
	schema, err := schemaFor(db.Dialect())
	if err != nil {
		return err
	}

	tx, err := db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	nuts.L.Infof("[Database] Schema ready (%s)", db.Dialect())
	return nil
}
