package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsatony/headcount/internal/config"
)

func TestSchemaFor(t *testing.T) {
	pg, err := schemaFor(config.DriverPostgres)
	if err != nil {
		t.Fatalf("schemaFor(postgres) error: %v", err)
	}
	if want := "BIGSERIAL PRIMARY KEY"; !strings.Contains(pg, want) {
		t.Errorf("postgres schema missing %q", want)
	}

	lite, err := schemaFor(config.DriverSQLite)
	if err != nil {
		t.Fatalf("schemaFor(sqlite) error: %v", err)
	}
	if want := "INTEGER PRIMARY KEY AUTOINCREMENT"; !strings.Contains(lite, want) {
		t.Errorf("sqlite schema missing %q", want)
	}

	if _, err := schemaFor("mssql"); err == nil {
		t.Error("schemaFor(mssql) should fail")
	}
}

func TestOpenSQLiteMigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "headcount.db")
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: path}

	db, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	// migration is idempotent
	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("second Migrate() error: %v", err)
	}

	var tables int
	err = db.GetDB().Get(&tables, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('cameras', 'count_observations', 'schedules')`)
	if err != nil {
		t.Fatalf("querying sqlite_master: %v", err)
	}
	if tables != 3 {
		t.Errorf("expected 3 tables, got %d", tables)
	}
	if err := db.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}
}
