package db

import (
	"path/filepath"
	"testing"
)

const migrationsDir = "../../migrations"

func setupMigrationTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "migrate.db"))
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUp(t *testing.T) {
	db := setupMigrationTestDB(t)

	if err := db.MigrateUp(migrationsDir); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}

	version, dirty, err := db.MigrateVersion(migrationsDir)
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if dirty {
		t.Error("schema is dirty after a clean MigrateUp")
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	// The migrated schema accepts a pass row.
	_, err = db.Exec(`
		INSERT INTO passes (platform, start_time_ns, end_time_ns, line_count, source)
		VALUES ('NOAA-19', 0, 1, 100, 'p1')`)
	if err != nil {
		t.Errorf("insert into migrated schema failed: %v", err)
	}

	// Running up again is a no-op.
	if err := db.MigrateUp(migrationsDir); err != nil {
		t.Errorf("second MigrateUp failed: %v", err)
	}
}

func TestMigrateVersionBeforeMigrations(t *testing.T) {
	db := setupMigrationTestDB(t)

	version, dirty, err := db.MigrateVersion(migrationsDir)
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if version != 0 || dirty {
		t.Errorf("version = %d dirty = %v, want 0 false on a fresh DB", version, dirty)
	}
}

func TestMigrateDown(t *testing.T) {
	db := setupMigrationTestDB(t)

	if err := db.MigrateUp(migrationsDir); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	if err := db.MigrateDown(migrationsDir); err != nil {
		t.Fatalf("MigrateDown failed: %v", err)
	}

	version, _, err := db.MigrateVersion(migrationsDir)
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d after one step down, want 1", version)
	}
}

func TestMigrateForce(t *testing.T) {
	db := setupMigrationTestDB(t)

	if err := db.MigrateUp(migrationsDir); err != nil {
		t.Fatalf("MigrateUp failed: %v", err)
	}
	if err := db.MigrateForce(migrationsDir, 1); err != nil {
		t.Fatalf("MigrateForce failed: %v", err)
	}

	version, dirty, err := db.MigrateVersion(migrationsDir)
	if err != nil {
		t.Fatalf("MigrateVersion failed: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("version = %d dirty = %v, want 1 false after force", version, dirty)
	}
}
