package sqlitemigrate

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openMigrationDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return db
}

func migrationCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	return count
}

func hasTable(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("check table: %v", err)
	}
	return true
}

func TestApplyMigrationsCreatesAndRecords(t *testing.T) {
	db := openMigrationDB(t)

	migrations := fstest.MapFS{
		"0001_sessions.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE sessions (id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE sessions;"),
		},
	}

	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if !hasTable(t, db, "sessions") {
		t.Fatal("expected sessions table")
	}
	if got := migrationCount(t, db); got != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", got)
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openMigrationDB(t)

	migrations := fstest.MapFS{
		"0001_sessions.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE sessions (id TEXT PRIMARY KEY);"),
		},
	}

	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(db, migrations, ""); err != nil {
			t.Fatalf("apply pass %d: %v", i, err)
		}
	}
	if got := migrationCount(t, db); got != 1 {
		t.Fatalf("expected a single recorded migration after replay, got %d", got)
	}
}

func TestApplyMigrationsDoesNotRecordFailures(t *testing.T) {
	db := openMigrationDB(t)

	bad := fstest.MapFS{
		"0001_sessions.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT TABLE sessions (id TEXT);"),
		},
	}
	if err := ApplyMigrations(db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := migrationCount(t, db); got != 0 {
		t.Fatalf("expected failed migration to stay unrecorded, got %d", got)
	}

	fixed := fstest.MapFS{
		"0001_sessions.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE sessions (id TEXT PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(db, fixed, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if got := migrationCount(t, db); got != 1 {
		t.Fatalf("expected fixed migration recorded, got %d", got)
	}
}

func TestApplyMigrationsKeysIncludeRoot(t *testing.T) {
	db := openMigrationDB(t)

	migrations := fstest.MapFS{
		"tablet/0001_events.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE events (id TEXT PRIMARY KEY);"),
		},
	}

	if err := ApplyMigrations(db, migrations, "tablet"); err != nil {
		t.Fatalf("apply migrations with root: %v", err)
	}

	var key string
	if err := db.QueryRow("SELECT name FROM schema_migrations LIMIT 1").Scan(&key); err != nil {
		t.Fatalf("read migration key: %v", err)
	}
	if key != "tablet/0001_events.sql" {
		t.Fatalf("expected root-prefixed key, got %q", key)
	}
	if !hasTable(t, db, "events") {
		t.Fatal("expected events table")
	}
}
