package db

import (
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
)

// NewTestDB creates a fresh in-memory SQLite database with the schema applied.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}

// NewPostgresTestDB connects to the server in WATCHDESK_TEST_PG, applies the
// schema and empties every table. The test is skipped when the variable is
// unset.
func NewPostgresTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("WATCHDESK_TEST_PG")
	if dsn == "" {
		t.Skip("WATCHDESK_TEST_PG not set")
	}

	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := EnsureSchema(db); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	_, err = db.Exec(`TRUNCATE watch_events, expenses, watches, clients, revoked_tokens, settings, users RESTART IDENTITY CASCADE`)
	if err != nil {
		db.Close()
		t.Fatalf("truncating test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
