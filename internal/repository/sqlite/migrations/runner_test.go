package migrations_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/msomdec/bump-journal/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// :memory: databases are per connection.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	// Verify the schema by inserting a user, a milestone and a tip.
	res, err := db.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash) VALUES (?, ?, ?)",
		"test@example.com", "Test User", "hash123",
	)
	if err != nil {
		t.Fatalf("insert into users: %v", err)
	}
	userID, _ := res.LastInsertId()

	res, err = db.ExecContext(ctx,
		"INSERT INTO milestones (owner_id, title, date) VALUES (?, ?, ?)",
		userID, "First ultrasound", "2024-02-28",
	)
	if err != nil {
		t.Fatalf("insert into milestones: %v", err)
	}
	milestoneID, _ := res.LastInsertId()

	if _, err := db.ExecContext(ctx,
		"INSERT INTO tips (milestone_id, author_id, content) VALUES (?, ?, ?)",
		milestoneID, userID, "Bring a snack",
	); err != nil {
		t.Fatalf("insert into tips: %v", err)
	}

	applied, err := migrations.Applied(ctx, db)
	if err != nil {
		t.Fatalf("Applied: %v", err)
	}
	if len(applied) != 3 {
		t.Fatalf("expected 3 applied migrations, got %v", applied)
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	if err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 migration records, got %d", count)
	}
}

func TestRunFS_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	src := fstest.MapFS{
		"001_ok.sql":     {Data: []byte("CREATE TABLE a (id INTEGER PRIMARY KEY);")},
		"002_broken.sql": {Data: []byte("CREATE TABLE b (id INTEGER PRIMARY KEY")},
	}

	if err := migrations.RunFS(ctx, db, src); err == nil {
		t.Fatal("expected an error from the broken migration")
	}

	applied, err := migrations.Applied(ctx, db)
	if err != nil {
		t.Fatalf("Applied: %v", err)
	}
	if len(applied) != 1 || applied[0] != "001_ok.sql" {
		t.Fatalf("expected only 001_ok.sql recorded, got %v", applied)
	}
}

func TestMigrations_RejectEmptyTitle(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("Run: %v", err)
	}
	res, err := db.ExecContext(ctx,
		"INSERT INTO users (email, name, password_hash) VALUES ('a@b.c', 'A', 'h')")
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	userID, _ := res.LastInsertId()

	_, err = db.ExecContext(ctx,
		"INSERT INTO milestones (owner_id, title, date) VALUES (?, '', '2024-01-01')", userID)
	if err == nil {
		t.Fatal("expected CHECK constraint to reject an empty title")
	}
}
