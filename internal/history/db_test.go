package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// tempDBPath returns a path to a temp database file.
func tempDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

// setupTestDB creates a new temporary database for testing.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(tempDBPath(t))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func TestOpen(t *testing.T) {
	path := tempDBPath(t)
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("database file does not exist at %s", path)
	}
}

func TestOpen_CreatesParentDirectories(t *testing.T) {
	nested := filepath.Join(t.TempDir(), ".taskforge", "deep")
	path := filepath.Join(nested, "history.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(nested); os.IsNotExist(err) {
		t.Errorf("parent directories not created: %s", nested)
	}
}

func TestMigrate(t *testing.T) {
	db, err := Open(tempDBPath(t))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}

	tables := []string{"schema_version", "runs"}
	for _, table := range tables {
		var count int
		row := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table)
		if err := row.Scan(&count); err != nil {
			t.Errorf("failed to check table %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Migrate(); err != nil {
		t.Fatalf("second Migrate failed: %v", err)
	}

	var version int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&version); err != nil {
		t.Fatalf("failed to read schema version: %v", err)
	}
	if version != 1 {
		t.Errorf("schema version = %d, want 1", version)
	}
}

func TestProjectDBPath(t *testing.T) {
	got := ProjectDBPath("/work/project")
	want := filepath.Join("/work/project", ".taskforge", "history.db")
	if got != want {
		t.Errorf("ProjectDBPath() = %q, want %q", got, want)
	}
}

func TestPurgeOldRuns(t *testing.T) {
	db := setupTestDB(t)

	old := &Run{
		ID:           "run-old",
		DocumentPath: "prd.md",
		OutputPath:   "out.md",
		Format:       "markdown",
		StartedAt:    time.Now().Add(-48 * time.Hour),
	}
	recent := &Run{
		ID:           "run-recent",
		DocumentPath: "prd.md",
		OutputPath:   "out.md",
		Format:       "markdown",
		StartedAt:    time.Now(),
	}
	for _, r := range []*Run{old, recent} {
		if err := db.CreateRun(r); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
	}

	count, err := db.PurgeOldRuns(24 * time.Hour)
	if err != nil {
		t.Fatalf("PurgeOldRuns failed: %v", err)
	}
	if count != 1 {
		t.Errorf("purged %d runs, want 1", count)
	}

	if r, _ := db.GetRun("run-old"); r != nil {
		t.Error("old run should have been purged")
	}
	if r, _ := db.GetRun("run-recent"); r == nil {
		t.Error("recent run should have been kept")
	}
}
