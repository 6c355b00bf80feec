package store

import (
	"os"
	"testing"
)

func TestInitDB(t *testing.T) {
	// Create a temporary test database
	tempDir := t.TempDir()
	testDBPath := tempDir + "/test.db"

	// Initialize database
	db, err := InitDBWithPath(testDBPath)
	if err != nil {
		t.Fatalf("InitDBWithPath failed: %v", err)
	}
	defer db.Close()

	// Verify database file exists
	_, statErr := os.Stat(testDBPath)
	if os.IsNotExist(statErr) {
		t.Fatalf("Database file was not created at %s", testDBPath)
	}

	// Verify the history table was created
	var name string
	scanErr := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", "classifications").Scan(&name)
	if scanErr != nil {
		t.Errorf("Table classifications was not created: %v", scanErr)
	}

	// Verify WAL mode is enabled
	var journalMode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("Failed to query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("Expected journal_mode=wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled
	var foreignKeys int
	err = db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys)
	if err != nil {
		t.Fatalf("Failed to query foreign_keys: %v", err)
	}
	if foreignKeys != 1 {
		t.Errorf("Expected foreign_keys=1, got %d", foreignKeys)
	}
}

func TestInitDB_EnvPath(t *testing.T) {
	testDBPath := t.TempDir() + "/env.db"
	t.Setenv("ERRLENS_DB_PATH", testDBPath)

	db, err := InitDB()
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer db.Close()

	if _, statErr := os.Stat(testDBPath); os.IsNotExist(statErr) {
		t.Fatalf("Database file was not created at %s", testDBPath)
	}
}

func TestSchemaVersion(t *testing.T) {
	db, err := InitDBWithPath(t.TempDir() + "/version.db")
	if err != nil {
		t.Fatalf("InitDBWithPath failed: %v", err)
	}
	defer db.Close()

	current, latest, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if latest == 0 {
		t.Fatal("expected at least one embedded migration")
	}
	if current != latest {
		t.Errorf("expected a fully migrated DB, got current=%d latest=%d", current, latest)
	}
}

func TestNormalizeSQLiteDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"file:/tmp/x.db?mode=ro", "file:/tmp/x.db?mode=ro"},
		{":memory:", "file::memory:?cache=shared"},
		{"/tmp/errlens.db", "file:/tmp/errlens.db?mode=rwc"},
	}
	for _, tt := range tests {
		if got := normalizeSQLiteDSN(tt.in); got != tt.want {
			t.Errorf("normalizeSQLiteDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
