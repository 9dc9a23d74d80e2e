// Package testutil provides shared test helpers for setting up vaults and ledgers.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/relink/internal/index"
	"github.com/starford/relink/internal/storage"
)

// TestDB creates a temporary SQLite ledger that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "relink-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestVault creates a temporary vault directory holding files (name → content)
// and returns it with a storage.Provider rooted there.
func TestVault(t *testing.T, files map[string]string) (string, storage.Provider) {
	t.Helper()
	vaultDir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(vaultDir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(vaultDir)
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}
