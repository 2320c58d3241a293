// Package testutil provides shared test helpers for setting up data roots and account databases.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/daybook/internal/account"
	"github.com/starford/daybook/internal/storage"
)

// TestAccounts creates a temporary SQLite account database that is automatically cleaned up.
func TestAccounts(t *testing.T) *account.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "daybook-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := account.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDataRoot creates a temporary data directory with a storage.Provider.
func TestDataRoot(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dataDir := t.TempDir()
	store, err := storage.NewFS(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	return dataDir, store
}
