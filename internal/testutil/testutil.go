// Package testutil provides shared test helpers for setting up databases and services.
package testutil

import (
	"os"
	"testing"

	"github.com/minhdang/planboard/internal/boardservice"
	"github.com/minhdang/planboard/internal/directory"
	"github.com/minhdang/planboard/internal/notify"
	"github.com/minhdang/planboard/internal/store"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "planboard-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestService creates a board service over a temporary database, with a
// fresh directory and notification center and no SSE broker.
func TestService(t *testing.T) (*boardservice.Service, *store.DB) {
	t.Helper()
	db := TestDB(t)
	svc := boardservice.NewService(db, directory.New(), nil, notify.NewCenter())
	if err := svc.RefreshDirectory(); err != nil {
		t.Fatal(err)
	}
	return svc, db
}
