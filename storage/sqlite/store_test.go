package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/wricardo/evolution-merge-game/storage/storagetest"
)

func openTempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store, path
}

func TestStore(t *testing.T) {
	store, _ := openTempStore(t)
	defer store.Close()
	storagetest.Run(t, store)
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("expected error for blank path")
	}
}

func TestReopenKeepsDataAndSkipsMigrations(t *testing.T) {
	ctx := context.Background()
	store, path := openTempStore(t)
	if err := store.Put(ctx, "leaderboard", []byte(`{"easy":[]}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	store.Close()

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "leaderboard")
	if err != nil || string(got) != `{"easy":[]}` {
		t.Errorf("unexpected value after reopen: %s, %v", got, err)
	}

	var applied int
	if err := reopened.sqlDB.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatal(err)
	}
	if applied != 1 {
		t.Errorf("expected 1 recorded migration, got %d", applied)
	}
}

func TestUpSection(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;\n"
	if got := upSection(content); got != "\nCREATE TABLE a (x INT);\n" {
		t.Errorf("unexpected up section %q", got)
	}
}
