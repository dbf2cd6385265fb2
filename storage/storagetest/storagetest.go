// Package storagetest holds the behavior every storage.Store backend must share
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/wricardo/evolution-merge-game/storage"
)

// Run exercises a fresh, empty store
func Run(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		if _, err := store.Get(ctx, "absent"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("put then get", func(t *testing.T) {
		if err := store.Put(ctx, "gameSave", []byte(`{"playerName":"Ada"}`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := store.Get(ctx, "gameSave")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != `{"playerName":"Ada"}` {
			t.Errorf("unexpected value %s", got)
		}
	})

	t.Run("put overwrites", func(t *testing.T) {
		store.Put(ctx, "leaderboard", []byte(`{"easy":[]}`))
		if err := store.Put(ctx, "leaderboard", []byte(`{}`)); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := store.Get(ctx, "leaderboard")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != `{}` {
			t.Errorf("expected last write to win, got %s", got)
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store.Put(ctx, "doomed", []byte(`1`))
		if err := store.Delete(ctx, "doomed"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := store.Delete(ctx, "doomed"); err != nil {
			t.Fatalf("second Delete: %v", err)
		}
		if _, err := store.Get(ctx, "doomed"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		store.Put(ctx, "a", []byte(`"a"`))
		store.Put(ctx, "b", []byte(`"b"`))
		store.Delete(ctx, "a")
		if got, err := store.Get(ctx, "b"); err != nil || string(got) != `"b"` {
			t.Errorf("deleting a touched b: %s, %v", got, err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if err := store.Put(cancelled, "late", []byte(`1`)); err == nil {
			t.Error("expected an error for a cancelled context")
		}
	})
}
