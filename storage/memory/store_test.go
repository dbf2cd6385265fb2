package memory_test

import (
	"context"
	"testing"

	"github.com/wricardo/evolution-merge-game/storage/memory"
	"github.com/wricardo/evolution-merge-game/storage/storagetest"
)

func TestStore(t *testing.T) {
	storagetest.Run(t, memory.New())
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	store.Put(ctx, "k", []byte("abc"))

	got, _ := store.Get(ctx, "k")
	got[0] = 'z'

	again, _ := store.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value was mutated through Get: %s", again)
	}
}
