package redis_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/evolution-merge-game/storage/redis"
	"github.com/wricardo/evolution-merge-game/storage/storagetest"
)

// Set EVOLVE_TEST_REDIS_URL to run against a live server
func TestStore(t *testing.T) {
	url := os.Getenv("EVOLVE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("EVOLVE_TEST_REDIS_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// A unique prefix keeps parallel runs from seeing each other's keys
	store, err := redis.Open(ctx, url, "evolve-test-"+uuid.NewString()+":")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	storagetest.Run(t, store)
}

func TestOpenValidation(t *testing.T) {
	ctx := context.Background()

	if _, err := redis.Open(ctx, "", redis.DefaultPrefix); err == nil {
		t.Error("expected error for empty url")
	}
	if _, err := redis.Open(ctx, "http://not-redis", redis.DefaultPrefix); err == nil {
		t.Error("expected error for a non-redis scheme")
	}
}
