// Package storage defines the durable key-value store the game persists to.
//
// Two records live in it: the saved round under "gameSave" and the
// per-difficulty leaderboard under "leaderboard". Values are opaque JSON
// documents; every Put fully overwrites the previous value.
//
// Backends live in subpackages: file (one JSON file per key), sqlite,
// redis and memory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted
var ErrNotFound = errors.New("key not found")

// Store is a durable key-value store
type Store interface {
	// Get returns the value stored under key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any previous value
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources
	Close() error
}

// Kind names a backend
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindRedis  Kind = "redis"
	KindMemory Kind = "memory"
)

// ParseKind validates a backend name
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindFile, KindSQLite, KindRedis, KindMemory:
		return k, nil
	default:
		return "", fmt.Errorf("unknown store %q (expected file, sqlite, redis or memory)", s)
	}
}

// ValidateKey rejects keys no backend can hold
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}
