package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/wricardo/evolution-merge-game/game/engine"
	"github.com/wricardo/evolution-merge-game/storage"
)

// StorePersistence implements Persistence over a storage.Store
type StorePersistence struct {
	store   storage.Store
	catalog *engine.Catalog
	logger  *zap.Logger
}

// NewStorePersistence creates a persistence layer. Restored snapshots are
// validated against catalog.
func NewStorePersistence(store storage.Store, catalog *engine.Catalog, logger *zap.Logger) *StorePersistence {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorePersistence{store: store, catalog: catalog, logger: logger}
}

// Save marshals and writes the snapshot
func (p *StorePersistence) Save(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("snapshot cannot be nil")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := p.store.Put(ctx, Key, data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Restore reads and validates the snapshot. Every failure is logged and
// reported as no saved game.
func (p *StorePersistence) Restore(ctx context.Context) (*Snapshot, bool) {
	data, err := p.store.Get(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		p.logger.Warn("Failed to read saved game", zap.Error(err))
		return nil, false
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		p.logger.Warn("Ignoring malformed saved game", zap.Error(err))
		return nil, false
	}
	if err := snapshot.Validate(p.catalog); err != nil {
		p.logger.Warn("Ignoring invalid saved game", zap.Error(err))
		return nil, false
	}
	return &snapshot, true
}

// Clear deletes the snapshot
func (p *StorePersistence) Clear(ctx context.Context) error {
	if err := p.store.Delete(ctx, Key); err != nil {
		return fmt.Errorf("failed to clear snapshot: %w", err)
	}
	return nil
}

// Peek reads only the identifying fields of the stored document
func (p *StorePersistence) Peek(ctx context.Context) (SavedGame, bool) {
	data, err := p.store.Get(ctx, Key)
	if err != nil {
		return SavedGame{}, false
	}
	if !gjson.ValidBytes(data) {
		return SavedGame{}, false
	}

	fields := gjson.GetManyBytes(data, "playerName", "difficulty")
	saved := SavedGame{
		PlayerName: fields[0].String(),
		Difficulty: engine.Difficulty(fields[1].String()),
	}
	if saved.PlayerName == "" || !saved.Difficulty.Valid() {
		return SavedGame{}, false
	}
	return saved, true
}
