// Package session persists the active round so it can be resumed.
//
// The session package implements:
//   - The Snapshot codec for a round's board, scores and remaining time
//   - Save, Restore and Clear over a storage.Store under the "gameSave" key
//   - A cheap Peek of the saved player for "continue" prompts
//   - The recurring autosave backstop
//
// Core Types:
//
// Persistence is the storage contract and StorePersistence its store-backed
// implementation. Manager wraps a Persistence with logging and owns the
// autosave timer.
//
// Malformed Data:
//
// Restore never returns an error. A missing key, undecodable JSON, an unknown
// difficulty or a board that does not fit the level all read as "no saved
// game" and are logged at warn level.
//
// Usage:
//
//	manager := session.NewManager(
//		session.NewStorePersistence(store, catalog, logger),
//		session.WithAutosaveInterval(3*time.Second),
//	)
//
//	manager.Save(ctx, session.FromRound(round, remaining))
//
//	if snap, ok := manager.Restore(ctx); ok {
//		round, err := snap.Round(evolution)
//	}
package session
