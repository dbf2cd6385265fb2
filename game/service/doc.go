// Package service provides the round controller for the evolution merge game.
//
// The service package implements:
//   - The single active round and its lifecycle (start, resume, restart, abandon)
//   - Click and draw handling with deferred match resolution
//   - The countdown, autosave and round termination
//   - Leaderboard submission and short-lived notifications
//
// Core Interfaces:
//
// GameService is the main service interface used by every transport.
// CatalogProvider supplies levels and chains, PersistenceManager saves the
// active round and LeaderboardManager ranks finished scores.
//
// Usage:
//
//	configs, _ := config.NewManager("")
//	store := memory.New()
//	sessions := session.NewManager(session.NewStorePersistence(store, configs.Catalog(), logger))
//	board := leaderboard.NewManager(store)
//	svc := service.NewGameService(configs, sessions, board, service.WithLogger(logger))
//
//	round, err := svc.StartRound(ctx, "Ada", "easy")
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := svc.Click(ctx, 0, 0)
//
// Timing:
//
// Match resolution, rejection, countdown ticks and autosave all run on a
// clock.Scheduler. Every scheduled callback is bound to the round that
// created it and becomes a no-op once that round is replaced or ends.
// Events are delivered to subscribers after the service lock is released.
package service
