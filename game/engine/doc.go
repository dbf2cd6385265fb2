// Package engine provides the core game logic for the Evolution Merge Game.
//
// The engine package implements the game mechanics including:
//   - Board occupancy on a fixed grid
//   - Evolution chains and step advancement
//   - The select, compare and resolve match machine
//   - Chain completion scoring
//   - Catalog validation
//
// Core Types:
//
// Round is the explicit state of one playthrough. It owns a Board and a
// ScoreState and uses an Evolution to draw and advance Items. Catalog holds
// the Levels and EvolutionChains every round is built from.
//
// Usage:
//
//	catalog, err := config.DefaultCatalog()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, _ := catalog.Level(engine.Easy)
//	round := engine.NewRound("ada", level, engine.NewEvolution(catalog, nil))
//	round.Populate(level.InitialItems)
//
//	result := round.Click(engine.Position{Row: 0, Col: 0})
//	if result.Resolution != nil {
//		round.Advance(result.Resolution)
//		round.Dismiss(result.Resolution)
//	}
//
// Game Rules:
//
// Clicking an empty cell places a random first-step item. Selecting two
// items with the same name fuses them: the first advances one step along its
// chain and the second is replaced with a fresh first-step item. Reaching a
// chain's final step awards that chain's points. Mismatched pairs are
// released after a short delay. Timing is owned by the caller; the engine
// only exposes the pending Resolution and Rejection values.
package engine
