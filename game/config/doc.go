// Package config provides configuration management for the Evolution Merge Game.
//
// The config package handles:
//   - Loading the level and chain catalog from JSON files
//   - Falling back to the embedded default catalog
//   - Catalog validation
//   - Process settings from EVOLVE_* environment variables
//
// Catalog Format:
//
// A config directory may hold levels.json and chains.json. Either file may
// be omitted, in which case the embedded default is used for it. Levels set
// board size, countdown minutes and the number of items placed at the start
// of a round. Chains list their steps in order starting at 1.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.Level(engine.Medium)
//	catalog := manager.Catalog()
//
//	settings, err := config.LoadSettings()
package config
