// Package config provides stage definition management for GridQuest.
//
// The config package handles:
//   - Loading stage definitions from JSON and YAML files
//   - Stage validation and verification
//   - Default stage management
//   - Stage discovery and listing
//
// Stage Format:
//
// Stages are stored as .json, .yaml, or .yml files in the stages directory.
// Each stage defines:
//   - Board geometry (dimensions, wall cells, forbidden cells)
//   - The player's starting position, facing, and stats
//   - Enemies with kinds, behaviors, waypoints, and boss tuning
//   - Items (beneficial or bombs), an optional goal cell
//   - Turn limit and victory conditions
//
// Usage:
//
//	manager, err := config.NewManager("stages")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific stage
//	stage, err := manager.LoadStage("tutorial")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Get default stage
//	defaultStage := manager.GetDefault()
//
//	// List available stages
//	stages, err := manager.ListStages()
//
// Validation:
//
// All stages are validated on load with engine.ValidateStage: dimensions,
// in-bounds placements, footprint overlaps, enum values, and goal
// reachability.
package config
