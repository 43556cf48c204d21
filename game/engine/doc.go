// Package engine provides the core game logic for the GridQuest game.
//
// The engine package implements the game mechanics including:
//   - Grid-based movement, facing, and collision detection
//   - The command protocol with linear undo history
//   - Turn orchestration: player command, enemy AI pass, terminal checks
//   - Enemy behaviors: patrols, static guards, rage bosses, and hunters
//   - Stage definitions loaded from JSON or YAML and compiled to game states
//
// Core Types:
//
// GameState is the aggregate root holding the board, player, enemies, and
// items. Command is the player action contract, sequenced by Invoker.
// GameStateManager ties them together and drives full turns. Stage is the
// declarative level definition validated by ValidateStage and compiled by
// BuildGameState.
//
// Usage:
//
//	gs, err := engine.BuildGameState(stage)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	mgr := engine.NewGameStateManager(gs)
//	outcome, err := mgr.Execute(engine.NewMoveCommand())
//
// Game Rules:
//
// The player navigates a grid one turn at a time: turn, move, attack, pick
// up, dispose, or wait. Every command consumes a turn and wakes the enemies,
// which patrol, chase on sight, and strike when adjacent. The game is won by
// satisfying the stage's victory conditions, lost when the player's HP hits
// zero, and times out at the stage's turn limit. Rotations and moves can be
// undone one at a time; combat and item effects cannot.
package engine
