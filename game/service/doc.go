// Package service provides the business logic layer for GridQuest.
//
// The service package implements:
//   - Multi-session game management
//   - Stage loading and listing
//   - Command execution through the turn manager
//   - Undo and reset operations
//   - Action history tracking and pagination
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// StageManager manages stage definition loading and validation.
// Recorder optionally receives per-command event records for offline replay.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine, providing session isolation, stage management, and
// business logic orchestration. Each session maintains its own turn manager
// with independent state. The engine never talks to the recorder or any
// other collaborator; the service forwards outcomes after each turn.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	stageMgr, _ := config.NewManager("stages")
//	gameService := service.NewGameService(sessionMgr, stageMgr, nil)
//
//	// Create a new session
//	sessionInfo, err := gameService.CreateSession(ctx, "tutorial")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute a command
//	result, err := gameService.Act(ctx, sessionInfo.ID, "move", false)
//
// Session Management:
//
// Sessions are identified by unique short IDs and maintain independent
// game state. Multiple sessions can run concurrently on different stages.
// Sessions track creation time, last access time, and the cumulative action
// history for analytics and debugging.
package service
