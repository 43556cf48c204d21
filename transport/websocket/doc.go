// Package websocket provides WebSocket transport for GridQuest.
//
// The websocket package implements:
//   - Real-time turn and state broadcasting
//   - Session-aware WebSocket connections
//   - Connection lifecycle management
//   - Ping/pong keepalive handling
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// WebSocket connections. Each client connection is handled by a dedicated
// pair of goroutines for reading and writing.
//
// Message Protocol:
//
// Messages are JSON-encoded Message envelopes. A "turn" event carries the
// command result, the enemy events it triggered, and the post-turn game
// state; a "state_update" event carries only the state (sent after undo
// and reset). Connections are broadcast-only: incoming client messages are
// read solely to detect disconnects.
//
// Session Integration:
//
// WebSocket connections are session-aware. Clients specify their session ID
// via query parameter (?session=abc1) when establishing the connection.
// Updates are broadcast only to clients watching the same session.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// After a turn completes:
//	hub.BroadcastTurn(sessionID, result, enemyEvents, state)
//
// Concurrency:
//
// The hub and client handlers are designed for concurrent operation.
// Multiple clients can connect, disconnect, and receive updates
// simultaneously without blocking each other.
package websocket
