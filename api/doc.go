// Package api provides HTTP REST API handlers for GridQuest.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Stage listing, retrieval, and creation
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session (optional stage_id in body)
//   - GET /api/sessions - List all sessions (sort, order, limit query params)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/act - Execute one command
//   - POST /api/sessions/{id}/undo - Undo the most recent undoable command
//   - POST /api/sessions/{id}/reset - Reset the session to its stage start
//   - GET /api/sessions/{id}/history - Get action history with pagination
//
// Stages:
//   - GET /api/stages - List available stage definitions
//   - GET /api/stages/{name} - Get a full stage definition
//   - POST /api/stages - Save a new stage definition
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Commands are sent as POST with
// a JSON body:
//
//	{
//	  "action": "turn_left|turn_right|move|attack|pickup|dispose|wait",
//	  "reset": true|false  // optional reset before executing
//	}
//
// The act response carries the command result, the enemy events the turn
// triggered, the full post-turn game state, the suggested next actions,
// and a 3x3 text view around the player.
//
// WebSocket:
//
// GET /ws?session={id} upgrades to a WebSocket that receives a "turn"
// message after every executed command and a "state_update" after undo
// and reset.
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
//
// Gameplay failures (blocked moves, invalid action names, acting on a
// finished game) are not HTTP errors; they come back as a 200 response
// whose result status explains the failure.
package api
