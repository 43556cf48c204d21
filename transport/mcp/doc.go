// Package mcp provides a Model Context Protocol client for GridQuest.
//
// The mcp package implements:
//   - An MCP server for AI agent integration
//   - Tool definitions for every game operation
//   - A thin proxy that forwards all calls to the REST API
//   - Stdio transport for local MCP clients
//
// MCP Tools:
//
// The package exposes the following tools for AI agents:
//   - game_state: Get current game state with a full board rendering
//   - act: Execute one command (turn_left/turn_right/move/attack/pickup/dispose/wait)
//   - undo: Undo the most recent undoable command
//   - reset_game: Reset a session to the stage's initial state
//   - action_history: Retrieve action history with pagination
//   - create_session: Create a new game session with stage selection
//   - get_session: Get specific session details
//   - list_sessions: List all active sessions
//   - list_stages: List available stages
//   - game_instructions: Get the complete game rules and strategy notes
//   - describe_cell: Inspect a single board cell
//
// Architecture:
//
// Unlike a direct service binding, this client keeps no game state of its
// own: every tool call becomes an HTTP request against the REST API, so the
// MCP surface and the web surface always agree. The client only adds
// text formatting on top of the API responses.
//
// The act tool requires an intent parameter: the agent must state what it
// is trying to accomplish before each command. The intent is not processed,
// it exists to make agents reason before acting.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//	    log.Fatal(err)
//	}
//
// AI Integration:
//
// The MCP interface enables AI agents to:
//   - Autonomously play stages
//   - Probe the board with describe_cell before committing to a move
//   - Rewind mistakes with undo
//   - Manage multiple concurrent game sessions
//   - Learn from action history
package mcp
