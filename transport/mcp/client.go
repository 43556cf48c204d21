package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/codequest-labs/gridquest/game/engine"
	"github.com/codequest-labs/gridquest/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"GridQuest",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`GridQuest - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Guide your hero (@) across a grid board: reach the goal (G), defeat enemies (E),
and collect items (!) depending on the stage's victory conditions. Every command
consumes one turn, and enemies act after you.

AVAILABLE TOOLS:
- game_state: Get current game state with a board rendering
- act: Execute one command (turn_left/turn_right/move/attack/pickup/dispose/wait) - requires intent explanation
- undo: Undo the most recent undoable command
- reset_game: Reset to the stage's initial state
- action_history: View past actions
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_stages: List available stages
- game_instructions: Get comprehensive game instructions and rules
- describe_cell: Get detailed info about a specific board cell

NOTE: The 'intent' parameter on the act tool serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional stage selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"stage_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the stage to play (optional, defaults to the tutorial)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "act",
		Description: "Execute one game command. Every command consumes a turn, even blocked or failed ones.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"action": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"turn_left", "turn_right", "move", "attack", "pickup", "dispose", "wait"},
					"description": "Command to execute",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this command (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before executing",
				},
			},
			Required: []string{"session_id", "action"},
		},
	}, c.handleAct)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Undo the most recent undoable command (rotations, moves, waits). Attacks, pickups, and disposes cannot be undone.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleUndo)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its initial stage state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "action_history",
		Description: "Get action history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleActionHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_stages",
		Description: "List available stage definitions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListStages)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a specific board cell: terrain, occupants, and whether it can be entered.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	stageID, _ := args["stage_id"].(string)

	body := map[string]string{}
	if stageID != "" {
		body["stage_id"] = stageID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nStage: %s\n\n%s",
		session.ID, session.StageID, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Stage: %s, Created: %s)\n",
			s.ID, s.StageID, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleAct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	action, _ := args["action"].(string)
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"action": action,
		"reset":  reset,
	}

	var result service.ActResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/act", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatActResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.ActResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/undo", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatActResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleActionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var history service.HistoryResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/history%s", sessionID, params), nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatHistory(&history)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListStages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var stages []service.StageInfo
	err := c.apiCall("GET", "/api/stages", nil, &stages)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Stages:\n\n"
	for _, stage := range stages {
		result += fmt.Sprintf("• %s - %s\n  %s\n  Board: %dx%d, Max turns: %d, Enemies: %d, Items: %d\n\n",
			stage.StageID, stage.Name, stage.Description,
			stage.BoardWidth, stage.BoardHeight, stage.MaxTurns, stage.Enemies, stage.Items)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `GridQuest - Complete Instructions

GAME OBJECTIVE:
Complete the stage's victory conditions: reach the goal (G), defeat all
enemies, collect all beneficial items, or any combination the stage demands.

TURN MECHANICS:
• Every command consumes exactly one turn, including blocked moves, failed
  pickups, and waits. There is no free probing.
• After your command, every enemy takes its turn in order.
• Stages with a turn limit end in timeout when the limit is reached.

COMMANDS:
• turn_left / turn_right - Rotate in place (undoable)
• move - Step one cell in the facing direction (undoable)
• attack - Hit the enemy in the cell directly ahead (NOT undoable)
• pickup - Take the item on your cell; picking up a bomb hurts you (NOT undoable)
• dispose - Safely defuse a bomb on your cell (NOT undoable)
• wait - Pass the turn (undoable)

UNDO:
Undo rewinds the most recent undoable command and gives the turn back.
Once you attack, pickup, or dispose, everything before it is locked in.

BOARD LEGEND:
• @ - Your hero
• # - Wall (blocks movement and line of sight)
• ~ - Forbidden ground (blocks movement, does NOT block sight)
• E - Enemy (large enemies cover several cells)
• ! - Item (could be beneficial or a bomb - check the state listing)
• G - Goal
• . - Open ground

ENEMIES:
• Patrol enemies walk a waypoint loop until they spot you, then chase.
• Static enemies hold their cell but strike anyone adjacent.
• Alerted enemies chase using line of sight; breaking sight for a few turns
  calms them back down.
• Rage bosses ignore scratches. Hit them hard enough and a countdown starts -
  get out of their blast zone before it reaches zero.
• Hunter bosses watch other bosses and punish you for enraging them in the
  wrong order. Their touch is lethal.

STRATEGY NOTES:
• Check the facing arrow in the state header - move goes where you face.
• Attack only works on the cell directly ahead; face your target first.
• Walls block enemy sight - use them to break chases.
• Bombs on your cell can be disposed safely instead of picked up.
• Multi-cell enemies cannot squeeze through one-cell gaps; lure them into
  corridors they cannot enter.
• Watch the turn counter on limited stages - undo refunds turns.

SESSION MANAGEMENT:
- Multiple game sessions can run simultaneously
- Sessions maintain independent state and stage
- Use session-specific tools for multi-game management

Good luck out there!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	x := int(args["x"].(float64))
	y := int(args["y"].(float64))

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cell := engine.Position{X: x, Y: y}
	if !state.Board.InBounds(cell) {
		return mcp.NewToolResultError(fmt.Sprintf("Coordinates (%d, %d) are out of bounds. Board size is %dx%d (0-%d for x, 0-%d for y)",
			x, y, state.Board.Width, state.Board.Height, state.Board.Width-1, state.Board.Height-1)), nil
	}

	var cellChar, cellType, description string
	enterable := true

	switch {
	case cell == state.Player.Position:
		cellChar = "@"
		cellType = "Player"
		enterable = false
		description = "Your hero's current position"
	case state.Board.IsWall(cell):
		cellChar = "#"
		cellType = "Wall"
		enterable = false
		description = "Wall - blocks movement and line of sight"
	case state.Board.IsForbidden(cell):
		cellChar = "~"
		cellType = "Forbidden"
		enterable = false
		description = "Forbidden ground - cannot be entered, but does not block sight"
	case state.EnemyAt(cell) != nil:
		enemy := state.EnemyAt(cell)
		cellChar = "E"
		cellType = fmt.Sprintf("Enemy (%s, %s)", enemy.Kind, enemy.Behavior)
		enterable = false
		description = fmt.Sprintf("Enemy %s - HP %d/%d, attack %d", enemy.ID, enemy.HP, enemy.MaxHP, enemy.AttackPower)
	case len(state.ItemsAt(cell)) > 0:
		item := state.ItemsAt(cell)[0]
		cellChar = "!"
		cellType = fmt.Sprintf("Item (%s)", item.Kind)
		if item.Kind == engine.ItemBomb {
			description = fmt.Sprintf("Bomb %q - picking it up deals %d damage; dispose it instead", item.Name, item.BombDamage())
		} else {
			description = fmt.Sprintf("Beneficial item %q - safe to pick up", item.Name)
		}
	case state.Goal != nil && *state.Goal == cell:
		cellChar = "G"
		cellType = "Goal"
		description = "Goal cell - reach it to satisfy the reach_goal victory condition"
	default:
		cellChar = "."
		cellType = "Open"
		description = "Open ground - safe to enter"
	}

	result := fmt.Sprintf(`Cell at position (%d, %d):
Character: %s
Type: %s
Enterable: %v
Description: %s`,
		x, y, cellChar, cellType, enterable, description)

	return mcp.NewToolResultText(result), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nStage: %s\nCreated: %s\n\n%s",
		session.ID, session.StageID,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// facingArrow maps a direction to the arrow shown in the state header
func facingArrow(d engine.Direction) string {
	switch d {
	case engine.North:
		return "^"
	case engine.East:
		return ">"
	case engine.South:
		return "v"
	case engine.West:
		return "<"
	}
	return "?"
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	// Header
	result.WriteString(fmt.Sprintf("Position: (%d,%d) facing %s %s | HP: %d/%d | Attack: %d | Turn: %d",
		state.Player.Position.X, state.Player.Position.Y,
		state.Player.Facing, facingArrow(state.Player.Facing),
		state.Player.HP, state.Player.MaxHP, state.Player.AttackPower, state.TurnCount))
	if state.MaxTurns > 0 {
		result.WriteString(fmt.Sprintf("/%d", state.MaxTurns))
	}
	result.WriteString("\n\n")

	// Board
	for y := 0; y < state.Board.Height; y++ {
		for x := 0; x < state.Board.Width; x++ {
			result.WriteString(boardChar(state, engine.Position{X: x, Y: y}))
		}
		result.WriteString("\n")
	}

	// Entity listings keep the board readable while staying precise
	if len(state.Enemies) > 0 {
		result.WriteString("\nEnemies:\n")
		for _, e := range state.Enemies {
			line := fmt.Sprintf("- %s at (%d,%d): %s %s, HP %d/%d",
				e.ID, e.Position.X, e.Position.Y, e.Kind, e.Behavior, e.HP, e.MaxHP)
			if e.Alerted {
				line += " [ALERTED]"
			}
			if e.Rage != nil && e.Rage.Phase == engine.RageCountdown {
				line += fmt.Sprintf(" [ENRAGED, detonates in %d]", e.Rage.Countdown)
			}
			result.WriteString(line + "\n")
		}
	}

	if len(state.Items) > 0 {
		result.WriteString("\nItems:\n")
		for _, item := range state.Items {
			result.WriteString(fmt.Sprintf("- %s (%s) at (%d,%d)\n",
				item.Name, item.Kind, item.Position.X, item.Position.Y))
		}
	}

	// Status
	switch state.Status {
	case engine.StatusWon:
		result.WriteString("\nVICTORY!")
	case engine.StatusFailed:
		result.WriteString("\nGAME OVER")
	case engine.StatusTimeout:
		result.WriteString("\nOUT OF TURNS")
	}

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

// boardChar renders one board cell for the full-board map
func boardChar(state *engine.GameState, cell engine.Position) string {
	if cell == state.Player.Position {
		return "@"
	}
	if state.Board.IsWall(cell) {
		return "#"
	}
	if state.Board.IsForbidden(cell) {
		return "~"
	}
	if state.EnemyAt(cell) != nil {
		return "E"
	}
	if len(state.ItemsAt(cell)) > 0 {
		return "!"
	}
	if state.Goal != nil && *state.Goal == cell {
		return "G"
	}
	return "."
}

func formatActResult(result *service.ActResult) string {
	response := ""
	if result.Success {
		response = "✓ Command successful\n"
	} else {
		response = "✗ Command failed\n"
	}

	if r := result.Result; r != nil {
		line := fmt.Sprintf("%s: %s", r.Action, r.Status)
		if r.Message != "" {
			line += " - " + r.Message
		}
		response += line + "\n"
		if r.DamageDealt > 0 {
			response += fmt.Sprintf("Damage dealt: %d to %s", r.DamageDealt, r.TargetID)
			if r.TargetDefeated {
				response += " (defeated!)"
			}
			response += "\n"
		}
		if r.BlockedBy != engine.BlockedNone {
			response += fmt.Sprintf("Blocked by: %s\n", r.BlockedBy)
		}
	}

	if len(result.EnemyEvents) > 0 {
		response += "Enemy turns:\n"
		for _, event := range result.EnemyEvents {
			response += fmt.Sprintf("- %s: %s\n", event.EnemyID, event.Message)
		}
	}

	if len(result.PossibleActions) > 0 {
		response += "Possible actions: " + strings.Join(result.PossibleActions, ",") + "\n"
	}
	if len(result.LocalView3x3) == 3 {
		response += "Local 3x3:\n"
		response += result.LocalView3x3[0] + "\n"
		response += result.LocalView3x3[1] + "\n"
		response += result.LocalView3x3[2] + "\n"
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatHistory(history *service.HistoryResponse) string {
	result := fmt.Sprintf("Action History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalActions)

	for _, action := range history.Actions {
		status := "✓"
		if action.Status != engine.ResultSuccess {
			status = "✗"
		}
		line := fmt.Sprintf("Turn %d: %s %s", action.Turn, action.Action, status)
		if action.Message != "" {
			line += " - " + action.Message
		}
		result += line + "\n"
	}

	return result
}
