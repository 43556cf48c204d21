package service

import (
	"time"

	"github.com/codequest-labs/gridquest/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string            `json:"id"`
	StageID        string            `json:"stage_id"`
	CreatedAt      time.Time         `json:"created_at"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	GameState      *engine.GameState `json:"game_state"`
}

// ActResult contains the result of one full turn: the command outcome, the
// enemy reactions, and the post-turn state.
type ActResult struct {
	Success     bool                  `json:"success"`
	Result      *engine.CommandResult `json:"result"`
	EnemyEvents []engine.EnemyEvent   `json:"enemy_events,omitempty"`
	GameState   *engine.GameState     `json:"game_state"`
	Status      engine.GameStatus     `json:"status"`
	TurnCount   int                   `json:"turn_count"`
	Message     string                `json:"message,omitempty"`

	// PossibleActions lists the command names the player may issue next
	PossibleActions []string `json:"possible_actions,omitempty"`
	// LocalView3x3 is a compact text rendering of the cells around the player
	LocalView3x3 []string `json:"local_view_3x3,omitempty"`
}

// HistoryOptions configures action history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated action history
type HistoryResponse struct {
	Actions      []engine.ActionRecord `json:"actions"`
	TotalActions int                   `json:"total_actions"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
	TotalPages   int                   `json:"total_pages"`
	HasNext      bool                  `json:"has_next"`
	HasPrevious  bool                  `json:"has_previous"`
}

// StageInfo provides information about a stage definition
type StageInfo struct {
	Filename    string `json:"filename"`
	StageID     string `json:"stage_id"` // The identifier to use for session creation
	Name        string `json:"name"`     // Display name
	Description string `json:"description"`
	BoardWidth  int    `json:"board_width"`
	BoardHeight int    `json:"board_height"`
	MaxTurns    int    `json:"max_turns"`
	Enemies     int    `json:"enemies"`
	Items       int    `json:"items"`
}
