package service

import (
	"context"
	"time"

	"github.com/codequest-labs/gridquest/game/engine"
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, stageName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Act(ctx context.Context, sessionID, action string, reset bool) (*ActResult, error)
	Undo(ctx context.Context, sessionID string) (*ActResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State. The returned state is the live instance: treat it as a
	// read-only snapshot that is only valid until the next command runs.
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Stages
	ListStages(ctx context.Context) ([]*StageInfo, error)
	LoadStage(ctx context.Context, stageName string) (*engine.Stage, error)
	SaveStage(ctx context.Context, stageName string, stage *engine.Stage) error
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, stage *engine.Stage) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, stage *engine.Stage) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
	Save(id string) error
}

// StageManager handles stage definition loading
type StageManager interface {
	LoadStage(name string) (*engine.Stage, error)
	ListStages() ([]*StageInfo, error)
	GetDefault() *engine.Stage
	SaveStage(name string, stage *engine.Stage) error
}

// Recorder receives per-command event records for offline inspection. The
// engine never calls it; the service forwards outcomes after each turn.
// Implementations must tolerate being nil-checked and must not block turns
// on recording failures.
type Recorder interface {
	RecordSession(sessionID, stageID string) error
	RecordAction(sessionID string, entry ActionEntry) error
}

// ActionEntry is one recorded command outcome
type ActionEntry struct {
	Turn        int    `json:"turn"`
	Action      string `json:"action"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	GameStatus  string `json:"game_status"`
	PlayerHP    int    `json:"player_hp"`
	EnemiesLeft int    `json:"enemies_left"`
}

// Session represents an active game session
type Session struct {
	ID             string
	Manager        *engine.GameStateManager
	Stage          *engine.Stage
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
