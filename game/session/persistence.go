package session

import (
	"time"

	"github.com/codequest-labs/gridquest/game/engine"
	"github.com/codequest-labs/gridquest/game/service"
)

// SessionPersistence defines the interface for persisting sessions
type SessionPersistence interface {
	// Save persists a session to storage
	Save(session *service.Session) error

	// Load retrieves a session from storage by ID
	Load(id string) (*service.Session, error)

	// Delete removes a session from storage
	Delete(id string) error

	// ListAll returns all persisted session IDs
	ListAll() ([]string, error)

	// Exists checks if a session exists in storage
	Exists(id string) bool
}

// PersistedSessionData is the serialized form of a session. The stage is
// stored inline so a session can be restored even if its stage file changed
// or disappeared; the rage log and sequence progress travel with the state
// because hunter bosses and in-flight ritual sequences depend on them.
type PersistedSessionData struct {
	ID               string            `json:"id"`
	StageID          string            `json:"stage_id"`
	CreatedAt        time.Time         `json:"created_at"`
	LastAccessedAt   time.Time         `json:"last_accessed_at"`
	Stage            *engine.Stage     `json:"stage"`
	GameState        *engine.GameState `json:"game_state"`
	RageLog          []string          `json:"rage_log,omitempty"`
	SequenceProgress map[string]int    `json:"sequence_progress,omitempty"`
}

// restoreSession rebuilds a live session from its persisted form
func restoreSession(data *PersistedSessionData) (*service.Session, error) {
	initial, err := engine.BuildGameState(data.Stage)
	if err != nil {
		return nil, err
	}

	manager := engine.NewGameStateManager(initial)
	if data.GameState != nil {
		manager.Restore(data.GameState, data.RageLog, data.SequenceProgress)
	}

	return &service.Session{
		ID:             data.ID,
		Manager:        manager,
		Stage:          data.Stage,
		CreatedAt:      data.CreatedAt,
		LastAccessedAt: data.LastAccessedAt,
	}, nil
}

// persistedData captures a live session into its serialized form
func persistedData(session *service.Session) *PersistedSessionData {
	return &PersistedSessionData{
		ID:               session.ID,
		StageID:          session.Stage.ID,
		CreatedAt:        session.CreatedAt,
		LastAccessedAt:   session.LastAccessedAt,
		Stage:            session.Stage,
		GameState:        session.Manager.State(),
		RageLog:          session.Manager.RageLog(),
		SequenceProgress: session.Manager.SequenceProgress(),
	}
}
