package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for turn orchestration
var (
	ErrGameFinished  = errors.New("game is already finished")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// ActionRecord is one entry in the cumulative action history. The history
// survives Reset so a full session transcript is always available.
type ActionRecord struct {
	Turn    int           `json:"turn"`
	Action  string        `json:"action"`
	Status  CommandStatus `json:"status"`
	Message string        `json:"message"`
}

// TurnOutcome aggregates everything that happened in one full turn: the
// player's command result, the enemy reactions, and the post-turn status.
type TurnOutcome struct {
	Result      *CommandResult `json:"result"`
	EnemyEvents []EnemyEvent   `json:"enemy_events,omitempty"`
	Status      GameStatus     `json:"status"`
	TurnCount   int            `json:"turn_count"`
	Message     string         `json:"message,omitempty"`
}

// GameStateManager orchestrates turns for one game: it executes player
// commands through the invoker, runs the enemy AI pass, and settles the
// terminal state. It is not safe for concurrent use; callers synchronize
// at the session layer.
type GameStateManager struct {
	state   *GameState
	initial *GameState
	invoker *Invoker

	// rageLog records boss rage activations in order across the whole game
	rageLog []string

	// seqProgress tracks per-enemy progress through required action sequences
	seqProgress map[string]int

	history []ActionRecord
}

// NewGameStateManager creates a manager around a freshly built game state.
// A snapshot of the initial state is kept for Reset.
func NewGameStateManager(gs *GameState) *GameStateManager {
	return &GameStateManager{
		state:       gs,
		initial:     gs.Clone(),
		invoker:     NewInvoker(),
		seqProgress: make(map[string]int),
	}
}

// State returns the live game state
func (m *GameStateManager) State() *GameState {
	return m.state
}

// ActionHistory returns the cumulative action transcript
func (m *GameStateManager) ActionHistory() []ActionRecord {
	return m.history
}

// RageLog returns boss rage activations in activation order
func (m *GameStateManager) RageLog() []string {
	return append([]string(nil), m.rageLog...)
}

// SequenceProgress returns each enemy's progress through its required action
// sequence, keyed by enemy id
func (m *GameStateManager) SequenceProgress() map[string]int {
	progress := make(map[string]int, len(m.seqProgress))
	for id, n := range m.seqProgress {
		progress[id] = n
	}
	return progress
}

// CanUndo reports whether the most recent command can be reversed
func (m *GameStateManager) CanUndo() bool {
	return m.invoker.CanUndo()
}

// Execute runs one full turn: the player command, the required-sequence
// bookkeeping, the enemy AI pass, and the terminal checks. The turn counter
// advances whether or not the command succeeded. Returns ErrGameFinished
// without mutating anything when the game is already over.
func (m *GameStateManager) Execute(cmd Command) (*TurnOutcome, error) {
	if m.state.Finished() {
		return nil, ErrGameFinished
	}

	result := m.invoker.Execute(cmd, m.state)
	m.state.TurnCount++

	events := m.advanceSequences(cmd.Name())

	if m.state.Player.Alive() {
		events = append(events, stepEnemies(m.state, &m.rageLog)...)
	}

	m.settleStatus()

	outcome := &TurnOutcome{
		Result:      result,
		EnemyEvents: events,
		Status:      m.state.Status,
		TurnCount:   m.state.TurnCount,
		Message:     m.state.Message,
	}

	m.history = append(m.history, ActionRecord{
		Turn:    m.state.TurnCount,
		Action:  cmd.Name(),
		Status:  result.Status,
		Message: result.Message,
	})

	return outcome, nil
}

// Undo reverses the most recent undoable command. The turn counter steps
// back with it, and a terminal state reached on that turn reopens to playing.
// Enemy reactions from that turn are not replayed in reverse; undo restores
// the player's own position and facing only.
func (m *GameStateManager) Undo() (*TurnOutcome, error) {
	if !m.invoker.Undo(m.state) {
		return nil, ErrNothingToUndo
	}

	if m.state.TurnCount > 0 {
		m.state.TurnCount--
	}
	if m.state.Finished() {
		m.state.Status = StatusPlaying
		m.state.Message = ""
	}

	m.history = append(m.history, ActionRecord{
		Turn:    m.state.TurnCount,
		Action:  "undo",
		Status:  ResultSuccess,
		Message: "Undid the last command",
	})

	return &TurnOutcome{
		Result: &CommandResult{
			Action:  "undo",
			Status:  ResultSuccess,
			Message: "Undid the last command",
		},
		Status:    m.state.Status,
		TurnCount: m.state.TurnCount,
	}, nil
}

// Restore replaces the live state with a persisted snapshot and reinstates
// the rage log and sequence progress recorded alongside it. The undo history
// does not survive restoration.
func (m *GameStateManager) Restore(gs *GameState, rageLog []string, seqProgress map[string]int) {
	m.state = gs
	m.invoker.Reset()
	m.rageLog = append([]string(nil), rageLog...)
	m.seqProgress = make(map[string]int, len(seqProgress))
	for id, n := range seqProgress {
		m.seqProgress[id] = n
	}
}

// Reset restores the initial stage state. The action history is cumulative
// and survives; the undo history, rage log, and sequence progress do not.
func (m *GameStateManager) Reset() {
	m.state = m.initial.Clone()
	m.invoker.Reset()
	m.rageLog = nil
	m.seqProgress = make(map[string]int)

	m.history = append(m.history, ActionRecord{
		Turn:    m.state.TurnCount,
		Action:  "reset",
		Status:  ResultSuccess,
		Message: "Game reset to the initial stage state",
	})
}

// advanceSequences feeds the action into every enemy with a required action
// sequence. Completing a sequence eliminates that enemy without combat; a
// mismatched action restarts the sequence from the beginning.
func (m *GameStateManager) advanceSequences(action string) []EnemyEvent {
	var events []EnemyEvent

	enemies := append([]*Enemy(nil), m.state.Enemies...)
	for _, e := range enemies {
		if len(e.RequiredSequence) == 0 {
			continue
		}

		progress := m.seqProgress[e.ID]
		if e.RequiredSequence[progress] == action {
			progress++
		} else if e.RequiredSequence[0] == action {
			progress = 1
		} else {
			progress = 0
		}

		if progress >= len(e.RequiredSequence) {
			gs := m.state
			gs.RemoveEnemy(e.ID)
			delete(m.seqProgress, e.ID)
			events = append(events, EnemyEvent{
				EnemyID: e.ID,
				Action:  EnemyEliminated,
				Message: fmt.Sprintf("%s was banished by the completed ritual", e.ID),
			})
			continue
		}
		m.seqProgress[e.ID] = progress
	}

	return events
}

// settleStatus applies the terminal checks in priority order: player death,
// then victory, then the turn limit.
func (m *GameStateManager) settleStatus() {
	gs := m.state

	if !gs.Player.Alive() {
		gs.Status = StatusFailed
		gs.Message = "The player was defeated"
		return
	}

	if m.victoryReached() {
		gs.Status = StatusWon
		gs.Message = "Victory!"
		return
	}

	if gs.MaxTurns > 0 && gs.TurnCount >= gs.MaxTurns {
		gs.Status = StatusTimeout
		gs.Message = fmt.Sprintf("Turn limit of %d reached", gs.MaxTurns)
	}
}

// victoryReached evaluates the stage's victory conditions. Every listed
// condition must hold. A stage with no explicit conditions wins by reaching
// the goal if one exists, otherwise by clearing a board that started with
// enemies.
func (m *GameStateManager) victoryReached() bool {
	gs := m.state

	if len(gs.VictoryConditions) == 0 {
		if gs.Goal != nil {
			return gs.Player.Position == *gs.Goal
		}
		return gs.TurnCount > 0 && len(gs.Enemies) == 0 && len(m.initial.Enemies) > 0
	}

	for _, cond := range gs.VictoryConditions {
		switch cond {
		case VictoryReachGoal:
			if gs.Goal == nil || gs.Player.Position != *gs.Goal {
				return false
			}
		case VictoryDefeatAllEnemies:
			if len(gs.Enemies) > 0 {
				return false
			}
		case VictoryCollectAllItems:
			for _, item := range gs.Items {
				if item.Kind == ItemBeneficial {
					return false
				}
			}
		default:
			return false
		}
	}
	return true
}
