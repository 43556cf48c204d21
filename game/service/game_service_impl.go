package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/codequest-labs/gridquest/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	stages   StageManager
	recorder Recorder
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance. The recorder is
// optional; pass nil to disable event recording.
func NewGameService(sessions SessionManager, stages StageManager, recorder Recorder) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		stages:   stages,
		recorder: recorder,
	}
}

// getStageID returns the stage_id for a given stage name, used for
// consistent API responses.
func (s *gameServiceImpl) getStageID(stageName string) string {
	availableStages, err := s.stages.ListStages()
	if err == nil {
		for _, st := range availableStages {
			if st.Name == stageName || st.StageID == stageName {
				return st.StageID
			}
		}
	}
	if stageName == "" {
		return "default"
	}
	return stageName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, stageName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stage *engine.Stage
	var err error
	if stageName != "" {
		stage, err = s.stages.LoadStage(stageName)
		if err != nil {
			if strings.Contains(err.Error(), "stage not found") {
				availableStages, listErr := s.stages.ListStages()
				if listErr == nil && len(availableStages) > 0 {
					var stageIDs []string
					for _, st := range availableStages {
						stageIDs = append(stageIDs, st.StageID)
					}
					return nil, fmt.Errorf("stage '%s' not found. Available stages: %v", stageName, stageIDs)
				}
				return nil, fmt.Errorf("stage '%s' not found. Use /api/stages to list available stages", stageName)
			}
			return nil, fmt.Errorf("failed to load stage %s: %w", stageName, err)
		}
	} else {
		stage = s.stages.GetDefault()
	}

	// Let the session manager generate the ID
	session, err := s.sessions.Create("", stage)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if s.recorder != nil {
		if err := s.recorder.RecordSession(session.ID, stage.ID); err != nil {
			log.Printf("Warning: failed to record session %s: %v", session.ID, err)
		}
	}

	return s.sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Act executes one player command for a session and runs the full turn
func (s *gameServiceImpl) Act(ctx context.Context, sessionID, action string, reset bool) (*ActResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	if reset {
		sess.Manager.Reset()
	}

	state := sess.Manager.State()

	cmd, err := engine.NewCommand(action)
	if err != nil {
		return &ActResult{
			Success: false,
			Result: &engine.CommandResult{
				Action:  action,
				Status:  engine.ResultInvalid,
				Message: err.Error(),
			},
			GameState: state,
			Status:    state.Status,
			TurnCount: state.TurnCount,
		}, nil
	}

	outcome, err := sess.Manager.Execute(cmd)
	if errors.Is(err, engine.ErrGameFinished) {
		return &ActResult{
			Success: false,
			Result: &engine.CommandResult{
				Action:  action,
				Status:  engine.ResultFailed,
				Message: "game is already finished",
			},
			GameState: state,
			Status:    state.Status,
			TurnCount: state.TurnCount,
			Message:   state.Message,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s: %w", action, err)
	}

	state = sess.Manager.State()
	result := &ActResult{
		Success:         outcome.Result.Succeeded(),
		Result:          outcome.Result,
		EnemyEvents:     outcome.EnemyEvents,
		GameState:       state,
		Status:          outcome.Status,
		TurnCount:       outcome.TurnCount,
		Message:         outcome.Message,
		PossibleActions: possibleActions(state),
		LocalView3x3:    buildLocalView(state),
	}

	s.record(sess, outcome)

	// Auto-save session after the turn
	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to persist session %s after act: %v", sessionID, err)
	}

	return result, nil
}

// Undo reverses the most recent undoable command
func (s *gameServiceImpl) Undo(ctx context.Context, sessionID string) (*ActResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	outcome, err := sess.Manager.Undo()
	if errors.Is(err, engine.ErrNothingToUndo) {
		state := sess.Manager.State()
		return &ActResult{
			Success: false,
			Result: &engine.CommandResult{
				Action:  "undo",
				Status:  engine.ResultFailed,
				Message: "nothing to undo",
			},
			GameState: state,
			Status:    state.Status,
			TurnCount: state.TurnCount,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to undo: %w", err)
	}

	state := sess.Manager.State()
	result := &ActResult{
		Success:         true,
		Result:          outcome.Result,
		GameState:       state,
		Status:          outcome.Status,
		TurnCount:       outcome.TurnCount,
		PossibleActions: possibleActions(state),
		LocalView3x3:    buildLocalView(state),
	}

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to persist session %s after undo: %v", sessionID, err)
	}

	return result, nil
}

// Reset resets a game session to its initial stage state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Manager.Reset()

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: failed to persist session %s after reset: %v", sessionID, err)
	}

	return sess.Manager.State(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Manager.State(), nil
}

// GetActionHistory returns paginated action history
func (s *gameServiceImpl) GetActionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Manager.ActionHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var actions []engine.ActionRecord
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			actions = append(actions, history[i])
		}
	} else {
		if start < total {
			actions = history[start:end]
		}
	}
	if actions == nil {
		actions = []engine.ActionRecord{}
	}

	return &HistoryResponse{
		Actions:      actions,
		TotalActions: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListStages returns available stage definitions
func (s *gameServiceImpl) ListStages(ctx context.Context) ([]*StageInfo, error) {
	return s.stages.ListStages()
}

// LoadStage loads a specific stage definition
func (s *gameServiceImpl) LoadStage(ctx context.Context, stageName string) (*engine.Stage, error) {
	return s.stages.LoadStage(stageName)
}

// SaveStage saves a stage definition to disk
func (s *gameServiceImpl) SaveStage(ctx context.Context, stageName string, stage *engine.Stage) error {
	return s.stages.SaveStage(stageName, stage)
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		StageID:        sess.Stage.ID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Manager.State(),
	}
}

// record forwards the turn outcome to the recorder, if one is configured
func (s *gameServiceImpl) record(sess *Session, outcome *engine.TurnOutcome) {
	if s.recorder == nil {
		return
	}

	state := sess.Manager.State()
	entry := ActionEntry{
		Turn:        outcome.TurnCount,
		Action:      outcome.Result.Action,
		Status:      string(outcome.Result.Status),
		Message:     outcome.Result.Message,
		GameStatus:  string(outcome.Status),
		PlayerHP:    state.Player.HP,
		EnemiesLeft: len(state.Enemies),
	}
	if err := s.recorder.RecordAction(sess.ID, entry); err != nil {
		log.Printf("Warning: failed to record action for session %s: %v", sess.ID, err)
	}
}

// possibleActions lists the commands worth suggesting from the current
// state: rotations and wait always, move only when the cell ahead is open,
// attack only with a target ahead, pickup/dispose only standing on an item.
func possibleActions(state *engine.GameState) []string {
	if state.Finished() {
		return []string{}
	}

	actions := []string{engine.ActionTurnLeft, engine.ActionTurnRight, engine.ActionWait}

	ahead := state.Player.Position.Step(state.Player.Facing)
	if engine.CheckMovement(state, ahead).Allowed {
		actions = append(actions, engine.ActionMove)
	}
	if engine.AttackTarget(state, state.Player.Position, state.Player.Facing) != nil {
		actions = append(actions, engine.ActionAttack)
	}
	if len(state.ItemsAt(state.Player.Position)) > 0 {
		actions = append(actions, engine.ActionPickup, engine.ActionDispose)
	}

	return actions
}

// buildLocalView renders the 3x3 neighborhood around the player as text
// rows: @ player, # wall, ~ forbidden, E enemy, ! item, G goal, . open,
// X out of bounds.
func buildLocalView(state *engine.GameState) []string {
	if state == nil {
		return nil
	}

	p := state.Player.Position
	lines := make([]string, 0, 3)
	for dy := -1; dy <= 1; dy++ {
		var row strings.Builder
		for dx := -1; dx <= 1; dx++ {
			cell := engine.Position{X: p.X + dx, Y: p.Y + dy}
			row.WriteString(cellChar(state, cell))
		}
		lines = append(lines, row.String())
	}
	return lines
}

func cellChar(state *engine.GameState, cell engine.Position) string {
	if cell == state.Player.Position {
		return "@"
	}
	if !state.Board.InBounds(cell) {
		return "X"
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
