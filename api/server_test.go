package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/codequest-labs/gridquest/game/engine"
	"github.com/codequest-labs/gridquest/game/service"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, stageName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	ActFunc   func(ctx context.Context, sessionID, action string, reset bool) (*service.ActResult, error)
	UndoFunc  func(ctx context.Context, sessionID string) (*service.ActResult, error)
	ResetFunc func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameStateFunc     func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetActionHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Stages
	ListStagesFunc func(ctx context.Context) ([]*service.StageInfo, error)
	LoadStageFunc  func(ctx context.Context, stageName string) (*engine.Stage, error)
	SaveStageFunc  func(ctx context.Context, stageName string, stage *engine.Stage) error
}

func testState() *engine.GameState {
	return &engine.GameState{
		StageID: "test-stage",
		Player: &engine.Character{
			Position: engine.Position{X: 1, Y: 1},
			Facing:   engine.East,
			HP:       100,
			MaxHP:    100,
		},
		Status: engine.StatusPlaying,
	}
}

func (m *MockGameService) CreateSession(ctx context.Context, stageName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, stageName)
	}
	return &service.SessionInfo{
		ID:        "test-session",
		StageID:   stageName,
		CreatedAt: time.Now(),
		GameState: testState(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:        sessionID,
		StageID:   "test-stage",
		CreatedAt: time.Now(),
		GameState: testState(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockGameService) Act(ctx context.Context, sessionID, action string, reset bool) (*service.ActResult, error) {
	if m.ActFunc != nil {
		return m.ActFunc(ctx, sessionID, action, reset)
	}
	return &service.ActResult{
		Success: true,
		Result: &engine.CommandResult{
			Action: action,
			Status: engine.ResultSuccess,
		},
		GameState: testState(),
		Status:    engine.StatusPlaying,
		TurnCount: 1,
	}, nil
}

func (m *MockGameService) Undo(ctx context.Context, sessionID string) (*service.ActResult, error) {
	if m.UndoFunc != nil {
		return m.UndoFunc(ctx, sessionID)
	}
	return &service.ActResult{
		Success: true,
		Result: &engine.CommandResult{
			Action: "undo",
			Status: engine.ResultSuccess,
		},
		GameState: testState(),
		Status:    engine.StatusPlaying,
	}, nil
}

func (m *MockGameService) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, sessionID)
	}
	return testState(), nil
}

func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return testState(), nil
}

func (m *MockGameService) GetActionHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetActionHistoryFunc != nil {
		return m.GetActionHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{
		Actions:      []engine.ActionRecord{},
		TotalActions: 0,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   1,
	}, nil
}

func (m *MockGameService) ListStages(ctx context.Context) ([]*service.StageInfo, error) {
	if m.ListStagesFunc != nil {
		return m.ListStagesFunc(ctx)
	}
	return []*service.StageInfo{}, nil
}

func (m *MockGameService) LoadStage(ctx context.Context, stageName string) (*engine.Stage, error) {
	if m.LoadStageFunc != nil {
		return m.LoadStageFunc(ctx, stageName)
	}
	return &engine.Stage{ID: stageName}, nil
}

func (m *MockGameService) SaveStage(ctx context.Context, stageName string, stage *engine.Stage) error {
	if m.SaveStageFunc != nil {
		return m.SaveStageFunc(ctx, stageName, stage)
	}
	return nil
}

func newTestServer(mock *MockGameService) *Server {
	return NewServer(mock, nil)
}

func doRequest(t *testing.T, server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleCreateSession(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mock := &MockGameService{}
		server := newTestServer(mock)

		recorder := doRequest(t, server, "POST", "/api/sessions", map[string]string{"stage_id": "arena"})
		if recorder.Code != http.StatusCreated {
			t.Errorf("Expected status 201, got %d", recorder.Code)
		}

		var info service.SessionInfo
		if err := json.Unmarshal(recorder.Body.Bytes(), &info); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		if info.StageID != "arena" {
			t.Errorf("Expected stage 'arena', got '%s'", info.StageID)
		}
	})

	t.Run("service error", func(t *testing.T) {
		mock := &MockGameService{
			CreateSessionFunc: func(ctx context.Context, stageName string) (*service.SessionInfo, error) {
				return nil, errors.New("stage 'nope' not found")
			},
		}
		server := newTestServer(mock)

		recorder := doRequest(t, server, "POST", "/api/sessions", map[string]string{"stage_id": "nope"})
		if recorder.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", recorder.Code)
		}

		var resp map[string]string
		json.Unmarshal(recorder.Body.Bytes(), &resp)
		if resp["error"] == "" {
			t.Error("Expected error message in response")
		}
	})
}

func TestHandleListSessions(t *testing.T) {
	now := time.Now()
	mock := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) {
			return []*service.SessionInfo{
				{ID: "old", LastAccessedAt: now.Add(-time.Hour)},
				{ID: "new", LastAccessedAt: now},
			}, nil
		},
	}
	server := newTestServer(mock)

	t.Run("default order newest first", func(t *testing.T) {
		recorder := doRequest(t, server, "GET", "/api/sessions", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", recorder.Code)
		}

		var resp struct {
			Count    int                    `json:"count"`
			Sessions []*service.SessionInfo `json:"sessions"`
		}
		if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		if resp.Count != 2 {
			t.Errorf("Expected 2 sessions, got %d", resp.Count)
		}
		if resp.Sessions[0].ID != "new" {
			t.Errorf("Expected 'new' first, got '%s'", resp.Sessions[0].ID)
		}
	})

	t.Run("limit", func(t *testing.T) {
		recorder := doRequest(t, server, "GET", "/api/sessions?limit=1", nil)

		var resp struct {
			Count int `json:"count"`
		}
		json.Unmarshal(recorder.Body.Bytes(), &resp)
		if resp.Count != 1 {
			t.Errorf("Expected 1 session with limit=1, got %d", resp.Count)
		}
	})
}

func TestHandleGetSession(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		server := newTestServer(&MockGameService{})

		recorder := doRequest(t, server, "GET", "/api/sessions/abc1", nil)
		if recorder.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", recorder.Code)
		}

		var info service.SessionInfo
		json.Unmarshal(recorder.Body.Bytes(), &info)
		if info.ID != "abc1" {
			t.Errorf("Expected ID 'abc1', got '%s'", info.ID)
		}
	})

	t.Run("not found", func(t *testing.T) {
		mock := &MockGameService{
			GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
				return nil, errors.New("session not found")
			},
		}
		server := newTestServer(mock)

		recorder := doRequest(t, server, "GET", "/api/sessions/ghost", nil)
		if recorder.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", recorder.Code)
		}
	})
}

func TestHandleDeleteSession(t *testing.T) {
	deleted := ""
	mock := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			deleted = sessionID
			return nil
		},
	}
	server := newTestServer(mock)

	recorder := doRequest(t, server, "DELETE", "/api/sessions/abc1", nil)
	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}
	if deleted != "abc1" {
		t.Errorf("Expected delete of 'abc1', got '%s'", deleted)
	}
}

func TestHandleAct(t *testing.T) {
	t.Run("successful command", func(t *testing.T) {
		var gotAction string
		var gotReset bool
		mock := &MockGameService{
			ActFunc: func(ctx context.Context, sessionID, action string, reset bool) (*service.ActResult, error) {
				gotAction = action
				gotReset = reset
				return &service.ActResult{
					Success: true,
					Result: &engine.CommandResult{
						Action: action,
						Status: engine.ResultSuccess,
					},
					GameState: testState(),
					Status:    engine.StatusPlaying,
					TurnCount: 3,
				}, nil
			},
		}
		server := newTestServer(mock)

		recorder := doRequest(t, server, "POST", "/api/sessions/abc1/act",
			map[string]interface{}{"action": "move", "reset": true})
		if recorder.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", recorder.Code)
		}
		if gotAction != "move" || !gotReset {
			t.Errorf("Expected action 'move' with reset, got '%s' reset=%v", gotAction, gotReset)
		}

		var result service.ActResult
		if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
			t.Fatalf("Failed to parse response: %v", err)
		}
		if result.TurnCount != 3 {
			t.Errorf("Expected turn count 3, got %d", result.TurnCount)
		}
	})

	t.Run("blocked command is still a 200", func(t *testing.T) {
		mock := &MockGameService{
			ActFunc: func(ctx context.Context, sessionID, action string, reset bool) (*service.ActResult, error) {
				return &service.ActResult{
					Success: false,
					Result: &engine.CommandResult{
						Action:    action,
						Status:    engine.ResultBlocked,
						Message:   "blocked by wall",
						BlockedBy: engine.BlockedWall,
					},
					GameState: testState(),
					Status:    engine.StatusPlaying,
				}, nil
			},
		}
		server := newTestServer(mock)

		recorder := doRequest(t, server, "POST", "/api/sessions/abc1/act",
			map[string]string{"action": "move"})
		if recorder.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", recorder.Code)
		}

		var result service.ActResult
		json.Unmarshal(recorder.Body.Bytes(), &result)
		if result.Success {
			t.Error("Expected unsuccessful result")
		}
		if result.Result.Status != engine.ResultBlocked {
			t.Errorf("Expected blocked status, got %s", result.Result.Status)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		server := newTestServer(&MockGameService{})

		req := httptest.NewRequest("POST", "/api/sessions/abc1/act", bytes.NewReader([]byte("not json")))
		recorder := httptest.NewRecorder()
		server.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", recorder.Code)
		}
	})

	t.Run("service failure", func(t *testing.T) {
		mock := &MockGameService{
			ActFunc: func(ctx context.Context, sessionID, action string, reset bool) (*service.ActResult, error) {
				return nil, errors.New("session not found")
			},
		}
		server := newTestServer(mock)

		recorder := doRequest(t, server, "POST", "/api/sessions/ghost/act",
			map[string]string{"action": "move"})
		if recorder.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", recorder.Code)
		}
	})
}

func TestHandleUndo(t *testing.T) {
	mock := &MockGameService{
		UndoFunc: func(ctx context.Context, sessionID string) (*service.ActResult, error) {
			return &service.ActResult{
				Success: true,
				Result: &engine.CommandResult{
					Action: "undo",
					Status: engine.ResultSuccess,
				},
				GameState: testState(),
				TurnCount: 2,
			}, nil
		},
	}
	server := newTestServer(mock)

	recorder := doRequest(t, server, "POST", "/api/sessions/abc1/undo", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var result service.ActResult
	json.Unmarshal(recorder.Body.Bytes(), &result)
	if result.TurnCount != 2 {
		t.Errorf("Expected turn count 2, got %d", result.TurnCount)
	}
}

func TestHandleReset(t *testing.T) {
	server := newTestServer(&MockGameService{})

	recorder := doRequest(t, server, "POST", "/api/sessions/abc1/reset", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.State == nil {
		t.Error("Expected state in reset response")
	}
}

func TestHandleGetHistory(t *testing.T) {
	var gotOpts service.HistoryOptions
	mock := &MockGameService{
		GetActionHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
			gotOpts = opts
			return &service.HistoryResponse{
				Actions:      []engine.ActionRecord{{Turn: 1, Action: "move"}},
				TotalActions: 1,
				Page:         opts.Page,
				PageSize:     opts.Limit,
				TotalPages:   1,
			}, nil
		},
	}
	server := newTestServer(mock)

	recorder := doRequest(t, server, "GET", "/api/sessions/abc1/history?page=2&limit=5&order=asc", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	if gotOpts.Page != 2 || gotOpts.Limit != 5 || gotOpts.Order != "asc" {
		t.Errorf("Expected query params forwarded, got %+v", gotOpts)
	}
}

func TestHandleStages(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		mock := &MockGameService{
			ListStagesFunc: func(ctx context.Context) ([]*service.StageInfo, error) {
				return []*service.StageInfo{{StageID: "tutorial", Name: "Tutorial"}}, nil
			},
		}
		server := newTestServer(mock)

		recorder := doRequest(t, server, "GET", "/api/stages", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", recorder.Code)
		}

		var stages []*service.StageInfo
		json.Unmarshal(recorder.Body.Bytes(), &stages)
		if len(stages) != 1 || stages[0].StageID != "tutorial" {
			t.Errorf("Expected tutorial stage, got %+v", stages)
		}
	})

	t.Run("get strips extension", func(t *testing.T) {
		var gotName string
		mock := &MockGameService{
			LoadStageFunc: func(ctx context.Context, stageName string) (*engine.Stage, error) {
				gotName = stageName
				return &engine.Stage{ID: stageName}, nil
			},
		}
		server := newTestServer(mock)

		recorder := doRequest(t, server, "GET", "/api/stages/arena.json", nil)
		if recorder.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", recorder.Code)
		}
		if gotName != "arena" {
			t.Errorf("Expected extension stripped, got '%s'", gotName)
		}
	})

	t.Run("create requires id", func(t *testing.T) {
		server := newTestServer(&MockGameService{})

		recorder := doRequest(t, server, "POST", "/api/stages",
			map[string]interface{}{"name": "No ID"})
		if recorder.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", recorder.Code)
		}
	})

	t.Run("create saves stage", func(t *testing.T) {
		var savedName string
		mock := &MockGameService{
			SaveStageFunc: func(ctx context.Context, stageName string, stage *engine.Stage) error {
				savedName = stageName
				return nil
			},
		}
		server := newTestServer(mock)

		stage := map[string]interface{}{
			"id":     "custom",
			"name":   "Custom",
			"board":  map[string]int{"width": 5, "height": 5},
			"player": map[string]interface{}{"position": map[string]int{"x": 0, "y": 0}},
		}
		recorder := doRequest(t, server, "POST", "/api/stages", stage)
		if recorder.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", recorder.Code, recorder.Body.String())
		}
		if savedName != "custom" {
			t.Errorf("Expected stage saved as 'custom', got '%s'", savedName)
		}
	})
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(&MockGameService{})

	recorder := doRequest(t, server, "GET", "/api/health", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var resp map[string]string
	json.Unmarshal(recorder.Body.Bytes(), &resp)
	if resp["status"] != "healthy" {
		t.Errorf("Expected healthy status, got %v", resp)
	}
}

func TestHandleWebSocketRequiresSession(t *testing.T) {
	server := newTestServer(&MockGameService{})

	recorder := doRequest(t, server, "GET", "/ws", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without session param, got %d", recorder.Code)
	}
}

func TestHandleWebSocketUnknownSession(t *testing.T) {
	mock := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			return nil, fmt.Errorf("session not found: %s", sessionID)
		},
	}
	server := newTestServer(mock)

	recorder := doRequest(t, server, "GET", "/ws?session=ghost", nil)
	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown session, got %d", recorder.Code)
	}
}
