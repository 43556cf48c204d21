// Command solver plays GridQuest stages automatically against a running
// server. It plans paths with breadth-first search, picks up beneficial
// items, disposes bombs, and attacks enemies that stand in the way.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

// Mirror types for the REST API JSON. The solver is a standalone module and
// keeps its own lightweight copies of the wire structures.

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type Board struct {
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Walls     []Position `json:"walls,omitempty"`
	Forbidden []Position `json:"forbidden,omitempty"`
}

type Character struct {
	Position    Position `json:"position"`
	Facing      string   `json:"facing"`
	HP          int      `json:"hp"`
	MaxHP       int      `json:"max_hp"`
	AttackPower int      `json:"attack_power"`
}

type Enemy struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	HP       int      `json:"hp"`
	Kind     string   `json:"kind"`
	Behavior string   `json:"behavior"`
	Alerted  bool     `json:"alerted"`
}

type Item struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Kind     string   `json:"kind"`
	Name     string   `json:"name"`
}

type GameState struct {
	StageID string     `json:"stage_id"`
	Board   *Board     `json:"board"`
	Player  *Character `json:"player"`
	Enemies []*Enemy   `json:"enemies"`
	Items   []*Item    `json:"items"`
	Goal    *Position  `json:"goal,omitempty"`

	TurnCount int    `json:"turn_count"`
	MaxTurns  int    `json:"max_turns"`
	Status    string `json:"status"`
	Message   string `json:"message"`

	VictoryConditions []string `json:"victory_conditions,omitempty"`
}

// Finished reports whether the game reached a terminal state.
func (gs *GameState) Finished() bool {
	return gs.Status != "playing"
}

type SessionResponse struct {
	ID        string     `json:"id"`
	StageID   string     `json:"stage_id"`
	GameState *GameState `json:"game_state"`
}

type ActRequest struct {
	Action string `json:"action"`
	Reset  bool   `json:"reset,omitempty"`
}

type ActResult struct {
	Success bool `json:"success"`
	Result  *struct {
		Action  string `json:"action"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"result"`
	GameState *GameState `json:"game_state"`
	Status    string     `json:"status"`
	TurnCount int        `json:"turn_count"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(stageID string) (*GameState, error) {
	var reqBody []byte
	var err error

	if stageID != "" {
		reqBody, err = json.Marshal(map[string]string{"stage_id": stageID})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/state", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get state failed: %s - %s", resp.Status, string(body))
	}

	var state GameState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}

	return &state, nil
}

func (c *Client) Act(action string) (*GameState, error) {
	body, err := json.Marshal(ActRequest{Action: action})
	if err != nil {
		return nil, fmt.Errorf("marshal act: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/act", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("execute act: %w", err)
	}
	defer resp.Body.Close()

	var actResp ActResult
	if err := json.NewDecoder(resp.Body).Decode(&actResp); err != nil {
		return nil, fmt.Errorf("parse act response: %w", err)
	}

	// Blocked and failed commands still consume a turn and return a valid
	// state; only a missing state is a hard error.
	if actResp.GameState == nil {
		return nil, fmt.Errorf("act returned no state")
	}

	return actResp.GameState, nil
}

type ResetResponse struct {
	Message string     `json:"message"`
	State   *GameState `json:"state"`
}

func (c *Client) Reset() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/reset", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", nil)
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	defer resp.Body.Close()

	var resetResp ResetResponse
	if err := json.NewDecoder(resp.Body).Decode(&resetResp); err != nil {
		return nil, fmt.Errorf("parse reset response: %w", err)
	}

	return resetResp.State, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	stageID := flag.String("stage", "", "Stage to play (server default when empty)")
	continueSession := flag.String("continue", "", "Resume playing an existing session by ID")
	maxAttempts := flag.Int("max-attempts", 20, "Maximum attempts before giving up")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between commands in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	var state *GameState
	var err error

	// Check for saved session ID
	sessionFile := ".session"
	savedSessionID := ""

	if *continueSession != "" {
		savedSessionID = *continueSession
	} else {
		if data, err := os.ReadFile(sessionFile); err == nil {
			savedSessionID = string(bytes.TrimSpace(data))
		}
	}

	if savedSessionID != "" {
		client.sessionID = savedSessionID
		log.Printf("Resuming session: %s", client.sessionID)
		state, err = client.GetState()
		if err != nil {
			log.Printf("Warning: Failed to resume session (may be expired): %v", err)
			log.Printf("Creating new session...")
			savedSessionID = ""
		}
	}

	if savedSessionID == "" {
		state, err = client.CreateSession(*stageID)
		if err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
		log.Printf("Session created: %s", client.sessionID)

		if err := os.WriteFile(sessionFile, []byte(client.sessionID), 0644); err != nil {
			log.Printf("Warning: Failed to save session ID: %v", err)
		}
	}

	log.Printf("Stage %s - Board: %dx%d, Enemies: %d, Items: %d",
		state.StageID, state.Board.Width, state.Board.Height,
		len(state.Enemies), len(state.Items))

	attemptNum := 0
	for attemptNum < *maxAttempts {
		attemptNum++

		// Every attempt starts from the stage's initial state
		state, err = client.Reset()
		if err != nil {
			log.Fatalf("Failed to reset game: %v", err)
		}

		strategy := NewStrategy(state)

		log.Printf("\n=== Attempt %d/%d ===", attemptNum, *maxAttempts)

		turnBudget := state.MaxTurns
		if turnBudget <= 0 {
			turnBudget = state.Board.Width * state.Board.Height * 4
		}

		commands := 0
		for !state.Finished() && commands < turnBudget {
			action := strategy.NextAction(state)
			if action == "" {
				log.Printf("Warning: No useful command available, waiting")
				action = "wait"
			}

			if *verbose {
				log.Printf("Turn %d: %s at (%d,%d) facing %s, HP %d/%d",
					state.TurnCount, action,
					state.Player.Position.X, state.Player.Position.Y,
					state.Player.Facing, state.Player.HP, state.Player.MaxHP)
			}

			state, err = client.Act(action)
			if err != nil {
				log.Printf("Command failed: %v", err)
				break
			}
			commands++

			if *delayMs > 0 {
				time.Sleep(time.Duration(*delayMs) * time.Millisecond)
			}
		}

		log.Printf("Attempt %d: Commands=%d, Turn=%d, HP=%d, Enemies=%d, Status=%s",
			attemptNum, commands, state.TurnCount, state.Player.HP,
			len(state.Enemies), state.Status)

		if state.Status == "won" {
			log.Printf("\nVICTORY! Stage cleared in attempt %d after %d turns!", attemptNum, state.TurnCount)
			log.Printf("Session: %s", client.sessionID)
			os.Exit(0)
		}
	}

	log.Printf("\nFailed to win after %d attempts", attemptNum)
	log.Printf("Session: %s", client.sessionID)
	os.Exit(1)
}
