// Package eventlog provides SQLite-based recording of game sessions and
// per-command outcomes for offline replay and analysis.
package eventlog

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/codequest-labs/gridquest/game/service"
)

// Store records sessions and command outcomes to a SQLite database. It
// implements service.Recorder.
type Store struct {
	db *sql.DB
}

// SessionRecord is one recorded game session.
type SessionRecord struct {
	ID        string    `json:"id"`
	StageID   string    `json:"stage_id"`
	StartedAt time.Time `json:"started_at"`
}

// ActionRecord is one recorded command outcome with a snapshot of the
// player's condition after the full turn resolved.
type ActionRecord struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Turn        int       `json:"turn"`
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	GameStatus  string    `json:"game_status"`
	PlayerHP    int       `json:"player_hp"`
	EnemiesLeft int       `json:"enemies_left"`
}

// Summary aggregates a recorded session for the replay CLI.
type Summary struct {
	Session      *SessionRecord `json:"session"`
	TotalActions int            `json:"total_actions"`
	FinalTurn    int            `json:"final_turn"`
	FinalStatus  string         `json:"final_status"`
	MinPlayerHP  int            `json:"min_player_hp"`
	ActionCounts map[string]int `json:"action_counts"`
}

// Open creates a Store backed by the SQLite database at the given path,
// creating the schema if needed.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		stage_id TEXT NOT NULL,
		started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS actions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		turn INTEGER NOT NULL,
		timestamp DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		action TEXT NOT NULL,
		status TEXT NOT NULL,
		message TEXT,
		game_status TEXT NOT NULL,
		player_hp INTEGER NOT NULL,
		enemies_left INTEGER NOT NULL,
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_actions_session ON actions(session_id);
	CREATE INDEX IF NOT EXISTS idx_actions_session_turn ON actions(session_id, turn);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSession registers a session the first time it is seen. Re-recording
// an existing session is a no-op so restored sessions keep their original
// start time.
func (s *Store) RecordSession(sessionID, stageID string) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, stage_id, started_at) VALUES (?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		strings.ToLower(sessionID), stageID, time.Now().UTC(),
	)
	return err
}

// RecordAction appends one command outcome to the session's log.
func (s *Store) RecordAction(sessionID string, entry service.ActionEntry) error {
	_, err := s.db.Exec(
		`INSERT INTO actions (session_id, turn, timestamp, action, status,
		 message, game_status, player_hp, enemies_left)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.ToLower(sessionID), entry.Turn, time.Now().UTC(), entry.Action,
		entry.Status, entry.Message, entry.GameStatus, entry.PlayerHP, entry.EnemiesLeft,
	)
	return err
}

// GetSession retrieves a session record by ID.
func (s *Store) GetSession(sessionID string) (*SessionRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, stage_id, started_at FROM sessions WHERE id = ?`,
		strings.ToLower(sessionID),
	)

	var rec SessionRecord
	if err := row.Scan(&rec.ID, &rec.StageID, &rec.StartedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetActions retrieves all recorded actions for a session in turn order.
func (s *Store) GetActions(sessionID string) ([]*ActionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, session_id, turn, timestamp, action, status, message,
		 game_status, player_hp, enemies_left
		 FROM actions WHERE session_id = ? ORDER BY turn, id`,
		strings.ToLower(sessionID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var actions []*ActionRecord
	for rows.Next() {
		var a ActionRecord
		var message sql.NullString
		err := rows.Scan(&a.ID, &a.SessionID, &a.Turn, &a.Timestamp, &a.Action,
			&a.Status, &message, &a.GameStatus, &a.PlayerHP, &a.EnemiesLeft)
		if err != nil {
			return nil, err
		}
		if message.Valid {
			a.Message = message.String
		}
		actions = append(actions, &a)
	}
	return actions, rows.Err()
}

// RecentSessions returns the most recently started sessions.
func (s *Store) RecentSessions(limit int) ([]*SessionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, stage_id, started_at FROM sessions
		 ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*SessionRecord
	for rows.Next() {
		var rec SessionRecord
		if err := rows.Scan(&rec.ID, &rec.StageID, &rec.StartedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, &rec)
	}
	return sessions, rows.Err()
}

// Summarize aggregates a session's recorded actions.
func (s *Store) Summarize(sessionID string) (*Summary, error) {
	session, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Session:      session,
		ActionCounts: make(map[string]int),
	}

	row := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(turn), 0), COALESCE(MIN(player_hp), 0)
		 FROM actions WHERE session_id = ?`, session.ID,
	)
	if err := row.Scan(&summary.TotalActions, &summary.FinalTurn, &summary.MinPlayerHP); err != nil {
		return nil, err
	}

	row = s.db.QueryRow(
		`SELECT game_status FROM actions WHERE session_id = ?
		 ORDER BY turn DESC, id DESC LIMIT 1`, session.ID,
	)
	if err := row.Scan(&summary.FinalStatus); err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT action, COUNT(*) FROM actions
		 WHERE session_id = ? GROUP BY action`, session.ID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, err
		}
		summary.ActionCounts[action] = count
	}
	return summary, rows.Err()
}
