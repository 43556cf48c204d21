package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/codequest-labs/gridquest/game/service"
)

// PostgresPersistence implements SessionPersistence backed by PostgreSQL.
// Session payloads are stored as JSONB so schema churn in the game state
// never requires a migration.
type PostgresPersistence struct {
	db *sql.DB
}

// NewPostgresPersistence opens a PostgreSQL-backed persistence layer and
// initializes the schema.
func NewPostgresPersistence(connectionString string) (*PostgresPersistence, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	p := &PostgresPersistence{db: db}
	if err := p.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return p, nil
}

// initSchema initializes the database schema
func (p *PostgresPersistence) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS game_sessions (
		id TEXT PRIMARY KEY,
		stage_id TEXT NOT NULL,
		data JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := p.db.Exec(schema)
	return err
}

// Save persists a session row, replacing any previous snapshot
func (p *PostgresPersistence) Save(session *service.Session) error {
	if session == nil {
		return fmt.Errorf("session cannot be nil")
	}

	data, err := json.Marshal(persistedData(session))
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	query := `
	INSERT INTO game_sessions (id, stage_id, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (id)
	DO UPDATE SET stage_id = $2, data = $3, updated_at = NOW()
	`

	if _, err := p.db.Exec(query, strings.ToLower(session.ID), session.Stage.ID, string(data)); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Load retrieves a session row and rebuilds the live session
func (p *PostgresPersistence) Load(id string) (*service.Session, error) {
	var raw []byte
	query := `SELECT data FROM game_sessions WHERE id = $1`
	if err := p.db.QueryRow(query, strings.ToLower(id)).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var data PersistedSessionData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	session, err := restoreSession(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session %s: %w", id, err)
	}

	return session, nil
}

// Delete removes a session row
func (p *PostgresPersistence) Delete(id string) error {
	result, err := p.db.Exec(`DELETE FROM game_sessions WHERE id = $1`, strings.ToLower(id))
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrSessionNotFound
	}

	return nil
}

// ListAll returns all persisted session IDs
func (p *PostgresPersistence) ListAll() ([]string, error) {
	rows, err := p.db.Query(`SELECT id FROM game_sessions ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// Exists checks if a session row exists
func (p *PostgresPersistence) Exists(id string) bool {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM game_sessions WHERE id = $1)`
	if err := p.db.QueryRow(query, strings.ToLower(id)).Scan(&exists); err != nil {
		return false
	}
	return exists
}

// Close releases the database handle
func (p *PostgresPersistence) Close() error {
	return p.db.Close()
}
