// Package session provides session management for GridQuest.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session lifecycle management
//   - Pluggable persistence backends (file and PostgreSQL)
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// SessionPersistence is the storage interface; FilePersistence writes one
// JSON file per session, PostgresPersistence stores sessions as JSONB rows.
//
// Session Identifiers:
//
// Session IDs are case-insensitive: the manager and both persistence
// backends lowercase IDs before using them as keys, so "ABC1" and "abc1"
// refer to the same session.
//
// Persistence:
//
// A manager constructed with NewManagerWithPersistence saves each session
// after creation and loads sessions on demand when they are not in memory.
// Persisted sessions capture the stage definition, the current game state,
// and the rage log, so a restored session resumes exactly where it left
// off. Undo history is not persisted; restored sessions start with an
// empty command history.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create a new session for a stage
//	sess, err := manager.Create("", stage)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sess.ID)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// List all active sessions
//	sessions := manager.List()
//
// Cleanup:
//
// Sessions can be explicitly deleted or may expire based on inactivity.
// CleanupExpiredSessions removes sessions whose last access time is older
// than the given age.
package session
