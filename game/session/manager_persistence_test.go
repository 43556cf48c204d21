package session

import (
	"testing"

	"github.com/codequest-labs/gridquest/game/engine"
)

func TestManagerWithPersistence(t *testing.T) {
	tempDir := t.TempDir()

	persistence, err := NewFilePersistence(tempDir)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)
	stage := createTestStage()

	t.Run("Create Auto-Saves", func(t *testing.T) {
		if _, err := manager.Create("persist1", stage); err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if !persistence.Exists("persist1") {
			t.Error("Session should be persisted on create")
		}
	})

	t.Run("Load On Miss", func(t *testing.T) {
		session, err := manager.Get("persist1")
		if err != nil {
			t.Fatalf("Failed to get session: %v", err)
		}
		mustAct(t, session, engine.ActionMove)
		if err := manager.Save("persist1"); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}

		// Drop from memory; Get should reload from disk
		if err := manager.DeleteFromMemory("persist1"); err != nil {
			t.Fatalf("Failed to evict session: %v", err)
		}

		reloaded, err := manager.Get("persist1")
		if err != nil {
			t.Fatalf("Failed to reload session: %v", err)
		}
		if reloaded.Manager.State().TurnCount != 1 {
			t.Errorf("Expected turn count 1 after reload, got %d", reloaded.Manager.State().TurnCount)
		}
	})

	t.Run("Delete Removes Persisted Session", func(t *testing.T) {
		if err := manager.Delete("persist1"); err != nil {
			t.Fatalf("Failed to delete session: %v", err)
		}
		if persistence.Exists("persist1") {
			t.Error("Session file should be removed on delete")
		}
		if _, err := manager.Get("persist1"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound after delete, got %v", err)
		}
	})
}

func TestManager_LoadPersistedSessions(t *testing.T) {
	tempDir := t.TempDir()

	persistence, err := NewFilePersistence(tempDir)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	// Persist sessions with a first manager
	first := NewManagerWithPersistence(persistence)
	stage := createTestStage()
	for _, id := range []string{"saved1", "saved2"} {
		if _, err := first.Create(id, stage); err != nil {
			t.Fatalf("Failed to create session %s: %v", id, err)
		}
	}

	// A fresh manager over the same directory should recover both
	second := NewManagerWithPersistence(persistence)
	if err := second.LoadPersistedSessions(); err != nil {
		t.Fatalf("Failed to load persisted sessions: %v", err)
	}
	if second.Count() != 2 {
		t.Errorf("Expected 2 recovered sessions, got %d", second.Count())
	}
	for _, id := range []string{"saved1", "saved2"} {
		if _, err := second.Get(id); err != nil {
			t.Errorf("Expected session %s to be recovered: %v", id, err)
		}
	}
}

func TestManager_SaveAllSessions(t *testing.T) {
	tempDir := t.TempDir()

	persistence, err := NewFilePersistence(tempDir)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)
	stage := createTestStage()

	sessionA, err := manager.Create("bulk1", stage)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if _, err := manager.Create("bulk2", stage); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	mustAct(t, sessionA, engine.ActionTurnRight)
	if err := manager.SaveAllSessions(); err != nil {
		t.Fatalf("Failed to save all sessions: %v", err)
	}

	reloaded, err := persistence.Load("bulk1")
	if err != nil {
		t.Fatalf("Failed to load saved session: %v", err)
	}
	if reloaded.Manager.State().Player.Facing != engine.South {
		t.Errorf("Expected facing south after saved turn, got %v", reloaded.Manager.State().Player.Facing)
	}
}

func TestManager_SaveWithoutPersistence(t *testing.T) {
	manager := NewManager()
	stage := createTestStage()

	if _, err := manager.Create("mem-only", stage); err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	// Save and SaveAll are no-ops when persistence is not configured
	if err := manager.Save("mem-only"); err != nil {
		t.Errorf("Expected no-op save, got %v", err)
	}
	if err := manager.SaveAllSessions(); err != nil {
		t.Errorf("Expected no-op save-all, got %v", err)
	}
}
