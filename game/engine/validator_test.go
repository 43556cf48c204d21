package engine

import (
	"testing"
)

// createTestState builds a 5x5 board with a wall at (2,2), a forbidden cell
// at (3,1), and the player at (0,0) facing east.
func createTestState(t *testing.T) *GameState {
	t.Helper()
	board, err := NewBoard(5, 5, []Position{{X: 2, Y: 2}}, []Position{{X: 3, Y: 1}})
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	return &GameState{
		StageID: "validator-test",
		Board:   board,
		Player:  &Character{Position: Position{X: 0, Y: 0}, Facing: East, HP: 100, MaxHP: 100, AttackPower: 10},
		Status:  StatusPlaying,
	}
}

func TestCheckMovementCauses(t *testing.T) {
	gs := createTestState(t)
	gs.Enemies = []*Enemy{{ID: "guard", Position: Position{X: 1, Y: 1}, Kind: EnemyNormal, HP: 10, MaxHP: 10}}

	check := CheckMovement(gs, Position{X: -1, Y: 0})
	if check.Allowed || check.Cause != BlockedBoundary {
		t.Errorf("Expected boundary block, got allowed=%v cause=%s", check.Allowed, check.Cause)
	}

	check = CheckMovement(gs, Position{X: 2, Y: 2})
	if check.Allowed || check.Cause != BlockedWall {
		t.Errorf("Expected wall block, got allowed=%v cause=%s", check.Allowed, check.Cause)
	}

	check = CheckMovement(gs, Position{X: 3, Y: 1})
	if check.Allowed || check.Cause != BlockedForbidden {
		t.Errorf("Expected forbidden block, got allowed=%v cause=%s", check.Allowed, check.Cause)
	}

	check = CheckMovement(gs, Position{X: 1, Y: 1})
	if check.Allowed || check.Cause != BlockedEnemy {
		t.Errorf("Expected enemy block, got allowed=%v cause=%s", check.Allowed, check.Cause)
	}

	check = CheckMovement(gs, Position{X: 1, Y: 0})
	if !check.Allowed {
		t.Errorf("Expected open cell to be allowed, blocked by %s", check.Cause)
	}
}

func TestCheckEnemyMovementFootprint(t *testing.T) {
	gs := createTestState(t)
	ogre := &Enemy{ID: "ogre", Position: Position{X: 0, Y: 3}, Kind: EnemyLarge2x2, HP: 30, MaxHP: 30}
	gs.Enemies = []*Enemy{ogre}

	// Moving to (1,2) would put the footprint corner on the wall at (2,2)
	check := CheckEnemyMovement(gs, ogre, Position{X: 1, Y: 2})
	if check.Allowed || check.Cause != BlockedWall {
		t.Errorf("Expected footprint wall block, got allowed=%v cause=%s", check.Allowed, check.Cause)
	}

	// Moving to (3,3) keeps all four cells open
	check = CheckEnemyMovement(gs, ogre, Position{X: 3, Y: 3})
	if !check.Allowed {
		t.Errorf("Expected footprint move to be allowed, blocked by %s at (%d,%d)", check.Cause, check.Target.X, check.Target.Y)
	}

	// Moving to (4,3) would hang the footprint off the east edge
	check = CheckEnemyMovement(gs, ogre, Position{X: 4, Y: 3})
	if check.Allowed || check.Cause != BlockedBoundary {
		t.Errorf("Expected footprint boundary block, got allowed=%v cause=%s", check.Allowed, check.Cause)
	}
}

func TestCheckEnemyMovementCollisions(t *testing.T) {
	gs := createTestState(t)
	gs.Player.Position = Position{X: 1, Y: 4}
	chaser := &Enemy{ID: "chaser", Position: Position{X: 0, Y: 3}, Kind: EnemyNormal, HP: 10, MaxHP: 10}
	other := &Enemy{ID: "other", Position: Position{X: 0, Y: 4}, Kind: EnemyNormal, HP: 10, MaxHP: 10}
	gs.Enemies = []*Enemy{chaser, other}

	check := CheckEnemyMovement(gs, chaser, Position{X: 1, Y: 4})
	if check.Allowed || check.Cause != BlockedPlayer {
		t.Errorf("Expected player collision block, got allowed=%v cause=%s", check.Allowed, check.Cause)
	}

	check = CheckEnemyMovement(gs, chaser, Position{X: 0, Y: 4})
	if check.Allowed || check.Cause != BlockedEnemy {
		t.Errorf("Expected enemy collision block, got allowed=%v cause=%s", check.Allowed, check.Cause)
	}

	check = CheckEnemyMovement(gs, chaser, Position{X: 1, Y: 3})
	if !check.Allowed {
		t.Errorf("Expected open cell to be allowed, blocked by %s", check.Cause)
	}
}

func TestAttackTarget(t *testing.T) {
	gs := createTestState(t)
	ogre := &Enemy{ID: "ogre", Position: Position{X: 1, Y: 0}, Kind: EnemyLarge2x2, HP: 30, MaxHP: 30}
	gs.Enemies = []*Enemy{ogre}

	// Facing east from (0,0): the cell ahead is (1,0), part of the footprint
	target := AttackTarget(gs, gs.Player.Position, East)
	if target == nil || target.ID != "ogre" {
		t.Fatal("Expected attack facing east to resolve the ogre")
	}

	// Any footprint cell resolves, not just the top-left
	target = AttackTarget(gs, Position{X: 3, Y: 1}, West)
	if target == nil || target.ID != "ogre" {
		t.Fatal("Expected attack on a non-anchor footprint cell to resolve the ogre")
	}

	// Facing south from (0,0): (0,1) is empty
	if target := AttackTarget(gs, gs.Player.Position, South); target != nil {
		t.Errorf("Expected no target south, got %s", target.ID)
	}

	// Facing west from (0,0): out of bounds
	if target := AttackTarget(gs, gs.Player.Position, West); target != nil {
		t.Errorf("Expected no target out of bounds, got %s", target.ID)
	}
}

func TestHasLineOfSight(t *testing.T) {
	board, err := NewBoard(7, 7, []Position{{X: 3, Y: 3}}, []Position{{X: 3, Y: 5}})
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}

	// Straight line through the wall is occluded
	if HasLineOfSight(board, Position{X: 1, Y: 3}, Position{X: 5, Y: 3}) {
		t.Error("Expected wall at (3,3) to block sight along the row")
	}

	// Same row without obstruction
	if !HasLineOfSight(board, Position{X: 1, Y: 2}, Position{X: 5, Y: 2}) {
		t.Error("Expected clear sight along an open row")
	}

	// Forbidden cells block movement but not sight
	if !HasLineOfSight(board, Position{X: 1, Y: 5}, Position{X: 5, Y: 5}) {
		t.Error("Expected forbidden cell not to block sight")
	}

	// Adjacent cells always see each other
	if !HasLineOfSight(board, Position{X: 3, Y: 2}, Position{X: 3, Y: 3}) {
		t.Error("Expected adjacent cells to have sight")
	}
}

func TestCanReach(t *testing.T) {
	// Wall across the middle row with a single gap at x=4
	walls := []Position{{X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}}
	board, err := NewBoard(5, 5, walls, nil)
	if err != nil {
		t.Fatalf("Failed to create board: %v", err)
	}
	gs := &GameState{
		Board:  board,
		Player: &Character{Position: Position{X: 0, Y: 0}},
		Status: StatusPlaying,
	}

	if !CanReach(gs, Position{X: 0, Y: 0}, Position{X: 0, Y: 4}, 25) {
		t.Error("Expected goal reachable through the gap at (4,2)")
	}
	if CanReach(gs, Position{X: 0, Y: 0}, Position{X: 0, Y: 4}, 4) {
		t.Error("Expected goal unreachable within 4 steps")
	}

	// Seal the gap with an enemy footprint
	gs.Enemies = []*Enemy{{ID: "blocker", Position: Position{X: 4, Y: 2}, Kind: EnemyNormal, HP: 10, MaxHP: 10}}
	if CanReach(gs, Position{X: 0, Y: 0}, Position{X: 0, Y: 4}, 25) {
		t.Error("Expected goal unreachable with the gap sealed")
	}
}
