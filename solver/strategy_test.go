package main

import "testing"

func testState() *GameState {
	return &GameState{
		StageID: "test",
		Board: &Board{
			Width:  5,
			Height: 5,
			Walls:  []Position{{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}},
		},
		Player: &Character{
			Position: Position{X: 0, Y: 0},
			Facing:   East,
			HP:       100,
			MaxHP:    100,
		},
		Goal:              &Position{X: 4, Y: 0},
		Status:            "playing",
		VictoryConditions: []string{"reach_goal"},
	}
}

func TestTurnCommand(t *testing.T) {
	tests := []struct {
		facing   string
		desired  string
		expected string
	}{
		{East, East, "move"},
		{North, East, "turn_right"},
		{East, North, "turn_left"},
		{North, South, "turn_right"},
		{West, South, "turn_left"},
	}

	for _, test := range tests {
		if got := turnCommand(test.facing, test.desired); got != test.expected {
			t.Errorf("turnCommand(%s, %s) = %s, expected %s",
				test.facing, test.desired, got, test.expected)
		}
	}
}

func TestDirectionOf(t *testing.T) {
	from := Position{X: 2, Y: 2}

	if dir := directionOf(from, Position{X: 2, Y: 1}); dir != North {
		t.Errorf("Expected north, got %s", dir)
	}
	if dir := directionOf(from, Position{X: 3, Y: 2}); dir != East {
		t.Errorf("Expected east, got %s", dir)
	}
	if dir := directionOf(from, Position{X: 4, Y: 4}); dir != "" {
		t.Errorf("Expected empty for non-adjacent cell, got %s", dir)
	}
}

func TestFootprint(t *testing.T) {
	small := &Enemy{ID: "a", Position: Position{X: 1, Y: 1}, Kind: "normal"}
	if cells := footprint(small); len(cells) != 1 {
		t.Errorf("Expected 1 cell for normal enemy, got %d", len(cells))
	}

	large := &Enemy{ID: "b", Position: Position{X: 1, Y: 1}, Kind: "large2x2"}
	cells := footprint(large)
	if len(cells) != 4 {
		t.Fatalf("Expected 4 cells for 2x2 enemy, got %d", len(cells))
	}
	if cells[3] != (Position{X: 2, Y: 2}) {
		t.Errorf("Expected footprint to cover (2,2), got %v", cells[3])
	}
}

func TestFindPath_AroundWall(t *testing.T) {
	state := testState()
	strategy := NewStrategy(state)

	// The wall column at x=2 spans y 0..2; the path must dip below it
	path := strategy.findPath(state, Position{X: 0, Y: 0}, Position{X: 4, Y: 0})
	if path == nil {
		t.Fatal("Expected a path around the wall")
	}

	if path[0] != (Position{X: 0, Y: 0}) || path[len(path)-1] != (Position{X: 4, Y: 0}) {
		t.Errorf("Path endpoints wrong: %v", path)
	}

	for _, pos := range path {
		if pos.X == 2 && pos.Y <= 2 {
			t.Errorf("Path crosses wall at %v", pos)
		}
	}
}

func TestFindPath_Unreachable(t *testing.T) {
	state := testState()
	// Seal the gap below the wall
	state.Board.Walls = append(state.Board.Walls, Position{X: 2, Y: 3}, Position{X: 2, Y: 4})
	strategy := NewStrategy(state)

	path := strategy.findPath(state, Position{X: 0, Y: 0}, Position{X: 4, Y: 0})
	if path != nil {
		t.Errorf("Expected no path through sealed wall, got %v", path)
	}
}

func TestNextAction_PickupOnItem(t *testing.T) {
	state := testState()
	state.Items = []*Item{
		{ID: "potion", Position: Position{X: 0, Y: 0}, Kind: "beneficial"},
	}
	strategy := NewStrategy(state)

	if action := strategy.NextAction(state); action != "pickup" {
		t.Errorf("Expected pickup on beneficial item, got %s", action)
	}
}

func TestNextAction_DisposeOnBomb(t *testing.T) {
	state := testState()
	state.Items = []*Item{
		{ID: "mine", Position: Position{X: 0, Y: 0}, Kind: "bomb"},
	}
	strategy := NewStrategy(state)

	if action := strategy.NextAction(state); action != "dispose" {
		t.Errorf("Expected dispose on bomb, got %s", action)
	}
}

func TestNextAction_AttackAdjacentEnemy(t *testing.T) {
	state := testState()
	state.VictoryConditions = []string{"defeat_all_enemies"}
	state.Goal = nil
	state.Enemies = []*Enemy{
		{ID: "guard", Position: Position{X: 1, Y: 0}, HP: 20, Kind: "normal", Behavior: "static"},
	}
	strategy := NewStrategy(state)

	// Facing east with the enemy directly ahead
	if action := strategy.NextAction(state); action != "attack" {
		t.Errorf("Expected attack with enemy ahead, got %s", action)
	}

	// Facing away: should turn toward the enemy, not walk off
	state.Player.Facing = North
	action := strategy.NextAction(state)
	if action != "turn_right" {
		t.Errorf("Expected turn_right to face enemy, got %s", action)
	}
}

func TestNextAction_MoveTowardGoal(t *testing.T) {
	state := testState()
	strategy := NewStrategy(state)

	// Path around the wall starts by heading south or east; facing east the
	// first open step from (0,0) is east to (1,0)
	action := strategy.NextAction(state)
	if action != "move" {
		t.Errorf("Expected move toward goal, got %s", action)
	}
}

func TestNextAction_CollectBeforeGoal(t *testing.T) {
	state := testState()
	state.VictoryConditions = []string{"collect_all_items", "reach_goal"}
	state.Items = []*Item{
		{ID: "gem", Position: Position{X: 0, Y: 2}, Kind: "beneficial"},
	}
	strategy := NewStrategy(state)

	// The gem is due south; expect a turn toward it rather than a move east
	action := strategy.NextAction(state)
	if action != "turn_right" {
		t.Errorf("Expected turn_right toward item, got %s", action)
	}
}

func TestNewStrategy_ImplicitVictory(t *testing.T) {
	state := testState()
	state.VictoryConditions = nil
	strategy := NewStrategy(state)
	if !strategy.needGoal {
		t.Error("Expected implicit reach-goal objective when a goal exists")
	}

	state.Goal = nil
	strategy = NewStrategy(state)
	if !strategy.needDefeat {
		t.Error("Expected implicit defeat objective without a goal")
	}
}
