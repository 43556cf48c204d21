package main

import "log"

// Directions, mirroring the server's facing strings.
const (
	North = "north"
	East  = "east"
	South = "south"
	West  = "west"
)

// step returns the cell one move away in the given direction.
func step(p Position, dir string) Position {
	switch dir {
	case North:
		return Position{X: p.X, Y: p.Y - 1}
	case East:
		return Position{X: p.X + 1, Y: p.Y}
	case South:
		return Position{X: p.X, Y: p.Y + 1}
	case West:
		return Position{X: p.X - 1, Y: p.Y}
	}
	return p
}

// directionOf returns the facing that moves from one cell to an adjacent one.
func directionOf(from, to Position) string {
	switch {
	case to.X == from.X && to.Y == from.Y-1:
		return North
	case to.X == from.X+1 && to.Y == from.Y:
		return East
	case to.X == from.X && to.Y == from.Y+1:
		return South
	case to.X == from.X-1 && to.Y == from.Y:
		return West
	}
	return ""
}

// turnCommand returns the single command that rotates the player from the
// current facing toward the desired one, or "move" when already aligned.
// Opposite facings take two turns; either turn direction works, so turn_right.
func turnCommand(facing, desired string) string {
	if facing == desired {
		return "move"
	}

	clockwise := map[string]string{North: East, East: South, South: West, West: North}
	if clockwise[facing] == desired {
		return "turn_right"
	}
	if clockwise[desired] == facing {
		return "turn_left"
	}
	return "turn_right"
}

// footprint expands an enemy's top-left position into every cell it covers.
func footprint(e *Enemy) []Position {
	w, h := 1, 1
	switch e.Kind {
	case "large2x2":
		w, h = 2, 2
	case "large3x3":
		w, h = 3, 3
	case "special2x3":
		w, h = 2, 3
	}

	cells := make([]Position, 0, w*h)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			cells = append(cells, Position{X: e.Position.X + dx, Y: e.Position.Y + dy})
		}
	}
	return cells
}

// Strategy plans one command at a time from the latest game state. The board
// geometry never changes, so walls and forbidden cells are indexed once.
type Strategy struct {
	blocked map[Position]bool

	needCollect bool
	needDefeat  bool
	needGoal    bool
}

func NewStrategy(state *GameState) *Strategy {
	s := &Strategy{
		blocked: make(map[Position]bool),
	}

	for _, w := range state.Board.Walls {
		s.blocked[w] = true
	}
	for _, f := range state.Board.Forbidden {
		s.blocked[f] = true
	}

	if len(state.VictoryConditions) == 0 {
		// Implicit victory: the goal when one exists, otherwise a clear board
		if state.Goal != nil {
			s.needGoal = true
		} else {
			s.needDefeat = true
		}
	}
	for _, cond := range state.VictoryConditions {
		switch cond {
		case "reach_goal":
			s.needGoal = true
		case "defeat_all_enemies":
			s.needDefeat = true
		case "collect_all_items":
			s.needCollect = true
		}
	}

	log.Printf("Strategy: goal=%v defeat=%v collect=%v", s.needGoal, s.needDefeat, s.needCollect)
	return s
}

// NextAction picks the next command for the current state. Empty string
// means the strategy sees nothing useful to do.
func (s *Strategy) NextAction(state *GameState) string {
	player := state.Player.Position

	// Items under our feet come first: grab the good ones, defuse the rest
	for _, item := range state.Items {
		if item.Position != player {
			continue
		}
		if item.Kind == "beneficial" {
			return "pickup"
		}
		return "dispose"
	}

	// An enemy directly ahead is attacked when fighting is on the menu
	if s.needDefeat || s.enemyBlocksEverything(state) {
		ahead := step(player, state.Player.Facing)
		if s.enemyAt(state, ahead) != nil {
			return "attack"
		}

		// Face an adjacent enemy before walking away from it
		for _, dir := range []string{North, East, South, West} {
			if s.enemyAt(state, step(player, dir)) != nil {
				return turnCommand(state.Player.Facing, dir)
			}
		}
	}

	target, ok := s.chooseTarget(state)
	if !ok {
		return ""
	}

	path := s.findPath(state, player, target)
	if len(path) < 2 {
		// No open path: fight through the nearest enemy instead
		return s.approachNearestEnemy(state)
	}

	desired := directionOf(player, path[1])
	return turnCommand(state.Player.Facing, desired)
}

// chooseTarget picks the cell the player should walk toward, in objective
// priority order: remaining beneficial items, then enemies, then the goal.
func (s *Strategy) chooseTarget(state *GameState) (Position, bool) {
	player := state.Player.Position

	if s.needCollect {
		if target, ok := s.nearestItem(state, player); ok {
			return target, true
		}
	}

	if s.needDefeat && len(state.Enemies) > 0 {
		if target, ok := s.nearestAttackCell(state, player); ok {
			return target, true
		}
	}

	if s.needGoal && state.Goal != nil {
		return *state.Goal, true
	}

	// Items are worth detouring for even when not required
	if target, ok := s.nearestItem(state, player); ok {
		return target, true
	}

	return Position{}, false
}

func (s *Strategy) nearestItem(state *GameState, from Position) (Position, bool) {
	best := Position{}
	bestLen := -1
	for _, item := range state.Items {
		if item.Kind != "beneficial" {
			continue
		}
		path := s.findPath(state, from, item.Position)
		if len(path) < 2 {
			continue
		}
		if bestLen == -1 || len(path) < bestLen {
			best = item.Position
			bestLen = len(path)
		}
	}
	return best, bestLen != -1
}

// nearestAttackCell finds the closest open cell adjacent to any enemy
// footprint cell, from which the player can strike.
func (s *Strategy) nearestAttackCell(state *GameState, from Position) (Position, bool) {
	best := Position{}
	bestLen := -1
	for _, enemy := range state.Enemies {
		for _, cell := range footprint(enemy) {
			for _, dir := range []string{North, East, South, West} {
				candidate := step(cell, dir)
				if !s.walkable(state, candidate) && candidate != from {
					continue
				}
				path := s.findPath(state, from, candidate)
				if candidate != from && len(path) < 2 {
					continue
				}
				if bestLen == -1 || len(path) < bestLen {
					best = candidate
					bestLen = len(path)
				}
			}
		}
	}
	return best, bestLen != -1
}

// approachNearestEnemy is the fallback when every path is sealed by enemy
// bodies: walk at the closest one and attack through it.
func (s *Strategy) approachNearestEnemy(state *GameState) string {
	player := state.Player.Position

	if target, ok := s.nearestAttackCell(state, player); ok {
		if target == player {
			// Already adjacent, face the enemy
			for _, dir := range []string{North, East, South, West} {
				if s.enemyAt(state, step(player, dir)) != nil {
					return turnCommand(state.Player.Facing, dir)
				}
			}
		}
		path := s.findPath(state, player, target)
		if len(path) >= 2 {
			return turnCommand(state.Player.Facing, directionOf(player, path[1]))
		}
	}
	return ""
}

// enemyBlocksEverything reports whether the current objective is unreachable
// while any enemy is still standing; the solver then switches to fighting.
func (s *Strategy) enemyBlocksEverything(state *GameState) bool {
	if len(state.Enemies) == 0 {
		return false
	}
	target, ok := s.chooseTarget(state)
	if !ok {
		return false
	}
	return len(s.findPath(state, state.Player.Position, target)) < 2
}

func (s *Strategy) enemyAt(state *GameState, pos Position) *Enemy {
	for _, enemy := range state.Enemies {
		for _, cell := range footprint(enemy) {
			if cell == pos {
				return enemy
			}
		}
	}
	return nil
}

func (s *Strategy) walkable(state *GameState, pos Position) bool {
	if pos.X < 0 || pos.Y < 0 || pos.X >= state.Board.Width || pos.Y >= state.Board.Height {
		return false
	}
	if s.blocked[pos] {
		return false
	}
	return s.enemyAt(state, pos) == nil
}

// findPath runs a breadth-first search from one cell to another over open
// cells. The returned path includes both endpoints; nil means unreachable.
func (s *Strategy) findPath(state *GameState, from, to Position) []Position {
	if from == to {
		return []Position{from}
	}

	prev := map[Position]Position{from: from}
	queue := []Position{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dir := range []string{North, East, South, West} {
			next := step(current, dir)
			if _, seen := prev[next]; seen {
				continue
			}
			if !s.walkable(state, next) {
				continue
			}
			prev[next] = current
			if next == to {
				return reconstruct(prev, from, to)
			}
			queue = append(queue, next)
		}
	}

	return nil
}

func reconstruct(prev map[Position]Position, from, to Position) []Position {
	path := []Position{to}
	for current := to; current != from; {
		current = prev[current]
		path = append([]Position{current}, path...)
	}
	return path
}
