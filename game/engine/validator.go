package engine

// BlockCause identifies why a movement was rejected
type BlockCause string

const (
	BlockedNone      BlockCause = ""
	BlockedBoundary  BlockCause = "boundary"
	BlockedWall      BlockCause = "wall"
	BlockedForbidden BlockCause = "forbidden"
	BlockedEnemy     BlockCause = "enemy"
	BlockedPlayer    BlockCause = "player"
)

// MovementCheck is the structured result of a movement legality query
type MovementCheck struct {
	Allowed bool       `json:"allowed"`
	Cause   BlockCause `json:"cause,omitempty"`
	Target  Position   `json:"target"`
}

// checkCell applies the geometry checks shared by every mover: bounds,
// walls, forbidden cells.
func checkCell(board *Board, target Position) MovementCheck {
	if !board.InBounds(target) {
		return MovementCheck{Cause: BlockedBoundary, Target: target}
	}
	if board.IsWall(target) {
		return MovementCheck{Cause: BlockedWall, Target: target}
	}
	if board.IsForbidden(target) {
		return MovementCheck{Cause: BlockedForbidden, Target: target}
	}
	return MovementCheck{Allowed: true, Target: target}
}

// CheckMovement reports whether the player may enter the target cell. The
// cell must be in bounds, not a wall, not forbidden, and outside every live
// enemy's footprint.
func CheckMovement(gs *GameState, target Position) MovementCheck {
	if check := checkCell(gs.Board, target); !check.Allowed {
		return check
	}
	if gs.EnemyAt(target) != nil {
		return MovementCheck{Cause: BlockedEnemy, Target: target}
	}
	return MovementCheck{Allowed: true, Target: target}
}

// CheckEnemyMovement reports whether the enemy may occupy the candidate
// top-left position. Every footprint cell must independently pass the
// geometry checks, and the footprint must not collide with the player or
// another live enemy.
func CheckEnemyMovement(gs *GameState, enemy *Enemy, target Position) MovementCheck {
	for _, cell := range enemy.CellsAt(target) {
		if check := checkCell(gs.Board, cell); !check.Allowed {
			return check
		}
		if cell == gs.Player.Position {
			return MovementCheck{Cause: BlockedPlayer, Target: cell}
		}
		for _, other := range gs.Enemies {
			if other.ID == enemy.ID {
				continue
			}
			if other.OccupiesCell(cell) {
				return MovementCheck{Cause: BlockedEnemy, Target: cell}
			}
		}
	}
	return MovementCheck{Allowed: true, Target: target}
}

// AttackTarget resolves the single cell directly ahead of the attacker and
// returns the live enemy occupying it, or nil when the cell is out of bounds
// or empty. Multi-cell enemies are hit through any occupied cell.
func AttackTarget(gs *GameState, from Position, facing Direction) *Enemy {
	target := from.Step(facing)
	if !gs.Board.InBounds(target) {
		return nil
	}
	return gs.EnemyAt(target)
}

// HasLineOfSight reports whether the straight line between two cells is free
// of wall occlusion. Forbidden cells block movement but not sight.
func HasLineOfSight(board *Board, from, to Position) bool {
	// Integer line walk: sample the segment at every intermediate cell.
	dx := to.X - from.X
	dy := to.Y - from.Y
	steps := abs(dx)
	if abs(dy) > steps {
		steps = abs(dy)
	}
	if steps == 0 {
		return true
	}
	for i := 1; i < steps; i++ {
		cell := Position{
			X: from.X + (dx*i+signedHalf(dx, steps))/steps,
			Y: from.Y + (dy*i+signedHalf(dy, steps))/steps,
		}
		if board.IsWall(cell) {
			return false
		}
	}
	return true
}

// signedHalf rounds the line walk toward the nearest cell instead of
// truncating toward zero.
func signedHalf(delta, steps int) int {
	if delta < 0 {
		return -steps / 2
	}
	return steps / 2
}

// CanReach answers a goal-reachability query with a breadth-first search
// over legal single-step player moves, bounded by maxSteps (non-positive
// means unbounded). Enemies and walls block traversal as they stand in the
// snapshot; the search is not replanned mid-query.
func CanReach(gs *GameState, from, to Position, maxSteps int) bool {
	if from == to {
		return true
	}
	if !gs.Board.InBounds(from) || !gs.Board.InBounds(to) {
		return false
	}

	type node struct {
		pos   Position
		depth int
	}

	visited := map[Position]bool{from: true}
	queue := []node{{pos: from}}
	directions := []Direction{North, East, South, West}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if maxSteps > 0 && current.depth >= maxSteps {
			continue
		}

		for _, dir := range directions {
			next := current.pos.Step(dir)
			if visited[next] {
				continue
			}
			if !CheckMovement(gs, next).Allowed {
				continue
			}
			if next == to {
				return true
			}
			visited[next] = true
			queue = append(queue, node{pos: next, depth: current.depth + 1})
		}
	}

	return false
}
