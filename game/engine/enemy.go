package engine

import "fmt"

// EnemyEvent describes one thing an enemy did during the AI pass of a turn
type EnemyEvent struct {
	EnemyID        string `json:"enemy_id"`
	Action         string `json:"action"`
	Message        string `json:"message"`
	Damage         int    `json:"damage,omitempty"`
	PlayerDefeated bool   `json:"player_defeated,omitempty"`
}

// Enemy event action names
const (
	EnemyTurned     = "turned"
	EnemyMoved      = "moved"
	EnemyAttacked   = "attacked"
	EnemyAlerted    = "alerted"
	EnemyCalmed     = "calmed"
	EnemyRaged      = "raged"
	EnemyCountdown  = "countdown"
	EnemyAreaAttack = "area_attack"
	EnemyHunting    = "hunting"
	EnemyEliminated = "eliminated"
)

// stepEnemies runs one AI turn for every live enemy in collection order.
// The pass stops as soon as the player dies; remaining enemies do not act.
// rageLog accumulates boss rage activations across the whole game and is
// observed by hunter bosses.
func stepEnemies(gs *GameState, rageLog *[]string) []EnemyEvent {
	var events []EnemyEvent

	// Snapshot the slice: hunters can remove themselves mid-pass.
	enemies := append([]*Enemy(nil), gs.Enemies...)
	for _, e := range enemies {
		if !e.Alive() || gs.EnemyByID(e.ID) == nil {
			continue
		}

		switch e.Behavior {
		case BehaviorRage:
			events = append(events, stepRageBoss(gs, e, rageLog)...)
		case BehaviorHunter:
			events = append(events, stepHunter(gs, e, *rageLog)...)
		case BehaviorStatic:
			events = append(events, stepStatic(gs, e)...)
		default:
			events = append(events, stepPatrol(gs, e)...)
		}

		if !gs.Player.Alive() {
			break
		}
	}

	return events
}

// updateAlert refreshes the enemy's awareness of the player. Sight resets the
// cooldown and records the last known position; losing sight decrements the
// cooldown until the enemy calms down.
func updateAlert(gs *GameState, e *Enemy) *EnemyEvent {
	seen := false
	for _, cell := range e.Cells() {
		if HasLineOfSight(gs.Board, cell, gs.Player.Position) {
			seen = true
			break
		}
	}

	if seen {
		pos := gs.Player.Position
		e.LastKnownPlayerPos = &pos
		e.AlertCooldown = DefaultAlertCooldown
		if !e.Alerted {
			e.Alerted = true
			return &EnemyEvent{
				EnemyID: e.ID,
				Action:  EnemyAlerted,
				Message: fmt.Sprintf("%s spotted the player at (%d,%d)", e.ID, pos.X, pos.Y),
			}
		}
		return nil
	}

	if e.Alerted {
		e.AlertCooldown--
		if e.AlertCooldown <= 0 {
			e.Alerted = false
			e.LastKnownPlayerPos = nil
			return &EnemyEvent{
				EnemyID: e.ID,
				Action:  EnemyCalmed,
				Message: fmt.Sprintf("%s lost track of the player", e.ID),
			}
		}
	}
	return nil
}

// adjacentToPlayer reports whether any footprint cell is orthogonally
// adjacent to the player.
func adjacentToPlayer(gs *GameState, e *Enemy) bool {
	for _, cell := range e.Cells() {
		if cell.ManhattanDistance(gs.Player.Position) == 1 {
			return true
		}
	}
	return false
}

// nearestCell returns the footprint cell closest to p
func nearestCell(e *Enemy, p Position) Position {
	best := e.Position
	bestDist := best.ManhattanDistance(p)
	for _, cell := range e.Cells() {
		if d := cell.ManhattanDistance(p); d < bestDist {
			best = cell
			bestDist = d
		}
	}
	return best
}

// engagePlayer handles an adjacent enemy. A misfaced enemy spends its whole
// turn rotating toward the player; the strike only lands on a turn where it
// already faces them.
func engagePlayer(gs *GameState, e *Enemy) []EnemyEvent {
	from := nearestCell(e, gs.Player.Position)
	desired := from.DirectionToward(gs.Player.Position)
	if e.Facing != desired {
		e.Facing = desired
		return []EnemyEvent{{
			EnemyID: e.ID,
			Action:  EnemyTurned,
			Message: fmt.Sprintf("%s turned to face %s", e.ID, desired),
		}}
	}

	gs.Player.ApplyDamage(e.AttackPower)
	event := EnemyEvent{
		EnemyID: e.ID,
		Action:  EnemyAttacked,
		Damage:  e.AttackPower,
	}
	if gs.Player.Alive() {
		event.Message = fmt.Sprintf("%s attacked the player for %d damage (%d/%d HP left)", e.ID, e.AttackPower, gs.Player.HP, gs.Player.MaxHP)
	} else {
		event.PlayerDefeated = true
		event.Message = fmt.Sprintf("%s attacked the player for %d damage and defeated them", e.ID, e.AttackPower)
	}
	return []EnemyEvent{event}
}

// chaseStep moves the enemy one cell toward the target, preferring the
// primary axis and falling back to the perpendicular axes, then the
// remaining direction. A successful move also sets the facing.
func chaseStep(gs *GameState, e *Enemy, target Position) *EnemyEvent {
	primary := nearestCell(e, target).DirectionToward(target)
	candidates := []Direction{primary, primary.TurnLeft(), primary.TurnRight(), primary.TurnLeft().TurnLeft()}

	for _, dir := range candidates {
		next := e.Position.Step(dir)
		if check := CheckEnemyMovement(gs, e, next); check.Allowed {
			e.Position = next
			e.Facing = dir
			return &EnemyEvent{
				EnemyID: e.ID,
				Action:  EnemyMoved,
				Message: fmt.Sprintf("%s moved %s to (%d,%d)", e.ID, dir, next.X, next.Y),
			}
		}
	}
	return nil
}

// stepPatrol drives the default enemy: walk the waypoint loop until the
// player is spotted, then chase and strike when adjacent.
func stepPatrol(gs *GameState, e *Enemy) []EnemyEvent {
	var events []EnemyEvent
	if event := updateAlert(gs, e); event != nil {
		events = append(events, *event)
	}

	if e.Alerted {
		if adjacentToPlayer(gs, e) {
			return append(events, engagePlayer(gs, e)...)
		}
		target := gs.Player.Position
		if e.LastKnownPlayerPos != nil {
			target = *e.LastKnownPlayerPos
		}
		if event := chaseStep(gs, e, target); event != nil {
			events = append(events, *event)
		}
		return events
	}

	if event := patrolStep(gs, e); event != nil {
		events = append(events, *event)
	}
	return events
}

// patrolStep advances the enemy along its waypoint loop. Turning and moving
// take separate turns: a misfaced enemy spends the turn rotating toward the
// waypoint and moves on the next one.
func patrolStep(gs *GameState, e *Enemy) *EnemyEvent {
	if len(e.Waypoints) == 0 {
		return nil
	}

	if e.WaypointIndex >= len(e.Waypoints) {
		e.WaypointIndex = 0
	}
	waypoint := e.Waypoints[e.WaypointIndex]
	if e.Position == waypoint {
		e.WaypointIndex = (e.WaypointIndex + 1) % len(e.Waypoints)
		waypoint = e.Waypoints[e.WaypointIndex]
		if e.Position == waypoint {
			return nil
		}
	}

	desired := e.Position.DirectionToward(waypoint)
	if e.Facing != desired {
		if desired == e.Facing.TurnLeft() {
			e.Facing = e.Facing.TurnLeft()
		} else {
			e.Facing = e.Facing.TurnRight()
		}
		return &EnemyEvent{
			EnemyID: e.ID,
			Action:  EnemyTurned,
			Message: fmt.Sprintf("%s turned to face %s", e.ID, e.Facing),
		}
	}

	next := e.Position.Step(e.Facing)
	if check := CheckEnemyMovement(gs, e, next); !check.Allowed {
		return nil
	}
	e.Position = next
	return &EnemyEvent{
		EnemyID: e.ID,
		Action:  EnemyMoved,
		Message: fmt.Sprintf("%s moved %s to (%d,%d)", e.ID, e.Facing, next.X, next.Y),
	}
}

// stepStatic drives a stationary guard: it tracks the player and fights back
// when adjacent but never leaves its post.
func stepStatic(gs *GameState, e *Enemy) []EnemyEvent {
	var events []EnemyEvent
	if event := updateAlert(gs, e); event != nil {
		events = append(events, *event)
	}
	if adjacentToPlayer(gs, e) {
		events = append(events, engagePlayer(gs, e)...)
	}
	return events
}
