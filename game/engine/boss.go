package engine

import "fmt"

// stepRageBoss drives the countdown boss. It stays passive until an attack
// drops it below its HP threshold, then counts down a fixed number of turns
// before detonating an area attack around its footprint. After detonating it
// returns to dormant and can be re-triggered by another qualifying hit.
func stepRageBoss(gs *GameState, e *Enemy, rageLog *[]string) []EnemyEvent {
	rage := e.Rage
	if rage == nil {
		return nil
	}

	var events []EnemyEvent

	switch rage.Phase {
	case RageCountdown:
		rage.Countdown--
		if rage.Countdown > 0 {
			events = append(events, EnemyEvent{
				EnemyID: e.ID,
				Action:  EnemyCountdown,
				Message: fmt.Sprintf("%s is building up a devastating attack (%d turns left)", e.ID, rage.Countdown),
			})
			break
		}
		events = append(events, detonate(gs, e, rage))

	default:
		// Dormant: trigger on a fresh hit that left HP strictly below the
		// threshold percentage of max. A hit to exactly the threshold does
		// not wake the boss.
		freshlyHit := rage.PrevHP > e.HP
		belowThreshold := e.HP*100 < e.MaxHP*rage.ThresholdPct
		if freshlyHit && belowThreshold {
			rage.Phase = RageCountdown
			rage.Countdown = rage.CountdownTurns
			e.Alerted = true
			*rageLog = append(*rageLog, e.ID)
			events = append(events, EnemyEvent{
				EnemyID: e.ID,
				Action:  EnemyRaged,
				Message: fmt.Sprintf("%s entered a rage! Area attack in %d turns", e.ID, rage.Countdown),
			})
		}
	}

	rage.PrevHP = e.HP
	return events
}

// detonate performs the area attack: every cell of the footprint's bounding
// box expanded by the blast radius. A player caught in the blast is killed
// outright.
func detonate(gs *GameState, e *Enemy, rage *RageState) EnemyEvent {
	w, h := e.Kind.FootprintSize()
	minX := e.Position.X - rage.Radius
	minY := e.Position.Y - rage.Radius
	maxX := e.Position.X + w - 1 + rage.Radius
	maxY := e.Position.Y + h - 1 + rage.Radius

	rage.Phase = RageDormant
	rage.Countdown = 0

	p := gs.Player.Position
	if p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY {
		gs.Player.HP = 0
		return EnemyEvent{
			EnemyID:        e.ID,
			Action:         EnemyAreaAttack,
			Damage:         gs.Player.MaxHP,
			PlayerDefeated: true,
			Message:        fmt.Sprintf("%s unleashed its area attack and caught the player", e.ID),
		}
	}
	return EnemyEvent{
		EnemyID: e.ID,
		Action:  EnemyAreaAttack,
		Message: fmt.Sprintf("%s unleashed its area attack but hit nothing", e.ID),
	}
}

// stepHunter drives the conditional boss. It watches the order in which its
// watched bosses enter rage: as long as the observed order is a prefix of the
// expected order it stays put, otherwise it hunts the player and kills on
// contact. Its stop condition retires it either to dormancy or off the board.
func stepHunter(gs *GameState, e *Enemy, rageLog []string) []EnemyEvent {
	hunt := e.Hunt
	if hunt == nil || hunt.Phase == HuntDormant {
		return nil
	}

	if huntStopSatisfied(gs, hunt) {
		if hunt.DormantOnStop {
			hunt.Phase = HuntDormant
			e.Alerted = false
			return []EnemyEvent{{
				EnemyID: e.ID,
				Action:  EnemyCalmed,
				Message: fmt.Sprintf("%s went dormant", e.ID),
			}}
		}
		gs.RemoveEnemy(e.ID)
		return []EnemyEvent{{
			EnemyID: e.ID,
			Action:  EnemyEliminated,
			Message: fmt.Sprintf("%s vanished from the board", e.ID),
		}}
	}

	var events []EnemyEvent

	if hunt.Phase == HuntMonitoring && orderViolated(rageLog, hunt) {
		hunt.Phase = HuntHunting
		e.Alerted = true
		events = append(events, EnemyEvent{
			EnemyID: e.ID,
			Action:  EnemyHunting,
			Message: fmt.Sprintf("%s sensed the wrong awakening order and is hunting the player", e.ID),
		})
	}

	if hunt.Phase != HuntHunting {
		return events
	}

	if adjacentToPlayer(gs, e) {
		from := nearestCell(e, gs.Player.Position)
		e.Facing = from.DirectionToward(gs.Player.Position)
		gs.Player.HP = 0
		return append(events, EnemyEvent{
			EnemyID:        e.ID,
			Action:         EnemyAttacked,
			Damage:         gs.Player.MaxHP,
			PlayerDefeated: true,
			Message:        fmt.Sprintf("%s caught the player", e.ID),
		})
	}

	if event := chaseStep(gs, e, gs.Player.Position); event != nil {
		events = append(events, *event)
	}
	return events
}

// huntStopSatisfied reports whether the hunter's retire condition holds:
// either its designated boss is defeated, or every watched boss is gone.
func huntStopSatisfied(gs *GameState, hunt *HuntState) bool {
	if hunt.StopOnDefeat != "" {
		return gs.EnemyByID(hunt.StopOnDefeat) == nil
	}
	if len(hunt.Watched) == 0 {
		return false
	}
	for _, id := range hunt.Watched {
		if gs.EnemyByID(id) != nil {
			return false
		}
	}
	return true
}

// orderViolated reports whether the rages observed so far (restricted to the
// watched bosses) are no longer a prefix of the expected order.
func orderViolated(rageLog []string, hunt *HuntState) bool {
	watched := make(map[string]bool, len(hunt.Watched))
	for _, id := range hunt.Watched {
		watched[id] = true
	}

	var observed []string
	for _, id := range rageLog {
		if len(watched) == 0 || watched[id] {
			observed = append(observed, id)
		}
	}

	if len(observed) > len(hunt.ExpectedOrder) {
		return true
	}
	for i, id := range observed {
		if hunt.ExpectedOrder[i] != id {
			return true
		}
	}
	return false
}
