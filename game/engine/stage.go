package engine

import (
	"errors"
	"fmt"
)

// Default player stats applied when a stage leaves them unset
const (
	DefaultPlayerHP          = 100
	DefaultPlayerAttackPower = 10
	DefaultEnemyHP           = 20
	DefaultEnemyAttackPower  = 5
)

var ErrInvalidStage = errors.New("invalid stage")

// Stage is the declarative definition of one level. It is loaded from JSON
// or YAML files and compiled into a GameState by BuildGameState.
type Stage struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Board   BoardSpec   `json:"board" yaml:"board"`
	Player  PlayerSpec  `json:"player" yaml:"player"`
	Enemies []EnemySpec `json:"enemies,omitempty" yaml:"enemies,omitempty"`
	Items   []ItemSpec  `json:"items,omitempty" yaml:"items,omitempty"`

	Goal              *Position          `json:"goal,omitempty" yaml:"goal,omitempty"`
	MaxTurns          int                `json:"max_turns,omitempty" yaml:"max_turns,omitempty"`
	VictoryConditions []VictoryCondition `json:"victory_conditions,omitempty" yaml:"victory_conditions,omitempty"`
}

// BoardSpec is the stage's grid geometry
type BoardSpec struct {
	Width     int        `json:"width" yaml:"width"`
	Height    int        `json:"height" yaml:"height"`
	Walls     []Position `json:"walls,omitempty" yaml:"walls,omitempty"`
	Forbidden []Position `json:"forbidden,omitempty" yaml:"forbidden,omitempty"`
}

// PlayerSpec is the stage's starting player definition
type PlayerSpec struct {
	Position    Position  `json:"position" yaml:"position"`
	Facing      Direction `json:"facing,omitempty" yaml:"facing,omitempty"`
	HP          int       `json:"hp,omitempty" yaml:"hp,omitempty"`
	AttackPower int       `json:"attack_power,omitempty" yaml:"attack_power,omitempty"`
}

// EnemySpec is one enemy definition within a stage
type EnemySpec struct {
	ID          string        `json:"id" yaml:"id"`
	Position    Position      `json:"position" yaml:"position"`
	Facing      Direction     `json:"facing,omitempty" yaml:"facing,omitempty"`
	HP          int           `json:"hp,omitempty" yaml:"hp,omitempty"`
	AttackPower int           `json:"attack_power,omitempty" yaml:"attack_power,omitempty"`
	Kind        EnemyKind     `json:"kind,omitempty" yaml:"kind,omitempty"`
	Behavior    EnemyBehavior `json:"behavior,omitempty" yaml:"behavior,omitempty"`

	Waypoints []Position `json:"waypoints,omitempty" yaml:"waypoints,omitempty"`

	// Rage boss tuning
	RageThresholdPct   int `json:"rage_threshold_pct,omitempty" yaml:"rage_threshold_pct,omitempty"`
	RageCountdownTurns int `json:"rage_countdown_turns,omitempty" yaml:"rage_countdown_turns,omitempty"`
	RageRadius         int `json:"rage_radius,omitempty" yaml:"rage_radius,omitempty"`

	// Hunter boss tuning
	Watched       []string `json:"watched,omitempty" yaml:"watched,omitempty"`
	ExpectedOrder []string `json:"expected_order,omitempty" yaml:"expected_order,omitempty"`
	StopOnDefeat  string   `json:"stop_on_defeat,omitempty" yaml:"stop_on_defeat,omitempty"`
	DormantOnStop bool     `json:"dormant_on_stop,omitempty" yaml:"dormant_on_stop,omitempty"`

	RequiredSequence []string `json:"required_sequence,omitempty" yaml:"required_sequence,omitempty"`
}

// ItemSpec is one item definition within a stage
type ItemSpec struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Position    Position `json:"position" yaml:"position"`
	Kind        ItemKind `json:"kind" yaml:"kind"`
	Effect      int      `json:"effect,omitempty" yaml:"effect,omitempty"`
	AttackBonus int      `json:"attack_bonus,omitempty" yaml:"attack_bonus,omitempty"`
	AutoEquip   bool     `json:"auto_equip,omitempty" yaml:"auto_equip,omitempty"`
}

// ValidateStage checks a stage for structural problems: bad dimensions,
// out-of-bounds or overlapping entities, unknown enum values, and an
// unreachable goal. The first problem found is returned wrapped in
// ErrInvalidStage.
func ValidateStage(stage *Stage) error {
	if stage.ID == "" {
		return fmt.Errorf("%w: stage id is required", ErrInvalidStage)
	}
	if _, err := BuildGameState(stage); err != nil {
		return err
	}
	return nil
}

// BuildGameState compiles a stage into a playable game state, applying
// defaults for unset stats and verifying every placement.
func BuildGameState(stage *Stage) (*GameState, error) {
	board, err := NewBoard(stage.Board.Width, stage.Board.Height, stage.Board.Walls, stage.Board.Forbidden)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStage, err)
	}

	if stage.MaxTurns < 0 || stage.MaxTurns > MaxTurnLimit {
		return nil, fmt.Errorf("%w: max_turns must be between 0 and %d", ErrInvalidStage, MaxTurnLimit)
	}

	player, err := buildPlayer(board, stage.Player)
	if err != nil {
		return nil, err
	}

	gs := &GameState{
		StageID:           stage.ID,
		Board:             board,
		Player:            player,
		TurnCount:         0,
		MaxTurns:          stage.MaxTurns,
		Status:            StatusPlaying,
		VictoryConditions: stage.VictoryConditions,
	}

	for _, cond := range stage.VictoryConditions {
		switch cond {
		case VictoryReachGoal, VictoryDefeatAllEnemies, VictoryCollectAllItems:
		default:
			return nil, fmt.Errorf("%w: unknown victory condition %q", ErrInvalidStage, cond)
		}
	}

	seen := make(map[string]bool)
	for _, spec := range stage.Enemies {
		enemy, err := buildEnemy(spec)
		if err != nil {
			return nil, err
		}
		if seen[enemy.ID] {
			return nil, fmt.Errorf("%w: duplicate enemy id %q", ErrInvalidStage, enemy.ID)
		}
		seen[enemy.ID] = true

		for _, cell := range enemy.Cells() {
			if !board.InBounds(cell) {
				return nil, fmt.Errorf("%w: enemy %s footprint cell (%d,%d) is out of bounds", ErrInvalidStage, enemy.ID, cell.X, cell.Y)
			}
			if board.IsWall(cell) || board.IsForbidden(cell) {
				return nil, fmt.Errorf("%w: enemy %s footprint cell (%d,%d) overlaps a blocked cell", ErrInvalidStage, enemy.ID, cell.X, cell.Y)
			}
			if cell == player.Position {
				return nil, fmt.Errorf("%w: enemy %s overlaps the player start", ErrInvalidStage, enemy.ID)
			}
			if other := gs.EnemyAt(cell); other != nil {
				return nil, fmt.Errorf("%w: enemies %s and %s overlap at (%d,%d)", ErrInvalidStage, enemy.ID, other.ID, cell.X, cell.Y)
			}
		}
		gs.Enemies = append(gs.Enemies, enemy)
	}

	for _, spec := range stage.Items {
		item, err := buildItem(board, spec)
		if err != nil {
			return nil, err
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("%w: duplicate item id %q", ErrInvalidStage, item.ID)
		}
		seen[item.ID] = true
		gs.Items = append(gs.Items, item)
	}

	if stage.Goal != nil {
		goal := *stage.Goal
		if !board.InBounds(goal) {
			return nil, fmt.Errorf("%w: goal (%d,%d) is out of bounds", ErrInvalidStage, goal.X, goal.Y)
		}
		if board.IsWall(goal) || board.IsForbidden(goal) {
			return nil, fmt.Errorf("%w: goal (%d,%d) is on a blocked cell", ErrInvalidStage, goal.X, goal.Y)
		}
		gs.Goal = &goal

		// Reachability is a terrain question: enemies move and die, so
		// their starting footprints must not veto an otherwise open path.
		terrain := &GameState{Board: board, Player: player}
		if !CanReach(terrain, player.Position, goal, board.Width*board.Height) {
			return nil, fmt.Errorf("%w: goal (%d,%d) is unreachable from the player start", ErrInvalidStage, goal.X, goal.Y)
		}
	}

	return gs, nil
}

func buildPlayer(board *Board, spec PlayerSpec) (*Character, error) {
	if !board.InBounds(spec.Position) {
		return nil, fmt.Errorf("%w: player start (%d,%d) is out of bounds", ErrInvalidStage, spec.Position.X, spec.Position.Y)
	}
	if board.IsWall(spec.Position) || board.IsForbidden(spec.Position) {
		return nil, fmt.Errorf("%w: player start (%d,%d) is on a blocked cell", ErrInvalidStage, spec.Position.X, spec.Position.Y)
	}

	facing := spec.Facing
	if facing == "" {
		facing = North
	}
	if !facing.Valid() {
		return nil, fmt.Errorf("%w: unknown facing %q", ErrInvalidStage, facing)
	}

	hp := spec.HP
	if hp <= 0 {
		hp = DefaultPlayerHP
	}
	attack := spec.AttackPower
	if attack <= 0 {
		attack = DefaultPlayerAttackPower
	}

	return &Character{
		Position:       spec.Position,
		Facing:         facing,
		HP:             hp,
		MaxHP:          hp,
		AttackPower:    attack,
		CollectedItems: []string{},
		DisposedItems:  []string{},
	}, nil
}

func buildEnemy(spec EnemySpec) (*Enemy, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("%w: enemy id is required", ErrInvalidStage)
	}

	kind := spec.Kind
	if kind == "" {
		kind = EnemyNormal
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: enemy %s has unknown kind %q", ErrInvalidStage, spec.ID, kind)
	}

	behavior := spec.Behavior
	if behavior == "" {
		behavior = BehaviorPatrol
	}
	if !behavior.Valid() {
		return nil, fmt.Errorf("%w: enemy %s has unknown behavior %q", ErrInvalidStage, spec.ID, behavior)
	}

	facing := spec.Facing
	if facing == "" {
		facing = South
	}
	if !facing.Valid() {
		return nil, fmt.Errorf("%w: enemy %s has unknown facing %q", ErrInvalidStage, spec.ID, facing)
	}

	hp := spec.HP
	if hp <= 0 {
		hp = DefaultEnemyHP
	}
	attack := spec.AttackPower
	if attack <= 0 {
		attack = DefaultEnemyAttackPower
	}

	e := &Enemy{
		ID:               spec.ID,
		Position:         spec.Position,
		Facing:           facing,
		HP:               hp,
		MaxHP:            hp,
		AttackPower:      attack,
		Kind:             kind,
		Behavior:         behavior,
		Waypoints:        spec.Waypoints,
		RequiredSequence: spec.RequiredSequence,
	}

	switch behavior {
	case BehaviorRage:
		threshold := spec.RageThresholdPct
		if threshold <= 0 {
			threshold = DefaultRageThresholdPct
		}
		if threshold > 100 {
			return nil, fmt.Errorf("%w: enemy %s rage threshold must be at most 100", ErrInvalidStage, spec.ID)
		}
		countdown := spec.RageCountdownTurns
		if countdown <= 0 {
			countdown = DefaultRageCountdown
		}
		radius := spec.RageRadius
		if radius <= 0 {
			radius = DefaultRageRadius
		}
		e.Rage = &RageState{
			Phase:          RageDormant,
			PrevHP:         hp,
			ThresholdPct:   threshold,
			CountdownTurns: countdown,
			Radius:         radius,
		}

	case BehaviorHunter:
		if len(spec.Watched) == 0 {
			return nil, fmt.Errorf("%w: hunter %s must watch at least one boss", ErrInvalidStage, spec.ID)
		}
		e.Hunt = &HuntState{
			Phase:         HuntMonitoring,
			Watched:       spec.Watched,
			ExpectedOrder: spec.ExpectedOrder,
			StopOnDefeat:  spec.StopOnDefeat,
			DormantOnStop: spec.DormantOnStop,
		}
	}

	return e, nil
}

func buildItem(board *Board, spec ItemSpec) (*Item, error) {
	if spec.ID == "" {
		return nil, fmt.Errorf("%w: item id is required", ErrInvalidStage)
	}
	if spec.Kind != ItemBeneficial && spec.Kind != ItemBomb {
		return nil, fmt.Errorf("%w: item %s has unknown kind %q", ErrInvalidStage, spec.ID, spec.Kind)
	}
	if !board.InBounds(spec.Position) {
		return nil, fmt.Errorf("%w: item %s at (%d,%d) is out of bounds", ErrInvalidStage, spec.ID, spec.Position.X, spec.Position.Y)
	}
	if board.IsWall(spec.Position) || board.IsForbidden(spec.Position) {
		return nil, fmt.Errorf("%w: item %s at (%d,%d) is on a blocked cell", ErrInvalidStage, spec.ID, spec.Position.X, spec.Position.Y)
	}

	name := spec.Name
	if name == "" {
		name = spec.ID
	}

	return &Item{
		ID:          spec.ID,
		Position:    spec.Position,
		Kind:        spec.Kind,
		Name:        name,
		Effect:      spec.Effect,
		AttackBonus: spec.AttackBonus,
		AutoEquip:   spec.AutoEquip,
	}, nil
}
