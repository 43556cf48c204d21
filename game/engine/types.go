package engine

import (
	"fmt"
	"math"
)

// GameStatus represents the lifecycle state of a game
type GameStatus string

const (
	StatusPlaying GameStatus = "playing"
	StatusWon     GameStatus = "won"
	StatusFailed  GameStatus = "failed"
	StatusTimeout GameStatus = "timeout"
)

// Validation and gameplay constants
const (
	MinBoardSize = 2
	MaxBoardSize = 100
	MaxTurnLimit = 10000

	// DefaultBombDamage is applied when a bomb item carries no explicit payload
	DefaultBombDamage = 100

	// DefaultAlertCooldown is how many turns an enemy stays alerted after
	// losing sight of the player
	DefaultAlertCooldown = 3

	// Rage boss defaults
	DefaultRageThresholdPct = 50
	DefaultRageCountdown    = 3
	DefaultRageRadius       = 1
)

// Direction is one of the four cardinal facings
type Direction string

const (
	North Direction = "north"
	East  Direction = "east"
	South Direction = "south"
	West  Direction = "west"
)

// Valid reports whether d is one of the four cardinal directions
func (d Direction) Valid() bool {
	switch d {
	case North, East, South, West:
		return true
	}
	return false
}

// TurnLeft returns the direction after a 90 degree counter-clockwise rotation
func (d Direction) TurnLeft() Direction {
	switch d {
	case North:
		return West
	case West:
		return South
	case South:
		return East
	case East:
		return North
	}
	return d
}

// TurnRight returns the direction after a 90 degree clockwise rotation
func (d Direction) TurnRight() Direction {
	switch d {
	case North:
		return East
	case East:
		return South
	case South:
		return West
	case West:
		return North
	}
	return d
}

// Offset returns the unit grid offset for one step in this direction.
// North decreases y, matching the row-major board layout.
func (d Direction) Offset() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// Position represents x,y grid coordinates
type Position struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Step returns the position one cell away in the given direction
func (p Position) Step(d Direction) Position {
	dx, dy := d.Offset()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// ManhattanDistance returns the L1 distance between two positions
func (p Position) ManhattanDistance(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

// EuclideanDistance returns the straight-line distance between two positions
func (p Position) EuclideanDistance(other Position) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// DirectionToward returns the cardinal direction pointing from p toward
// target, preferring the axis with the greater offset and breaking ties
// toward the x axis.
func (p Position) DirectionToward(target Position) Direction {
	dx := target.X - p.X
	dy := target.Y - p.Y
	if dx != 0 && abs(dx) >= abs(dy) {
		if dx > 0 {
			return East
		}
		return West
	}
	if dy > 0 {
		return South
	}
	if dy < 0 {
		return North
	}
	return North
}

// Board is the immutable grid geometry: dimensions plus wall and forbidden
// cells. It owns no entities.
type Board struct {
	Width     int        `json:"width" yaml:"width"`
	Height    int        `json:"height" yaml:"height"`
	Walls     []Position `json:"walls,omitempty" yaml:"walls,omitempty"`
	Forbidden []Position `json:"forbidden,omitempty" yaml:"forbidden,omitempty"`

	wallSet      map[Position]bool
	forbiddenSet map[Position]bool
}

// NewBoard creates a board and verifies every wall and forbidden cell lies
// within bounds.
func NewBoard(width, height int, walls, forbidden []Position) (*Board, error) {
	if width < MinBoardSize || width > MaxBoardSize || height < MinBoardSize || height > MaxBoardSize {
		return nil, fmt.Errorf("board dimensions must be between %d and %d, got %dx%d", MinBoardSize, MaxBoardSize, width, height)
	}

	b := &Board{
		Width:     width,
		Height:    height,
		Walls:     walls,
		Forbidden: forbidden,
	}
	b.index()

	for _, w := range walls {
		if !b.InBounds(w) {
			return nil, fmt.Errorf("wall cell (%d,%d) is outside the %dx%d board", w.X, w.Y, width, height)
		}
	}
	for _, f := range forbidden {
		if !b.InBounds(f) {
			return nil, fmt.Errorf("forbidden cell (%d,%d) is outside the %dx%d board", f.X, f.Y, width, height)
		}
	}

	return b, nil
}

// index builds the cell lookup sets. Called lazily so boards restored from
// JSON persistence work without a custom unmarshaler.
func (b *Board) index() {
	b.wallSet = make(map[Position]bool, len(b.Walls))
	for _, w := range b.Walls {
		b.wallSet[w] = true
	}
	b.forbiddenSet = make(map[Position]bool, len(b.Forbidden))
	for _, f := range b.Forbidden {
		b.forbiddenSet[f] = true
	}
}

// InBounds reports whether p lies within the board
func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// IsWall reports whether p is a wall cell
func (b *Board) IsWall(p Position) bool {
	if b.wallSet == nil {
		b.index()
	}
	return b.wallSet[p]
}

// IsForbidden reports whether p is a forbidden (non-wall, non-enterable) cell
func (b *Board) IsForbidden(p Position) bool {
	if b.forbiddenSet == nil {
		b.index()
	}
	return b.forbiddenSet[p]
}

// Character is the player-controlled entity
type Character struct {
	Position    Position  `json:"position"`
	Facing      Direction `json:"facing"`
	HP          int       `json:"hp"`
	MaxHP       int       `json:"max_hp"`
	AttackPower int       `json:"attack_power"`
	Stamina     int       `json:"stamina,omitempty"`
	MaxStamina  int       `json:"max_stamina,omitempty"`

	CollectedItems []string `json:"collected_items"`
	DisposedItems  []string `json:"disposed_items"`
}

// Alive reports whether the character still has HP
func (c *Character) Alive() bool {
	return c.HP > 0
}

// ApplyDamage reduces HP, clamped at zero
func (c *Character) ApplyDamage(damage int) {
	c.HP -= damage
	if c.HP < 0 {
		c.HP = 0
	}
}

// Heal increases HP, clamped at MaxHP
func (c *Character) Heal(amount int) {
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
}

// HasCollected reports whether the item id is in the collected set
func (c *Character) HasCollected(itemID string) bool {
	for _, id := range c.CollectedItems {
		if id == itemID {
			return true
		}
	}
	return false
}

// HasDisposed reports whether the item id is in the disposed set
func (c *Character) HasDisposed(itemID string) bool {
	for _, id := range c.DisposedItems {
		if id == itemID {
			return true
		}
	}
	return false
}

// Collect records an item as collected. The collected and disposed sets must
// stay disjoint, so collecting an already-disposed item is an error.
func (c *Character) Collect(itemID string) error {
	if c.HasDisposed(itemID) {
		return fmt.Errorf("item %s was already disposed", itemID)
	}
	if c.HasCollected(itemID) {
		return fmt.Errorf("item %s was already collected", itemID)
	}
	c.CollectedItems = append(c.CollectedItems, itemID)
	return nil
}

// Dispose records an item as disposed, enforcing disjointness with the
// collected set.
func (c *Character) Dispose(itemID string) error {
	if c.HasCollected(itemID) {
		return fmt.Errorf("item %s was already collected", itemID)
	}
	if c.HasDisposed(itemID) {
		return fmt.Errorf("item %s was already disposed", itemID)
	}
	c.DisposedItems = append(c.DisposedItems, itemID)
	return nil
}

// EnemyKind determines the footprint an enemy occupies on the board
type EnemyKind string

const (
	EnemyNormal     EnemyKind = "normal"
	EnemyLarge2x2   EnemyKind = "large2x2"
	EnemyLarge3x3   EnemyKind = "large3x3"
	EnemySpecial2x3 EnemyKind = "special2x3"
)

// FootprintSize returns the width and height of the enemy's occupied
// rectangle. An unknown kind is a configuration bug rather than a gameplay
// event, so it panics.
func (k EnemyKind) FootprintSize() (w, h int) {
	switch k {
	case EnemyNormal:
		return 1, 1
	case EnemyLarge2x2:
		return 2, 2
	case EnemyLarge3x3:
		return 3, 3
	case EnemySpecial2x3:
		return 2, 3
	}
	panic(fmt.Sprintf("enemy kind %q has no defined footprint", k))
}

// Valid reports whether k is a known enemy kind
func (k EnemyKind) Valid() bool {
	switch k {
	case EnemyNormal, EnemyLarge2x2, EnemyLarge3x3, EnemySpecial2x3:
		return true
	}
	return false
}

// EnemyBehavior selects the per-turn state machine driving an enemy
type EnemyBehavior string

const (
	BehaviorPatrol EnemyBehavior = "patrol"
	BehaviorStatic EnemyBehavior = "static"
	BehaviorRage   EnemyBehavior = "rage"
	BehaviorHunter EnemyBehavior = "hunter"
)

// Valid reports whether b is a known behavior tag
func (b EnemyBehavior) Valid() bool {
	switch b {
	case BehaviorPatrol, BehaviorStatic, BehaviorRage, BehaviorHunter:
		return true
	}
	return false
}

// RagePhase is the rage boss sub-state
type RagePhase string

const (
	RageDormant   RagePhase = "dormant"
	RageCountdown RagePhase = "countdown"
)

// RageState is the behavior-specific state for rage bosses: passive until an
// attack drops HP below the threshold, then a countdown ending in an area
// attack.
type RageState struct {
	Phase          RagePhase `json:"phase"`
	PrevHP         int       `json:"prev_hp"`
	Countdown      int       `json:"countdown"`
	ThresholdPct   int       `json:"threshold_pct"`
	CountdownTurns int       `json:"countdown_turns"`
	Radius         int       `json:"radius"`
}

// HuntPhase is the conditional boss sub-state
type HuntPhase string

const (
	HuntMonitoring HuntPhase = "monitoring"
	HuntHunting    HuntPhase = "hunting"
	HuntDormant    HuntPhase = "dormant"
)

// HuntState is the behavior-specific state for conditional bosses: they
// silently watch the order in which other bosses enter rage and start
// hunting the player if the observed order deviates from the expected one.
type HuntState struct {
	Phase         HuntPhase `json:"phase"`
	Watched       []string  `json:"watched"`
	ExpectedOrder []string  `json:"expected_order"`
	StopOnDefeat  string    `json:"stop_on_defeat,omitempty"`
	DormantOnStop bool      `json:"dormant_on_stop,omitempty"`
}

// Enemy is a hostile entity. Position is the top-left cell for multi-cell
// kinds. At most one of Rage/Hunt is non-nil, matching the behavior tag.
type Enemy struct {
	ID          string        `json:"id"`
	Position    Position      `json:"position"`
	Facing      Direction     `json:"facing"`
	HP          int           `json:"hp"`
	MaxHP       int           `json:"max_hp"`
	AttackPower int           `json:"attack_power"`
	Kind        EnemyKind     `json:"kind"`
	Behavior    EnemyBehavior `json:"behavior"`

	Alerted            bool       `json:"alerted"`
	AlertCooldown      int        `json:"alert_cooldown"`
	LastKnownPlayerPos *Position  `json:"last_known_player_pos,omitempty"`
	Waypoints          []Position `json:"waypoints,omitempty"`
	WaypointIndex      int        `json:"waypoint_index,omitempty"`

	Rage *RageState `json:"rage,omitempty"`
	Hunt *HuntState `json:"hunt,omitempty"`

	// RequiredSequence is an action-name sequence that, once performed by the
	// player in order, eliminates this enemy without combat.
	RequiredSequence []string `json:"required_sequence,omitempty"`
}

// Alive reports whether the enemy still has HP
func (e *Enemy) Alive() bool {
	return e.HP > 0
}

// ApplyDamage reduces HP, clamped at zero
func (e *Enemy) ApplyDamage(damage int) {
	e.HP -= damage
	if e.HP < 0 {
		e.HP = 0
	}
}

// Cells returns every board cell covered by the enemy's footprint at its
// current position.
func (e *Enemy) Cells() []Position {
	return e.CellsAt(e.Position)
}

// CellsAt returns the footprint cells the enemy would cover at the candidate
// top-left position.
func (e *Enemy) CellsAt(topLeft Position) []Position {
	w, h := e.Kind.FootprintSize()
	cells := make([]Position, 0, w*h)
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			cells = append(cells, Position{X: topLeft.X + dx, Y: topLeft.Y + dy})
		}
	}
	return cells
}

// OccupiesCell reports whether p is inside the enemy's footprint
func (e *Enemy) OccupiesCell(p Position) bool {
	w, h := e.Kind.FootprintSize()
	return p.X >= e.Position.X && p.X < e.Position.X+w &&
		p.Y >= e.Position.Y && p.Y < e.Position.Y+h
}

// ItemKind distinguishes helpful items from bombs
type ItemKind string

const (
	ItemBeneficial ItemKind = "beneficial"
	ItemBomb       ItemKind = "bomb"
)

// Item is a collectible or hazardous object on the board
type Item struct {
	ID       string   `json:"id"`
	Position Position `json:"position"`
	Kind     ItemKind `json:"kind"`
	Name     string   `json:"name"`

	// Effect is the bomb damage or heal amount depending on kind
	Effect      int  `json:"effect,omitempty"`
	AttackBonus int  `json:"attack_bonus,omitempty"`
	AutoEquip   bool `json:"auto_equip,omitempty"`
}

// BombDamage returns the damage this bomb inflicts when picked up
func (i *Item) BombDamage() int {
	if i.Effect > 0 {
		return i.Effect
	}
	return DefaultBombDamage
}

// VictoryCondition is one element of a stage's declarative victory set
type VictoryCondition string

const (
	VictoryReachGoal        VictoryCondition = "reach_goal"
	VictoryDefeatAllEnemies VictoryCondition = "defeat_all_enemies"
	VictoryCollectAllItems  VictoryCondition = "collect_all_items"
)

// GameState is the aggregate root for one game session
type GameState struct {
	StageID string     `json:"stage_id"`
	Board   *Board     `json:"board"`
	Player  *Character `json:"player"`
	Enemies []*Enemy   `json:"enemies"`
	Items   []*Item    `json:"items"`
	Goal    *Position  `json:"goal,omitempty"`

	TurnCount int        `json:"turn_count"`
	MaxTurns  int        `json:"max_turns"`
	Status    GameStatus `json:"status"`
	Message   string     `json:"message"`

	VictoryConditions []VictoryCondition `json:"victory_conditions,omitempty"`
}

// Finished reports whether the game reached a terminal state
func (gs *GameState) Finished() bool {
	return gs.Status != StatusPlaying
}

// RemainingTurns returns the number of turns left before timeout, or -1 when
// the stage has no turn limit.
func (gs *GameState) RemainingTurns() int {
	if gs.MaxTurns <= 0 {
		return -1
	}
	remaining := gs.MaxTurns - gs.TurnCount
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EnemyAt returns the live enemy whose footprint covers p, or nil
func (gs *GameState) EnemyAt(p Position) *Enemy {
	for _, e := range gs.Enemies {
		if e.OccupiesCell(p) {
			return e
		}
	}
	return nil
}

// EnemyByID returns the live enemy with the given id, or nil
func (gs *GameState) EnemyByID(id string) *Enemy {
	for _, e := range gs.Enemies {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// ItemsAt returns all items at the given cell in collection order
func (gs *GameState) ItemsAt(p Position) []*Item {
	var items []*Item
	for _, item := range gs.Items {
		if item.Position == p {
			items = append(items, item)
		}
	}
	return items
}

// RemoveEnemy removes the enemy with the given id from the live collection
func (gs *GameState) RemoveEnemy(id string) {
	for i, e := range gs.Enemies {
		if e.ID == id {
			gs.Enemies = append(gs.Enemies[:i], gs.Enemies[i+1:]...)
			return
		}
	}
}

// RemoveItem removes the item with the given id from the world
func (gs *GameState) RemoveItem(id string) {
	for i, item := range gs.Items {
		if item.ID == id {
			gs.Items = append(gs.Items[:i], gs.Items[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of the game state. The board is shared since it
// is read-only after construction.
func (gs *GameState) Clone() *GameState {
	clone := &GameState{
		StageID:   gs.StageID,
		Board:     gs.Board,
		TurnCount: gs.TurnCount,
		MaxTurns:  gs.MaxTurns,
		Status:    gs.Status,
		Message:   gs.Message,
	}

	if gs.Player != nil {
		player := *gs.Player
		player.CollectedItems = append([]string(nil), gs.Player.CollectedItems...)
		player.DisposedItems = append([]string(nil), gs.Player.DisposedItems...)
		clone.Player = &player
	}

	clone.Enemies = make([]*Enemy, 0, len(gs.Enemies))
	for _, e := range gs.Enemies {
		clone.Enemies = append(clone.Enemies, cloneEnemy(e))
	}

	clone.Items = make([]*Item, 0, len(gs.Items))
	for _, item := range gs.Items {
		copied := *item
		clone.Items = append(clone.Items, &copied)
	}

	if gs.Goal != nil {
		goal := *gs.Goal
		clone.Goal = &goal
	}

	clone.VictoryConditions = append([]VictoryCondition(nil), gs.VictoryConditions...)

	return clone
}

func cloneEnemy(e *Enemy) *Enemy {
	copied := *e
	copied.Waypoints = append([]Position(nil), e.Waypoints...)
	copied.RequiredSequence = append([]string(nil), e.RequiredSequence...)
	if e.LastKnownPlayerPos != nil {
		pos := *e.LastKnownPlayerPos
		copied.LastKnownPlayerPos = &pos
	}
	if e.Rage != nil {
		rage := *e.Rage
		copied.Rage = &rage
	}
	if e.Hunt != nil {
		hunt := *e.Hunt
		hunt.Watched = append([]string(nil), e.Hunt.Watched...)
		hunt.ExpectedOrder = append([]string(nil), e.Hunt.ExpectedOrder...)
		copied.Hunt = &hunt
	}
	return &copied
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
