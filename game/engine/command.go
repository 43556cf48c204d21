package engine

import "fmt"

// CommandStatus tags the outcome of a command execution
type CommandStatus string

const (
	ResultSuccess CommandStatus = "success"
	ResultFailed  CommandStatus = "failed"
	ResultBlocked CommandStatus = "blocked"
	ResultInvalid CommandStatus = "invalid"
	ResultError   CommandStatus = "error"
)

// Action names for the seven player commands
const (
	ActionTurnLeft  = "turn_left"
	ActionTurnRight = "turn_right"
	ActionMove      = "move"
	ActionAttack    = "attack"
	ActionPickup    = "pickup"
	ActionDispose   = "dispose"
	ActionWait      = "wait"
)

// CommandResult carries the outcome of one command execution: a status tag,
// a display-ready message, and action-specific payload fields.
type CommandResult struct {
	Action  string        `json:"action"`
	Status  CommandStatus `json:"status"`
	Message string        `json:"message"`

	DamageDealt    int        `json:"damage_dealt,omitempty"`
	TargetID       string     `json:"target_id,omitempty"`
	TargetDefeated bool       `json:"target_defeated,omitempty"`
	ItemID         string     `json:"item_id,omitempty"`
	ItemName       string     `json:"item_name,omitempty"`
	OldPosition    *Position  `json:"old_position,omitempty"`
	NewPosition    *Position  `json:"new_position,omitempty"`
	OldFacing      Direction  `json:"old_facing,omitempty"`
	NewFacing      Direction  `json:"new_facing,omitempty"`
	BlockedBy      BlockCause `json:"blocked_by,omitempty"`
}

// Succeeded reports whether the command applied its effect
func (r *CommandResult) Succeeded() bool {
	return r.Status == ResultSuccess
}

// Command is one player action. Execute applies it against the state and
// returns a tagged result; Undo reverses it when CanUndo reports true.
type Command interface {
	Execute(gs *GameState) *CommandResult
	Undo(gs *GameState) bool
	CanUndo() bool
	Name() string
	Describe() string
}

// TurnCommand rotates the player 90 degrees. It always succeeds and is
// fully reversible by rotating the opposite way.
type TurnCommand struct {
	Left bool

	executed  bool
	undone    bool
	oldFacing Direction
}

// NewTurnLeftCommand creates a counter-clockwise rotation command
func NewTurnLeftCommand() *TurnCommand { return &TurnCommand{Left: true} }

// NewTurnRightCommand creates a clockwise rotation command
func NewTurnRightCommand() *TurnCommand { return &TurnCommand{Left: false} }

func (c *TurnCommand) Name() string {
	if c.Left {
		return ActionTurnLeft
	}
	return ActionTurnRight
}

func (c *TurnCommand) Execute(gs *GameState) *CommandResult {
	c.oldFacing = gs.Player.Facing
	if c.Left {
		gs.Player.Facing = gs.Player.Facing.TurnLeft()
	} else {
		gs.Player.Facing = gs.Player.Facing.TurnRight()
	}
	c.executed = true
	c.undone = false

	return &CommandResult{
		Action:    c.Name(),
		Status:    ResultSuccess,
		Message:   fmt.Sprintf("Turned to face %s", gs.Player.Facing),
		OldFacing: c.oldFacing,
		NewFacing: gs.Player.Facing,
	}
}

func (c *TurnCommand) CanUndo() bool {
	return c.executed && !c.undone
}

func (c *TurnCommand) Undo(gs *GameState) bool {
	if !c.CanUndo() {
		return false
	}
	gs.Player.Facing = c.oldFacing
	c.undone = true
	return true
}

func (c *TurnCommand) Describe() string {
	if c.Left {
		return "turn left"
	}
	return "turn right"
}

// MoveCommand advances the player one cell in the facing direction. Legality
// is delegated to the validator; a blocked move leaves the player in place.
type MoveCommand struct {
	executed bool
	undone   bool
	oldPos   Position
}

// NewMoveCommand creates a one-step forward movement command
func NewMoveCommand() *MoveCommand { return &MoveCommand{} }

func (c *MoveCommand) Name() string { return ActionMove }

func (c *MoveCommand) Execute(gs *GameState) *CommandResult {
	from := gs.Player.Position
	target := from.Step(gs.Player.Facing)

	check := CheckMovement(gs, target)
	if !check.Allowed {
		c.executed = false
		return &CommandResult{
			Action:      ActionMove,
			Status:      ResultBlocked,
			Message:     fmt.Sprintf("Cannot move %s: blocked by %s at (%d,%d)", gs.Player.Facing, check.Cause, check.Target.X, check.Target.Y),
			OldPosition: &from,
			BlockedBy:   check.Cause,
		}
	}

	c.oldPos = from
	gs.Player.Position = target
	c.executed = true
	c.undone = false

	return &CommandResult{
		Action:      ActionMove,
		Status:      ResultSuccess,
		Message:     fmt.Sprintf("Moved %s to (%d,%d)", gs.Player.Facing, target.X, target.Y),
		OldPosition: &from,
		NewPosition: &target,
	}
}

func (c *MoveCommand) CanUndo() bool {
	return c.executed && !c.undone
}

func (c *MoveCommand) Undo(gs *GameState) bool {
	if !c.CanUndo() {
		return false
	}
	gs.Player.Position = c.oldPos
	c.undone = true
	return true
}

func (c *MoveCommand) Describe() string { return "move forward" }

// AttackCommand strikes the single cell directly ahead. Enemy retaliation is
// deferred to the turn's enemy pass so a hit is never double-counted within
// one turn. Never undoable.
type AttackCommand struct{}

// NewAttackCommand creates an attack command
func NewAttackCommand() *AttackCommand { return &AttackCommand{} }

func (c *AttackCommand) Name() string { return ActionAttack }

func (c *AttackCommand) Execute(gs *GameState) *CommandResult {
	target := AttackTarget(gs, gs.Player.Position, gs.Player.Facing)
	if target == nil {
		cell := gs.Player.Position.Step(gs.Player.Facing)
		return &CommandResult{
			Action:  ActionAttack,
			Status:  ResultFailed,
			Message: fmt.Sprintf("Nothing to attack at (%d,%d)", cell.X, cell.Y),
		}
	}

	damage := gs.Player.AttackPower
	target.ApplyDamage(damage)

	result := &CommandResult{
		Action:      ActionAttack,
		Status:      ResultSuccess,
		TargetID:    target.ID,
		DamageDealt: damage,
	}

	if !target.Alive() {
		gs.RemoveEnemy(target.ID)
		result.TargetDefeated = true
		result.Message = fmt.Sprintf("Attacked %s for %d damage and defeated it", target.ID, damage)
	} else {
		result.Message = fmt.Sprintf("Attacked %s for %d damage (%d/%d HP left)", target.ID, damage, target.HP, target.MaxHP)
	}

	return result
}

func (c *AttackCommand) CanUndo() bool           { return false }
func (c *AttackCommand) Undo(gs *GameState) bool { return false }
func (c *AttackCommand) Describe() string        { return "attack" }

// PickupCommand acts on the first item at the player's cell. Bombs damage
// the player; beneficial items join the collected set and may auto-apply
// stat deltas. Never undoable.
type PickupCommand struct{}

// NewPickupCommand creates a pickup command
func NewPickupCommand() *PickupCommand { return &PickupCommand{} }

func (c *PickupCommand) Name() string { return ActionPickup }

func (c *PickupCommand) Execute(gs *GameState) *CommandResult {
	items := gs.ItemsAt(gs.Player.Position)
	if len(items) == 0 {
		return &CommandResult{
			Action:  ActionPickup,
			Status:  ResultFailed,
			Message: "No item here to pick up",
		}
	}

	item := items[0]

	if item.Kind == ItemBomb {
		damage := item.BombDamage()
		gs.Player.ApplyDamage(damage)
		gs.RemoveItem(item.ID)
		return &CommandResult{
			Action:      ActionPickup,
			Status:      ResultSuccess,
			Message:     fmt.Sprintf("Picked up %s: it was a bomb! Took %d damage", item.Name, damage),
			ItemID:      item.ID,
			ItemName:    item.Name,
			DamageDealt: damage,
		}
	}

	if err := gs.Player.Collect(item.ID); err != nil {
		return &CommandResult{
			Action:  ActionPickup,
			Status:  ResultFailed,
			Message: fmt.Sprintf("Cannot pick up %s: %v", item.Name, err),
			ItemID:  item.ID,
		}
	}

	if item.AutoEquip {
		if item.Effect > 0 {
			gs.Player.Heal(item.Effect)
		}
		gs.Player.AttackPower += item.AttackBonus
	}
	gs.RemoveItem(item.ID)

	return &CommandResult{
		Action:   ActionPickup,
		Status:   ResultSuccess,
		Message:  fmt.Sprintf("Picked up %s", item.Name),
		ItemID:   item.ID,
		ItemName: item.Name,
	}
}

func (c *PickupCommand) CanUndo() bool           { return false }
func (c *PickupCommand) Undo(gs *GameState) bool { return false }
func (c *PickupCommand) Describe() string        { return "pick up item" }

// DisposeCommand safely removes a bomb at the player's cell. Disposing a
// non-bomb item fails but still consumes the turn. Never undoable.
type DisposeCommand struct{}

// NewDisposeCommand creates a dispose command
func NewDisposeCommand() *DisposeCommand { return &DisposeCommand{} }

func (c *DisposeCommand) Name() string { return ActionDispose }

func (c *DisposeCommand) Execute(gs *GameState) *CommandResult {
	items := gs.ItemsAt(gs.Player.Position)
	if len(items) == 0 {
		return &CommandResult{
			Action:  ActionDispose,
			Status:  ResultFailed,
			Message: "No item here to dispose",
		}
	}

	item := items[0]
	if item.Kind != ItemBomb {
		return &CommandResult{
			Action:   ActionDispose,
			Status:   ResultFailed,
			Message:  fmt.Sprintf("%s is not a bomb; disposal had no effect", item.Name),
			ItemID:   item.ID,
			ItemName: item.Name,
		}
	}

	if err := gs.Player.Dispose(item.ID); err != nil {
		return &CommandResult{
			Action:  ActionDispose,
			Status:  ResultFailed,
			Message: fmt.Sprintf("Cannot dispose %s: %v", item.Name, err),
			ItemID:  item.ID,
		}
	}
	gs.RemoveItem(item.ID)

	return &CommandResult{
		Action:   ActionDispose,
		Status:   ResultSuccess,
		Message:  fmt.Sprintf("Disposed of %s safely", item.Name),
		ItemID:   item.ID,
		ItemName: item.Name,
	}
}

func (c *DisposeCommand) CanUndo() bool           { return false }
func (c *DisposeCommand) Undo(gs *GameState) bool { return false }
func (c *DisposeCommand) Describe() string        { return "dispose bomb" }

// WaitCommand consumes a turn without changing any state. Never undoable.
type WaitCommand struct{}

// NewWaitCommand creates a wait command
func NewWaitCommand() *WaitCommand { return &WaitCommand{} }

func (c *WaitCommand) Name() string { return ActionWait }

func (c *WaitCommand) Execute(gs *GameState) *CommandResult {
	return &CommandResult{
		Action:  ActionWait,
		Status:  ResultSuccess,
		Message: "Waited in place",
	}
}

func (c *WaitCommand) CanUndo() bool           { return false }
func (c *WaitCommand) Undo(gs *GameState) bool { return false }
func (c *WaitCommand) Describe() string        { return "wait" }

// NewCommand builds a command from its action name. Unknown names return an
// error so transport layers can reject malformed requests before execution.
func NewCommand(action string) (Command, error) {
	switch action {
	case ActionTurnLeft:
		return NewTurnLeftCommand(), nil
	case ActionTurnRight:
		return NewTurnRightCommand(), nil
	case ActionMove:
		return NewMoveCommand(), nil
	case ActionAttack:
		return NewAttackCommand(), nil
	case ActionPickup:
		return NewPickupCommand(), nil
	case ActionDispose:
		return NewDisposeCommand(), nil
	case ActionWait:
		return NewWaitCommand(), nil
	}
	return nil, fmt.Errorf("unknown action %q", action)
}

// Invoker sequences command execution and keeps a linear undo history with a
// single cursor. Executing a new command truncates any undone entries beyond
// the cursor, so there is no redo branching.
type Invoker struct {
	history []Command
	cursor  int
}

// NewInvoker creates an empty invoker
func NewInvoker() *Invoker {
	return &Invoker{}
}

// Execute runs the command and records it in the history
func (inv *Invoker) Execute(cmd Command, gs *GameState) *CommandResult {
	result := cmd.Execute(gs)

	inv.history = inv.history[:inv.cursor]
	inv.history = append(inv.history, cmd)
	inv.cursor = len(inv.history)

	return result
}

// Undo reverses the command at the cursor if it supports undo
func (inv *Invoker) Undo(gs *GameState) bool {
	if inv.cursor == 0 {
		return false
	}
	cmd := inv.history[inv.cursor-1]
	if !cmd.CanUndo() {
		return false
	}
	if !cmd.Undo(gs) {
		return false
	}
	inv.cursor--
	return true
}

// CanUndo reports whether the command at the cursor supports undo
func (inv *Invoker) CanUndo() bool {
	return inv.cursor > 0 && inv.history[inv.cursor-1].CanUndo()
}

// Len returns the number of commands before the cursor
func (inv *Invoker) Len() int {
	return inv.cursor
}

// Descriptions returns the human-readable history up to the cursor
func (inv *Invoker) Descriptions() []string {
	descriptions := make([]string, 0, inv.cursor)
	for _, cmd := range inv.history[:inv.cursor] {
		descriptions = append(descriptions, cmd.Describe())
	}
	return descriptions
}

// Reset clears the history
func (inv *Invoker) Reset() {
	inv.history = nil
	inv.cursor = 0
}
