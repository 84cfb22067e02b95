package player

// Action is something a control input asks the player to do.
type Action int

const (
	Forward Action = iota
	Back
	Left
	Right
	Up
	Down
	TurnLeft
	TurnRight
	LookUp
	LookDown
	RollLeft
	RollRight

	actionCount
)

var actionNames = [actionCount]string{
	"forward", "back", "left", "right", "up", "down",
	"turn-left", "turn-right", "look-up", "look-down", "roll-left", "roll-right",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// Default speeds.
const (
	DefaultMoveSpeed = 2.0 // units per second
	DefaultTurnSpeed = 1.2 // radians per second
)

// Controls turns held actions into player motion over time.
// Inputs can arrive from any source; the windowed commands feed key
// events through Press and Release.
type Controls struct {
	player  *Player
	pressed [actionCount]bool

	MoveSpeed float32
	TurnSpeed float32
}

// NewControls returns controls driving p at the default speeds.
func NewControls(p *Player) *Controls {
	return &Controls{
		player:    p,
		MoveSpeed: DefaultMoveSpeed,
		TurnSpeed: DefaultTurnSpeed,
	}
}

// Player returns the controlled player.
func (c *Controls) Player() *Player { return c.player }

// Press marks a as held.
func (c *Controls) Press(a Action) {
	if a >= 0 && a < actionCount {
		c.pressed[a] = true
	}
}

// Release marks a as no longer held.
func (c *Controls) Release(a Action) {
	if a >= 0 && a < actionCount {
		c.pressed[a] = false
	}
}

// Pressed reports whether a is held.
func (c *Controls) Pressed(a Action) bool {
	return a >= 0 && a < actionCount && c.pressed[a]
}

// ReleaseAll clears every held action, e.g. when the window loses focus.
func (c *Controls) ReleaseAll() {
	c.pressed = [actionCount]bool{}
}

// Update advances the player by delta seconds of held input.
func (c *Controls) Update(delta float32) {
	if delta <= 0 {
		return
	}
	move := c.MoveSpeed * delta
	turn := c.TurnSpeed * delta

	c.player.Turn(
		c.axis(TurnLeft, TurnRight)*turn,
		c.axis(LookUp, LookDown)*turn,
		c.axis(RollRight, RollLeft)*turn,
	)
	c.player.Move(
		c.axis(Right, Left)*move,
		c.axis(Up, Down)*move,
		c.axis(Forward, Back)*move,
	)
}

// axis is +1 when only pos is held, -1 when only neg is held.
func (c *Controls) axis(pos, neg Action) float32 {
	var v float32
	if c.pressed[pos] {
		v++
	}
	if c.pressed[neg] {
		v--
	}
	return v
}
