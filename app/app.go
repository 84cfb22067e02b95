// Package app holds the per-window state of a wormhole viewer: the space,
// the player and its controls, and the renderer. Commands create one
// Context per window and call Frame from their draw loop.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/wormhole"
	"github.com/gogpu/wormhole/player"
)

// Frame timing limits.
const (
	// MinFrameDelta is the shortest interval that advances a frame.
	// Shorter intervals are skipped so the next frame sees the full delta.
	MinFrameDelta = time.Millisecond

	// MaxFrameDelta caps the simulated interval after stalls.
	MaxFrameDelta = 100 * time.Millisecond
)

// ErrNoRenderer is returned when a Context is built without a renderer.
var ErrNoRenderer = errors.New("app: no renderer")

// Renderer draws a pose. *wormhole.SceneRenderer implements it.
type Renderer interface {
	Render(pose wormhole.Pose, target wormhole.Target) error
	SetSize(width, height float64) error
}

// Controller advances the player by delta seconds.
type Controller interface {
	Update(delta float32)
}

var _ Renderer = (*wormhole.SceneRenderer)(nil)
var _ Controller = (*player.Controls)(nil)

// Context is the application state of one viewer window.
// It is not safe for concurrent use; drive it from the draw loop.
type Context struct {
	Space    wormhole.Space
	Player   *player.Player
	Controls *player.Controls
	Renderer Renderer

	// Controllers are updated every frame after Controls.
	Controllers []Controller

	last   time.Time
	frames uint64
}

// New builds a context for space with the player at its start position.
func New(space wormhole.Space, r Renderer) (*Context, error) {
	if r == nil {
		return nil, ErrNoRenderer
	}
	p := player.New(space)
	return &Context{
		Space:    space,
		Player:   p,
		Controls: player.NewControls(p),
		Renderer: r,
	}, nil
}

// Frame advances to now and renders into target. The first call only
// records the time and renders the current pose.
func (c *Context) Frame(now time.Time, target wormhole.Target) (bool, error) {
	if c.last.IsZero() {
		c.last = now
		return c.render(target)
	}
	rendered, err := c.Tick(now.Sub(c.last), target)
	if rendered {
		c.last = now
	}
	return rendered, err
}

// Tick updates controls by delta, clamps the player and renders.
// Deltas below MinFrameDelta are skipped and report false; deltas above
// MaxFrameDelta are clamped.
func (c *Context) Tick(delta time.Duration, target wormhole.Target) (bool, error) {
	if delta < MinFrameDelta {
		return false, nil
	}
	if delta > MaxFrameDelta {
		delta = MaxFrameDelta
	}
	seconds := float32(delta.Seconds())

	c.Controls.Update(seconds)
	for _, ctl := range c.Controllers {
		ctl.Update(seconds)
	}
	c.Player.Clamp()
	return c.render(target)
}

func (c *Context) render(target wormhole.Target) (bool, error) {
	if err := c.Renderer.Render(c.Player.Pose(), target); err != nil {
		return false, fmt.Errorf("app: frame %d: %w", c.frames, err)
	}
	c.frames++
	return true, nil
}

// Resize forwards a new viewport size to the renderer.
func (c *Context) Resize(width, height int) error {
	return c.Renderer.SetSize(float64(width), float64(height))
}

// ResetPlayer levels the player.
func (c *Context) ResetPlayer() {
	c.Player.Reset()
	wormhole.Logger().Debug("app: player reset", "position", c.Player.Position())
}

// Frames returns the number of frames rendered.
func (c *Context) Frames() uint64 { return c.frames }
