//go:build !nogpu

package main

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/wormhole/player"
)

// keyActions maps held keys to player actions. Arrow keys turn and
// look, WASD moves, Space and Shift rise and sink, Q and E roll.
var keyActions = map[gpucontext.Key]player.Action{
	gpucontext.KeyW:         player.Forward,
	gpucontext.KeyS:         player.Back,
	gpucontext.KeyA:         player.Left,
	gpucontext.KeyD:         player.Right,
	gpucontext.KeySpace:     player.Up,
	gpucontext.KeyLeftShift: player.Down,
	gpucontext.KeyLeft:      player.TurnLeft,
	gpucontext.KeyRight:     player.TurnRight,
	gpucontext.KeyUp:        player.LookUp,
	gpucontext.KeyDown:      player.LookDown,
	gpucontext.KeyQ:         player.RollLeft,
	gpucontext.KeyE:         player.RollRight,
}

// resetKey levels the player.
const resetKey = gpucontext.KeyR

// keyHandler routes key events to the controls.
type keyHandler struct {
	controls *player.Controls
	reset    func()
}

func (h *keyHandler) press(key gpucontext.Key, _ gpucontext.Modifiers) {
	if key == resetKey {
		if h.reset != nil {
			h.reset()
		}
		return
	}
	if a, ok := keyActions[key]; ok {
		h.controls.Press(a)
	}
}

func (h *keyHandler) release(key gpucontext.Key, _ gpucontext.Modifiers) {
	if a, ok := keyActions[key]; ok {
		h.controls.Release(a)
	}
}

// focus drops held keys when the window loses focus, since their
// release events go elsewhere.
func (h *keyHandler) focus(focused bool) {
	if !focused {
		h.controls.ReleaseAll()
	}
}

// heldKeys is the set of keys that keep frames animating. Repeated
// presses of a held key are ignored.
type heldKeys map[gpucontext.Key]bool

// press adds key and reports whether it is the first key held.
func (h heldKeys) press(key gpucontext.Key) bool {
	if !animates(key) || h[key] {
		return false
	}
	h[key] = true
	return len(h) == 1
}

// release removes key and reports whether no key is held any more.
func (h heldKeys) release(key gpucontext.Key) bool {
	if !h[key] {
		return false
	}
	delete(h, key)
	return len(h) == 0
}

func (h heldKeys) clear() {
	clear(h)
}

// animates reports whether holding key needs continuous frames.
func animates(key gpucontext.Key) bool {
	_, ok := keyActions[key]
	return ok || key == resetKey
}
