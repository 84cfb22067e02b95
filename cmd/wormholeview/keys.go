package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/wormhole/player"
)

var keyActions = map[ebiten.Key]player.Action{
	ebiten.KeyW:          player.Forward,
	ebiten.KeyS:          player.Back,
	ebiten.KeyA:          player.Left,
	ebiten.KeyD:          player.Right,
	ebiten.KeySpace:      player.Up,
	ebiten.KeyShiftLeft:  player.Down,
	ebiten.KeyArrowLeft:  player.TurnLeft,
	ebiten.KeyArrowRight: player.TurnRight,
	ebiten.KeyArrowUp:    player.LookUp,
	ebiten.KeyArrowDown:  player.LookDown,
	ebiten.KeyQ:          player.RollLeft,
	ebiten.KeyE:          player.RollRight,
}

const resetKey = ebiten.KeyR

// syncKeys mirrors the polled key state into c.
func syncKeys(c *player.Controls, pressed func(ebiten.Key) bool) {
	for k, a := range keyActions {
		if pressed(k) {
			c.Press(a)
		} else {
			c.Release(a)
		}
	}
}
