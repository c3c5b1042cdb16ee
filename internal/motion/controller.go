// Package motion turns per-tick input commands into velocity directives for the
// player body and enforces the hard left boundary.
package motion

import "github.com/vovakirdan/appledash/internal/input"

// Body is the slice of the physics engine the controller drives.
type Body interface {
	Grounded() bool
	SetVelocityX(vx float64)
	SetVelocityY(vy float64)
	X() float64
	SetX(x float64)
}

// Controller holds the movement tuning.
type Controller struct {
	RunSpeed     float64 // px/s
	JumpVelocity float64 // px/s, negative is up
	MinX         float64
}

// Default returns the stock tuning.
func Default() Controller {
	return Controller{RunSpeed: 200, JumpVelocity: -400, MinX: 50}
}

// Apply sets horizontal velocity from the command and starts a jump when one is
// requested while grounded. Vertical velocity is otherwise left to the engine.
func (c Controller) Apply(cmd input.Command, body Body) {
	body.SetVelocityX(float64(cmd.Move) * c.RunSpeed)
	if cmd.Jump {
		c.TryJump(body)
	}
}

// TryJump starts a jump if the body is grounded and reports whether it did.
func (c Controller) TryJump(body Body) bool {
	if !body.Grounded() {
		return false
	}
	body.SetVelocityY(c.JumpVelocity)
	return true
}

// Clamp pins the body at MinX after integration. Velocity is untouched, so a
// body pushed left keeps pressing against the wall.
func (c Controller) Clamp(body Body) {
	if body.X() < c.MinX {
		body.SetX(c.MinX)
	}
}
