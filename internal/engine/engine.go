// Package engine defines the narrow physics interface the gameplay core drives.
//
// The session never integrates motion or detects collisions itself. It creates
// bodies through an Engine, writes velocities, calls Step once per tick, and
// receives the player/pickup overlaps of that step as a plain list. Backends
// live in subpackages and register themselves with the registry package.
package engine

import "github.com/vovakirdan/appledash/internal/core"

// BodyID identifies a body inside one engine instance. IDs are assigned in
// creation order starting at 1; 0 is never a valid body.
type BodyID uint32

// World describes the simulated rectangle and its gravity (pixels/s², +y down).
type World struct {
	Bounds  core.Box
	Gravity float64
}

// PlayerSpec describes the single dynamic body.
type PlayerSpec struct {
	Position core.Vec2 // centre
	Size     core.Vec2
	Bounce   float64

	// CollideWorldBounds keeps the body inside World.Bounds. Touching a bound
	// never counts as grounded.
	CollideWorldBounds bool
}

// Overlap reports that the player overlapped an enabled sensor during a step.
type Overlap struct {
	Player BodyID
	Other  BodyID
}

// Engine is implemented by every physics backend.
type Engine interface {
	// AddStatic adds an immovable platform.
	AddStatic(box core.Box) BodyID
	// AddPlayer adds the dynamic player body.
	AddPlayer(spec PlayerSpec) BodyID
	// AddSensor adds an enabled, overlap-only box centred on center.
	AddSensor(center, size core.Vec2) BodyID

	SetVelocityX(id BodyID, vx float64)
	SetVelocityY(id BodyID, vy float64)
	Velocity(id BodyID) core.Vec2
	Position(id BodyID) core.Vec2
	SetPositionX(id BodyID, x float64)

	// Grounded reports whether the body rested on a platform after the last Step.
	Grounded(id BodyID) bool

	// Enable re-enables a sensor at a new centre; Disable removes it from
	// overlap detection until the next Enable.
	Enable(id BodyID, center core.Vec2)
	Disable(id BodyID)
	Enabled(id BodyID) bool

	// Step advances the simulation by dt seconds and returns the overlaps between
	// the player and enabled sensors, in body creation order, each at most once.
	Step(dt float64) []Overlap
}

// Factory builds a fresh engine for a world.
type Factory func(w World) Engine
