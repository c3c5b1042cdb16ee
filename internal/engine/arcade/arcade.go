// Package arcade is a small deterministic AABB physics backend.
//
// It mirrors arcade-style engines: gravity is integrated into velocity, the
// player moves one axis at a time and is pushed out of static boxes, a contact
// from above sets the touching-down flag, and impacts reflect velocity scaled by
// the body's bounce. Sensors never push; they only report overlaps.
package arcade

import (
	"math"

	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/engine"
	"github.com/vovakirdan/appledash/internal/registry"
)

// Name is the registry key of this backend.
const Name = "arcade"

// restSpeed is the rebound speed (px/s) below which a bounce is absorbed, so a
// resting body settles instead of jittering on the floor.
const restSpeed = 20

func init() {
	registry.Register(Name, "Deterministic AABB integrator", func(w engine.World) engine.Engine {
		return New(w)
	})
}

type kind uint8

const (
	kindStatic kind = iota
	kindPlayer
	kindSensor
)

type body struct {
	kind    kind
	pos     core.Vec2 // centre
	size    core.Vec2
	vel     core.Vec2
	bounce  float64
	bounded bool
	enabled bool
	ground  bool
}

func (b *body) box() core.Box {
	return core.BoxAt(b.pos, b.size)
}

// World is an arcade physics world.
type World struct {
	world  engine.World
	bodies []*body
	player engine.BodyID
}

// New creates an empty world.
func New(w engine.World) *World {
	return &World{world: w}
}

func (w *World) add(b *body) engine.BodyID {
	w.bodies = append(w.bodies, b)
	return engine.BodyID(len(w.bodies))
}

func (w *World) get(id engine.BodyID) *body {
	if id == 0 || int(id) > len(w.bodies) {
		return nil
	}
	return w.bodies[id-1]
}

// AddStatic adds an immovable box.
func (w *World) AddStatic(box core.Box) engine.BodyID {
	return w.add(&body{kind: kindStatic, pos: box.Center(), size: box.Size(), enabled: true})
}

// AddPlayer adds the dynamic body. Only one player is simulated; a second call
// replaces the first as the body that moves.
func (w *World) AddPlayer(spec engine.PlayerSpec) engine.BodyID {
	id := w.add(&body{
		kind:    kindPlayer,
		pos:     spec.Position,
		size:    spec.Size,
		bounce:  spec.Bounce,
		bounded: spec.CollideWorldBounds,
		enabled: true,
	})
	w.player = id
	return id
}

// AddSensor adds an overlap-only box.
func (w *World) AddSensor(center, size core.Vec2) engine.BodyID {
	return w.add(&body{kind: kindSensor, pos: center, size: size, enabled: true})
}

func (w *World) SetVelocityX(id engine.BodyID, vx float64) {
	if b := w.get(id); b != nil {
		b.vel.X = vx
	}
}

func (w *World) SetVelocityY(id engine.BodyID, vy float64) {
	if b := w.get(id); b != nil {
		b.vel.Y = vy
	}
}

func (w *World) Velocity(id engine.BodyID) core.Vec2 {
	if b := w.get(id); b != nil {
		return b.vel
	}
	return core.Vec2{}
}

func (w *World) Position(id engine.BodyID) core.Vec2 {
	if b := w.get(id); b != nil {
		return b.pos
	}
	return core.Vec2{}
}

func (w *World) SetPositionX(id engine.BodyID, x float64) {
	if b := w.get(id); b != nil {
		b.pos.X = x
	}
}

func (w *World) Grounded(id engine.BodyID) bool {
	if b := w.get(id); b != nil {
		return b.ground
	}
	return false
}

func (w *World) Enable(id engine.BodyID, center core.Vec2) {
	if b := w.get(id); b != nil && b.kind == kindSensor {
		b.pos = center
		b.enabled = true
	}
}

func (w *World) Disable(id engine.BodyID) {
	if b := w.get(id); b != nil && b.kind == kindSensor {
		b.enabled = false
	}
}

func (w *World) Enabled(id engine.BodyID) bool {
	if b := w.get(id); b != nil {
		return b.enabled
	}
	return false
}

// Step integrates the player and collects sensor overlaps.
func (w *World) Step(dt float64) []engine.Overlap {
	p := w.get(w.player)
	if p == nil || dt <= 0 {
		return nil
	}

	p.vel.Y += w.world.Gravity * dt
	p.ground = false

	// X first, then Y, so a body sliding along the floor is never pushed sideways
	// by the box it stands on.
	prev := p.box()
	p.pos.X += p.vel.X * dt
	w.resolveX(p, prev)
	prev = p.box()
	p.pos.Y += p.vel.Y * dt
	w.resolveY(p, prev)

	if p.bounded {
		w.clampToBounds(p)
	}

	var out []engine.Overlap
	pb := p.box()
	for i, b := range w.bodies {
		if b.kind != kindSensor || !b.enabled {
			continue
		}
		if pb.Overlaps(b.box()) {
			out = append(out, engine.Overlap{Player: w.player, Other: engine.BodyID(i + 1)})
		}
	}
	return out
}

// contactSlop absorbs float drift from earlier push-outs when deciding which
// side of a static box the body came from.
const contactSlop = 1e-6

// resolveX pushes the body out of static boxes it entered sideways. Boxes the
// body already overlapped on this axis before moving are left to resolveY.
func (w *World) resolveX(p *body, prev core.Box) {
	for _, s := range w.bodies {
		if s.kind != kindStatic {
			continue
		}
		pb, sb := p.box(), s.box()
		if !pb.Overlaps(sb) {
			continue
		}
		switch {
		case p.vel.X > 0 && prev.Max.X <= sb.Min.X+contactSlop:
			p.pos.X -= pb.Max.X - sb.Min.X
		case p.vel.X < 0 && prev.Min.X >= sb.Max.X-contactSlop:
			p.pos.X += sb.Max.X - pb.Min.X
		default:
			continue
		}
		p.vel.X = rebound(p.vel.X, p.bounce)
	}
}

// resolveY lands the body on static boxes it reached from above and stops it
// under boxes it hit from below. Landing sets the touching-down flag.
func (w *World) resolveY(p *body, prev core.Box) {
	for _, s := range w.bodies {
		if s.kind != kindStatic {
			continue
		}
		pb, sb := p.box(), s.box()
		if !pb.Overlaps(sb) {
			continue
		}
		switch {
		case p.vel.Y > 0 && prev.Max.Y <= sb.Min.Y+contactSlop:
			p.pos.Y -= pb.Max.Y - sb.Min.Y
			p.ground = true
		case p.vel.Y < 0 && prev.Min.Y >= sb.Max.Y-contactSlop:
			p.pos.Y += sb.Max.Y - pb.Min.Y
		default:
			continue
		}
		p.vel.Y = rebound(p.vel.Y, p.bounce)
	}
}

func (w *World) clampToBounds(p *body) {
	bounds := w.world.Bounds
	half := p.size.Scale(0.5)

	if p.pos.X-half.X < bounds.Min.X {
		p.pos.X = bounds.Min.X + half.X
		p.vel.X = rebound(p.vel.X, p.bounce)
	} else if p.pos.X+half.X > bounds.Max.X {
		p.pos.X = bounds.Max.X - half.X
		p.vel.X = rebound(p.vel.X, p.bounce)
	}
	if p.pos.Y-half.Y < bounds.Min.Y {
		p.pos.Y = bounds.Min.Y + half.Y
		p.vel.Y = rebound(p.vel.Y, p.bounce)
	} else if p.pos.Y+half.Y > bounds.Max.Y {
		p.pos.Y = bounds.Max.Y - half.Y
		p.vel.Y = rebound(p.vel.Y, p.bounce)
	}
}

func rebound(v, bounce float64) float64 {
	r := -v * bounce
	if math.Abs(r) < restSpeed {
		return 0
	}
	return r
}
