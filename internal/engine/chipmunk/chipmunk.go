// Package chipmunk runs the session on a Chipmunk2D space
// (github.com/jakecoffman/cp).
//
// Platforms are static boxes. The world bounds are not part of the space:
// after each step the player is clamped into them however fast it moves, and a
// bound never grounds it. The player is a box
// with infinite moment so it never tips over, plus a thin sensor under its
// feet; the sensor touching a platform is what makes the player grounded.
// Pickups are sensor boxes on the static body. Contacts are observed in
// pre-solve handlers and turned into the grounded flag and the overlap list of
// each Step.
package chipmunk

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/engine"
	"github.com/vovakirdan/appledash/internal/registry"
)

// Name is the registry key of this backend.
const Name = "chipmunk"

const (
	collisionTypePlayer cp.CollisionType = iota + 1
	collisionTypePlayerGround
	collisionTypePlatform
	collisionTypePickup
)

const (
	playerMass    = 1.0
	groundSensorH = 2.0

	// restSpeed is the rebound speed (px/s) below which a bounce off a world
	// bound is absorbed.
	restSpeed = 20
)

func init() {
	registry.Register(Name, "Chipmunk2D rigid-body space", func(w engine.World) engine.Engine {
		return New(w)
	})
}

type handle struct {
	body    *cp.Body
	shape   *cp.Shape
	size    core.Vec2
	center  core.Vec2
	sensor  bool
	enabled bool
}

// Space is a Chipmunk-backed engine.
type Space struct {
	space   *cp.Space
	handles *intmap.Map[engine.BodyID, *handle]
	shapes  map[*cp.Shape]engine.BodyID
	nextID  engine.BodyID
	bounds  core.Box

	player   engine.BodyID
	half     core.Vec2
	bounce   float64
	bounded  bool
	grounded bool
	overlaps *intmap.Map[engine.BodyID, struct{}]
}

// New creates a space with gravity. Non-empty bounds are enforced on the
// player after every step.
func New(w engine.World) *Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: w.Gravity})

	s := &Space{
		space:    space,
		handles:  intmap.New[engine.BodyID, *handle](16),
		shapes:   make(map[*cp.Shape]engine.BodyID),
		overlaps: intmap.New[engine.BodyID, struct{}](8),
		bounds:   w.Bounds,
	}
	s.addHandlers()
	return s
}

func (s *Space) addHandlers() {
	ground := s.space.NewCollisionHandler(collisionTypePlayerGround, collisionTypePlatform)
	ground.UserData = s
	ground.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sp, ok := userData.(*Space)
		if !ok || sp == nil {
			return true
		}
		sp.grounded = true
		return true
	}

	pickup := s.space.NewCollisionHandler(collisionTypePlayer, collisionTypePickup)
	pickup.UserData = s
	pickup.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sp, ok := userData.(*Space)
		if !ok || sp == nil {
			return true
		}
		a, b := arb.Shapes()
		id, found := sp.shapes[a]
		if !found || id == sp.player {
			id, found = sp.shapes[b]
		}
		if !found || id == sp.player {
			return true
		}
		if h, ok := sp.handles.Get(id); ok && h.sensor && h.enabled {
			sp.overlaps.Put(id, struct{}{})
		}
		return true
	}
}

func (s *Space) register(h *handle) engine.BodyID {
	s.nextID++
	id := s.nextID
	s.handles.Put(id, h)
	if h.shape != nil {
		s.shapes[h.shape] = id
	}
	return id
}

// AddStatic adds a solid platform.
func (s *Space) AddStatic(box core.Box) engine.BodyID {
	shape := cp.NewBox2(s.space.StaticBody, toBB(box), 0)
	shape.SetElasticity(1)
	shape.SetFriction(1)
	shape.SetCollisionType(collisionTypePlatform)
	s.space.AddShape(shape)
	return s.register(&handle{body: s.space.StaticBody, shape: shape, size: box.Size(), center: box.Center(), enabled: true})
}

// AddPlayer adds the dynamic body and its ground sensor. With
// CollideWorldBounds the body is clamped into the world bounds after every
// step.
func (s *Space) AddPlayer(spec engine.PlayerSpec) engine.BodyID {
	body := cp.NewBody(playerMass, math.Inf(1))
	body.SetPosition(cp.Vector{X: spec.Position.X, Y: spec.Position.Y})
	s.space.AddBody(body)

	shape := cp.NewBox(body, spec.Size.X, spec.Size.Y, 0)
	shape.SetElasticity(spec.Bounce)
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypePlayer)
	s.space.AddShape(shape)

	half := spec.Size.Scale(0.5)
	feet := cp.NewBox2(body, cp.BB{
		L: -half.X * 0.9,
		B: half.Y,
		R: half.X * 0.9,
		T: half.Y + groundSensorH,
	}, 0)
	feet.SetSensor(true)
	feet.SetCollisionType(collisionTypePlayerGround)
	s.space.AddShape(feet)

	id := s.register(&handle{body: body, shape: shape, size: spec.Size, enabled: true})
	s.player = id
	s.half = half
	s.bounce = spec.Bounce
	s.bounded = spec.CollideWorldBounds && s.bounds.Width() > 0 && s.bounds.Height() > 0
	return id
}

// AddSensor adds an enabled pickup box.
func (s *Space) AddSensor(center, size core.Vec2) engine.BodyID {
	h := &handle{body: s.space.StaticBody, size: size, center: center, sensor: true}
	id := s.register(h)
	s.Enable(id, center)
	return id
}

func (s *Space) sensorShape(center, size core.Vec2) *cp.Shape {
	shape := cp.NewBox2(s.space.StaticBody, toBB(core.BoxAt(center, size)), 0)
	shape.SetSensor(true)
	shape.SetCollisionType(collisionTypePickup)
	return shape
}

func (s *Space) dynamic(id engine.BodyID) *cp.Body {
	h, ok := s.handles.Get(id)
	if !ok || h.body == nil || h.body == s.space.StaticBody {
		return nil
	}
	return h.body
}

func (s *Space) SetVelocityX(id engine.BodyID, vx float64) {
	if b := s.dynamic(id); b != nil {
		b.SetVelocity(vx, b.Velocity().Y)
	}
}

func (s *Space) SetVelocityY(id engine.BodyID, vy float64) {
	if b := s.dynamic(id); b != nil {
		b.SetVelocity(b.Velocity().X, vy)
	}
}

func (s *Space) Velocity(id engine.BodyID) core.Vec2 {
	if b := s.dynamic(id); b != nil {
		v := b.Velocity()
		return core.V(v.X, v.Y)
	}
	return core.Vec2{}
}

func (s *Space) Position(id engine.BodyID) core.Vec2 {
	if b := s.dynamic(id); b != nil {
		p := b.Position()
		return core.V(p.X, p.Y)
	}
	if h, ok := s.handles.Get(id); ok {
		return h.center
	}
	return core.Vec2{}
}

func (s *Space) SetPositionX(id engine.BodyID, x float64) {
	if b := s.dynamic(id); b != nil {
		b.SetPosition(cp.Vector{X: x, Y: b.Position().Y})
	}
}

// Grounded reports whether the ground sensor touched a platform during the
// last Step. Only the player has a ground sensor.
func (s *Space) Grounded(id engine.BodyID) bool {
	return id != 0 && id == s.player && s.grounded
}

// Enable moves a pickup to center and puts it back into the space. Static
// shapes cannot be moved in place, so the shape is rebuilt.
func (s *Space) Enable(id engine.BodyID, center core.Vec2) {
	h, ok := s.handles.Get(id)
	if !ok || !h.sensor {
		return
	}
	if h.shape != nil {
		if h.enabled {
			s.space.RemoveShape(h.shape)
		}
		delete(s.shapes, h.shape)
	}
	h.center = center
	h.shape = s.sensorShape(center, h.size)
	s.space.AddShape(h.shape)
	s.shapes[h.shape] = id
	h.enabled = true
}

// Disable takes a pickup out of the space.
func (s *Space) Disable(id engine.BodyID) {
	h, ok := s.handles.Get(id)
	if !ok || !h.sensor || !h.enabled {
		return
	}
	s.space.RemoveShape(h.shape)
	h.enabled = false
}

func (s *Space) Enabled(id engine.BodyID) bool {
	h, ok := s.handles.Get(id)
	return ok && h.enabled
}

// Step advances the space and reports pickups the player touched, ordered by
// body ID.
func (s *Space) Step(dt float64) []engine.Overlap {
	if dt <= 0 {
		return nil
	}
	s.grounded = false
	s.overlaps.Clear()

	s.space.Step(dt)
	s.clampPlayer()

	if s.overlaps.Len() == 0 {
		return nil
	}
	ids := make([]engine.BodyID, 0, s.overlaps.Len())
	s.overlaps.ForEach(func(id engine.BodyID, _ struct{}) bool {
		ids = append(ids, id)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]engine.Overlap, 0, len(ids))
	for _, id := range ids {
		// A pickup disabled by an earlier overlap in the same step is skipped.
		if s.Enabled(id) {
			out = append(out, engine.Overlap{Player: s.player, Other: id})
		}
	}
	return out
}

// clampPlayer keeps the player inside the world bounds. Like the bound
// segments it never grounds the player.
func (s *Space) clampPlayer() {
	if !s.bounded {
		return
	}
	b := s.dynamic(s.player)
	if b == nil {
		return
	}
	pos, vel := b.Position(), b.Velocity()
	moved := false

	if lo := s.bounds.Min.X + s.half.X; pos.X < lo {
		pos.X, moved = lo, true
		if vel.X < 0 {
			vel.X = rebound(vel.X, s.bounce)
		}
	} else if hi := s.bounds.Max.X - s.half.X; pos.X > hi {
		pos.X, moved = hi, true
		if vel.X > 0 {
			vel.X = rebound(vel.X, s.bounce)
		}
	}
	if lo := s.bounds.Min.Y + s.half.Y; pos.Y < lo {
		pos.Y, moved = lo, true
		if vel.Y < 0 {
			vel.Y = rebound(vel.Y, s.bounce)
		}
	} else if hi := s.bounds.Max.Y - s.half.Y; pos.Y > hi {
		pos.Y, moved = hi, true
		if vel.Y > 0 {
			vel.Y = rebound(vel.Y, s.bounce)
		}
	}
	if moved {
		b.SetPosition(pos)
		b.SetVelocity(vel.X, vel.Y)
	}
}

func rebound(v, bounce float64) float64 {
	r := -v * bounce
	if math.Abs(r) < restSpeed {
		return 0
	}
	return r
}

func toBB(b core.Box) cp.BB {
	return cp.BB{L: b.Min.X, B: b.Min.Y, R: b.Max.X, T: b.Max.Y}
}
