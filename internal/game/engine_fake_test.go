package game

import (
	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/engine"
)

type fakeBody struct {
	box     core.Box
	pos     core.Vec2
	size    core.Vec2
	vel     core.Vec2
	sensor  bool
	enabled bool
}

// fakeEngine integrates velocity without gravity or collisions. Grounded is
// whatever the test says, and overlaps are geometric unless a script is set.
type fakeEngine struct {
	bodies   []*fakeBody
	player   engine.BodyID
	grounded bool
	script   [][]engine.Overlap
	steps    int
}

func (f *fakeEngine) add(b *fakeBody) engine.BodyID {
	f.bodies = append(f.bodies, b)
	return engine.BodyID(len(f.bodies))
}

func (f *fakeEngine) get(id engine.BodyID) *fakeBody { return f.bodies[id-1] }

func (f *fakeEngine) AddStatic(box core.Box) engine.BodyID {
	return f.add(&fakeBody{pos: box.Center(), size: box.Size(), enabled: true})
}

func (f *fakeEngine) AddPlayer(spec engine.PlayerSpec) engine.BodyID {
	f.player = f.add(&fakeBody{pos: spec.Position, size: spec.Size, enabled: true})
	return f.player
}

func (f *fakeEngine) AddSensor(center, size core.Vec2) engine.BodyID {
	return f.add(&fakeBody{pos: center, size: size, sensor: true, enabled: true})
}

func (f *fakeEngine) SetVelocityX(id engine.BodyID, vx float64) { f.get(id).vel.X = vx }
func (f *fakeEngine) SetVelocityY(id engine.BodyID, vy float64) { f.get(id).vel.Y = vy }
func (f *fakeEngine) Velocity(id engine.BodyID) core.Vec2        { return f.get(id).vel }
func (f *fakeEngine) Position(id engine.BodyID) core.Vec2        { return f.get(id).pos }
func (f *fakeEngine) SetPositionX(id engine.BodyID, x float64)   { f.get(id).pos.X = x }
func (f *fakeEngine) Grounded(id engine.BodyID) bool              { return id == f.player && f.grounded }
func (f *fakeEngine) Enabled(id engine.BodyID) bool               { return f.get(id).enabled }
func (f *fakeEngine) Disable(id engine.BodyID)                    { f.get(id).enabled = false }

func (f *fakeEngine) Enable(id engine.BodyID, center core.Vec2) {
	b := f.get(id)
	b.pos = center
	b.enabled = true
}

// place teleports the player.
func (f *fakeEngine) place(p core.Vec2) {
	f.get(f.player).pos = p
}

func (f *fakeEngine) Step(dt float64) []engine.Overlap {
	f.steps++
	p := f.get(f.player)
	p.pos = p.pos.Add(p.vel.Scale(dt))

	if len(f.script) > 0 {
		out := f.script[0]
		f.script = f.script[1:]
		return out
	}

	var out []engine.Overlap
	pb := core.BoxAt(p.pos, p.size)
	for i, b := range f.bodies {
		if b.sensor && b.enabled && pb.Overlaps(core.BoxAt(b.pos, b.size)) {
			out = append(out, engine.Overlap{Player: f.player, Other: engine.BodyID(i + 1)})
		}
	}
	return out
}
