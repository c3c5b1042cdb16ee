package pickup

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/score"
	"github.com/vovakirdan/appledash/internal/timer"
)

type fakeBodies struct {
	visible map[ID]bool
	shownAt map[ID]core.Vec2
}

func newFakeBodies() *fakeBodies {
	return &fakeBodies{visible: map[ID]bool{}, shownAt: map[ID]core.Vec2{}}
}

func (f *fakeBodies) Show(id ID, at core.Vec2) {
	f.visible[id] = true
	f.shownAt[id] = at
}

func (f *fakeBodies) Hide(id ID) { f.visible[id] = false }

type seqRand struct{ values []int }

func (s *seqRand) IntBetween(lo, hi int) int {
	v := s.values[0]
	s.values = s.values[1:]
	return v
}

type pcgRand struct{ r *rand.Rand }

func (p pcgRand) IntBetween(lo, hi int) int { return lo + p.r.IntN(hi-lo+1) }

var area = Area{MinX: 600, MaxX: 1200, MinY: 300, MaxY: 500}

type fixture struct {
	reg    *Registry
	bodies *fakeBodies
	clock  *timer.Queue
	score  *score.Tracker
}

func newFixture(r Rand) fixture {
	f := fixture{bodies: newFakeBodies(), clock: timer.NewQueue(), score: score.NewTracker()}
	f.reg = NewRegistry(Options{
		Points:    10,
		Delay:     3 * time.Second,
		Respawn:   area,
		Bodies:    f.bodies,
		Scheduler: f.clock,
		Scorer:    f.score,
		Rand:      r,
	})
	return f
}

func TestCollectAndRespawn(t *testing.T) {
	f := newFixture(&seqRand{values: []int{750, 320}})
	id := f.reg.Add(core.V(200, 450))

	require.True(t, f.reg.OnOverlap(id))
	p, _ := f.reg.Get(id)
	assert.Equal(t, Hidden, p.State)
	assert.False(t, f.bodies.visible[id])
	assert.Equal(t, 10, f.score.Value())
	assert.Equal(t, "Apples: 10", f.score.Text())

	f.clock.Advance(2999 * time.Millisecond)
	p, _ = f.reg.Get(id)
	assert.Equal(t, Hidden, p.State, "not yet due")

	f.clock.Advance(3000 * time.Millisecond)
	p, _ = f.reg.Get(id)
	assert.Equal(t, Active, p.State)
	assert.Equal(t, core.V(750, 320), p.Pos)
	assert.True(t, f.bodies.visible[id])
	assert.Equal(t, core.V(750, 320), f.bodies.shownAt[id])

	require.True(t, f.reg.OnOverlap(id))
	assert.Equal(t, 20, f.score.Value())
}

func TestHiddenPickupIgnoresOverlap(t *testing.T) {
	f := newFixture(&seqRand{values: []int{600, 300}})
	id := f.reg.Add(core.V(200, 450))

	require.True(t, f.reg.OnOverlap(id))
	assert.False(t, f.reg.OnOverlap(id))
	assert.False(t, f.reg.OnOverlap(id))

	assert.Equal(t, 10, f.score.Value())
	assert.Equal(t, 1, f.clock.Len(), "one respawn per collection")
}

func TestUnknownPickupIgnored(t *testing.T) {
	f := newFixture(nil)
	assert.False(t, f.reg.OnOverlap(0))
	assert.False(t, f.reg.OnOverlap(42))
	assert.Zero(t, f.score.Value())
}

func TestSimultaneousCollections(t *testing.T) {
	f := newFixture(&seqRand{values: []int{600, 300, 1200, 500}})
	a := f.reg.Add(core.V(200, 450))
	b := f.reg.Add(core.V(300, 400))

	f.reg.OnOverlap(b)
	f.reg.OnOverlap(a)

	assert.Equal(t, 20, f.score.Value())
	assert.Equal(t, 0, f.reg.ActiveCount())

	// Timers fire independently in scheduling order.
	f.clock.Advance(3 * time.Second)
	pa, _ := f.reg.Get(a)
	pb, _ := f.reg.Get(b)
	assert.Equal(t, core.V(1200, 500), pa.Pos)
	assert.Equal(t, core.V(600, 300), pb.Pos)
	assert.Equal(t, 2, f.reg.ActiveCount())
}

func TestRespawnStaysInArea(t *testing.T) {
	f := newFixture(pcgRand{r: rand.New(rand.NewPCG(1, 2))})
	id := f.reg.Add(core.V(200, 450))

	now := time.Duration(0)
	for i := 0; i < 500; i++ {
		require.True(t, f.reg.OnOverlap(id))
		now += 3 * time.Second
		f.clock.Advance(now)

		p, _ := f.reg.Get(id)
		require.Equal(t, Active, p.State)
		require.True(t, area.Contains(p.Pos), "respawned at %v", p.Pos)
		require.Equal(t, p.Pos.X, float64(int(p.Pos.X)), "integer coordinates")
	}
	assert.Equal(t, 5000, f.score.Value())
}

func TestCloseMakesRespawnNoop(t *testing.T) {
	f := newFixture(&seqRand{values: []int{700, 400}})
	id := f.reg.Add(core.V(200, 450))
	f.reg.OnOverlap(id)

	f.reg.Close()
	assert.Equal(t, 1, f.clock.Advance(3*time.Second))

	p, _ := f.reg.Get(id)
	assert.Equal(t, Hidden, p.State)
	assert.False(t, f.bodies.visible[id])
	assert.False(t, f.reg.OnOverlap(id))
}

func TestAllReturnsCopy(t *testing.T) {
	f := newFixture(nil)
	f.reg.Add(core.V(1, 2))
	all := f.reg.All()
	all[0].State = Hidden

	p, ok := f.reg.Get(1)
	require.True(t, ok)
	assert.Equal(t, Active, p.State)
	assert.Equal(t, "active", p.State.String())
}
