// Package pickup owns the collectible apples: their Active/Hidden lifecycle,
// the score they award, and their timed respawn at a random position.
package pickup

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/appledash/internal/core"
)

// ID identifies a pickup within a session. IDs start at 1.
type ID uint32

// State is the lifecycle state of a pickup.
type State uint8

const (
	Active State = iota
	Hidden
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Hidden:
		return "hidden"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Pickup is a read-only view of one collectible.
type Pickup struct {
	ID    ID
	Pos   core.Vec2
	State State
}

// Bodies shows and hides the physics bodies behind pickups.
type Bodies interface {
	Show(id ID, at core.Vec2)
	Hide(id ID)
}

// Scheduler runs fn once after d of session time.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Scorer receives points for collections.
type Scorer interface {
	Add(amount int)
}

// Rand draws uniform integers from the inclusive range [lo, hi].
type Rand interface {
	IntBetween(lo, hi int) int
}

// Area is the inclusive integer rectangle respawned pickups land in.
type Area struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Contains reports whether p lies inside the area.
func (a Area) Contains(p core.Vec2) bool {
	return p.X >= float64(a.MinX) && p.X <= float64(a.MaxX) &&
		p.Y >= float64(a.MinY) && p.Y <= float64(a.MaxY)
}

// Options configures a Registry.
type Options struct {
	Points  int
	Delay   time.Duration
	Respawn Area

	Bodies    Bodies
	Scheduler Scheduler
	Scorer    Scorer
	Rand      Rand
	Logger    *log.Logger
}

// Registry tracks every pickup of a session.
type Registry struct {
	opts    Options
	logger  *log.Logger
	pickups []Pickup
	closed  bool
}

// NewRegistry returns an empty registry.
func NewRegistry(opts Options) *Registry {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Registry{opts: opts, logger: logger}
}

// Add registers an Active pickup at pos. The caller creates its body.
func (r *Registry) Add(pos core.Vec2) ID {
	id := ID(len(r.pickups) + 1)
	r.pickups = append(r.pickups, Pickup{ID: id, Pos: pos, State: Active})
	return id
}

func (r *Registry) get(id ID) *Pickup {
	if id == 0 || int(id) > len(r.pickups) {
		return nil
	}
	return &r.pickups[id-1]
}

// OnOverlap collects an Active pickup: its body is hidden, points are awarded
// and a respawn is scheduled. Hidden or unknown pickups are ignored. Reports
// whether a collection happened.
func (r *Registry) OnOverlap(id ID) bool {
	p := r.get(id)
	if p == nil || p.State != Active || r.closed {
		return false
	}

	r.opts.Bodies.Hide(id)
	p.State = Hidden
	r.opts.Scorer.Add(r.opts.Points)
	r.opts.Scheduler.After(r.opts.Delay, func() { r.respawn(id) })

	r.logger.Debug("pickup collected", "id", id, "x", p.Pos.X, "y", p.Pos.Y)
	return true
}

func (r *Registry) respawn(id ID) {
	if r.closed {
		return
	}
	p := r.get(id)
	if p == nil || p.State != Hidden {
		return
	}

	area := r.opts.Respawn
	x := r.opts.Rand.IntBetween(area.MinX, area.MaxX)
	y := r.opts.Rand.IntBetween(area.MinY, area.MaxY)
	p.Pos = core.V(float64(x), float64(y))
	r.opts.Bodies.Show(id, p.Pos)
	p.State = Active

	r.logger.Debug("pickup respawned", "id", id, "x", x, "y", y)
}

// Close stops the registry. Respawns that fire afterwards do nothing.
func (r *Registry) Close() {
	r.closed = true
}

// Get returns the pickup with the given ID.
func (r *Registry) Get(id ID) (Pickup, bool) {
	p := r.get(id)
	if p == nil {
		return Pickup{}, false
	}
	return *p, true
}

// All returns a copy of every pickup in ID order.
func (r *Registry) All() []Pickup {
	out := make([]Pickup, len(r.pickups))
	copy(out, r.pickups)
	return out
}

// ActiveCount returns how many pickups can currently be collected.
func (r *Registry) ActiveCount() int {
	n := 0
	for _, p := range r.pickups {
		if p.State == Active {
			n++
		}
	}
	return n
}
