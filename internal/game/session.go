// Package game runs one Apple Dash session: it owns the session state and
// orders the work of every tick.
//
// Each Step fires due respawn timers, samples the input command, applies
// velocity directives, advances the physics engine, collects overlapped apples
// and finally clamps the player to the left boundary. Frontends push input
// events and call Step at the tick rate; they never touch the components
// directly.
package game

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/appledash/internal/config"
	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/engine"
	"github.com/vovakirdan/appledash/internal/input"
	"github.com/vovakirdan/appledash/internal/motion"
	"github.com/vovakirdan/appledash/internal/pickup"
	"github.com/vovakirdan/appledash/internal/registry"
	"github.com/vovakirdan/appledash/internal/score"
	"github.com/vovakirdan/appledash/internal/timer"
)

// Options configures a new session.
type Options struct {
	Config  config.Config
	Runtime core.RuntimeConfig

	// Engine overrides the backend named by Config.Engine.
	Engine engine.Engine

	Mode  input.Mode
	Touch input.TouchSurface

	// KeyReleases is set by frontends that report key-up events. Terminals
	// leave it false and get the configured hold window instead.
	KeyReleases bool

	Logger *log.Logger
	Record bool
}

// Session is the complete state of one play-through.
type Session struct {
	cfg     config.Config
	runtime core.RuntimeConfig
	logger  *log.Logger
	dt      float64

	engine  engine.Engine
	player  engine.BodyID
	body    playerBody
	motion  motion.Controller
	input   *input.Aggregator
	pickups *pickup.Registry
	score   *score.Tracker
	timers  *timer.Queue

	bodyToPickup *intmap.Map[engine.BodyID, pickup.ID]
	platforms    []core.Box

	tick   uint64
	paused bool
	closed bool

	journal *Journal
}

// New builds a session: world, platforms, player and apples.
func New(opts Options) (*Session, error) {
	cfg := opts.Config
	rt := opts.Runtime
	if rt.TickRate <= 0 {
		rt.TickRate = cfg.TickRate
	}
	if rt.TickRate <= 0 {
		return nil, fmt.Errorf("game: invalid tick rate %d", rt.TickRate)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	hold := input.HoldTicksFor(cfg.Controls.KeyHoldMS, rt.TickRate)
	if opts.KeyReleases {
		hold = 0
	}
	agg, err := input.NewAggregator(input.Options{Mode: opts.Mode, HoldTicks: hold, Touch: opts.Touch})
	if err != nil {
		return nil, err
	}

	world := engine.World{
		Bounds:  core.Box{Max: core.V(cfg.World.Width, cfg.World.Height)},
		Gravity: cfg.World.Gravity,
	}
	eng := opts.Engine
	if eng == nil {
		eng, err = registry.Create(cfg.Engine, world)
		if err != nil {
			return nil, err
		}
	}

	s := &Session{
		cfg:     cfg,
		runtime: rt,
		logger:  logger,
		dt:      1 / float64(rt.TickRate),
		engine:  eng,
		motion: motion.Controller{
			RunSpeed:     cfg.Player.RunSpeed,
			JumpVelocity: cfg.Player.JumpVelocity,
			MinX:         cfg.Player.MinX,
		},
		input:        agg,
		score:        score.NewTracker(),
		timers:       timer.NewQueue(),
		bodyToPickup: intmap.New[engine.BodyID, pickup.ID](len(apples)),
	}

	s.platforms = Platforms(world.Bounds)
	for _, p := range s.platforms {
		eng.AddStatic(p)
	}

	s.player = eng.AddPlayer(engine.PlayerSpec{
		Position:           core.V(cfg.Player.SpawnX, cfg.Player.SpawnY),
		Size:               core.V(cfg.Player.Width, cfg.Player.Height),
		Bounce:             cfg.Player.Bounce,
		CollideWorldBounds: true,
	})
	s.body = playerBody{engine: eng, id: s.player}

	bodies := &pickupBodies{engine: eng, ids: intmap.New[pickup.ID, engine.BodyID](len(apples))}
	r := cfg.Pickups.Respawn
	s.pickups = pickup.NewRegistry(pickup.Options{
		Points:    cfg.Pickups.Points,
		Delay:     cfg.RespawnDelay(),
		Respawn:   pickup.Area{MinX: r.MinX, MaxX: r.MaxX, MinY: r.MinY, MaxY: r.MaxY},
		Bodies:    bodies,
		Scheduler: s.timers,
		Scorer:    s.score,
		Rand:      newRand(rt.Seed),
		Logger:    logger,
	})
	size := core.V(cfg.Pickups.Width, cfg.Pickups.Height)
	for _, pos := range ApplePositions() {
		bid := eng.AddSensor(pos, size)
		pid := s.pickups.Add(pos)
		bodies.ids.Put(pid, bid)
		s.bodyToPickup.Put(bid, pid)
	}

	if opts.Record {
		s.journal = &Journal{
			Seed:        rt.Seed,
			Mode:        opts.Mode,
			KeyReleases: opts.KeyReleases,
			Engine:      cfg.Engine,
			TickRate:    rt.TickRate,
			Config:      cfg,
		}
	}

	logger.Info("session started",
		"engine", cfg.Engine,
		"mode", opts.Mode,
		"tick_rate", rt.TickRate,
		"seed", rt.Seed,
	)
	return s, nil
}

// Push delivers a raw input event. Key and touch movement events are buffered
// until the next Step. A touch jump is a pulse: it is evaluated immediately,
// between ticks, and only takes effect if the player is grounded.
func (s *Session) Push(ev input.Event) {
	if s.closed || !s.input.Accepts(ev) {
		return
	}
	if s.input.IsJumpPulse(ev) {
		if s.paused {
			return
		}
		s.record(ev)
		s.motion.TryJump(s.body)
		return
	}
	s.record(ev)
	s.input.Push(ev)
}

func (s *Session) record(ev input.Event) {
	if s.journal != nil {
		s.journal.Events = append(s.journal.Events, JournalEvent{Tick: s.tick, Event: ev})
	}
}

// Step advances the session by one tick. Paused or closed sessions do not
// advance.
func (s *Session) Step() core.GameState {
	if s.paused || s.closed {
		return s.State()
	}

	s.timers.Advance(s.Clock())

	cmd := s.input.Sample(s.tick)
	s.motion.Apply(cmd, s.body)

	for _, ov := range s.engine.Step(s.dt) {
		if pid, ok := s.bodyToPickup.Get(ov.Other); ok {
			s.pickups.OnOverlap(pid)
		}
	}

	s.motion.Clamp(s.body)
	s.tick++
	return s.State()
}

// TogglePause freezes or resumes the session clock.
func (s *Session) TogglePause() {
	if s.closed {
		return
	}
	s.paused = !s.paused
	s.logger.Debug("pause toggled", "paused", s.paused, "tick", s.tick)
}

// Close tears the session down. Pending respawns become no-ops.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.pickups.Close()
	s.logger.Info("session ended", "ticks", s.tick, "score", s.score.Value())
}

// Clock returns the session time at the start of the next tick.
func (s *Session) Clock() time.Duration {
	return time.Duration(int64(s.tick) * int64(time.Second) / int64(s.runtime.TickRate))
}

// State returns the summary frontends poll after each tick.
func (s *Session) State() core.GameState {
	return core.GameState{Tick: s.tick, Score: s.score.Value(), Paused: s.paused}
}

// Mode returns the input modality of the session.
func (s *Session) Mode() input.Mode {
	return s.input.Mode()
}

// Visibility reports which control surfaces the frontend should show.
func (s *Session) Visibility() input.Visibility {
	return s.input.Visibility()
}

// Config returns the configuration the session was built with.
func (s *Session) Config() config.Config {
	return s.cfg
}

// Runtime returns the runtime settings, with the effective tick rate.
func (s *Session) Runtime() core.RuntimeConfig {
	return s.runtime
}

// Journal returns a copy of the recorded inputs. ok is false when the session
// is not recording.
func (s *Session) Journal() (j Journal, ok bool) {
	if s.journal == nil {
		return Journal{}, false
	}
	j = *s.journal
	j.Ticks = s.tick
	j.Events = append([]JournalEvent(nil), s.journal.Events...)
	return j, true
}

// playerBody adapts the engine's player to the motion controller.
type playerBody struct {
	engine engine.Engine
	id     engine.BodyID
}

func (b playerBody) Grounded() bool          { return b.engine.Grounded(b.id) }
func (b playerBody) SetVelocityX(vx float64) { b.engine.SetVelocityX(b.id, vx) }
func (b playerBody) SetVelocityY(vy float64) { b.engine.SetVelocityY(b.id, vy) }
func (b playerBody) X() float64              { return b.engine.Position(b.id).X }
func (b playerBody) SetX(x float64)          { b.engine.SetPositionX(b.id, x) }

// pickupBodies maps pickups onto their engine sensors.
type pickupBodies struct {
	engine engine.Engine
	ids    *intmap.Map[pickup.ID, engine.BodyID]
}

func (p *pickupBodies) Show(id pickup.ID, at core.Vec2) {
	if bid, ok := p.ids.Get(id); ok {
		p.engine.Enable(bid, at)
	}
}

func (p *pickupBodies) Hide(id pickup.ID) {
	if bid, ok := p.ids.Get(id); ok {
		p.engine.Disable(bid)
	}
}
