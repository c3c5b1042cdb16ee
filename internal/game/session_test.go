package game

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/appledash/internal/config"
	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/engine"
	_ "github.com/vovakirdan/appledash/internal/engine/arcade"
	"github.com/vovakirdan/appledash/internal/input"
	"github.com/vovakirdan/appledash/internal/pickup"
)

type touchPad struct{}

func (touchPad) Has(input.Button) bool { return true }

// Body IDs in the fake engine: 1 ground, 2 player, 3.. apples in layout order.
const firstApple engine.BodyID = 3

func newSession(t *testing.T, rate int, mode input.Mode) (*Session, *fakeEngine) {
	t.Helper()
	fe := &fakeEngine{grounded: true}
	s, err := New(Options{
		Config:      config.DefaultConfig(),
		Runtime:     core.RuntimeConfig{TickRate: rate, Seed: 7},
		Engine:      fe,
		Mode:        mode,
		Touch:       touchPad{},
		KeyReleases: true,
	})
	require.NoError(t, err)
	return s, fe
}

func pickupState(t *testing.T, s *Session, id pickup.ID) pickup.Pickup {
	t.Helper()
	p, ok := s.pickups.Get(id)
	require.True(t, ok)
	return p
}

func TestLayout(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeKeyboard)

	snap := s.Snapshot()
	assert.Len(t, snap.Pickups, 10)
	assert.Equal(t, core.V(200, 450), snap.Pickups[0].Pos)
	assert.Equal(t, core.V(1100, 400), snap.Pickups[9].Pos)
	assert.Equal(t, []core.Box{{Min: core.V(0, 536), Max: core.V(1280, 600)}}, snap.Platforms)
	assert.Equal(t, core.V(100, 450), snap.Player.Pos)
	assert.Equal(t, "Apples: 0", snap.ScoreText)
	assert.Len(t, fe.bodies, 12)
}

func TestApplesWithinValidatedLayout(t *testing.T) {
	var maxX, maxY float64
	for _, p := range ApplePositions() {
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	assert.Equal(t, float64(config.LayoutMaxX), maxX)
	assert.Equal(t, float64(config.LayoutMaxY), maxY)

	// The smallest world Validate accepts still holds every apple.
	cfg := config.DefaultConfig()
	cfg.World.Width = config.LayoutMaxX + cfg.Pickups.Width/2
	cfg.World.Height = config.LayoutMaxY + cfg.Pickups.Height/2
	cfg.Pickups.Respawn.MaxX = int(cfg.World.Width)
	cfg.Pickups.Respawn.MaxY = int(cfg.World.Height)
	require.NoError(t, cfg.Validate())
	world := core.Box{Max: core.V(cfg.World.Width, cfg.World.Height)}
	for _, p := range ApplePositions() {
		box := core.BoxAt(p, core.V(cfg.Pickups.Width, cfg.Pickups.Height))
		assert.True(t, world.Contains(box.Min) && world.Contains(box.Max), "apple at %v", p)
	}
}

func TestLeftClampScenario(t *testing.T) {
	// At 10 ticks per second a run tick moves 20 px, so ten ticks would carry
	// the player from 100 to -100 without the wall.
	s, fe := newSession(t, 10, input.ModeKeyboard)
	s.Push(input.Press(input.KeyLeft))

	for i := 0; i < 10; i++ {
		s.Step()
		assert.GreaterOrEqual(t, fe.Position(fe.player).X, 50.0, "tick %d", i)
	}

	assert.Equal(t, 50.0, s.Snapshot().Player.Pos.X)
	assert.Equal(t, -200.0, s.Snapshot().Player.Vel.X, "clamp leaves velocity alone")
}

func TestCollectAndRespawnScenario(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeKeyboard)

	fe.place(core.V(200, 450))
	s.Step()

	assert.Equal(t, 10, s.State().Score)
	assert.Equal(t, pickup.Hidden, pickupState(t, s, 1).State)
	assert.False(t, fe.Enabled(firstApple))

	// Standing on the hidden apple scores nothing.
	for s.State().Tick < 180 {
		s.Step()
	}
	assert.Equal(t, 10, s.State().Score)
	assert.Equal(t, pickup.Hidden, pickupState(t, s, 1).State)

	fe.place(core.V(100, 450))
	s.Step() // tick 180 starts at exactly 3000 ms

	p := pickupState(t, s, 1)
	require.Equal(t, pickup.Active, p.State)
	assert.True(t, pickup.Area{MinX: 600, MaxX: 1200, MinY: 300, MaxY: 500}.Contains(p.Pos), "respawned at %v", p.Pos)
	assert.True(t, fe.Enabled(firstApple))
	assert.Equal(t, p.Pos, fe.Position(firstApple))

	fe.script = [][]engine.Overlap{{{Player: fe.player, Other: firstApple}}}
	s.Step()
	assert.Equal(t, 20, s.State().Score)
	assert.Equal(t, "Apples: 20", s.Snapshot().ScoreText)
}

func TestAirborneJumpIgnored(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeKeyboard)
	fe.grounded = false

	s.Push(input.Press(input.KeyUp))
	s.Step()
	assert.Zero(t, fe.Velocity(fe.player).Y)

	fe.grounded = true
	s.Step()
	assert.Equal(t, -400.0, fe.Velocity(fe.player).Y)
}

func TestSimultaneousOverlaps(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeKeyboard)
	p := fe.player
	fe.script = [][]engine.Overlap{
		{{Player: p, Other: firstApple + 1}, {Player: p, Other: firstApple}, {Player: p, Other: firstApple}},
	}

	s.Step()

	assert.Equal(t, 20, s.State().Score)
	assert.Equal(t, pickup.Hidden, pickupState(t, s, 1).State)
	assert.Equal(t, pickup.Hidden, pickupState(t, s, 2).State)
}

func TestHiddenPickupNeverScores(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeKeyboard)
	p := fe.player
	hit := []engine.Overlap{{Player: p, Other: firstApple}}
	fe.script = [][]engine.Overlap{hit, hit, hit, {{Player: p, Other: 1}}}

	for i := 0; i < 4; i++ {
		s.Step()
	}
	assert.Equal(t, 10, s.State().Score, "only the first overlap collects; non-pickups are ignored")
}

func TestScoreIsTenPerCollection(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeKeyboard)
	// Only the first apple is reachable, so each collection is a single one.
	for id := firstApple + 1; id < firstApple+10; id++ {
		fe.Disable(id)
	}

	collections := 0
	for i := 0; i < 2000; i++ {
		p := pickupState(t, s, 1)
		if p.State == pickup.Active {
			fe.place(p.Pos)
		} else {
			fe.place(core.V(100, 450))
		}
		before := s.State().Score
		s.Step()
		after := s.State().Score
		require.GreaterOrEqual(t, after, before)
		if after > before {
			collections++
			require.Equal(t, 10, after-before)
		}
	}
	assert.Equal(t, 10*collections, s.State().Score)
	assert.Greater(t, collections, 5)
}

func TestTouchJumpIsImmediate(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeTouch)

	s.Push(input.Touch(input.ButtonJump))
	assert.Equal(t, -400.0, fe.Velocity(fe.player).Y, "applied before the next tick")
	assert.Zero(t, fe.steps)

	fe.SetVelocityY(fe.player, 0)
	fe.grounded = false
	s.Push(input.Touch(input.ButtonJump))
	assert.Zero(t, fe.Velocity(fe.player).Y)
}

func TestTouchButtonsToggle(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeTouch)

	s.Push(input.Touch(input.ButtonRight))
	s.Step()
	assert.Equal(t, 200.0, fe.Velocity(fe.player).X)
	s.Step()
	assert.Equal(t, 200.0, fe.Velocity(fe.player).X)

	s.Push(input.Untouch(input.ButtonRight))
	s.Step()
	assert.Zero(t, fe.Velocity(fe.player).X)

	// Keyboard events are ignored in touch mode.
	s.Push(input.Press(input.KeyLeft))
	s.Step()
	assert.Zero(t, fe.Velocity(fe.player).X)
}

func TestVisibilityFollowsMode(t *testing.T) {
	kb, _ := newSession(t, 60, input.ModeKeyboard)
	assert.Equal(t, input.Visibility{KeyboardHelp: true}, kb.Visibility())

	touch, _ := newSession(t, 60, input.ModeTouch)
	assert.Equal(t, input.Visibility{TouchControls: true}, touch.Visibility())
}

func TestPauseFreezesClock(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeKeyboard)
	fe.place(core.V(200, 450))
	s.Step()
	fe.place(core.V(100, 450))

	s.TogglePause()
	for i := 0; i < 500; i++ {
		s.Step()
	}
	assert.Equal(t, uint64(1), s.State().Tick)
	assert.True(t, s.State().Paused)
	assert.Equal(t, 1, fe.steps)
	assert.Equal(t, pickup.Hidden, pickupState(t, s, 1).State)

	s.TogglePause()
	for s.State().Tick <= 180 {
		s.Step()
	}
	assert.Equal(t, pickup.Active, pickupState(t, s, 1).State)
}

func TestCloseStopsSession(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeKeyboard)
	fe.place(core.V(200, 450))
	s.Step()

	s.Close()
	state := s.Step()
	assert.Equal(t, uint64(1), state.Tick)

	// A respawn firing after teardown changes nothing.
	s.timers.Advance(time.Hour)
	assert.Equal(t, pickup.Hidden, pickupState(t, s, 1).State)
}

func TestClockIsExact(t *testing.T) {
	s, _ := newSession(t, 60, input.ModeKeyboard)
	for i := 0; i < 180; i++ {
		s.Step()
	}
	assert.Equal(t, 3*time.Second, s.Clock())
}

func TestTouchModeNeedsControls(t *testing.T) {
	_, err := New(Options{
		Config:  config.DefaultConfig(),
		Runtime: core.RuntimeConfig{TickRate: 60},
		Engine:  &fakeEngine{},
		Mode:    input.ModeTouch,
	})
	assert.ErrorIs(t, err, input.ErrNoTouchControls)
}

func TestUnknownEngine(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Engine = "warp-drive"
	_, err := New(Options{Config: cfg})
	assert.ErrorContains(t, err, `unknown engine "warp-drive"`)
}

func TestRegistryEngine(t *testing.T) {
	s, err := New(Options{Config: config.DefaultConfig(), Runtime: core.RuntimeConfig{Seed: 1}})
	require.NoError(t, err)
	assert.Equal(t, 60, s.Runtime().TickRate)

	for i := 0; i < 300; i++ {
		s.Step()
	}
	snap := s.Snapshot()
	assert.True(t, snap.Player.Grounded)
	assert.InDelta(t, 506, snap.Player.Pos.Y, 1)
}

func TestRender(t *testing.T) {
	s, _ := newSession(t, 60, input.ModeKeyboard)
	screen := core.NewScreen(80, 24)

	s.Render(screen)

	assert.True(t, strings.Contains(screen.Row(0), "Apples: 0"))
	out := screen.String()
	assert.Contains(t, out, string(PlayerChar))
	assert.Equal(t, 10, strings.Count(out, string(AppleChar)))
	assert.Equal(t, GroundChar, screen.Get(0, 23))

	s.TogglePause()
	s.Render(screen)
	assert.Contains(t, screen.String(), "PAUSED")
}

func TestRenderPauseBanner(t *testing.T) {
	s, _ := newSession(t, 60, input.ModeKeyboard)
	screen := core.NewScreen(80, 24)
	s.TogglePause()
	s.Render(screen)

	// A 21x5 box centred on the screen: title, rule, hint.
	assert.Equal(t, '┌', screen.Get(29, 9))
	assert.Equal(t, 'P', screen.Get(37, 10))
	assert.Contains(t, screen.Row(10), "PAUSED")
	assert.Equal(t, '─', screen.Get(30, 11))
	assert.Equal(t, '─', screen.Get(48, 11))
	assert.Equal(t, 'P', screen.Get(31, 12))
	assert.Contains(t, screen.Row(12), "Press P to resume")
}

func TestRenderWorldEdge(t *testing.T) {
	s, _ := newSession(t, 60, input.ModeKeyboard)

	fits := core.NewScreen(80, 24)
	s.Render(fits)
	assert.NotContains(t, fits.String(), string(EdgeChar))

	wide := core.NewScreen(100, 24)
	s.Render(wide)
	assert.Equal(t, ' ', wide.Get(80, 0))
	for y := 1; y < 24; y++ {
		assert.Equal(t, EdgeChar, wide.Get(80, y), "row %d", y)
	}
	assert.Equal(t, ' ', wide.Get(81, 12))
}

func TestCameraFollowsPlayer(t *testing.T) {
	s, fe := newSession(t, 60, input.ModeKeyboard)

	cam := CameraFor(s.Snapshot(), 16, 24, 40, 24)
	assert.Equal(t, 0.0, cam.X, "clamped at the left edge")

	fe.place(core.V(1200, 450))
	cam = CameraFor(s.Snapshot(), 16, 24, 40, 24)
	assert.Equal(t, 1280.0-640, cam.X, "clamped at the right edge")

	fe.place(core.V(640, 450))
	cam = CameraFor(s.Snapshot(), 16, 24, 40, 24)
	assert.Equal(t, 320.0, cam.X)
	col, _ := cam.Cell(core.V(640, 450))
	assert.Equal(t, 20, col)
}
