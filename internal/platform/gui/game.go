// Package gui runs Apple Dash in a window with ebiten. Desktop builds play
// with the keyboard; mobile builds get on-screen touch buttons.
//
// Update is the single writer of the session: it translates the frame's key
// and touch transitions into input events, then advances one tick. ebiten's
// TPS is set to the tick rate, so one Update is one simulation tick.
package gui

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/vovakirdan/appledash/internal/config"
	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/game"
	"github.com/vovakirdan/appledash/internal/input"
	"github.com/vovakirdan/appledash/internal/pickup"
	"github.com/vovakirdan/appledash/internal/storage"
)

var (
	skyColor    = color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff}
	groundColor = color.RGBA{R: 0x3a, G: 0x8c, B: 0x3a, A: 0xff}
	appleColor  = color.RGBA{R: 0xe0, G: 0x20, B: 0x20, A: 0xff}
	playerColor = color.RGBA{R: 0x20, G: 0x40, B: 0xc0, A: 0xff}
	padColor    = color.RGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
	buttonColor = color.RGBA{R: 0x70, G: 0x70, B: 0x70, A: 0xff}
	heldColor   = color.RGBA{R: 0xf0, G: 0xc0, B: 0x20, A: 0xff}
	shadeColor  = color.RGBA{A: 0x80}
)

type keyBinding struct {
	ebiten ebiten.Key
	key    input.Key
}

var moveKeys = []keyBinding{
	{ebiten.KeyArrowLeft, input.KeyLeft},
	{ebiten.KeyA, input.KeyLeft},
	{ebiten.KeyArrowRight, input.KeyRight},
	{ebiten.KeyD, input.KeyRight},
	{ebiten.KeyArrowUp, input.KeyUp},
	{ebiten.KeyW, input.KeyUp},
	{ebiten.KeySpace, input.KeySpace},
}

// Options configures a windowed session.
type Options struct {
	Config   config.Config
	Runtime  core.RuntimeConfig
	Platform input.PlatformClass

	// Store receives the input journal when Record is set.
	Store  *storage.Store
	Record bool

	Logger *log.Logger
}

// Game implements ebiten.Game around one session.
type Game struct {
	opts    Options
	logger  *log.Logger
	mode    input.Mode
	src     source
	session *game.Session
	pad     *Touchpad

	width    int
	height   int
	finished bool

	// Physical keys held per logical key; A and the left arrow both hold
	// KeyLeft.
	keysDown map[input.Key]int

	touches   map[ebiten.TouchID]input.Button
	touchBuf  []ebiten.TouchID
	mouseHeld input.Button
	mouseDown bool
}

// New resolves the control mode and starts a session.
func New(opts Options) (*Game, error) {
	return newGame(opts, ebitenSource{})
}

func newGame(opts Options, src source) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	mode, err := input.ResolveMode(opts.Config.Controls.Mode, opts.Platform)
	if err != nil {
		return nil, err
	}
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = opts.Config.TickRate
	}

	g := &Game{
		opts:     opts,
		logger:   logger,
		mode:     mode,
		src:      src,
		width:    int(opts.Config.World.Width),
		height:   int(opts.Config.World.Height),
		touches:  make(map[ebiten.TouchID]input.Button),
		keysDown: make(map[input.Key]int),
	}
	if mode == input.ModeTouch {
		g.pad = NewTouchpad(g.width, g.height)
		g.height += padHeight
	}
	if err := g.start(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) start() error {
	gopts := game.Options{
		Config:      g.opts.Config,
		Runtime:     g.opts.Runtime,
		Mode:        g.mode,
		KeyReleases: true,
		Logger:      g.logger.With("session", fmt.Sprintf("%x", uint64(g.opts.Runtime.Seed))),
		Record:      g.opts.Record,
	}
	if g.pad != nil {
		gopts.Touch = g.pad
	}
	s, err := game.New(gopts)
	if err != nil {
		return err
	}
	g.session = s
	g.finished = false
	clear(g.touches)
	clear(g.keysDown)
	g.mouseDown = false
	return nil
}

// Session returns the running session.
func (g *Game) Session() *game.Session {
	return g.session
}

// Update handles one frame of input and advances the session by one tick.
func (g *Game) Update() error {
	switch {
	case g.src.KeyJustPressed(ebiten.KeyQ):
		return ebiten.Termination
	case g.src.KeyJustPressed(ebiten.KeyP), g.src.KeyJustPressed(ebiten.KeyEscape):
		g.session.TogglePause()
	case g.src.KeyJustPressed(ebiten.KeyR):
		if err := g.restart(); err != nil {
			return err
		}
	}

	if g.mode == input.ModeTouch {
		g.pollTouches()
	} else {
		g.pollKeys()
	}

	g.session.Step()
	return nil
}

// pollKeys presses a logical key when its first physical key goes down and
// releases it when the last one comes up. Keys held across a restart are
// ignored until pressed again.
func (g *Game) pollKeys() {
	for _, b := range moveKeys {
		if g.src.KeyJustPressed(b.ebiten) {
			g.keysDown[b.key]++
			if g.keysDown[b.key] == 1 {
				g.session.Push(input.Press(b.key))
			}
		}
		if g.src.KeyJustReleased(b.ebiten) && g.keysDown[b.key] > 0 {
			g.keysDown[b.key]--
			if g.keysDown[b.key] == 0 {
				g.session.Push(input.Release(b.key))
			}
		}
	}
}

// pollTouches tracks each finger from the button it went down on until it
// lifts. The mouse acts as one more finger.
func (g *Game) pollTouches() {
	g.touchBuf = g.src.AppendJustPressedTouches(g.touchBuf[:0])
	for _, id := range g.touchBuf {
		if b, ok := g.pad.HitTest(g.src.TouchPosition(id)); ok {
			g.touches[id] = b
			g.session.Push(input.Touch(b))
		}
	}
	for id, b := range g.touches {
		if g.src.TouchJustReleased(id) {
			delete(g.touches, id)
			g.session.Push(input.Untouch(b))
		}
	}

	if g.src.MouseJustPressed() {
		if b, ok := g.pad.HitTest(g.src.CursorPosition()); ok {
			g.mouseHeld, g.mouseDown = b, true
			g.session.Push(input.Touch(b))
		}
	}
	if g.mouseDown && g.src.MouseJustReleased() {
		g.mouseDown = false
		g.session.Push(input.Untouch(g.mouseHeld))
	}
}

func (g *Game) restart() error {
	g.Close()
	g.opts.Runtime.Seed = time.Now().UnixNano()
	if err := g.start(); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	return nil
}

// Close ends the session and stores its journal.
func (g *Game) Close() {
	if g.finished {
		return
	}
	g.finished = true
	g.session.Close()
	if g.opts.Store == nil {
		return
	}
	id, ok, err := game.SaveJournal(g.opts.Store, g.session)
	switch {
	case err != nil:
		g.logger.Warn("could not save run", "error", err)
	case ok:
		g.logger.Info("run saved", "id", id)
	}
}

// Draw renders the world, the HUD and, in touch mode, the buttons.
func (g *Game) Draw(screen *ebiten.Image) {
	snap := g.session.Snapshot()
	screen.Fill(skyColor)

	for _, p := range snap.Platforms {
		fillBox(screen, p, groundColor)
	}
	for _, p := range snap.Pickups {
		if p.State == pickup.Active {
			fillBox(screen, core.BoxAt(p.Pos, snap.PickupSize), appleColor)
		}
	}
	fillBox(screen, snap.Player.Box(), playerColor)

	ebitenutil.DebugPrintAt(screen, snap.ScoreText, 16, 16)

	if snap.Visibility.TouchControls && g.pad != nil {
		g.drawPad(screen, snap.World.Max.Y)
	}
	if snap.Visibility.KeyboardHelp {
		ebitenutil.DebugPrintAt(screen, "arrows/WASD move, space jump, P pause, R restart, Q quit", 16, 32)
	}

	if snap.Paused {
		vector.FillRect(screen, 0, 0, float32(g.width), float32(g.height), shadeColor, false)
		ebitenutil.DebugPrintAt(screen, "PAUSED - press P to resume", g.width/2-80, g.height/2)
	}
}

func (g *Game) drawPad(screen *ebiten.Image, top float64) {
	vector.FillRect(screen, 0, float32(top), float32(g.width), padHeight, padColor, false)
	held := make(map[input.Button]bool, len(g.touches)+1)
	for _, b := range g.touches {
		held[b] = true
	}
	if g.mouseDown {
		held[g.mouseHeld] = true
	}
	for _, pb := range g.pad.buttons {
		c := buttonColor
		if held[pb.button] {
			c = heldColor
		}
		r := pb.rect
		vector.FillRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), c, false)
		ebitenutil.DebugPrintAt(screen, pb.label, r.Min.X+r.Dx()/2-len(pb.label)*3, r.Min.Y+r.Dy()/2-8)
	}
}

func fillBox(dst *ebiten.Image, b core.Box, c color.Color) {
	vector.FillRect(dst, float32(b.Min.X), float32(b.Min.Y), float32(b.Width()), float32(b.Height()), c, false)
}

// Layout keeps the logical screen at world size plus the touch strip; ebiten
// scales it to the window.
func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}

// Run opens the window and plays until it is closed or Q is pressed.
func Run(opts Options) error {
	g, err := New(opts)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowTitle("Apple Dash")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.opts.Runtime.TickRate)

	err = ebiten.RunGame(g)
	g.Close()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
