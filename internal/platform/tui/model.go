package tui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/appledash/internal/config"
	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/game"
	"github.com/vovakirdan/appledash/internal/input"
	"github.com/vovakirdan/appledash/internal/storage"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1, 2)

// Options configures a terminal play session.
type Options struct {
	Config   config.Config
	Runtime  core.RuntimeConfig
	Platform input.PlatformClass

	// Store receives the input journal when Record is set.
	Store  *storage.Store
	Record bool

	// ConfigUpdates delivers reloaded configurations. They take effect on the
	// next restart.
	ConfigUpdates <-chan config.Update

	// Override is applied to every reloaded configuration before it is
	// validated, so command-line flags keep winning over the file.
	Override func(*config.Config)

	// ScreenshotDir defaults to ~/.appledash/screenshots.
	ScreenshotDir string

	Logger *log.Logger
}

// configMsg carries a configuration reload into the update loop.
type configMsg config.Update

// liveRun is shared by every copy of a Model and holds the session that has
// not been finished yet.
type liveRun struct {
	mu      sync.Mutex
	session *game.Session
}

// Model is the Bubble Tea model for one Apple Dash session.
type Model struct {
	run     *liveRun
	opts    Options
	keys    KeyMap
	help    help.Model
	mode    input.Mode
	session *game.Session
	screen  *core.Screen
	pad     *Touchpad
	logger  *log.Logger

	// Button held by the mouse or finger, released on the next release event.
	touching  input.Button
	touchDown bool

	pending  *config.Config
	width    int
	height   int
	err      error
	quitting bool
}

// NewModel resolves the control mode for the platform and starts a session.
// In touch mode the terminal must be large enough for the on-screen buttons.
func NewModel(opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	mode, err := input.ResolveMode(opts.Config.Controls.Mode, opts.Platform)
	if err != nil {
		return Model{}, err
	}
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = opts.Config.TickRate
	}

	m := Model{
		run:    &liveRun{},
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		mode:   mode,
		screen: core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		logger: logger,
		width:  opts.Runtime.ScreenW,
		height: opts.Runtime.ScreenH,
	}
	m.help.Width = opts.Runtime.ScreenW

	if mode == input.ModeTouch {
		pad, err := NewTouchpad(m.width, m.height)
		if err != nil {
			return Model{}, fmt.Errorf("%w: %w", input.ErrNoTouchControls, err)
		}
		m.pad = pad
	}

	if err := m.start(opts.Config); err != nil {
		return Model{}, err
	}
	return m, nil
}

// start replaces the current session with a fresh one.
func (m *Model) start(cfg config.Config) error {
	gopts := game.Options{
		Config:  cfg,
		Runtime: m.opts.Runtime,
		Mode:    m.mode,
		Logger:  m.logger.With("session", fmt.Sprintf("%x", uint64(m.opts.Runtime.Seed))),
		Record:  m.opts.Record,
	}
	if m.pad != nil {
		gopts.Touch = m.pad
	}
	s, err := game.New(gopts)
	if err != nil {
		return err
	}
	m.session = s
	m.touchDown = false
	m.run.mu.Lock()
	m.run.session = s
	m.run.mu.Unlock()
	return nil
}

// Session returns the running session.
func (m Model) Session() *game.Session {
	return m.session
}

// Mode returns the control mode picked for this terminal.
func (m Model) Mode() input.Mode {
	return m.mode
}

// Init starts the tick loop and, if configured, the config watch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.opts.Runtime.TickRate)}
	if m.opts.ConfigUpdates != nil {
		cmds = append(cmds, waitForConfig(m.opts.ConfigUpdates))
	}
	return tea.Batch(cmds...)
}

func waitForConfig(ch <-chan config.Update) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return nil
		}
		return configMsg(u)
	}
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case configMsg:
		return m.handleConfig(msg)
	}

	return m, nil
}

// handleKey routes movement keys to the session and handles the rest here.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.Finish()
		m.quitting = true
		return m, tea.Quit
	case core.ActionScreenshot:
		m.saveScreenshot()
	case core.ActionPause:
		if m.session != nil {
			m.session.TogglePause()
		}
	case core.ActionRestart:
		m.restart()
	default:
		if k, ok := InputKey(action, msg); ok && m.session != nil {
			m.session.Push(input.Press(k))
		}
	}
	return m, nil
}

// handleMouse turns clicks and taps on the touchpad into touch events.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.pad == nil || m.session == nil {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		b, ok := m.pad.HitTest(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		m.releaseTouch()
		m.touching, m.touchDown = b, true
		m.session.Push(input.Touch(b))
	case tea.MouseActionRelease:
		m.releaseTouch()
	}
	return m, nil
}

func (m *Model) releaseTouch() {
	if !m.touchDown {
		return
	}
	m.touchDown = false
	m.session.Push(input.Untouch(m.touching))
}

// handleResize keeps the session running and only relays out the screen.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	if m.mode == input.ModeTouch {
		pad, err := NewTouchpad(msg.Width, msg.Height)
		if err != nil {
			m.logger.Warn("touch controls do not fit", "error", err)
			m.err = err
			return m, nil
		}
		m.pad = pad
		if errors.Is(m.err, ErrScreenTooSmall) {
			m.err = nil
		}
	}
	return m, nil
}

// handleTick advances the simulation by one tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.session != nil && m.err == nil {
		m.session.Step()
	}
	return m, tickCmd(m.opts.Runtime.TickRate)
}

func (m Model) handleConfig(msg configMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("config reload failed", "error", msg.Err)
		return m, waitForConfig(m.opts.ConfigUpdates)
	}

	cfg := msg.Config
	if m.opts.Override != nil {
		m.opts.Override(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		m.logger.Warn("reloaded config rejected", "error", err)
		return m, waitForConfig(m.opts.ConfigUpdates)
	}
	m.pending = &cfg
	m.logger.Info("config reloaded, applies on restart")
	return m, waitForConfig(m.opts.ConfigUpdates)
}

// restart ends the current session and starts a new one with a fresh seed,
// picking up a reloaded configuration if one arrived. A configuration that
// fails to start is dropped, so the next restart falls back to the last one
// that worked.
func (m *Model) restart() {
	m.Finish()

	cfg := m.opts.Config
	if m.session != nil {
		cfg = m.session.Config()
	}
	if m.pending != nil {
		cfg = *m.pending
		m.pending = nil
	}
	m.opts.Runtime.Seed = time.Now().UnixNano()
	if err := m.start(cfg); err != nil {
		m.logger.Error("restart failed", "error", err)
		m.session = nil
		m.err = err
		return
	}
	m.opts.Config = cfg
	if !errors.Is(m.err, ErrScreenTooSmall) {
		m.err = nil
	}
}

// Finish closes the running session and stores its journal. Every copy of the
// model shares the session, and only the first call does anything, so it is
// safe to call after the program stopped however it ended.
func (m Model) Finish() {
	if m.run == nil {
		return
	}
	m.run.mu.Lock()
	defer m.run.mu.Unlock()

	s := m.run.session
	if s == nil {
		return
	}
	m.run.session = nil
	s.Close()
	if m.opts.Store == nil {
		return
	}

	id, ok, err := game.SaveJournal(m.opts.Store, s)
	switch {
	case err != nil:
		m.logger.Warn("could not save run", "error", err)
	case ok:
		m.logger.Info("run saved", "id", id, "ticks", s.State().Tick)
	}
}

// saveScreenshot saves the current playfield to a text file.
func (m *Model) saveScreenshot() {
	if m.session == nil {
		return
	}
	m.session.Render(m.screen)

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			m.logger.Warn("screenshot skipped", "error", err)
			return
		}
		dir = filepath.Join(home, ".appledash", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("screenshot skipped", "error", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("appledash_%s.txt", timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		return
	}
	m.logger.Info("screenshot saved", "path", path)
}

// footer returns the control surface shown under the playfield.
func (m Model) footer() string {
	vis := m.session.Visibility()
	switch {
	case vis.TouchControls && m.pad != nil:
		held := map[input.Button]bool{}
		if m.touchDown {
			held[m.touching] = true
		}
		return m.pad.View(held)
	case vis.KeyboardHelp:
		return m.help.View(m.keys)
	}
	return ""
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("%v\n\npress q to quit", m.err))
	}
	if m.session == nil {
		return ""
	}

	footer := m.footer()
	playH := core.Max(m.height-lipgloss.Height(footer), 1)
	if footer == "" {
		playH = core.Max(m.height, 1)
	}
	m.screen.Resize(m.width, playH)
	m.session.Render(m.screen)

	if footer == "" {
		return RenderScreen(m.screen)
	}
	return lipgloss.JoinVertical(lipgloss.Left, RenderScreen(m.screen), footer)
}

// Run starts the Bubble Tea program for a local terminal.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Touchpad clicks and taps
	)

	_, err = p.Run()
	// Does nothing if the quit key already finished the session.
	model.Finish()
	return err
}
