package input

import "errors"

// ErrNoTouchControls is returned when touch mode is selected but the frontend
// has no complete set of on-screen controls to receive touches.
var ErrNoTouchControls = errors.New("input: touch mode selected but touch controls are unavailable")

// TouchSurface is the frontend's on-screen control layout.
type TouchSurface interface {
	// Has reports whether the surface provides the given button.
	Has(b Button) bool
}

// Visibility says which control surfaces a frontend should show. The surface of
// the unused modality is hidden for the whole session.
type Visibility struct {
	TouchControls bool
	KeyboardHelp  bool
}

// Options configures an Aggregator.
type Options struct {
	Mode Mode

	// HoldTicks is how many ticks a key press keeps the key held when no release
	// arrives. Terminals report presses (and auto-repeats) but never releases,
	// so they need a window; frontends with real key-up events pass 0 and the
	// key stays held until released.
	HoldTicks int

	// Touch is required in touch mode.
	Touch TouchSurface
}

type keyState struct {
	down      bool
	until     uint64
	pressed   bool
	pressTick uint64
}

// Aggregator merges the events of one modality into per-tick commands.
// It is owned by a single session and not safe for concurrent use.
type Aggregator struct {
	mode    Mode
	hold    uint64
	pending []Event

	keys        [numKeys]keyState
	leftActive  bool
	rightActive bool
}

// NewAggregator builds an aggregator for a fixed modality.
func NewAggregator(opts Options) (*Aggregator, error) {
	if opts.Mode == ModeTouch {
		if opts.Touch == nil {
			return nil, ErrNoTouchControls
		}
		for _, b := range Buttons {
			if !opts.Touch.Has(b) {
				return nil, ErrNoTouchControls
			}
		}
	}
	hold := opts.HoldTicks
	if hold < 0 {
		hold = 0
	}
	return &Aggregator{
		mode: opts.Mode,
		hold: uint64(hold),
	}, nil
}

// Mode returns the session's modality.
func (a *Aggregator) Mode() Mode {
	return a.mode
}

// Visibility reports which control surfaces belong on screen.
func (a *Aggregator) Visibility() Visibility {
	return Visibility{
		TouchControls: a.mode == ModeTouch,
		KeyboardHelp:  a.mode == ModeKeyboard,
	}
}

// Accepts reports whether the event belongs to the session's modality.
func (a *Aggregator) Accepts(ev Event) bool {
	if a.mode == ModeTouch {
		return ev.IsTouch()
	}
	return !ev.IsTouch()
}

// IsJumpPulse reports whether ev is a touch jump press, which the session
// evaluates immediately instead of buffering.
func (a *Aggregator) IsJumpPulse(ev Event) bool {
	return a.mode == ModeTouch && ev.Kind == TouchStart && ev.Button == ButtonJump
}

// Push buffers an event for the next Sample. Events of the other modality and
// jump pulses are dropped here; the caller handles pulses itself.
func (a *Aggregator) Push(ev Event) {
	if !a.Accepts(ev) || a.IsJumpPulse(ev) {
		return
	}
	a.pending = append(a.pending, ev)
}

// Pending returns the number of buffered events.
func (a *Aggregator) Pending() int {
	return len(a.pending)
}

// Sample applies buffered events as of tick and returns that tick's command.
func (a *Aggregator) Sample(tick uint64) Command {
	for _, ev := range a.pending {
		a.apply(ev, tick)
	}
	a.pending = a.pending[:0]

	if a.mode == ModeTouch {
		return a.touchCommand()
	}
	return a.keyboardCommand(tick)
}

func (a *Aggregator) apply(ev Event, tick uint64) {
	switch ev.Kind {
	case KeyPress:
		st := &a.keys[ev.Key]
		st.down = a.hold == 0
		st.until = tick + max(a.hold, 1)
		st.pressed = true
		st.pressTick = tick
	case KeyRelease:
		st := &a.keys[ev.Key]
		st.down = false
		// A tap whose press and release land in the same batch is still seen
		// for the tick it was sampled in.
		if st.pressed && st.pressTick == tick {
			st.until = tick + 1
		} else {
			st.until = 0
		}
	case TouchStart:
		a.setButton(ev.Button, true)
	case TouchEnd:
		a.setButton(ev.Button, false)
	}
}

func (a *Aggregator) setButton(b Button, active bool) {
	switch b {
	case ButtonLeft:
		a.leftActive = active
	case ButtonRight:
		a.rightActive = active
	}
}

func (a *Aggregator) held(k Key, tick uint64) bool {
	st := a.keys[k]
	return st.down || tick < st.until
}

// keyboardCommand resolves left before right, so holding both moves left.
func (a *Aggregator) keyboardCommand(tick uint64) Command {
	var cmd Command
	switch {
	case a.held(KeyLeft, tick):
		cmd.Move = MoveLeft
	case a.held(KeyRight, tick):
		cmd.Move = MoveRight
	}
	cmd.Jump = a.held(KeyUp, tick) || a.held(KeySpace, tick)
	return cmd
}

func (a *Aggregator) touchCommand() Command {
	var cmd Command
	switch {
	case a.leftActive:
		cmd.Move = MoveLeft
	case a.rightActive:
		cmd.Move = MoveRight
	}
	return cmd
}

// HoldTicksFor converts a hold window in milliseconds to whole ticks, rounding up.
func HoldTicksFor(holdMS, tickRate int) int {
	if holdMS <= 0 || tickRate <= 0 {
		return 0
	}
	return (holdMS*tickRate + 999) / 1000
}
