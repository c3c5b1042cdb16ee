// Package input turns keyboard or touch events into one movement command per
// simulation tick.
//
// Frontends push raw events as they arrive. Events are buffered and applied only
// when the session samples a command at the start of a tick, so handlers that
// fire between ticks never change state in the middle of a computation.
package input

import (
	"errors"
	"fmt"
	"strings"
)

// Direction is the horizontal movement request.
type Direction int8

const (
	MoveLeft  Direction = -1
	MoveNone  Direction = 0
	MoveRight Direction = 1
)

// Command is the per-tick input consumed by the motion controller.
type Command struct {
	Move Direction
	Jump bool
}

// Neutral is the command produced when no source reports anything.
var Neutral = Command{}

// Mode selects the input modality for a whole session.
type Mode int

const (
	ModeKeyboard Mode = iota
	ModeTouch
)

func (m Mode) String() string {
	switch m {
	case ModeKeyboard:
		return "keyboard"
	case ModeTouch:
		return "touch"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ErrUnknownMode is returned by ResolveMode for unrecognized preferences.
var ErrUnknownMode = errors.New("input: unknown controls mode")

// ResolveMode maps a configured preference ("auto", "keyboard", "touch") to a
// concrete mode. "auto" and the empty string pick by platform class.
func ResolveMode(preference string, class PlatformClass) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(preference)) {
	case "", "auto":
		if class == PlatformMobile {
			return ModeTouch, nil
		}
		return ModeKeyboard, nil
	case "keyboard":
		return ModeKeyboard, nil
	case "touch":
		return ModeTouch, nil
	default:
		return ModeKeyboard, fmt.Errorf("%w: %q", ErrUnknownMode, preference)
	}
}

// Key is a keyboard key the aggregator understands.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeyUp
	KeySpace
	numKeys
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeySpace:
		return "space"
	default:
		return fmt.Sprintf("key(%d)", int(k))
	}
}

// Button is an on-screen touch control.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonJump
)

// Buttons lists every touch control a touch surface must provide.
var Buttons = []Button{ButtonLeft, ButtonRight, ButtonJump}

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonJump:
		return "jump"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// EventKind identifies a raw input event.
type EventKind int

const (
	KeyPress EventKind = iota
	KeyRelease
	TouchStart
	TouchEnd
)

func (k EventKind) String() string {
	switch k {
	case KeyPress:
		return "key_press"
	case KeyRelease:
		return "key_release"
	case TouchStart:
		return "touch_start"
	case TouchEnd:
		return "touch_end"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a raw input event from a frontend. Key is meaningful for key events
// and Button for touch events.
type Event struct {
	Kind   EventKind
	Key    Key
	Button Button
}

// Press returns a key press event.
func Press(k Key) Event { return Event{Kind: KeyPress, Key: k} }

// Release returns a key release event.
func Release(k Key) Event { return Event{Kind: KeyRelease, Key: k} }

// Touch returns a touch start event for b.
func Touch(b Button) Event { return Event{Kind: TouchStart, Button: b} }

// Untouch returns a touch end event for b.
func Untouch(b Button) Event { return Event{Kind: TouchEnd, Button: b} }

// IsTouch reports whether the event comes from the touch modality.
func (e Event) IsTouch() bool {
	return e.Kind == TouchStart || e.Kind == TouchEnd
}
