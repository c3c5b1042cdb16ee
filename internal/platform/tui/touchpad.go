package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/input"
)

// Touchpad layout constants
const (
	padRows      = 3  // Height of the on-screen buttons, borders included
	minPadWidth  = 30 // Narrowest terminal that fits all three buttons
	minPlayRows  = 8  // Rows left for the playfield above the pad
	jumpMinWidth = 10
)

// ErrScreenTooSmall is returned when the terminal cannot fit the touch controls.
var ErrScreenTooSmall = errors.New("tui: terminal too small for touch controls")

var (
	padButtonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("245")).
			Align(lipgloss.Center)

	padActiveStyle = padButtonStyle.
			BorderForeground(lipgloss.Color("11")).
			Foreground(lipgloss.Color("11")).
			Bold(true)
)

type padButton struct {
	button input.Button
	label  string
	rect   core.Rect
}

// Touchpad is the on-screen control row drawn under the playfield. Mouse and
// tap events inside a button become touch events for that button.
type Touchpad struct {
	top     int
	buttons []padButton
}

// NewTouchpad lays the buttons out along the bottom of a width×height
// terminal: left and right on the left half, jump on the right.
func NewTouchpad(width, height int) (*Touchpad, error) {
	if width < minPadWidth || height < padRows+minPlayRows {
		return nil, fmt.Errorf("%w: need %dx%d, have %dx%d",
			ErrScreenTooSmall, minPadWidth, padRows+minPlayRows, width, height)
	}

	top := height - padRows
	quarter := width / 4
	jumpW := core.Max(width-2*quarter, jumpMinWidth)
	return &Touchpad{
		top: top,
		buttons: []padButton{
			{button: input.ButtonLeft, label: "◀", rect: core.NewRect(0, top, quarter, padRows)},
			{button: input.ButtonRight, label: "▶", rect: core.NewRect(quarter, top, quarter, padRows)},
			{button: input.ButtonJump, label: "JUMP", rect: core.NewRect(2*quarter, top, jumpW, padRows)},
		},
	}, nil
}

// Has reports whether the pad provides b.
func (t *Touchpad) Has(b input.Button) bool {
	for _, pb := range t.buttons {
		if pb.button == b {
			return true
		}
	}
	return false
}

// Top returns the first terminal row used by the pad.
func (t *Touchpad) Top() int {
	return t.top
}

// HitTest returns the button under the terminal cell (x, y).
func (t *Touchpad) HitTest(x, y int) (input.Button, bool) {
	for _, pb := range t.buttons {
		if pb.rect.Contains(x, y) {
			return pb.button, true
		}
	}
	return 0, false
}

// View renders the buttons, highlighting the held ones.
func (t *Touchpad) View(held map[input.Button]bool) string {
	cells := make([]string, 0, len(t.buttons))
	for _, pb := range t.buttons {
		style := padButtonStyle
		if held[pb.button] {
			style = padActiveStyle
		}
		// Width excludes the border.
		cells = append(cells, style.Width(pb.rect.W-2).Render(pb.label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
