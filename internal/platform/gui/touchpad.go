package gui

import (
	"image"

	"github.com/vovakirdan/appledash/internal/input"
)

// Touch control geometry in screen pixels.
const (
	padHeight = 140
	padMargin = 20
	btnWidth  = 180
)

type padButton struct {
	button input.Button
	label  string
	rect   image.Rectangle
}

// Touchpad is the strip of on-screen buttons drawn below the world.
type Touchpad struct {
	buttons []padButton
}

// NewTouchpad lays out left and right at the bottom left and jump at the
// bottom right of a width-wide world whose bottom edge is at top.
func NewTouchpad(width, top int) *Touchpad {
	y0, y1 := top+padMargin, top+padHeight-padMargin
	return &Touchpad{buttons: []padButton{
		{input.ButtonLeft, "LEFT", image.Rect(padMargin, y0, padMargin+btnWidth, y1)},
		{input.ButtonRight, "RIGHT", image.Rect(2*padMargin+btnWidth, y0, 2*padMargin+2*btnWidth, y1)},
		{input.ButtonJump, "JUMP", image.Rect(width-padMargin-btnWidth, y0, width-padMargin, y1)},
	}}
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

// HitTest returns the button under the screen point (x, y).
func (t *Touchpad) HitTest(x, y int) (input.Button, bool) {
	p := image.Pt(x, y)
	for _, pb := range t.buttons {
		if p.In(pb.rect) {
			return pb.button, true
		}
	}
	return 0, false
}
