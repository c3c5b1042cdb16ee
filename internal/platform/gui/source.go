package gui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// source is the per-frame input state. ebitenSource reads the real devices;
// tests substitute a scripted one.
type source interface {
	KeyJustPressed(k ebiten.Key) bool
	KeyJustReleased(k ebiten.Key) bool
	AppendJustPressedTouches(ids []ebiten.TouchID) []ebiten.TouchID
	TouchJustReleased(id ebiten.TouchID) bool
	TouchPosition(id ebiten.TouchID) (x, y int)
	MouseJustPressed() bool
	MouseJustReleased() bool
	CursorPosition() (x, y int)
}

type ebitenSource struct{}

func (ebitenSource) KeyJustPressed(k ebiten.Key) bool  { return inpututil.IsKeyJustPressed(k) }
func (ebitenSource) KeyJustReleased(k ebiten.Key) bool { return inpututil.IsKeyJustReleased(k) }

func (ebitenSource) AppendJustPressedTouches(ids []ebiten.TouchID) []ebiten.TouchID {
	return inpututil.AppendJustPressedTouchIDs(ids)
}

func (ebitenSource) TouchJustReleased(id ebiten.TouchID) bool {
	return inpututil.IsTouchJustReleased(id)
}

func (ebitenSource) TouchPosition(id ebiten.TouchID) (int, int) { return ebiten.TouchPosition(id) }

func (ebitenSource) MouseJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func (ebitenSource) MouseJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}

func (ebitenSource) CursorPosition() (int, int) { return ebiten.CursorPosition() }
