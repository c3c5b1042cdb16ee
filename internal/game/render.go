package game

import (
	"math"
	"time"

	"github.com/vovakirdan/appledash/internal/core"
	"github.com/vovakirdan/appledash/internal/input"
	"github.com/vovakirdan/appledash/internal/pickup"
)

// Characters used by the terminal renderer.
const (
	PlayerChar = '█'
	AppleChar  = '●'
	GroundChar = '▓'
	EdgeChar   = '│'
)

// PlayerView is the renderer's view of the player body.
type PlayerView struct {
	Pos      core.Vec2
	Vel      core.Vec2
	Size     core.Vec2
	Grounded bool
}

// Box returns the player's bounding box.
func (p PlayerView) Box() core.Box {
	return core.BoxAt(p.Pos, p.Size)
}

// Snapshot is a read-only copy of the session for renderers and tests.
type Snapshot struct {
	Tick       uint64
	Clock      time.Duration
	World      core.Box
	Platforms  []core.Box
	Player     PlayerView
	Pickups    []pickup.Pickup
	PickupSize core.Vec2
	Score      int
	ScoreText  string
	Paused     bool
	Mode       input.Mode
	Visibility input.Visibility
}

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:      s.tick,
		Clock:     s.Clock(),
		World:     core.Box{Max: core.V(s.cfg.World.Width, s.cfg.World.Height)},
		Platforms: append([]core.Box(nil), s.platforms...),
		Player: PlayerView{
			Pos:      s.engine.Position(s.player),
			Vel:      s.engine.Velocity(s.player),
			Size:     core.V(s.cfg.Player.Width, s.cfg.Player.Height),
			Grounded: s.engine.Grounded(s.player),
		},
		Pickups:    s.pickups.All(),
		PickupSize: core.V(s.cfg.Pickups.Width, s.cfg.Pickups.Height),
		Score:      s.score.Value(),
		ScoreText:  s.score.Text(),
		Paused:     s.paused,
		Mode:       s.input.Mode(),
		Visibility: s.input.Visibility(),
	}
}

// Camera maps world pixels onto screen cells. Row 0 is reserved for the HUD.
type Camera struct {
	X     float64 // world x of the left screen edge
	CellW float64
	CellH float64
}

// CameraFor follows the player horizontally. The world height is always fully
// visible, so cells are stretched vertically on short screens.
func CameraFor(snap Snapshot, cellW, cellH float64, cols, rows int) Camera {
	playRows := rows - 1
	if playRows < 1 {
		playRows = 1
	}
	worldH := snap.World.Height()
	if fit := worldH / float64(playRows); fit > cellH {
		cellH = fit
	}

	cam := Camera{CellW: cellW, CellH: cellH}
	viewW := float64(cols) * cellW
	if viewW < snap.World.Width() {
		cam.X = core.ClampF(snap.Player.Pos.X-viewW/2, snap.World.Min.X, snap.World.Max.X-viewW)
	}
	return cam
}

// Cell returns the screen cell containing the world point p.
func (c Camera) Cell(p core.Vec2) (col, row int) {
	col = int(math.Floor((p.X - c.X) / c.CellW))
	row = 1 + int(math.Floor(p.Y/c.CellH))
	return col, row
}

// Span returns the inclusive cell range covered by b. A box smaller than a cell
// still covers the cell holding its centre.
func (c Camera) Span(b core.Box) (col0, row0, col1, row1 int) {
	col0 = int(math.Floor((b.Min.X - c.X) / c.CellW))
	col1 = int(math.Ceil((b.Max.X-c.X)/c.CellW)) - 1
	row0 = 1 + int(math.Floor(b.Min.Y/c.CellH))
	row1 = int(math.Ceil(b.Max.Y/c.CellH))
	if col1 < col0 || row1 < row0 {
		col0, row0 = c.Cell(b.Center())
		col1, row1 = col0, row0
	}
	return col0, row0, col1, row1
}

// Render draws the session into dst: platforms, apples, the player and the
// score line.
func (s *Session) Render(dst *core.Screen) {
	dst.Clear()
	snap := s.Snapshot()
	cam := CameraFor(snap, s.cfg.Render.CellWidth, s.cfg.Render.CellHeight, dst.Width(), dst.Height())

	for _, p := range snap.Platforms {
		fillBox(dst, cam, p, GroundChar, core.ColorGreen)
	}

	for _, p := range snap.Pickups {
		if p.State != pickup.Active {
			continue
		}
		col, row := cam.Cell(p.Pos)
		dst.SetColored(col, row, AppleChar, core.ColorBrightRed)
	}

	fillBox(dst, cam, snap.Player.Box(), PlayerChar, core.ColorBrightCyan)

	// Screens wider than the world show where it ends.
	if col, _ := cam.Cell(snap.World.Max); col < dst.Width() {
		dst.DrawVLine(col, 1, dst.Height()-1, EdgeChar)
	}

	// HUD
	dst.DrawTextColored(1, 0, " "+snap.ScoreText+" ", core.ColorBrightYellow)

	if snap.Paused {
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}
}

func fillBox(dst *core.Screen, cam Camera, b core.Box, r rune, c core.Color) {
	col0, row0, col1, row1 := cam.Span(b)
	for y := row0; y <= row1; y++ {
		for x := col0; x <= col1; x++ {
			dst.SetColored(x, y, r, c)
		}
	}
}

// drawCenteredMessage displays a boxed message in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	dst.DrawTextCentered(boxY+1, title)
	dst.DrawHLine(boxX+1, boxY+2, boxW-2, '─')
	dst.DrawTextCentered(boxY+3, subtitle)
}
