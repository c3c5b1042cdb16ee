package game

import "github.com/vovakirdan/appledash/internal/core"

// groundThickness is the height of the ground strip along the bottom edge.
const groundThickness = 64

// apples are the starting positions of the pickups.
var apples = []core.Vec2{
	{X: 200, Y: 450},
	{X: 300, Y: 400},
	{X: 400, Y: 350},
	{X: 500, Y: 400},
	{X: 600, Y: 450},
	{X: 700, Y: 400},
	{X: 800, Y: 350},
	{X: 900, Y: 400},
	{X: 1000, Y: 450},
	{X: 1100, Y: 400},
}

// Platforms returns the fixed level: one ground strip spanning the world.
func Platforms(world core.Box) []core.Box {
	return []core.Box{
		{
			Min: core.V(world.Min.X, world.Max.Y-groundThickness),
			Max: world.Max,
		},
	}
}

// ApplePositions returns the starting pickup positions.
func ApplePositions() []core.Vec2 {
	out := make([]core.Vec2, len(apples))
	copy(out, apples)
	return out
}
