// Package config provides YAML-based tuning for Apple Dash: embedded defaults,
// a file search order, environment overrides, validation, and a file watcher.
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Config contains every tunable of a session.
type Config struct {
	Engine   string         `yaml:"engine" env:"APPLEDASH_ENGINE"`
	TickRate int            `yaml:"tick_rate" env:"APPLEDASH_TICK_RATE"`
	World    WorldConfig    `yaml:"world"`
	Player   PlayerConfig   `yaml:"player"`
	Pickups  PickupConfig   `yaml:"pickups"`
	Controls ControlsConfig `yaml:"controls"`
	Render   RenderConfig   `yaml:"render"`
}

// WorldConfig defines the simulated rectangle in pixels. Y grows downward.
type WorldConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Gravity float64 `yaml:"gravity"` // px/s²
}

// PlayerConfig defines the player body and its movement.
type PlayerConfig struct {
	SpawnX       float64 `yaml:"spawn_x"`
	SpawnY       float64 `yaml:"spawn_y"`
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Bounce       float64 `yaml:"bounce"`
	RunSpeed     float64 `yaml:"run_speed"`     // px/s
	JumpVelocity float64 `yaml:"jump_velocity"` // px/s, negative is up
	MinX         float64 `yaml:"min_x"`
}

// PickupConfig defines apples and their respawn.
type PickupConfig struct {
	Points         int          `yaml:"points"`
	RespawnDelayMS int          `yaml:"respawn_delay_ms"`
	Width          float64      `yaml:"width"`
	Height         float64      `yaml:"height"`
	Respawn        RespawnRange `yaml:"respawn"`
}

// RespawnRange is the inclusive integer rectangle apples respawn in.
type RespawnRange struct {
	MinX int `yaml:"min_x"`
	MaxX int `yaml:"max_x"`
	MinY int `yaml:"min_y"`
	MaxY int `yaml:"max_y"`
}

// ControlsConfig selects the input modality.
type ControlsConfig struct {
	Mode      string `yaml:"mode" env:"APPLEDASH_CONTROLS"` // auto, keyboard or touch
	KeyHoldMS int    `yaml:"key_hold_ms" env:"APPLEDASH_KEY_HOLD_MS"`
}

// RenderConfig maps world pixels to terminal cells.
type RenderConfig struct {
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
}

var controlModes = []string{"auto", "keyboard", "touch"}

// The fixed level puts its starting apples no further right or lower than
// this, so the world has to reach past it.
const (
	LayoutMaxX = 1100
	LayoutMaxY = 450
)

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(strings.TrimSpace(c.Engine) != "", "engine must be set")
	check(c.TickRate > 0 && c.TickRate <= 240, "tick_rate must be in 1..240, got %d", c.TickRate)

	w := c.World
	check(w.Width > 0 && w.Height > 0, "world size must be positive, got %vx%v", w.Width, w.Height)
	check(w.Gravity >= 0, "world.gravity must not be negative, got %v", w.Gravity)

	p := c.Player
	check(p.Width > 0 && p.Height > 0, "player size must be positive, got %vx%v", p.Width, p.Height)
	check(p.SpawnX >= 0 && p.SpawnX <= w.Width && p.SpawnY >= 0 && p.SpawnY <= w.Height,
		"player spawn (%v,%v) is outside the world", p.SpawnX, p.SpawnY)
	check(p.Bounce >= 0 && p.Bounce <= 1, "player.bounce must be in [0,1], got %v", p.Bounce)
	check(p.RunSpeed > 0, "player.run_speed must be positive, got %v", p.RunSpeed)
	check(p.JumpVelocity < 0, "player.jump_velocity must be negative (up), got %v", p.JumpVelocity)
	check(p.MinX >= 0 && p.MinX < w.Width, "player.min_x must be inside the world, got %v", p.MinX)

	k := c.Pickups
	check(k.Points >= 0, "pickups.points must not be negative, got %d", k.Points)
	check(k.RespawnDelayMS > 0, "pickups.respawn_delay_ms must be positive, got %d", k.RespawnDelayMS)
	check(k.Width > 0 && k.Height > 0, "pickup size must be positive, got %vx%v", k.Width, k.Height)
	r := k.Respawn
	check(r.MinX <= r.MaxX && r.MinY <= r.MaxY,
		"pickups.respawn is empty: x %d..%d, y %d..%d", r.MinX, r.MaxX, r.MinY, r.MaxY)
	check(r.MinX >= 0 && float64(r.MaxX) <= w.Width && r.MinY >= 0 && float64(r.MaxY) <= w.Height,
		"pickups.respawn x %d..%d, y %d..%d is outside the world", r.MinX, r.MaxX, r.MinY, r.MaxY)
	needW, needH := LayoutMaxX+k.Width/2, LayoutMaxY+k.Height/2
	check(w.Width >= needW && w.Height >= needH,
		"world %vx%v is too small for the starting apples, need at least %vx%v", w.Width, w.Height, needW, needH)

	check(validMode(c.Controls.Mode), "controls.mode must be one of %s, got %q",
		strings.Join(controlModes, ", "), c.Controls.Mode)
	check(c.Controls.KeyHoldMS >= 0, "controls.key_hold_ms must not be negative, got %d", c.Controls.KeyHoldMS)

	check(c.Render.CellWidth > 0 && c.Render.CellHeight > 0,
		"render cell size must be positive, got %vx%v", c.Render.CellWidth, c.Render.CellHeight)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
}

func validMode(mode string) bool {
	m := strings.ToLower(strings.TrimSpace(mode))
	if m == "" {
		return true
	}
	for _, v := range controlModes {
		if m == v {
			return true
		}
	}
	return false
}
