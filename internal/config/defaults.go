package config

import (
	_ "embed"
)

//go:embed defaults/appledash.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration. It matches the embedded
// defaults/appledash.yaml.
func DefaultConfig() Config {
	return Config{
		Engine:   "arcade",
		TickRate: 60,
		World: WorldConfig{
			Width:   1280,
			Height:  600,
			Gravity: 300,
		},
		Player: PlayerConfig{
			SpawnX:       100,
			SpawnY:       450,
			Width:        40,
			Height:       60,
			Bounce:       0.2,
			RunSpeed:     200,
			JumpVelocity: -400,
			MinX:         50,
		},
		Pickups: PickupConfig{
			Points:         10,
			RespawnDelayMS: 3000,
			Width:          24,
			Height:         24,
			Respawn: RespawnRange{
				MinX: 600,
				MaxX: 1200,
				MinY: 300,
				MaxY: 500,
			},
		},
		Controls: ControlsConfig{
			Mode:      "auto",
			KeyHoldMS: 150,
		},
		Render: RenderConfig{
			CellWidth:  16,
			CellHeight: 24,
		},
	}
}
