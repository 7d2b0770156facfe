// Package config centralizes all tunable game parameters.
package config

import "time"

// World dimensions in logical units. Human players are confined to
// [0,WorldWidth]×[0,WorldHeight]; new enemies wait in a staging band of
// StagingHeight units above the top edge.
const (
	WorldWidth    = 120
	WorldHeight   = 80
	StagingHeight = 30
)

// Tick timing. Game time is counted in milliseconds and advances by
// TickMillis once per simulation tick.
const (
	TickDuration = 20 * time.Millisecond
	TickMillis   = int64(TickDuration / time.Millisecond)
)

// Spawning
const (
	RefreshCooldown = 5000 // Game-time ms between two enemy waves
	SpawnMargin     = 4.0  // Keep spawned enemies this far from the side edges
	EnemyDrift      = 0.3  // Max horizontal drift per enemy step
	EnemyStep       = 1.0  // Vertical distance per enemy step
)

// Wave bands: level thresholds (sum of player scores) and the group
// multiplier used below each threshold. Levels at or above the last
// threshold use MaxWaveMultiplier plus one elite.
var (
	WaveThresholds  = []int{100, 1000, 2000, 5000}
	WaveMultipliers = []int{1, 2, 3, 4}
)

const MaxWaveMultiplier = 5

// Player
const (
	MaxPlayers   = 2
	PlayerStep   = 1.5 // Distance per human step, per axis
	PlayerMargin = 8.0 // Spawn distance above the bottom edge
)

// Client rendering. Terminals larger than MaxTermWidth×MaxTermHeight get a
// centered, bordered render area.
const (
	ClientTargetFPS       = 30
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	SpectatorFrameTime    = 50 * time.Millisecond
	MaxTermWidth          = 160
	MaxTermHeight         = 50
	HUDRows               = 1 // Rows reserved under the playfield
)

// Input
const (
	KeyHoldDuration = 80 * time.Millisecond // A key counts as held this long after its last byte
	InputPollTime   = 10 * time.Millisecond
)
