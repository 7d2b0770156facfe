// Package object holds the entity model of the combat simulation: movable
// bodies, subjects, ammo, weapons and the players that own them.
package object

import "sync/atomic"

// idSeq is the process-wide entity id sequence. Ids are never reused.
var idSeq atomic.Int64

// nextID returns the next entity id.
func nextID() int64 {
	return idSeq.Add(1)
}

// Entity is anything that carries a simulation identity.
type Entity struct {
	id int64
}

func newEntity() Entity {
	return Entity{id: nextID()}
}

// ID returns the entity's process-wide id.
func (e Entity) ID() int64 {
	return e.id
}

// Force identifies which side an object fights for.
type Force int

const (
	ForceNeutral Force = iota
	ForcePlayer
	ForceEnemy
)

// Opponent returns the opposing force. Neutral has no opponent.
func (f Force) Opponent() Force {
	switch f {
	case ForcePlayer:
		return ForceEnemy
	case ForceEnemy:
		return ForcePlayer
	default:
		return ForceNeutral
	}
}

func (f Force) String() string {
	switch f {
	case ForcePlayer:
		return "player"
	case ForceEnemy:
		return "enemy"
	default:
		return "neutral"
	}
}

// Drawable is the read-only view renderers consume.
type Drawable interface {
	ID() int64
	Position() (x, y float64)
	DrawPosition() (x, y float64)
	Radius() float64
	DrawID() string
	Force() Force
	IsDead() bool
}

// Cooldown bounds, in milliseconds of game time.
const (
	MoveCooldownMin = 1
	MoveCooldownMax = 500
	FireCooldownMin = 5
	FireCooldownMax = 5000
)

// MoveSpeedToCooldown converts a 0-100 move speed rating into the minimum
// game time between two steps.
func MoveSpeedToCooldown(speed int) int64 {
	return clamp(int64(100-speed), MoveCooldownMin, MoveCooldownMax)
}

// FireSpeedToCooldown converts a 0-100 fire speed rating into the minimum
// game time between two shots.
func FireSpeedToCooldown(speed int) int64 {
	return clamp(int64(100-speed)*40, FireCooldownMin, FireCooldownMax)
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
