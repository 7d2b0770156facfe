package object

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownActor is returned for a fire actor id no strategy answers to.
var ErrUnknownActor = errors.New("unknown fire actor")

// Actor identifies a fire strategy.
type Actor string

const (
	ActorStraight Actor = "straight"
	ActorBloom    Actor = "bloom"
	ActorBullet   Actor = "bullet"
	ActorSpread   Actor = "spread"
)

// FireStrategy turns one trigger pull into new ammo. Strategies only read
// the weapon and its holder; cooldown bookkeeping belongs to the caller.
type FireStrategy func(w *Weapon, t int64, targetX, targetY float64) []*Ammo

var fireStrategies = map[Actor]FireStrategy{
	ActorStraight: fireStraight,
	ActorBloom:    fireBloom,
	ActorBullet:   fireBullet,
	ActorSpread:   fireSpread,
}

// ResolveFireStrategy returns the strategy registered for actor.
func ResolveFireStrategy(actor Actor) (FireStrategy, error) {
	fs, ok := fireStrategies[actor]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActor, actor)
	}
	return fs, nil
}

// Actors lists the registered actor ids.
func Actors() []Actor {
	return []Actor{ActorStraight, ActorBloom, ActorBullet, ActorSpread}
}

// spreadAngle is the fan half-angle of the spread actor.
const spreadAngle = math.Pi / 12

func fireStraight(w *Weapon, t int64, tx, ty float64) []*Ammo {
	x, y := w.Holder().Position()
	sx, sy := aim(w, x, y, tx, ty)
	return []*Ammo{NewAmmo(w, t, x, y, sx, sy, 0)}
}

func fireBloom(w *Weapon, t int64, _, _ float64) []*Ammo {
	x, y := w.Holder().Position()
	step := ammoStep(w)
	shots := make([]*Ammo, 0, 8)
	for i := 0; i < 8; i++ {
		angle := float64(i) * math.Pi / 4
		shots = append(shots, NewAmmo(w, t, x, y, math.Cos(angle)*step, math.Sin(angle)*step, 0))
	}
	return shots
}

func fireBullet(w *Weapon, t int64, tx, ty float64) []*Ammo {
	x, y := w.Holder().Position()
	sx, sy := aim(w, x, y, tx, ty)
	count := w.Type().Count
	if count < 1 {
		count = 1
	}
	stagger := w.Type().Stagger
	shots := make([]*Ammo, 0, count)
	for i := 0; i < count; i++ {
		shots = append(shots, NewAmmo(w, t, x, y, sx, sy, int64(i)*stagger))
	}
	return shots
}

func fireSpread(w *Weapon, t int64, tx, ty float64) []*Ammo {
	x, y := w.Holder().Position()
	sx, sy := aim(w, x, y, tx, ty)
	if sx == 0 && sy == 0 {
		return []*Ammo{NewAmmo(w, t, x, y, 0, 0, 0)}
	}
	shots := make([]*Ammo, 0, 3)
	for _, da := range []float64{-spreadAngle, 0, spreadAngle} {
		cos, sin := math.Cos(da), math.Sin(da)
		shots = append(shots, NewAmmo(w, t, x, y, sx*cos-sy*sin, sx*sin+sy*cos, 0))
	}
	return shots
}

// aim returns the step vector from (x, y) toward the target. A target on
// top of the firer yields a zero step.
func aim(w *Weapon, x, y, tx, ty float64) (float64, float64) {
	dx, dy := tx-x, ty-y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return 0, 0
	}
	step := ammoStep(w)
	return dx / dist * step, dy / dist * step
}

func ammoStep(w *Weapon) float64 {
	if s := w.Type().AmmoStep; s > 0 {
		return s
	}
	return DefaultAmmoStep
}
