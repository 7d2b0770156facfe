package game

import "github.com/tomz197/skyfight/internal/object"

// Direction is one of the eight human move commands.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
	DirLeftUp
	DirRightUp
	DirLeftDown
	DirRightDown
)

var directionNames = [...]string{"left", "right", "up", "down", "left-up", "right-up", "left-down", "right-down"}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

// Vector returns the unit axis components of d. Y grows downward.
func (d Direction) Vector() (dx, dy float64) {
	switch d {
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeftUp:
		return -1, -1
	case DirRightUp:
		return 1, -1
	case DirLeftDown:
		return -1, 1
	case DirRightDown:
		return 1, 1
	}
	return 0, 0
}

// stepMovable advances m by its step vector if its move cooldown allows it
// at t.
func stepMovable(m *object.Movable, t int64) bool {
	if !m.CanStep(t) {
		return false
	}
	m.StepBy(t)
	return true
}

// stepAmmo moves a shot unless it is still charging. The first tick after
// its prepared delay ends snaps it to the firer before it steps.
func stepAmmo(a *object.Ammo, t int64) bool {
	if a.IsCharging(t) {
		return false
	}
	if a.PreparedTime() > 0 && a.CreateTime() > 0 {
		a.Release()
	}
	return stepMovable(&a.Movable, t)
}

// moveHuman applies one human step of (dx, dy) to s. Steps leaving the
// world bounds are rejected before the cooldown is consulted.
func (w *World) moveHuman(s *object.Subject, dx, dy float64, t int64) bool {
	if s == nil || s.IsDead() {
		return false
	}
	x, y := s.Position()
	nx, ny := x+dx, y+dy
	if nx < 0 || nx > w.Width || ny < 0 || ny > w.Height {
		return false
	}
	if !s.CanStep(t) {
		return false
	}
	s.SetStep(dx, dy)
	s.StepBy(t)
	return true
}

// Advance runs automatic movement for one tick: every live shot and every
// live enemy steps when its cooldown allows. Human subjects only move on
// command.
func (w *World) Advance(t int64) {
	for _, list := range [][]*object.Ammo{w.playerAmmo, w.enemyAmmo} {
		for _, a := range list {
			if !a.IsDead() {
				stepAmmo(a, t)
			}
		}
	}
	for _, e := range w.enemies {
		if !e.IsDead() {
			stepMovable(&e.Movable, t)
		}
	}
}
