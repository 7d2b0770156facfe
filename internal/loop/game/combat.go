package game

import (
	"fmt"
	"math"

	"github.com/tomz197/skyfight/internal/object"
	"github.com/tomz197/skyfight/internal/physics"
)

// Fire pulls the trigger of wp at time t toward (tx, ty). It returns the
// number of shots added; a weapon still cooling down or held by a dead
// subject fires nothing. An actor with no registered strategy is a
// configuration error.
func (w *World) Fire(wp *object.Weapon, t int64, tx, ty float64) (int, error) {
	holder := wp.Holder()
	if holder == nil || holder.IsDead() || !wp.CanFire(t) {
		return 0, nil
	}
	fire, err := object.ResolveFireStrategy(wp.Type().Actor)
	if err != nil {
		return 0, fmt.Errorf("weapon %s: %w", wp.Type().ID, err)
	}
	shots := fire(wp, t, tx, ty)
	for _, a := range shots {
		w.AddAmmo(a)
	}
	wp.MarkFired(t)
	return len(shots), nil
}

// FireAll fires every weapon of s toward (tx, ty).
func (w *World) FireAll(s *object.Subject, t int64, tx, ty float64) (int, error) {
	total := 0
	for _, wp := range s.Weapons() {
		n, err := w.Fire(wp, t, tx, ty)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// fireHuman fires a human subject's weapons straight up.
func (w *World) fireHuman(s *object.Subject, t int64) (int, error) {
	if s == nil || s.IsDead() {
		return 0, nil
	}
	x, y := s.Position()
	return w.FireAll(s, t, x, y-w.Height)
}

// EnemyFire lets every live enemy inside the visible world shoot at the
// nearest live primary subject.
func (w *World) EnemyFire(t int64) (int, error) {
	total := 0
	for _, e := range w.enemies {
		if e.IsDead() {
			continue
		}
		x, y := e.Position()
		if y < 0 {
			continue
		}
		target := w.nearestPrimary(x, y)
		if target == nil {
			break
		}
		tx, ty := target.Position()
		n, err := w.FireAll(e, t, tx, ty)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (w *World) nearestPrimary(x, y float64) *object.Subject {
	var best *object.Subject
	bestDist := math.Inf(1)
	for _, p := range w.primaries {
		if p == nil || p.IsDead() {
			continue
		}
		px, py := p.Position()
		if d := physics.DistanceSquared(x, y, px, py); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
