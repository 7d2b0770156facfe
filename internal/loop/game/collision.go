package game

import (
	"github.com/tomz197/skyfight/internal/object"
	"github.com/tomz197/skyfight/internal/physics"
)

// Kill records a subject killed by a shot during hit detection.
type Kill struct {
	Victim  *object.Subject
	Shooter *object.Player // Nil when the firing weapon had no owning player
}

// DetectHits resolves every shot against the opposing force's subjects.
// Player shots are checked against enemies, enemy shots against player
// subjects. Charging shots, dead shots and dead subjects never collide.
// A shot hits at most one subject and dies on contact.
func (w *World) DetectHits(t int64) []Kill {
	var kills []Kill
	kills = w.detectSide(w.playerAmmo, w.enemies, t, kills)
	kills = w.detectSide(w.enemyAmmo, w.playerSubjects, t, kills)
	return kills
}

func (w *World) detectSide(ammo []*object.Ammo, targets []*object.Subject, t int64, kills []Kill) []Kill {
	if len(ammo) == 0 || len(targets) == 0 {
		return kills
	}

	// The cell must cover the widest shot/subject pair for the 3x3 lookup
	// to find every overlap.
	var maxAmmo, maxTarget float64
	for _, a := range ammo {
		maxAmmo = max(maxAmmo, a.Radius())
	}
	for _, s := range targets {
		maxTarget = max(maxTarget, s.Radius())
	}
	w.grid.Reset(w.Width, w.Height+w.Staging, maxAmmo+maxTarget)
	for i, s := range targets {
		if s.IsDead() {
			continue
		}
		x, y := s.Position()
		w.grid.Insert(x, y, i)
	}

	for _, a := range ammo {
		if a.IsDead() || a.IsCharging(t) {
			continue
		}
		ax, ay := a.Position()
		w.grid.QueryAround(ax, ay, func(i int) bool {
			s := targets[i]
			if s.IsDead() {
				return false // Killed by an earlier shot this tick
			}
			sx, sy := s.Position()
			if !physics.CirclesOverlap(ax, ay, a.Radius(), sx, sy, s.Radius()) {
				return false
			}
			if k, ok := hit(a, s, t); ok {
				kills = append(kills, k)
			}
			return true
		})
	}
	return kills
}

// hit applies one shot to one subject: the subject takes the weapon's
// damage, the shot dies and a kill is credited to the firing player.
func hit(a *object.Ammo, s *object.Subject, t int64) (Kill, bool) {
	wp := a.Weapon()
	_, killed := s.ApplyDamage(wp.Damage(), t)
	a.MarkDead(t)
	if !killed {
		return Kill{}, false
	}
	k := Kill{Victim: s}
	if h := wp.Holder(); h != nil && h.Player() != nil {
		k.Shooter = h.Player()
		k.Shooter.RecordKill(s.Score())
	}
	return k, true
}
