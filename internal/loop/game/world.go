package game

import (
	"fmt"
	"slices"

	"github.com/tomz197/skyfight/internal/catalog"
	"github.com/tomz197/skyfight/internal/object"
	"github.com/tomz197/skyfight/internal/physics"
)

// Catalog resolves the type ids the simulation spawns from.
type Catalog interface {
	SubjectType(id string) (object.SubjectType, error)
	WeaponType(id string) (object.WeaponType, error)
	WaveSpec() catalog.Waves
}

// World is the entity store of one game session: the human players, their
// subjects, the enemies and both sides' ammo. All access happens inside the
// session's mutation window.
type World struct {
	Width   float64
	Height  float64
	Staging float64 // Height of the enemy staging band above the top edge

	players   []*object.Player // Human players, index slot-1
	enemy     *object.Player
	primaries []*object.Subject // Primary subject per human slot, index slot-1

	playerSubjects []*object.Subject
	enemies        []*object.Subject
	playerAmmo     []*object.Ammo
	enemyAmmo      []*object.Ammo

	// Broad-phase grid reused by every hit detection pass
	grid *physics.SpatialGrid
}

// NewWorld creates an empty world with the given bounds.
func NewWorld(width, height, staging float64) *World {
	return &World{
		Width:   width,
		Height:  height,
		Staging: staging,
		enemy:   object.NewPlayer(0, object.ForceEnemy),
		grid:    physics.NewSpatialGrid(0, -staging, width, height+staging, 1),
	}
}

// AddPlayer registers the human player for the next slot and returns it.
func (w *World) AddPlayer() *object.Player {
	p := object.NewPlayer(len(w.players)+1, object.ForcePlayer)
	w.players = append(w.players, p)
	w.primaries = append(w.primaries, nil)
	return p
}

// Player returns the human player in slot.
func (w *World) Player(slot int) (*object.Player, error) {
	if slot < 1 || slot > len(w.players) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSlot, slot)
	}
	return w.players[slot-1], nil
}

// Players returns the human players in slot order.
func (w *World) Players() []*object.Player { return w.players }

// EnemyPlayer returns the player that owns every enemy subject.
func (w *World) EnemyPlayer() *object.Player { return w.enemy }

// SetPrimary makes s the primary subject of slot and adds it to the
// player subjects.
func (w *World) SetPrimary(slot int, s *object.Subject) error {
	if slot < 1 || slot > len(w.primaries) {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, slot)
	}
	w.primaries[slot-1] = s
	w.AddSubject(s)
	return nil
}

// Primary returns the primary subject of slot, nil if it has none.
func (w *World) Primary(slot int) (*object.Subject, error) {
	if slot < 1 || slot > len(w.primaries) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSlot, slot)
	}
	return w.primaries[slot-1], nil
}

// Primaries returns every slot's primary subject; entries may be nil.
func (w *World) Primaries() []*object.Subject { return w.primaries }

// AddSubject files s under its force's collection.
func (w *World) AddSubject(s *object.Subject) {
	if s.Force() == object.ForceEnemy {
		w.enemies = append(w.enemies, s)
		return
	}
	w.playerSubjects = append(w.playerSubjects, s)
}

// AddAmmo files a under its force's collection.
func (w *World) AddAmmo(a *object.Ammo) {
	if a.Force() == object.ForceEnemy {
		w.enemyAmmo = append(w.enemyAmmo, a)
		return
	}
	w.playerAmmo = append(w.playerAmmo, a)
}

func (w *World) PlayerSubjects() []*object.Subject { return w.playerSubjects }
func (w *World) Enemies() []*object.Subject { return w.enemies }
func (w *World) PlayerAmmo() []*object.Ammo { return w.playerAmmo }
func (w *World) EnemyAmmo() []*object.Ammo { return w.enemyAmmo }

// Level is the summed score of all human players.
func (w *World) Level() int {
	level := 0
	for _, p := range w.players {
		level += p.Score()
	}
	return level
}

// Reap kills spent ammo (no step vector) and removes every ammo or
// subject that left the world or finished disappearing at time t.
func (w *World) Reap(t int64) {
	for _, list := range [][]*object.Ammo{w.playerAmmo, w.enemyAmmo} {
		for _, a := range list {
			if !a.HasStep() {
				a.MarkDead(t)
			}
		}
	}

	w.playerAmmo = slices.DeleteFunc(w.playerAmmo, w.gone(t))
	w.enemyAmmo = slices.DeleteFunc(w.enemyAmmo, w.gone(t))
	w.playerSubjects = slices.DeleteFunc(w.playerSubjects, w.goneSubject(t))
	w.enemies = slices.DeleteFunc(w.enemies, w.goneSubject(t))
}

func (w *World) gone(t int64) func(*object.Ammo) bool {
	return func(a *object.Ammo) bool {
		return a.IsDisappeared(t) || a.OutOfBounds(w.Width, w.Height, w.Staging)
	}
}

func (w *World) goneSubject(t int64) func(*object.Subject) bool {
	return func(s *object.Subject) bool {
		return s.IsDisappeared(t) || s.OutOfBounds(w.Width, w.Height, w.Staging)
	}
}

// spawnSubject builds a subject of typeID for p at (x, y), armed with the
// weapons its type lists.
func spawnSubject(c Catalog, typeID string, p *object.Player, x, y float64) (*object.Subject, error) {
	st, err := c.SubjectType(typeID)
	if err != nil {
		return nil, err
	}
	s := object.NewSubject(st, p, x, y)
	for _, wid := range st.Weapons {
		wt, err := c.WeaponType(wid)
		if err != nil {
			return nil, fmt.Errorf("subject %s: %w", typeID, err)
		}
		s.AddWeapon(wt)
	}
	return s, nil
}
