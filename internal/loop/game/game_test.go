package game

import (
	"fmt"

	"github.com/tomz197/skyfight/internal/catalog"
	"github.com/tomz197/skyfight/internal/object"
)

type fakeCatalog struct {
	subjects map[string]object.SubjectType
	weapons  map[string]object.WeaponType
	waves    catalog.Waves
}

func (c *fakeCatalog) SubjectType(id string) (object.SubjectType, error) {
	st, ok := c.subjects[id]
	if !ok {
		return object.SubjectType{}, fmt.Errorf("%w: %q", catalog.ErrUnknownSubject, id)
	}
	return st, nil
}

func (c *fakeCatalog) WeaponType(id string) (object.WeaponType, error) {
	wt, ok := c.weapons[id]
	if !ok {
		return object.WeaponType{}, fmt.Errorf("%w: %q", catalog.ErrUnknownWeapon, id)
	}
	return wt, nil
}

func (c *fakeCatalog) WaveSpec() catalog.Waves { return c.waves }

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		subjects: map[string]object.SubjectType{
			"pilot": {ID: "pilot", Radius: 2, MoveSpeed: 99, DeathDuration: 1000, KeepBody: true, DrawID: "A", HP: 100, Weapons: []string{"gun"}},
			"drone": {ID: "drone", Radius: 2, MoveSpeed: 50, DeathDuration: 100, DrawID: "v", HP: 100, Score: 10, Weapons: []string{"pea"}},
			"boss":  {ID: "boss", Radius: 4, MoveSpeed: 20, DeathDuration: 100, DrawID: "M", HP: 500, Defense: 10, Score: 100},
		},
		weapons: map[string]object.WeaponType{
			"gun": {ID: "gun", Damage: 60, FireSpeed: 95, AmmoRadius: 0.5, AmmoMoveSpeed: 99, AmmoDrawID: "|", AmmoStep: 2, Actor: object.ActorStraight},
			"pea": {ID: "pea", Damage: 10, FireSpeed: 50, AmmoRadius: 0.5, AmmoMoveSpeed: 90, AmmoDrawID: ".", AmmoStep: 1, Actor: object.ActorStraight},
		},
		waves: catalog.Waves{
			Players:       []string{"pilot"},
			Baseline:      "drone",
			BaselineCount: 3,
			Specials:      []string{"boss"},
			Elite:         "boss",
		},
	}
}

// newTestWorld returns a 100x100 world with one human slot whose primary
// "pilot" sits at (50, 90).
func newTestWorld(c *fakeCatalog) (*World, *object.Subject) {
	w := NewWorld(100, 100, 20)
	p := w.AddPlayer()
	pilot, err := spawnSubject(c, "pilot", p, 50, 90)
	if err != nil {
		panic(err)
	}
	if err := w.SetPrimary(1, pilot); err != nil {
		panic(err)
	}
	return w, pilot
}

func addEnemy(w *World, c *fakeCatalog, typeID string, x, y float64) *object.Subject {
	e, err := spawnSubject(c, typeID, w.EnemyPlayer(), x, y)
	if err != nil {
		panic(err)
	}
	w.AddSubject(e)
	return e
}
