package object

// Subject is a combatant: a body with hit points, defense and weapons.
type Subject struct {
	Movable

	typ     SubjectType
	hp      int
	defense int
	score   int
	weapons []*Weapon
	player  *Player
}

// NewSubject creates a subject of the given type at (x, y) for player p.
// Weapons are attached separately with AddWeapon.
func NewSubject(typ SubjectType, p *Player, x, y float64) *Subject {
	force := ForceNeutral
	if p != nil {
		force = p.Force()
	}
	return &Subject{
		Movable: newMovable(MovableSpec{
			X:             x,
			Y:             y,
			Radius:        typ.Radius,
			MoveSpeed:     typ.MoveSpeed,
			DeathDuration: typ.DeathDuration,
			KeepBody:      typ.KeepBody,
			Force:         force,
			DrawID:        typ.DrawID,
		}),
		typ:     typ,
		hp:      typ.HP,
		defense: typ.Defense,
		score:   typ.Score,
		player:  p,
	}
}

func (s *Subject) Type() SubjectType { return s.typ }
func (s *Subject) HP() int { return s.hp }
func (s *Subject) Defense() int { return s.defense }
func (s *Subject) Score() int { return s.score }
func (s *Subject) Player() *Player { return s.player }
func (s *Subject) Weapons() []*Weapon { return s.weapons }

// AddWeapon arms the subject with a new weapon of the given type.
func (s *Subject) AddWeapon(typ WeaponType) *Weapon {
	w := NewWeapon(typ, s)
	s.weapons = append(s.weapons, w)
	return w
}

// ApplyDamage subtracts weaponDamage minus defense from hp at time t and
// returns the effective damage and whether this hit killed the subject.
// There is no floor: defense above the damage heals the subject.
func (s *Subject) ApplyDamage(weaponDamage int, t int64) (effective int, killed bool) {
	effective = weaponDamage - s.defense
	s.hp -= effective
	if s.hp <= 0 {
		killed = s.MarkDead(t)
	}
	return effective, killed
}
