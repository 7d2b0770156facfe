package object

// Weapon fires ammo on behalf of its holder.
type Weapon struct {
	Entity

	typ          WeaponType
	holder       *Subject
	damage       int
	fireSpeed    int
	lastFireTime int64
}

// NewWeapon creates a weapon held by holder. A fresh weapon may fire at once.
func NewWeapon(typ WeaponType, holder *Subject) *Weapon {
	return &Weapon{
		Entity:       newEntity(),
		typ:          typ,
		holder:       holder,
		damage:       typ.Damage,
		fireSpeed:    typ.FireSpeed,
		lastFireTime: -FireCooldownMax,
	}
}

func (w *Weapon) Type() WeaponType { return w.typ }
func (w *Weapon) Holder() *Subject { return w.holder }
func (w *Weapon) Damage() int { return w.damage }
func (w *Weapon) FireSpeed() int { return w.fireSpeed }
func (w *Weapon) LastFireTime() int64 { return w.lastFireTime }

// Cooldown is the minimum game time between two shots.
func (w *Weapon) Cooldown() int64 {
	return FireSpeedToCooldown(w.fireSpeed)
}

// CanFire reports whether the cooldown has elapsed at time t.
func (w *Weapon) CanFire(t int64) bool {
	return t-w.lastFireTime >= w.Cooldown()
}

// MarkFired stamps a shot at time t.
func (w *Weapon) MarkFired(t int64) {
	w.lastFireTime = t
}
