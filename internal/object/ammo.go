package object

// Ammo is a shot in flight. While its prepared delay runs it stays anchored
// to the firer and neither moves nor deals damage.
type Ammo struct {
	Movable

	weapon       *Weapon
	createTime   int64
	preparedTime int64
}

// NewAmmo creates a shot fired by w at time t from (x, y) with the given
// step vector and prepared delay.
func NewAmmo(w *Weapon, t int64, x, y, stepX, stepY float64, prepared int64) *Ammo {
	typ := w.Type()
	force := ForceNeutral
	if h := w.Holder(); h != nil {
		force = h.Force()
	}
	a := &Ammo{
		Movable: newMovable(MovableSpec{
			X:             x,
			Y:             y,
			Radius:        typ.AmmoRadius,
			MoveSpeed:     typ.AmmoMoveSpeed,
			DeathDuration: typ.AmmoDeathDuration,
			Force:         force,
			DrawID:        typ.AmmoDrawID,
		}),
		weapon:       w,
		createTime:   t,
		preparedTime: prepared,
	}
	a.SetStep(stepX, stepY)
	return a
}

func (a *Ammo) Weapon() *Weapon { return a.weapon }
func (a *Ammo) CreateTime() int64 { return a.createTime }
func (a *Ammo) PreparedTime() int64 { return a.preparedTime }

// IsCharging reports whether the prepared delay is still running at t.
func (a *Ammo) IsCharging(t int64) bool {
	return a.preparedTime > 0 && t-a.createTime < a.preparedTime
}

// Release ends the prepared delay and moves the shot to the firer's
// current position.
func (a *Ammo) Release() {
	a.preparedTime = 0
	if h := a.weapon.Holder(); h != nil {
		a.MoveTo(h.Position())
	}
}

// DrawPosition keeps a charging shot on its firer.
func (a *Ammo) DrawPosition() (x, y float64) {
	if a.preparedTime > 0 {
		if h := a.weapon.Holder(); h != nil {
			return h.Position()
		}
	}
	return a.Position()
}
