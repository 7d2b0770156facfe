package object

// SubjectType is the catalog descriptor shared by every subject of a kind.
type SubjectType struct {
	ID            string
	Radius        float64
	MoveSpeed     int
	DeathDuration int64
	KeepBody      bool
	DrawID        string
	HP            int
	Defense       int
	Score         int
	Weapons       []string
}

// WeaponType is the catalog descriptor shared by every weapon of a kind.
type WeaponType struct {
	ID                string
	Damage            int
	FireSpeed         int
	AmmoRadius        float64
	AmmoMoveSpeed     int
	AmmoDeathDuration int64
	AmmoDrawID        string
	AmmoStep          float64 // distance covered by one ammo step
	Actor             Actor
	Count             int   // shots per trigger for multi-shot actors
	Stagger           int64 // prepared delay between consecutive shots of a train
}

// DefaultAmmoStep is used when a weapon type leaves AmmoStep unset.
const DefaultAmmoStep = 2.0
