package object

// Movable is a body that occupies a circle in the world and steps along a
// vector, gated by its move cooldown.
type Movable struct {
	Entity

	x, y         float64
	lastX, lastY float64
	stepX, stepY float64
	radius       float64
	moveSpeed    int
	lastMoveTime int64

	deathTime     int64 // 0 while alive
	deathDuration int64
	keepBody      bool

	force  Force
	drawID string
}

// MovableSpec describes the static attributes of a new Movable.
type MovableSpec struct {
	X, Y          float64
	Radius        float64
	MoveSpeed     int
	DeathDuration int64
	KeepBody      bool
	Force         Force
	DrawID        string
}

func newMovable(spec MovableSpec) Movable {
	return Movable{
		Entity:        newEntity(),
		x:             spec.X,
		y:             spec.Y,
		lastX:         spec.X,
		lastY:         spec.Y,
		radius:        spec.Radius,
		moveSpeed:     spec.MoveSpeed,
		lastMoveTime:  -MoveCooldownMax,
		deathDuration: spec.DeathDuration,
		keepBody:      spec.KeepBody,
		force:         spec.Force,
		drawID:        spec.DrawID,
	}
}

// Position returns the current center.
func (m *Movable) Position() (x, y float64) {
	return m.x, m.y
}

// DrawPosition returns where renderers should paint the body.
func (m *Movable) DrawPosition() (x, y float64) {
	return m.x, m.y
}

// LastPosition returns the center before the most recent step.
func (m *Movable) LastPosition() (x, y float64) {
	return m.lastX, m.lastY
}

// Step returns the pending step vector.
func (m *Movable) Step() (dx, dy float64) {
	return m.stepX, m.stepY
}

// HasStep reports whether the step vector is non-zero.
func (m *Movable) HasStep() bool {
	return m.stepX != 0 || m.stepY != 0
}

func (m *Movable) Radius() float64 { return m.radius }
func (m *Movable) MoveSpeed() int { return m.moveSpeed }
func (m *Movable) LastMoveTime() int64 { return m.lastMoveTime }
func (m *Movable) DeathTime() int64 { return m.deathTime }
func (m *Movable) KeepBody() bool { return m.keepBody }
func (m *Movable) Force() Force { return m.force }
func (m *Movable) DrawID() string { return m.drawID }

// MoveCooldown is the minimum game time between two steps.
func (m *Movable) MoveCooldown() int64 {
	return MoveSpeedToCooldown(m.moveSpeed)
}

// SetStep replaces the pending step vector.
func (m *Movable) SetStep(dx, dy float64) {
	m.stepX, m.stepY = dx, dy
}

// CanStep reports whether the move cooldown has elapsed at time t.
func (m *Movable) CanStep(t int64) bool {
	return t-m.lastMoveTime >= m.MoveCooldown()
}

// StepBy records the current position as the last one, adds the step
// vector and stamps the move time. Cooldown gating is the caller's job.
func (m *Movable) StepBy(t int64) {
	m.lastX, m.lastY = m.x, m.y
	m.x += m.stepX
	m.y += m.stepY
	m.lastMoveTime = t
}

// MoveTo places the body without touching the step bookkeeping.
func (m *Movable) MoveTo(x, y float64) {
	m.x, m.y = x, y
}

// IsDead reports whether the body has died.
func (m *Movable) IsDead() bool {
	return m.deathTime > 0
}

// IsDisappeared reports whether a dead body has outlived its death
// duration at time t. Bodies that keep their corpse never disappear.
func (m *Movable) IsDisappeared(t int64) bool {
	if !m.IsDead() || m.keepBody {
		return false
	}
	return t-m.deathTime > m.deathDuration
}

// MarkDead performs the one-way death transition at time t and reports
// whether this call made it. Time 0 is stored as 1 so the death stays
// observable.
func (m *Movable) MarkDead(t int64) bool {
	if m.IsDead() {
		return false
	}
	if t < 1 {
		t = 1
	}
	m.deathTime = t
	return true
}

// OutOfBounds reports whether the body is more than two radii past any
// world edge. The top edge also tolerates the staging band where new
// enemies wait before entering.
func (m *Movable) OutOfBounds(width, height, staging float64) bool {
	margin := m.radius * 2
	return m.x < -margin ||
		m.x > width+margin ||
		m.y > height+margin ||
		m.y < -margin-staging
}
