package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/skyfight/internal/object"
)

func TestPreparedAmmoWaitsAndSnapsToFirer(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)
	shot := object.NewAmmo(pilot.Weapons()[0], 10, 50, 90, 0, -2, 50)
	w.AddAmmo(shot)

	pilot.MoveTo(30, 70)
	for tick := int64(20); tick < 60; tick += 10 {
		w.Advance(tick)
		x, y := shot.Position()
		assert.Equal(t, 50.0, x, "tick %d", tick)
		assert.Equal(t, 90.0, y, "tick %d", tick)

		dx, dy := shot.DrawPosition()
		assert.Equal(t, 30.0, dx)
		assert.Equal(t, 70.0, dy)
	}

	w.Advance(60)
	x, y := shot.Position()
	assert.Equal(t, 30.0, x)
	assert.Equal(t, 68.0, y, "released from the firer's position, then stepped")
	assert.Zero(t, shot.PreparedTime())
}

func TestAdvanceSkipsDeadAndHumans(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)
	pilot.SetStep(1, 0)
	live := addEnemy(w, c, "drone", 20, 20)
	live.SetStep(0, 1)
	dead := addEnemy(w, c, "drone", 40, 20)
	dead.SetStep(0, 1)
	dead.MarkDead(5)

	w.Advance(20)

	_, y := live.Position()
	assert.Equal(t, 21.0, y)
	_, y = dead.Position()
	assert.Equal(t, 20.0, y)
	x, _ := pilot.Position()
	assert.Equal(t, 50.0, x)
}

func TestAdvanceHonorsMoveCooldown(t *testing.T) {
	c := newFakeCatalog()
	w, _ := newTestWorld(c)
	drone := addEnemy(w, c, "drone", 20, 20)
	drone.SetStep(0, 1)
	require.Equal(t, int64(50), drone.MoveCooldown())

	for tick := int64(0); tick <= 120; tick += 20 {
		w.Advance(tick)
	}
	// Steps at 0, 60 and 120 only.
	_, y := drone.Position()
	assert.Equal(t, 23.0, y)
}

func TestMoveHuman(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)

	assert.True(t, w.moveHuman(pilot, -1.5, -1.5, 0))
	x, y := pilot.Position()
	assert.Equal(t, 48.5, x)
	assert.Equal(t, 88.5, y)

	// Cooldown of one millisecond: a second step at the same time waits.
	assert.False(t, w.moveHuman(pilot, 1.5, 0, 0))
	assert.True(t, w.moveHuman(pilot, 1.5, 0, 1))

	pilot.MoveTo(99, 50)
	assert.False(t, w.moveHuman(pilot, 1.5, 0, 100), "leaving the world is rejected")
	x, _ = pilot.Position()
	assert.Equal(t, 99.0, x)
	assert.Equal(t, int64(1), pilot.LastMoveTime(), "a rejected step keeps the cooldown untouched")

	pilot.MarkDead(200)
	assert.False(t, w.moveHuman(pilot, -1.5, 0, 300))
}

func TestDirectionVector(t *testing.T) {
	tests := []struct {
		dir    Direction
		dx, dy float64
	}{
		{DirLeft, -1, 0},
		{DirRight, 1, 0},
		{DirUp, 0, -1},
		{DirDown, 0, 1},
		{DirLeftUp, -1, -1},
		{DirRightUp, 1, -1},
		{DirLeftDown, -1, 1},
		{DirRightDown, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			dx, dy := tt.dir.Vector()
			assert.Equal(t, tt.dx, dx)
			assert.Equal(t, tt.dy, dy)
		})
	}
}

func TestReap(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)
	gun := pilot.Weapons()[0]

	spent := object.NewAmmo(gun, 0, 50, 50, 0, 0, 0)
	outside := object.NewAmmo(gun, 0, 50, -100, 0, -2, 0)
	flying := object.NewAmmo(gun, 0, 50, 50, 0, -2, 0)
	w.AddAmmo(spent)
	w.AddAmmo(outside)
	w.AddAmmo(flying)

	staged := addEnemy(w, c, "drone", 50, -15)
	fallen := addEnemy(w, c, "drone", 50, 130)
	corpse := addEnemy(w, c, "drone", 20, 20)
	corpse.MarkDead(100)
	pilot.MarkDead(100)

	w.Reap(150)
	assert.True(t, spent.IsDead())
	assert.Equal(t, []*object.Ammo{spent, flying}, w.PlayerAmmo(), "spent shots die first and go on the next pass")
	assert.ElementsMatch(t, []*object.Subject{staged, corpse}, w.Enemies())
	assert.NotContains(t, w.Enemies(), fallen)

	w.Reap(201)
	assert.Equal(t, []*object.Ammo{flying}, w.PlayerAmmo())
	assert.Equal(t, []*object.Subject{staged}, w.Enemies())
	assert.Equal(t, []*object.Subject{pilot}, w.PlayerSubjects(), "player bodies are kept")
}
