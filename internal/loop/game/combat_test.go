package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/skyfight/internal/object"
)

func TestTwoHitsKill(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)
	drone := addEnemy(w, c, "drone", 50, 50)
	gun := pilot.Weapons()[0]

	w.AddAmmo(object.NewAmmo(gun, 20, 50, 50, 0, -1, 0))
	kills := w.DetectHits(20)
	assert.Empty(t, kills)
	assert.Equal(t, 40, drone.HP())
	assert.False(t, drone.IsDead())

	w.AddAmmo(object.NewAmmo(gun, 40, 50, 50, 0, -1, 0))
	kills = w.DetectHits(40)
	require.Len(t, kills, 1)
	assert.Same(t, drone, kills[0].Victim)
	assert.Equal(t, -20, drone.HP())
	assert.True(t, drone.IsDead())
	assert.Equal(t, int64(40), drone.DeathTime())

	player, err := w.Player(1)
	require.NoError(t, err)
	assert.Same(t, player, kills[0].Shooter)
	assert.Equal(t, 1, player.Hits())
	assert.Equal(t, 10, player.Score())
	assert.Equal(t, 10, w.Level())
}

func TestAmmoHitsAtMostOnce(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)
	a := addEnemy(w, c, "drone", 50, 50)
	b := addEnemy(w, c, "drone", 51, 50)

	shot := object.NewAmmo(pilot.Weapons()[0], 20, 50.5, 50, 0, -1, 0)
	w.AddAmmo(shot)
	w.DetectHits(20)

	assert.True(t, shot.IsDead())
	assert.Equal(t, 1, countDamaged(a, b))

	// A dead shot is ignored from then on.
	w.DetectHits(40)
	assert.Equal(t, 1, countDamaged(a, b))
}

func countDamaged(subjects ...*object.Subject) int {
	n := 0
	for _, s := range subjects {
		if s.HP() < s.Type().HP {
			n++
		}
	}
	return n
}

func TestDeadSubjectsAndChargingAmmoDoNotCollide(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)
	drone := addEnemy(w, c, "drone", 50, 50)
	gun := pilot.Weapons()[0]

	charging := object.NewAmmo(gun, 20, 50, 50, 0, -1, 100)
	w.AddAmmo(charging)
	w.DetectHits(40)
	assert.False(t, charging.IsDead())
	assert.Equal(t, 100, drone.HP())

	drone.MarkDead(60)
	shot := object.NewAmmo(gun, 60, 50, 50, 0, -1, 0)
	w.AddAmmo(shot)
	w.DetectHits(60)
	assert.False(t, shot.IsDead())
	assert.Equal(t, 100, drone.HP())
}

func TestEnemyShotsHitPlayers(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)
	drone := addEnemy(w, c, "drone", 50, 10)

	w.AddAmmo(object.NewAmmo(drone.Weapons()[0], 20, 50, 90, 0, 1, 0))
	w.DetectHits(20)
	assert.Equal(t, 90, pilot.HP())
	assert.Equal(t, 0, w.EnemyPlayer().Hits())
}

func TestFireCooldown(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)
	gun := pilot.Weapons()[0]
	require.Equal(t, int64(200), gun.Cooldown())

	n, err := w.Fire(gun, 0, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = w.Fire(gun, 100, 50, 0)
	require.NoError(t, err)
	assert.Zero(t, n, "fire inside the cooldown must be rejected")

	n, err = w.Fire(gun, 200, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, w.PlayerAmmo(), 2)
	assert.Empty(t, w.EnemyAmmo())
}

func TestFireUnknownActor(t *testing.T) {
	c := newFakeCatalog()
	gun := c.weapons["gun"]
	gun.Actor = "laser"
	c.weapons["gun"] = gun
	w, pilot := newTestWorld(c)

	_, err := w.Fire(pilot.Weapons()[0], 0, 50, 0)
	require.ErrorIs(t, err, object.ErrUnknownActor)
	assert.Empty(t, w.PlayerAmmo())
}

func TestDeadHolderDoesNotFire(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)
	pilot.MarkDead(20)

	n, err := w.fireHuman(pilot, 40)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEnemyFireTargetsNearestPrimary(t *testing.T) {
	c := newFakeCatalog()
	w, _ := newTestWorld(c)
	p2 := w.AddPlayer()
	second, err := spawnSubject(c, "pilot", p2, 10, 20)
	require.NoError(t, err)
	require.NoError(t, w.SetPrimary(2, second))

	visible := addEnemy(w, c, "drone", 10, 10)
	addEnemy(w, c, "drone", 80, -5) // Still in the staging band

	n, err := w.EnemyFire(0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, w.EnemyAmmo(), 1)

	dx, dy := w.EnemyAmmo()[0].Step()
	assert.InDelta(t, 0, dx, 1e-9)
	assert.Greater(t, dy, 0.0, "shot heads for the nearer pilot below")
	assert.Same(t, visible, w.EnemyAmmo()[0].Weapon().Holder())
}

func TestEnemyFireWithoutLivePrimaries(t *testing.T) {
	c := newFakeCatalog()
	w, pilot := newTestWorld(c)
	addEnemy(w, c, "drone", 50, 10)
	pilot.MarkDead(20)

	n, err := w.EnemyFire(40)
	require.NoError(t, err)
	assert.Zero(t, n)
}
