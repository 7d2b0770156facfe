package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/skyfight/internal/catalog"
)

func TestWaveSize(t *testing.T) {
	tests := []struct {
		level  int
		groups int
		elite  bool
	}{
		{0, 1, false},
		{99, 1, false},
		{100, 2, false},
		{999, 2, false},
		{1000, 3, false},
		{1999, 3, false},
		{2000, 4, false},
		{4999, 4, false},
		{5000, 5, true},
		{90000, 5, true},
	}
	for _, tt := range tests {
		groups, elite := WaveSize(tt.level)
		assert.Equal(t, tt.groups, groups, "level %d", tt.level)
		assert.Equal(t, tt.elite, elite, "level %d", tt.level)
	}
}

func TestDirectorCadence(t *testing.T) {
	c := newFakeCatalog()
	w, _ := newTestWorld(c)
	d := NewDirector(c, rand.New(rand.NewSource(1)), 5000)

	n, err := d.Update(w, 0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 4, "three scouts plus at least one special")
	assert.LessOrEqual(t, n, 5)
	assert.Len(t, w.Enemies(), n)

	n, err = d.Update(w, 4980)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = d.Update(w, 5000)
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestDirectorSpawnsInStagingBand(t *testing.T) {
	c := newFakeCatalog()
	w, _ := newTestWorld(c)
	d := NewDirector(c, rand.New(rand.NewSource(7)), 5000)

	_, err := d.Update(w, 0)
	require.NoError(t, err)
	for _, e := range w.Enemies() {
		x, y := e.Position()
		assert.GreaterOrEqual(t, x, 0.0)
		assert.LessOrEqual(t, x, w.Width)
		assert.Less(t, y, 0.0)
		assert.GreaterOrEqual(t, y, -w.Staging)
		assert.False(t, e.OutOfBounds(w.Width, w.Height, w.Staging))

		_, dy := e.Step()
		assert.Positive(t, dy)
		assert.Equal(t, w.EnemyPlayer(), e.Player())
	}
}

func TestDirectorEliteWave(t *testing.T) {
	c := newFakeCatalog()
	c.waves.Specials = nil
	w, _ := newTestWorld(c)
	player, err := w.Player(1)
	require.NoError(t, err)
	player.RecordKill(5000)

	d := NewDirector(c, rand.New(rand.NewSource(1)), 5000)
	n, err := d.Update(w, 0)
	require.NoError(t, err)
	assert.Equal(t, 5*3+1, n)

	bosses := 0
	for _, e := range w.Enemies() {
		if e.Type().ID == "boss" {
			bosses++
		}
	}
	assert.Equal(t, 1, bosses)
}

func TestDirectorUnknownType(t *testing.T) {
	c := newFakeCatalog()
	c.waves.Baseline = "ghost"
	w, _ := newTestWorld(c)

	d := NewDirector(c, rand.New(rand.NewSource(1)), 5000)
	_, err := d.Update(w, 0)
	require.ErrorIs(t, err, catalog.ErrUnknownSubject)
}
