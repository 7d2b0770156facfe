package game

import (
	"math/rand"

	"github.com/tomz197/skyfight/internal/loop/config"
)

// WaveSize maps a level (summed human score) to the number of enemy groups
// in the next wave and whether an elite joins it.
func WaveSize(level int) (groups int, elite bool) {
	for i, threshold := range config.WaveThresholds {
		if level < threshold {
			return config.WaveMultipliers[i], false
		}
	}
	return config.MaxWaveMultiplier, true
}

// Director spawns enemy waves into the staging band above the world on a
// fixed game-time cadence. Waves grow with the humans' combined score.
type Director struct {
	catalog     Catalog
	rng         *rand.Rand
	cooldown    int64
	lastRefresh int64
}

// NewDirector creates a director whose first wave is due immediately.
func NewDirector(c Catalog, rng *rand.Rand, cooldown int64) *Director {
	return &Director{
		catalog:     c,
		rng:         rng,
		cooldown:    cooldown,
		lastRefresh: -cooldown,
	}
}

// Update spawns a wave when the refresh cooldown has elapsed at t and
// returns the number of enemies added. Catalog lookups failing here are
// configuration errors.
func (d *Director) Update(w *World, t int64) (int, error) {
	if t-d.lastRefresh < d.cooldown {
		return 0, nil
	}
	d.lastRefresh = t

	waves := d.catalog.WaveSpec()
	groups, elite := WaveSize(w.Level())
	spawned := 0
	for g := 0; g < groups; g++ {
		n, err := d.spawnGroup(w, waves.Baseline, waves.BaselineCount, waves.Specials)
		spawned += n
		if err != nil {
			return spawned, err
		}
	}
	if elite && waves.Elite != "" {
		if err := d.spawn(w, waves.Elite); err != nil {
			return spawned, err
		}
		spawned++
	}
	return spawned, nil
}

// spawnGroup adds count baseline enemies plus one or two specials.
func (d *Director) spawnGroup(w *World, baseline string, count int, specials []string) (int, error) {
	spawned := 0
	if baseline != "" {
		for i := 0; i < count; i++ {
			if err := d.spawn(w, baseline); err != nil {
				return spawned, err
			}
			spawned++
		}
	}
	if len(specials) == 0 {
		return spawned, nil
	}
	for i := 1 + d.rng.Intn(2); i > 0; i-- {
		if err := d.spawn(w, specials[d.rng.Intn(len(specials))]); err != nil {
			return spawned, err
		}
		spawned++
	}
	return spawned, nil
}

// spawn places one enemy of typeID at a random point of the staging band
// with a downward drifting step.
func (d *Director) spawn(w *World, typeID string) error {
	st, err := d.catalog.SubjectType(typeID)
	if err != nil {
		return err
	}
	r := st.Radius
	x := config.SpawnMargin + d.rng.Float64()*max(w.Width-2*config.SpawnMargin, 0)
	y := -r - d.rng.Float64()*max(w.Staging-2*r, 0)

	s, err := spawnSubject(d.catalog, typeID, w.EnemyPlayer(), x, y)
	if err != nil {
		return err
	}
	s.SetStep((d.rng.Float64()*2-1)*config.EnemyDrift, config.EnemyStep)
	w.AddSubject(s)
	return nil
}
