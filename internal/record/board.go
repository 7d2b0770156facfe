// Package record keeps the best finished-game result of every player slot.
package record

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const scoresObject = "scores"

// Record is one finished game of one slot.
type Record struct {
	Slot  int       `yaml:"slot"`
	Score int       `yaml:"score"`
	Hits  int       `yaml:"hits"`
	At    time.Time `yaml:"at"`
}

// Board keeps the best Record per slot. With a gdata manager the records
// survive restarts; without one the board lives in memory only.
type Board struct {
	mu    sync.Mutex
	store *gdata.Manager // May be nil
	best  map[int]Record
	now   func() time.Time
}

// Open opens the platform data directory of appName and returns a board
// persisted there.
func Open(appName string) (*Board, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("failed to open score storage: %w", err)
	}
	return NewBoard(m), nil
}

// NewBoard returns a board backed by store. A nil store keeps scores in
// memory.
func NewBoard(store *gdata.Manager) *Board {
	return &Board{
		store: store,
		best:  make(map[int]Record),
		now:   time.Now,
	}
}

// Submit records a finished game and reports whether it beat the slot's
// previous best. Ties keep the older record.
func (b *Board) Submit(slot, score, hits int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, ok, err := b.load(slot)
	if err != nil {
		return false, err
	}
	if ok && prev.Score >= score {
		return false, nil
	}

	rec := Record{Slot: slot, Score: score, Hits: hits, At: b.now().UTC()}
	if b.store != nil {
		data, err := yaml.Marshal(rec)
		if err != nil {
			return false, fmt.Errorf("failed to marshal record: %w", err)
		}
		if err := b.store.SaveObjectProp(scoresObject, slotProp(slot), data); err != nil {
			return false, fmt.Errorf("failed to save record: %w", err)
		}
	}
	b.best[slot] = rec
	return true, nil
}

// Best returns the best record of slot, if any.
func (b *Board) Best(slot int) (Record, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(slot)
}

func (b *Board) load(slot int) (Record, bool, error) {
	if rec, ok := b.best[slot]; ok {
		return rec, true, nil
	}
	if b.store == nil || !b.store.ObjectPropExists(scoresObject, slotProp(slot)) {
		return Record{}, false, nil
	}

	data, err := b.store.LoadObjectProp(scoresObject, slotProp(slot))
	if err != nil {
		return Record{}, false, fmt.Errorf("failed to load record: %w", err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	b.best[slot] = rec
	return rec, true, nil
}

func slotProp(slot int) string {
	return "slot" + strconv.Itoa(slot)
}
