package game

import (
	"slices"
	"sync"

	"github.com/tomz197/skyfight/internal/input"
)

// Action is what a bound key does for its slot.
type Action int

const (
	ActLeft Action = iota
	ActRight
	ActUp
	ActDown
	ActFire
)

// Binding ties a key to an action of one human slot.
type Binding struct {
	Slot   int
	Action Action
}

// DefaultBindings: slot 1 flies on WASD and fires with space, slot 2 on
// the arrows or IJKL and fires with enter.
var DefaultBindings = map[input.Key]Binding{
	'a': {1, ActLeft},
	'd': {1, ActRight},
	'w': {1, ActUp},
	's': {1, ActDown},
	' ': {1, ActFire},

	input.KeyLeft:  {2, ActLeft},
	input.KeyRight: {2, ActRight},
	input.KeyUp:    {2, ActUp},
	input.KeyDown:  {2, ActDown},
	'j':            {2, ActLeft},
	'l':            {2, ActRight},
	'i':            {2, ActUp},
	'k':            {2, ActDown},
	input.KeyEnter: {2, ActFire},
}

// KeySet holds the currently pressed keys. It is written by input threads
// and read by the tick thread, guarded by its own lock rather than the
// mutation window.
type KeySet struct {
	mu      sync.Mutex
	pressed map[input.Key]struct{}
}

func NewKeySet() *KeySet {
	return &KeySet{pressed: make(map[input.Key]struct{})}
}

func (k *KeySet) Press(key input.Key) {
	k.mu.Lock()
	k.pressed[key] = struct{}{}
	k.mu.Unlock()
}

func (k *KeySet) Release(key input.Key) {
	k.mu.Lock()
	delete(k.pressed, key)
	k.mu.Unlock()
}

// Clear releases every key.
func (k *KeySet) Clear() {
	k.mu.Lock()
	clear(k.pressed)
	k.mu.Unlock()
}

func (k *KeySet) IsPressed(key input.Key) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.pressed[key]
	return ok
}

// Pressed returns a sorted copy of the pressed keys.
func (k *KeySet) Pressed() []input.Key {
	k.mu.Lock()
	keys := make([]input.Key, 0, len(k.pressed))
	for key := range k.pressed {
		keys = append(keys, key)
	}
	k.mu.Unlock()
	slices.Sort(keys)
	return keys
}

// intent is what one slot asks for during a tick.
type intent struct {
	dx, dy int
	fire   bool
}

func (in intent) moving() bool { return in.dx != 0 || in.dy != 0 }

// resolveIntents folds the pressed keys into one intent per slot. Opposite
// directions cancel out.
func resolveIntents(keys []input.Key, bindings map[input.Key]Binding, slots int) []intent {
	intents := make([]intent, slots)
	seen := make(map[Binding]bool, len(keys))
	for _, key := range keys {
		b, ok := bindings[key]
		if !ok || b.Slot < 1 || b.Slot > slots || seen[b] {
			continue
		}
		seen[b] = true
		in := &intents[b.Slot-1]
		switch b.Action {
		case ActLeft:
			in.dx--
		case ActRight:
			in.dx++
		case ActUp:
			in.dy--
		case ActDown:
			in.dy++
		case ActFire:
			in.fire = true
		}
	}
	return intents
}
