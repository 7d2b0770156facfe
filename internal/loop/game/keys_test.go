package game

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tomz197/skyfight/internal/input"
)

func TestResolveIntents(t *testing.T) {
	tests := []struct {
		name string
		keys []input.Key
		want []intent
	}{
		{"none", nil, []intent{{}, {}}},
		{"left", []input.Key{'a'}, []intent{{dx: -1}, {}}},
		{"diagonal", []input.Key{'w', 'd'}, []intent{{dx: 1, dy: -1}, {}}},
		{"opposites cancel", []input.Key{'a', 'd'}, []intent{{}, {}}},
		{"fire", []input.Key{' '}, []intent{{fire: true}, {}}},
		{"second slot", []input.Key{input.KeyUp, 'j', input.KeyEnter}, []intent{{}, {dx: -1, dy: -1, fire: true}}},
		{"aliases count once", []input.Key{input.KeyLeft, 'j'}, []intent{{}, {dx: -1}}},
		{"unbound", []input.Key{'x', input.KeyEscape}, []intent{{}, {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveIntents(tt.keys, DefaultBindings, 2))
		})
	}
}

func TestResolveIntentsIgnoresMissingSlots(t *testing.T) {
	got := resolveIntents([]input.Key{input.KeyLeft, 'a'}, DefaultBindings, 1)
	assert.Equal(t, []intent{{dx: -1}}, got)
}

func TestKeySet(t *testing.T) {
	k := NewKeySet()
	k.Press('w')
	k.Press(' ')
	k.Press('w')
	assert.True(t, k.IsPressed('w'))
	assert.Equal(t, []input.Key{' ', 'w'}, k.Pressed())

	k.Release('w')
	assert.False(t, k.IsPressed('w'))
	k.Clear()
	assert.Empty(t, k.Pressed())
}

func TestKeySetConcurrent(t *testing.T) {
	k := NewKeySet()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(key input.Key) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				k.Press(key)
				_ = k.Pressed()
				k.Release(key)
			}
			k.Press(key)
		}(input.Key('a' + i))
	}
	wg.Wait()
	assert.Len(t, k.Pressed(), 8)
}
