package client

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/skyfight/internal/catalog"
	"github.com/tomz197/skyfight/internal/loop/config"
	"github.com/tomz197/skyfight/internal/loop/game"
	"github.com/tomz197/skyfight/internal/loop/tick"
)

// syncBuffer lets the test read what the render goroutine wrote.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func fixedSize(w, h int) func() (int, int, error) {
	return func() (int, int, error) { return w, h, nil }
}

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		frame game.Frame
		want  Phase
	}{
		{game.Frame{State: tick.Paused}, PhaseTitle},
		{game.Frame{State: tick.Paused, Time: 40}, PhasePaused},
		{game.Frame{State: tick.Running}, PhasePlaying},
		{game.Frame{State: tick.Stopped, Time: 40}, PhaseGameOver},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, phaseOf(tt.frame))
	}
}

func TestClampTermSize(t *testing.T) {
	w, h, col, row := clampTermSize(100, 40)
	assert.Equal(t, 100, w)
	assert.Equal(t, 40-config.HUDRows, h)
	assert.Zero(t, col)
	assert.Zero(t, row)

	w, h, col, row = clampTermSize(config.MaxTermWidth+40, config.MaxTermHeight+20)
	assert.Equal(t, config.MaxTermWidth, w)
	assert.Equal(t, config.MaxTermHeight-config.HUDRows, h)
	assert.Equal(t, 20, col)
	assert.Equal(t, 10, row)

	w, h, _, _ = clampTermSize(0, 0)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestHUDLine(t *testing.T) {
	line := hudLine(game.Frame{
		Time:  12340,
		State: tick.Running,
		Players: []game.PlayerStats{
			{Slot: 1, Score: 40, Hits: 4, HP: 380, Alive: true},
			{Slot: 2, Score: 10, Hits: 1},
		},
	})
	assert.Contains(t, line, "12.34s")
	assert.Contains(t, line, "RUNNING")
	assert.Contains(t, line, "P1 HP 380")
	assert.Contains(t, line, "P2 DOWN")
}

func TestClientRunControls(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)
	session := game.New(cat, game.Options{TickDuration: time.Millisecond, Seed: 1})

	pr, pw := io.Pipe()
	defer pw.Close()
	out := &syncBuffer{}
	c := New(session, bufio.NewReader(pr), out, Options{TermSizeFunc: fixedSize(80, 30)})

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	require.Eventually(t, func() bool { return session.IsPaused() }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("Press P to start"))
	}, time.Second, 5*time.Millisecond)

	_, err = pw.Write([]byte("p"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return session.Time() > 0 }, time.Second, 5*time.Millisecond)

	_, err = pw.Write([]byte("q"))
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("client did not quit")
	}
	assert.True(t, session.IsStopped())
}
