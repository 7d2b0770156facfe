package tick

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func awaitAsync(ctx context.Context, c *Controller) <-chan error {
	done := make(chan error, 1)
	go func() { done <- c.AwaitRunning(ctx) }()
	return done
}

func TestInitialState(t *testing.T) {
	c := NewController(20)
	assert.Equal(t, Paused, c.State())
	assert.Equal(t, int64(0), c.Time())
	assert.Equal(t, "paused", c.State().String())
}

func TestGoReleasesWaiter(t *testing.T) {
	c := NewController(20)
	done := awaitAsync(context.Background(), c)

	select {
	case <-done:
		t.Fatal("waiter returned while paused")
	case <-time.After(30 * time.Millisecond):
	}

	require.NoError(t, c.Go())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter not released by Go")
	}
	assert.True(t, c.IsRunning())
}

func TestGoIsIdempotent(t *testing.T) {
	c := NewController(20)
	require.NoError(t, c.Go())
	require.NoError(t, c.Go())
	assert.True(t, c.IsRunning())
	assert.NoError(t, c.AwaitRunning(context.Background()))
}

func TestPauseRearmsGate(t *testing.T) {
	c := NewController(20)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Go())
		require.NoError(t, c.AwaitRunning(context.Background()))
		require.NoError(t, c.Pause())

		done := awaitAsync(context.Background(), c)
		select {
		case <-done:
			t.Fatalf("cycle %d: waiter passed a re-armed gate", i)
		case <-time.After(20 * time.Millisecond):
		}
		require.NoError(t, c.Go())
		require.NoError(t, <-done)
	}
}

func TestStopReleasesWaiter(t *testing.T) {
	c := NewController(20)
	done := awaitAsync(context.Background(), c)
	c.Stop()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("waiter not released by Stop")
	}
	assert.True(t, c.IsStopped())
}

func TestStopIsIdempotent(t *testing.T) {
	for _, start := range []func(*Controller){
		func(*Controller) {},
		func(c *Controller) { _ = c.Go() },
	} {
		c := NewController(20)
		start(c)
		c.Stop()
		c.Stop()
		assert.Equal(t, Stopped, c.State())
		assert.NoError(t, c.AwaitRunning(context.Background()))
	}
}

func TestControlAfterStop(t *testing.T) {
	c := NewController(20)
	c.Stop()
	assert.ErrorIs(t, c.Go(), ErrStopped)
	assert.ErrorIs(t, c.Pause(), ErrStopped)
	assert.ErrorIs(t, c.Toggle(), ErrStopped)
	assert.Equal(t, Stopped, c.State())
}

func TestToggle(t *testing.T) {
	c := NewController(20)
	require.NoError(t, c.Toggle())
	assert.True(t, c.IsRunning())
	require.NoError(t, c.Toggle())
	assert.True(t, c.IsPaused())

	done := awaitAsync(context.Background(), c)
	require.NoError(t, c.Toggle())
	require.NoError(t, <-done)
}

func TestAwaitRunningInterrupted(t *testing.T) {
	c := NewController(20)
	ctx, cancel := context.WithCancel(context.Background())
	done := awaitAsync(ctx, c)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("waiter ignored cancellation")
	}
}

func TestTickAdvancesUntilStopped(t *testing.T) {
	c := NewController(20)
	c.Tick()
	c.Tick()
	assert.Equal(t, int64(40), c.Time())

	c.Stop()
	c.Tick()
	assert.Equal(t, int64(40), c.Time())
}
