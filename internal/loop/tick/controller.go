// Package tick implements the simulation's run/pause/stop state machine and
// its game-time counter.
package tick

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrStopped is returned by control methods once the controller has stopped.
var ErrStopped = errors.New("simulation stopped")

// State is the controller's run state.
type State int32

const (
	Paused State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Paused:
		return "paused"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Controller gates the simulation goroutine. It starts Paused; Stopped is
// terminal.
//
// The resume gate is a channel that is open (blocking) while Paused and
// closed otherwise. Every Pause arms a fresh channel, so a Go that belongs
// to an earlier cycle can never release a later pause.
type Controller struct {
	mu    sync.Mutex
	state State
	gate  chan struct{}

	step int64
	time atomic.Int64
}

// NewController creates a paused controller whose Tick advances game time
// by step milliseconds.
func NewController(step int64) *Controller {
	return &Controller{
		state: Paused,
		gate:  make(chan struct{}),
		step:  step,
	}
}

// State returns the current run state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) IsRunning() bool { return c.State() == Running }
func (c *Controller) IsPaused() bool { return c.State() == Paused }
func (c *Controller) IsStopped() bool { return c.State() == Stopped }

// Go moves Paused to Running and releases waiters. Calling it while
// already running is a no-op.
func (c *Controller) Go() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Stopped:
		return ErrStopped
	case Paused:
		c.state = Running
		close(c.gate)
	}
	return nil
}

// Pause moves Running to Paused and arms a new gate. Once stopped it
// leaves the state alone and reports ErrStopped.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Stopped:
		return ErrStopped
	case Running:
		c.state = Paused
		c.gate = make(chan struct{})
	}
	return nil
}

// Toggle flips between Running and Paused.
func (c *Controller) Toggle() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case Stopped:
		return ErrStopped
	case Running:
		c.state = Paused
		c.gate = make(chan struct{})
	case Paused:
		c.state = Running
		close(c.gate)
	}
	return nil
}

// Stop moves any state to Stopped and releases waiters. Idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Paused {
		close(c.gate)
	}
	c.state = Stopped
}

// AwaitRunning blocks until the controller is Running or Stopped. It
// returns ctx.Err() if ctx ends first.
func (c *Controller) AwaitRunning(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.state != Paused {
			c.mu.Unlock()
			return nil
		}
		gate := c.gate
		c.mu.Unlock()

		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Tick advances game time by one step. Ignored once stopped.
func (c *Controller) Tick() {
	if c.IsStopped() {
		return
	}
	c.time.Add(c.step)
}

// Time returns the current game time in milliseconds.
func (c *Controller) Time() int64 {
	return c.time.Load()
}

// Step returns the game time covered by one tick.
func (c *Controller) Step() int64 {
	return c.step
}
