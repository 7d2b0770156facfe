// Package game runs the simulation: one Session owns a world, a tick
// controller and the goroutine that advances them.
package game

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tomz197/skyfight/internal/input"
	"github.com/tomz197/skyfight/internal/log"
	"github.com/tomz197/skyfight/internal/loop/config"
	"github.com/tomz197/skyfight/internal/loop/tick"
	"github.com/tomz197/skyfight/internal/object"
)

// Options configures a Session. Zero values pick the defaults.
type Options struct {
	Players      int           // Human slots, 1..config.MaxPlayers
	Seed         int64         // Spawn RNG seed; 0 seeds from the clock
	TickDuration time.Duration // Wall time slept per tick
	Bindings     map[input.Key]Binding
	Scenario     Scenario   // Defaults to LastStand
	Board        ScoreBoard // Handed to the default scenario
	Logger       log.Log
}

// Session is one game: a world, its spawn director, a tick controller and
// the loop goroutine driving them.
//
// Every tick and every render pass run inside the mutation window (mu), so
// renderers always see a whole tick. The pressed-key set has its own lock
// and never blocks on a running tick.
type Session struct {
	id       uuid.UUID
	opts     Options
	catalog  Catalog
	scenario Scenario
	keys     *KeySet
	log      log.Log

	mu       sync.Mutex
	world    *World
	director *Director

	runMu sync.Mutex
	run   *run
}

// run is one Start of a session.
type run struct {
	ctrl *tick.Controller
	done chan struct{}
	err  error // Set before done is closed
}

// New creates a session playing from c. It does not start the loop.
func New(c Catalog, opts Options) *Session {
	if opts.Players < 1 {
		opts.Players = 1
	}
	opts.Players = min(opts.Players, config.MaxPlayers)
	if opts.TickDuration <= 0 {
		opts.TickDuration = config.TickDuration
	}
	if opts.Bindings == nil {
		opts.Bindings = DefaultBindings
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNop()
	}

	id := uuid.New()
	logger := opts.Logger.With(log.String("session", id.String()))
	scenario := opts.Scenario
	if scenario == nil {
		scenario = &LastStand{Logger: logger, Board: opts.Board}
	}
	return &Session{
		id:       id,
		opts:     opts,
		catalog:  c,
		scenario: scenario,
		keys:     NewKeySet(),
		log:      logger,
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id.String() }

// Start builds a fresh world and launches the loop, paused at time 0. A
// session that is still running is stopped and drained first.
func (s *Session) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if prev := s.run; prev != nil {
		s.stop(prev.ctrl)
		<-prev.done
	}

	world, err := s.newWorld()
	if err != nil {
		return err
	}
	seed := s.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r := &run{
		ctrl: tick.NewController(config.TickMillis),
		done: make(chan struct{}),
	}

	// run is written under both locks so render passes can read it
	// inside the mutation window.
	s.mu.Lock()
	s.world = world
	s.director = NewDirector(s.catalog, rand.New(rand.NewSource(seed)), config.RefreshCooldown)
	s.run = r
	s.mu.Unlock()
	s.keys.Clear()

	go func() {
		defer close(r.done)
		r.err = s.loop(ctx, r.ctrl)
	}()

	s.log.Info("session started", log.Int("players", s.opts.Players), log.Int64("seed", seed))
	return nil
}

// newWorld places one primary subject per human slot, spread evenly along
// the bottom of the world.
func (s *Session) newWorld() (*World, error) {
	waves := s.catalog.WaveSpec()
	if len(waves.Players) == 0 {
		return nil, ErrNoPlayers
	}

	w := NewWorld(config.WorldWidth, config.WorldHeight, config.StagingHeight)
	for slot := 1; slot <= s.opts.Players; slot++ {
		p := w.AddPlayer()
		typeID := waves.Players[(slot-1)%len(waves.Players)]
		x := w.Width * float64(slot) / float64(s.opts.Players+1)
		subject, err := spawnSubject(s.catalog, typeID, p, x, w.Height-config.PlayerMargin)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", slot, err)
		}
		if err := w.SetPrimary(slot, subject); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (s *Session) loop(ctx context.Context, ctrl *tick.Controller) error {
	for {
		switch ctrl.State() {
		case tick.Stopped:
			s.mu.Lock()
			s.scenario.End(s.world, ctrl.Time())
			s.mu.Unlock()
			s.log.Info("session stopped", log.Int64("time", ctrl.Time()))
			return nil
		case tick.Paused:
			if err := ctrl.AwaitRunning(ctx); err != nil {
				return s.interrupt(ctrl, err)
			}
			continue
		}

		if err := sleep(ctx, s.opts.TickDuration); err != nil {
			return s.interrupt(ctrl, err)
		}

		s.mu.Lock()
		if !ctrl.IsRunning() {
			s.mu.Unlock()
			continue
		}
		err := s.tick(ctrl)
		if err == nil {
			ctrl.Tick()
		}
		s.mu.Unlock()

		if err != nil {
			ctrl.Stop()
			s.log.Error("tick failed", log.Int64("time", ctrl.Time()), log.Err(err))
			return err
		}
	}
}

func (s *Session) interrupt(ctrl *tick.Controller, cause error) error {
	ctrl.Stop()
	s.log.Warn("session interrupted", log.Int64("time", ctrl.Time()), log.Err(cause))
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tick runs one simulation step. Caller holds mu.
func (s *Session) tick(ctrl *tick.Controller) error {
	t := ctrl.Time()
	w := s.world

	w.Reap(t)

	intents := resolveIntents(s.keys.Pressed(), s.opts.Bindings, len(w.Players()))
	for i, in := range intents {
		subject := w.primaries[i]
		if in.moving() {
			w.moveHuman(subject, float64(in.dx)*config.PlayerStep, float64(in.dy)*config.PlayerStep, t)
		}
		if in.fire {
			if _, err := w.fireHuman(subject, t); err != nil {
				return err
			}
		}
	}

	for _, k := range w.DetectHits(t) {
		fields := []log.Field{log.String("victim", k.Victim.Type().ID), log.Int64("time", t)}
		if k.Shooter != nil {
			fields = append(fields, log.Int("shooter", k.Shooter.Slot()))
		}
		s.log.Debug("subject killed", fields...)
	}

	if _, err := w.EnemyFire(t); err != nil {
		return err
	}

	w.Advance(t)

	spawned, err := s.director.Update(w, t)
	if err != nil {
		return fmt.Errorf("spawn wave: %w", err)
	}
	if spawned > 0 {
		s.log.Debug("wave spawned", log.Int("enemies", spawned), log.Int("level", w.Level()), log.Int64("time", t))
	}

	if s.scenario.Tick(w, t) {
		ctrl.Stop()
		s.log.Info("scenario finished", log.Int64("time", t))
	}
	return nil
}

func (s *Session) current() *run {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	return s.run
}

func (s *Session) controller() (*tick.Controller, error) {
	r := s.current()
	if r == nil {
		return nil, ErrNotStarted
	}
	return r.ctrl, nil
}

// stop takes the mutation window so a tick in progress completes first.
func (s *Session) stop(ctrl *tick.Controller) {
	s.mu.Lock()
	ctrl.Stop()
	s.mu.Unlock()
}

// Stop ends the session. Idempotent; a session never started is a no-op.
func (s *Session) Stop() {
	if r := s.current(); r != nil {
		s.stop(r.ctrl)
	}
}

// Wait blocks until the loop of the latest Start exits and returns why it
// did: nil for a normal stop, a configuration error, or ErrInterrupted.
func (s *Session) Wait() error {
	r := s.current()
	if r == nil {
		return ErrNotStarted
	}
	<-r.done
	return r.err
}

// Err returns why the loop of the latest Start exited, nil while it runs
// or after a normal stop.
func (s *Session) Err() error {
	r := s.current()
	if r == nil {
		return nil
	}
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Go resumes a paused session.
func (s *Session) Go() error {
	return s.control("running", (*tick.Controller).Go)
}

// Pause suspends the session. Once Pause returns no further tick runs
// until Go.
func (s *Session) Pause() error {
	return s.control("paused", (*tick.Controller).Pause)
}

// Toggle flips between running and paused.
func (s *Session) Toggle() error {
	return s.control("toggled", (*tick.Controller).Toggle)
}

func (s *Session) control(what string, fn func(*tick.Controller) error) error {
	ctrl, err := s.controller()
	if err != nil {
		return err
	}
	s.mu.Lock()
	err = fn(ctrl)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.log.Debug("session "+what, log.String("state", ctrl.State().String()), log.Int64("time", ctrl.Time()))
	return nil
}

// Time returns the game time in milliseconds.
func (s *Session) Time() int64 {
	if r := s.current(); r != nil {
		return r.ctrl.Time()
	}
	return 0
}

// State returns the run state. A session never started reports Paused.
func (s *Session) State() tick.State {
	if r := s.current(); r != nil {
		return r.ctrl.State()
	}
	return tick.Paused
}

func (s *Session) IsRunning() bool { return s.State() == tick.Running }
func (s *Session) IsPaused() bool { return s.State() == tick.Paused }
func (s *Session) IsStopped() bool { return s.State() == tick.Stopped }

// command runs fn on slot's primary subject inside the mutation window.
func (s *Session) command(slot int, fn func(w *World, subject *object.Subject, t int64) error) error {
	ctrl, err := s.controller()
	if err != nil {
		return err
	}
	if ctrl.IsStopped() {
		return tick.ErrStopped
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	subject, err := s.world.Primary(slot)
	if err != nil {
		return err
	}
	return fn(s.world, subject, ctrl.Time())
}

// Move steps slot's primary subject one human step in direction d. Steps
// leaving the world or arriving before the move cooldown are dropped.
func (s *Session) Move(slot int, d Direction) error {
	dx, dy := d.Vector()
	return s.command(slot, func(w *World, subject *object.Subject, t int64) error {
		w.moveHuman(subject, dx*config.PlayerStep, dy*config.PlayerStep, t)
		return nil
	})
}

func (s *Session) MoveLeft(slot int) error { return s.Move(slot, DirLeft) }
func (s *Session) MoveRight(slot int) error { return s.Move(slot, DirRight) }
func (s *Session) MoveUp(slot int) error { return s.Move(slot, DirUp) }
func (s *Session) MoveDown(slot int) error { return s.Move(slot, DirDown) }
func (s *Session) MoveLeftUp(slot int) error { return s.Move(slot, DirLeftUp) }
func (s *Session) MoveRightUp(slot int) error { return s.Move(slot, DirRightUp) }
func (s *Session) MoveLeftDown(slot int) error { return s.Move(slot, DirLeftDown) }
func (s *Session) MoveRightDown(slot int) error { return s.Move(slot, DirRightDown) }

// Fire pulls every weapon of slot's primary subject, aiming straight up.
func (s *Session) Fire(slot int) error {
	return s.command(slot, func(w *World, subject *object.Subject, t int64) error {
		_, err := w.fireHuman(subject, t)
		return err
	})
}

// PressKey marks key as held. Bound keys act on the next tick.
func (s *Session) PressKey(key input.Key) error {
	if err := s.checkLive(); err != nil {
		return err
	}
	s.keys.Press(key)
	return nil
}

// ReleaseKey marks key as no longer held.
func (s *Session) ReleaseKey(key input.Key) error {
	if err := s.checkLive(); err != nil {
		return err
	}
	s.keys.Release(key)
	return nil
}

func (s *Session) checkLive() error {
	ctrl, err := s.controller()
	if err != nil {
		return err
	}
	if ctrl.IsStopped() {
		return tick.ErrStopped
	}
	return nil
}
