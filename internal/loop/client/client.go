// Package client runs a terminal view of a game session: frame rendering,
// keyboard input and the session control keys.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomz197/skyfight/internal/draw"
	"github.com/tomz197/skyfight/internal/input"
	"github.com/tomz197/skyfight/internal/log"
	"github.com/tomz197/skyfight/internal/loop/config"
	"github.com/tomz197/skyfight/internal/loop/game"
	"github.com/tomz197/skyfight/internal/loop/tick"
	"golang.org/x/sync/errgroup"
)

// errQuit ends Run when the player presses the quit key.
var errQuit = errors.New("quit requested")

// Client handles rendering and input for a single terminal.
type Client struct {
	session      *game.Session
	canvas       *draw.Canvas
	painter      *draw.Painter
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	log          log.Log
	view         viewState
}

// Options configures the client.
type Options struct {
	TermSizeFunc draw.TermSizeFunc
	Logger       log.Log
}

// New creates a client showing session on w and reading keys from r.
func New(session *game.Session, r *bufio.Reader, w io.Writer, opts Options) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}

	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.WorldWidth, config.WorldHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		session:      session,
		canvas:       canvas,
		painter:      draw.NewPainter(canvas),
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		log:          logger.With(log.String("session", session.ID())),
		view:         newViewState(),
	}
}

// Run starts the session and blocks until the player quits, the input
// stream ends or ctx is done. The session is stopped on return.
func (c *Client) Run(ctx context.Context) error {
	if err := c.session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer c.session.Stop()

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer draw.ClearScreen(c.writer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tracker := input.NewTracker(config.KeyHoldDuration)
		return input.Pump(gctx, c.inputStream, tracker, config.InputPollTime, c, func(k input.Key) error {
			return c.control(ctx, k)
		})
	})
	g.Go(func() error {
		return c.renderLoop(gctx)
	})

	err := g.Wait()
	switch {
	case errors.Is(err, errQuit), errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		c.log.Info("client finished", log.String("reason", err.Error()))
		return nil
	default:
		return err
	}
}

// PressKey forwards a key press to the session. Keys arriving after the
// game ended are dropped so the game-over screen stays interactive.
func (c *Client) PressKey(k input.Key) error {
	return ignoreStopped(c.session.PressKey(k))
}

// ReleaseKey forwards a key release to the session.
func (c *Client) ReleaseKey(k input.Key) error {
	return ignoreStopped(c.session.ReleaseKey(k))
}

// control handles the keys that drive the session itself.
func (c *Client) control(ctx context.Context, k input.Key) error {
	switch k {
	case input.KeyQuit:
		return errQuit
	case input.KeyPause:
		return ignoreStopped(c.session.Toggle())
	case input.KeyRestart:
		if !c.session.IsStopped() {
			return nil
		}
		c.log.Info("restarting session")
		return c.session.Start(ctx)
	}
	return nil
}

func ignoreStopped(err error) error {
	if errors.Is(err, tick.ErrStopped) {
		return nil
	}
	return err
}

// renderLoop draws frames at the target frame rate until ctx ends or the
// session fails.
func (c *Client) renderLoop(ctx context.Context) error {
	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	for {
		if err := c.drawFrame(); err != nil {
			return err
		}
		if err := c.session.Err(); err != nil && !errors.Is(err, game.ErrInterrupted) {
			return fmt.Errorf("session failed: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
