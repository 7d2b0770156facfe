// Command web serves the landing page: a self-playing demo session that
// visitors watch while being told how to connect over SSH.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/skyfight/internal/catalog"
	"github.com/tomz197/skyfight/internal/config"
	"github.com/tomz197/skyfight/internal/input"
	"github.com/tomz197/skyfight/internal/log"
	"github.com/tomz197/skyfight/internal/loop/game"
	"github.com/tomz197/skyfight/internal/spectate"
	"golang.org/x/sync/errgroup"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"

	sweepPeriod = 2 * time.Second
	restartWait = 3 * time.Second
)

func main() {
	logger, err := log.New(log.ParseLevel(config.GetEnv("SKYFIGHT_LOG_LEVEL", "info")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("web server stopped", log.Err(err))
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	cat, err := catalog.Default()
	if err != nil {
		return err
	}
	session := game.New(cat, game.Options{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := spectate.New(session, spectate.Options{SSHHost: sshHost, Logger: logger})
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(gctx, net.JoinHostPort(host, port))
	})
	g.Go(func() error {
		return attract(gctx, session, logger)
	})
	return g.Wait()
}

// attract plays the demo: the pilot holds fire and sweeps side to side.
// A finished game restarts after a short pause.
func attract(ctx context.Context, session *game.Session, logger log.Log) error {
	for {
		if err := session.Start(ctx); err != nil {
			return err
		}
		if err := session.Go(); err != nil {
			return err
		}
		if err := session.PressKey(input.KeySpace); err != nil {
			return err
		}

		sweep := time.NewTicker(sweepPeriod)
		left := true
		for !session.IsStopped() {
			key, other := input.Key('a'), input.Key('d')
			if !left {
				key, other = other, key
			}
			_ = session.ReleaseKey(other)
			_ = session.PressKey(key)
			left = !left

			select {
			case <-ctx.Done():
				sweep.Stop()
				return nil
			case <-sweep.C:
			}
		}
		sweep.Stop()

		if err := session.Wait(); err != nil && !errors.Is(err, game.ErrInterrupted) {
			return err
		}
		logger.Info("demo game over, restarting", log.Int64("time", session.Time()))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(restartWait):
		}
	}
}
