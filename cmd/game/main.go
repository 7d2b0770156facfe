package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomz197/skyfight/internal/catalog"
	"github.com/tomz197/skyfight/internal/config"
	"github.com/tomz197/skyfight/internal/log"
	"github.com/tomz197/skyfight/internal/loop/client"
	"github.com/tomz197/skyfight/internal/loop/game"
	"github.com/tomz197/skyfight/internal/record"
	"github.com/tomz197/skyfight/internal/spectate"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

const appName = "skyfight"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	board, err := record.Open(appName)
	if err != nil {
		logger.Warn("record board unavailable, scores kept in memory", log.Err(err))
		board = record.NewBoard(nil)
	}

	session := game.New(cat, game.Options{
		Players: config.GetEnvInt("SKYFIGHT_PLAYERS", 1),
		Board:   board,
		Logger:  logger,
	})

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	playCtx, endPlay := context.WithCancel(gctx)
	g.Go(func() error {
		defer endPlay()
		c := client.New(session, bufio.NewReader(os.Stdin), os.Stdout, client.Options{Logger: logger})
		return c.Run(gctx)
	})
	if addr := config.GetEnv("SKYFIGHT_SPECTATE_ADDR", ""); addr != "" {
		g.Go(func() error {
			srv := spectate.New(session, spectate.Options{Logger: logger})
			return srv.ListenAndServe(playCtx, addr)
		})
	}
	return g.Wait()
}

// newLogger logs to SKYFIGHT_LOG_FILE when set. The terminal is in raw
// mode while playing so nothing is written to stderr otherwise.
func newLogger() (*log.Logger, error) {
	path := config.GetEnv("SKYFIGHT_LOG_FILE", "")
	if path == "" {
		return log.NewNop(), nil
	}
	return log.New(log.ParseLevel(config.GetEnv("SKYFIGHT_LOG_LEVEL", "info")), path)
}

func loadCatalog() (*catalog.Catalog, error) {
	if path := config.GetEnv("SKYFIGHT_CATALOG", ""); path != "" {
		return catalog.Load(path)
	}
	return catalog.Default()
}
