package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/skyfight/internal/catalog"
	"github.com/tomz197/skyfight/internal/config"
	"github.com/tomz197/skyfight/internal/draw"
	"github.com/tomz197/skyfight/internal/log"
	"github.com/tomz197/skyfight/internal/loop/client"
	"github.com/tomz197/skyfight/internal/loop/game"
	"github.com/tomz197/skyfight/internal/record"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
	appName            = "skyfight"
)

// arcade hands every SSH connection its own session. The catalog and the
// record board are shared.
type arcade struct {
	catalog *catalog.Catalog
	board   *record.Board
	log     log.Log
	players int

	ctx      context.Context // Cancelled on shutdown
	sessions sync.WaitGroup
}

func main() {
	logger, err := log.New(log.ParseLevel(config.GetEnv("SKYFIGHT_LOG_LEVEL", "info")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Error("server stopped", log.Err(err))
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config",
		log.String("host", host), log.String("port", port), log.String("hostKeyPath", hostKeyPath))

	cat := catalog.Default
	if path := config.GetEnv("SKYFIGHT_CATALOG", ""); path != "" {
		cat = func() (*catalog.Catalog, error) { return catalog.Load(path) }
	}
	c, err := cat()
	if err != nil {
		return err
	}

	board, err := record.Open(appName)
	if err != nil {
		logger.Warn("record board unavailable, scores kept in memory", log.Err(err))
		board = record.NewBoard(nil)
	}

	ctx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()
	a := &arcade{
		catalog: c,
		board:   board,
		log:     logger,
		players: config.GetEnvInt("SKYFIGHT_PLAYERS", 1),
		ctx:     ctx,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			a.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	logger.Info("starting ssh server", log.String("addr", net.JoinHostPort(host, port)))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-done:
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	}
	logger.Info("shutting down server")

	// Interrupt every running game, then give the clients a moment to
	// restore their terminals.
	cancelSessions()
	waitTimeout(&a.sessions, config.GetEnvDuration("SKYFIGHT_SHUTDOWN_GRACE", 15*time.Second))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// middleware runs one game per SSH session.
func (a *arcade) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		a.sessions.Add(1)
		defer a.sessions.Done()

		session := game.New(a.catalog, game.Options{
			Players: a.players,
			Board:   a.board,
			Logger:  a.log.With(log.String("user", sess.User())),
		})
		logger := a.log.With(log.String("user", sess.User()), log.String("session", session.ID()))
		logger.Info("new game session",
			log.String("terminal", pty.Term), log.Int("width", pty.Window.Width), log.Int("height", pty.Window.Height))

		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		ctx, cancel := context.WithCancel(a.ctx)
		defer cancel()
		go func() {
			select {
			case <-sess.Context().Done():
				cancel()
			case <-ctx.Done():
			}
		}()

		c := client.New(session, bufio.NewReader(sess), sess, client.Options{
			TermSizeFunc: sizeTracker.getSize,
			Logger:       logger,
		})
		if err := c.Run(ctx); err != nil {
			logger.Warn("game error", log.Err(err))
		}
		session.Stop()

		logger.Info("session ended", log.Int64("time", session.Time()))
		next(sess)
	}
}

func waitTimeout(wg *sync.WaitGroup, d time.Duration) {
	ch := make(chan struct{})
	go func() {
		wg.Wait()
		close(ch)
	}()
	select {
	case <-ch:
	case <-time.After(d):
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
