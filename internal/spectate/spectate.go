// Package spectate serves a read-only web view of a running session: an
// HTML page plus a websocket feed of world snapshots.
package spectate

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tomz197/skyfight/internal/log"
	"github.com/tomz197/skyfight/internal/loop/config"
	"github.com/tomz197/skyfight/internal/loop/game"
	"golang.org/x/sync/errgroup"
)

//go:embed index.html
var htmlPage string

// sendBuffer is how many frames a slow viewer may lag before frames are
// dropped for it.
const sendBuffer = 16

// Source provides the frames viewers see.
type Source interface {
	Snapshot() game.Snapshot
}

// Options configures a Server.
type Options struct {
	Interval time.Duration // Time between two broadcast frames
	SSHHost  string        // Shown on the page as the place to play
	Logger   log.Log
}

// Server broadcasts snapshots of one Source to every connected viewer.
type Server struct {
	source   Source
	opts     Options
	log      log.Log
	hub      *hub
	upgrader websocket.Upgrader
	page     string
}

// New creates a spectator server for src.
func New(src Source, opts Options) *Server {
	if opts.Interval <= 0 {
		opts.Interval = config.SpectatorFrameTime
	}
	if opts.SSHHost == "" {
		opts.SSHHost = "localhost"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	return &Server{
		source: src,
		opts:   opts,
		log:    logger,
		hub:    newHub(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		page: strings.ReplaceAll(htmlPage, "{{.SSHHost}}", opts.SSHHost),
	}
}

// Handler routes the page, the websocket feed and a one-shot JSON
// snapshot.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.servePage)
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/snapshot", s.serveSnapshot)
	return mux
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, s.page)
}

func (s *Server) serveSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.source.Snapshot()); err != nil {
		s.log.Warn("failed to write snapshot", log.Err(err))
	}
}

// serveWS upgrades the connection and pumps frames to it until either
// side goes away. Viewers never send anything meaningful; reads only
// detect the close.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", log.Err(err))
		return
	}
	v := &viewer{send: make(chan []byte, sendBuffer)}
	s.hub.add(v)
	s.log.Debug("viewer connected", log.String("remote", r.RemoteAddr), log.Int("viewers", s.hub.size()))
	defer func() {
		s.hub.remove(v)
		conn.Close()
		s.log.Debug("viewer disconnected", log.String("remote", r.RemoteAddr))
	}()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case b, ok := <-v.send:
			if !ok {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// Broadcast sends a snapshot to every viewer each interval until ctx ends.
func (s *Server) Broadcast(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()
	defer s.hub.closeAll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if s.hub.size() == 0 {
				continue
			}
			b, err := json.Marshal(s.source.Snapshot())
			if err != nil {
				return fmt.Errorf("failed to marshal snapshot: %w", err)
			}
			s.hub.broadcast(b)
		}
	}
}

// ListenAndServe serves viewers on addr and broadcasts frames until ctx
// ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("spectator listening", log.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.Broadcast(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type viewer struct {
	send chan []byte
}

// hub tracks connected viewers. A viewer whose buffer is full misses the
// frame instead of stalling the others.
type hub struct {
	mu      sync.RWMutex
	viewers map[*viewer]struct{}
	closed  bool
}

func newHub() *hub {
	return &hub{viewers: make(map[*viewer]struct{})}
}

func (h *hub) add(v *viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(v.send)
		return
	}
	h.viewers[v] = struct{}{}
}

func (h *hub) remove(v *viewer) {
	h.mu.Lock()
	delete(h.viewers, v)
	h.mu.Unlock()
}

func (h *hub) size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

func (h *hub) broadcast(b []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for v := range h.viewers {
		select {
		case v.send <- b:
		default:
		}
	}
}

// closeAll ends every viewer's feed.
func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for v := range h.viewers {
		close(v.send)
		delete(h.viewers, v)
	}
}
