package spectate

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/skyfight/internal/loop/game"
)

type fixedSource struct {
	snap game.Snapshot
}

func (f fixedSource) Snapshot() game.Snapshot {
	return f.snap
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	src := fixedSource{snap: game.Snapshot{
		Session: "abc",
		Time:    1200,
		State:   "running",
		Width:   120,
		Height:  80,
		Entities: []game.EntityView{
			{ID: 1, X: 10, Y: 20, Radius: 2, Draw: "A", Force: "player"},
		},
		Players: []game.PlayerStats{{Slot: 1, Score: 3, Hits: 4, HP: 5, Alive: true}},
	}}
	s := New(src, Options{Interval: 5 * time.Millisecond, SSHHost: "play.example"})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func TestServePage(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ssh -t play.example")
	assert.NotContains(t, string(body), "{{.SSHHost}}")

	resp, err = http.Get(ts.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeSnapshot(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/snapshot")
	require.NoError(t, err)
	defer resp.Body.Close()

	var snap game.Snapshot
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&snap))
	assert.Equal(t, "abc", snap.Session)
	assert.Equal(t, int64(1200), snap.Time)
	require.Len(t, snap.Entities, 1)
	assert.Equal(t, "A", snap.Entities[0].Draw)
}

func TestBroadcastReachesViewer(t *testing.T) {
	s, ts := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- s.Broadcast(ctx) }()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var snap game.Snapshot
	require.NoError(t, json.Unmarshal(msg, &snap))
	assert.Equal(t, "abc", snap.Session)
	require.Len(t, snap.Players, 1)
	assert.Equal(t, 3, snap.Players[0].Score)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast did not stop")
	}

	// Closing the hub ends the feed.
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestHubDropsForSlowViewer(t *testing.T) {
	h := newHub()
	v := &viewer{send: make(chan []byte, 1)}
	h.add(v)

	h.broadcast([]byte("a"))
	h.broadcast([]byte("b"))

	assert.Equal(t, []byte("a"), <-v.send)
	assert.Equal(t, 1, h.size())

	h.closeAll()
	_, ok := <-v.send
	assert.False(t, ok)
	assert.Zero(t, h.size())

	late := &viewer{send: make(chan []byte, 1)}
	h.add(late)
	_, ok = <-late.send
	assert.False(t, ok)
}
