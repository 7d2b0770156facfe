package game

import (
	"github.com/tomz197/skyfight/internal/loop/tick"
	"github.com/tomz197/skyfight/internal/object"
)

// Renderer paints entities. Paint is called inside the mutation window and
// must not call back into the session.
type Renderer interface {
	Paint(e object.Drawable, t int64)
}

// PlayerStats is the scoreboard line of one human slot.
type PlayerStats struct {
	Slot  int  `json:"slot"`
	Score int  `json:"score"`
	Hits  int  `json:"hits"`
	HP    int  `json:"hp"`
	Alive bool `json:"alive"`
}

// Frame describes the world a render pass painted.
type Frame struct {
	Time    int64
	State   tick.State
	Width   float64
	Height  float64
	Players []PlayerStats
}

// Render paints every ammo and subject with the current game time and
// returns the matching frame summary. Shots are painted first so bodies
// stay on top.
func (s *Session) Render(r Renderer) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	f := Frame{State: tick.Paused}
	w := s.world
	if w == nil || s.run == nil {
		return f
	}
	f.Time, f.State = s.run.ctrl.Time(), s.run.ctrl.State()
	f.Width, f.Height = w.Width, w.Height

	for _, a := range w.enemyAmmo {
		r.Paint(a, f.Time)
	}
	for _, a := range w.playerAmmo {
		r.Paint(a, f.Time)
	}
	for _, e := range w.enemies {
		r.Paint(e, f.Time)
	}
	for _, p := range w.playerSubjects {
		r.Paint(p, f.Time)
	}
	f.Players = w.stats()
	return f
}

// Stats returns the scoreboard line of slot.
func (s *Session) Stats(slot int) (PlayerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.world == nil {
		return PlayerStats{}, ErrNotStarted
	}
	if _, err := s.world.Player(slot); err != nil {
		return PlayerStats{}, err
	}
	return s.world.stats()[slot-1], nil
}

func (w *World) stats() []PlayerStats {
	stats := make([]PlayerStats, 0, len(w.players))
	for i, p := range w.players {
		ps := PlayerStats{Slot: p.Slot(), Score: p.Score(), Hits: p.Hits()}
		if subject := w.primaries[i]; subject != nil {
			ps.HP = subject.HP()
			ps.Alive = !subject.IsDead()
		}
		stats = append(stats, ps)
	}
	return stats
}

// EntityView is a detached copy of one painted entity.
type EntityView struct {
	ID     int64   `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Draw   string  `json:"draw"`
	Force  string  `json:"force"`
	Dead   bool    `json:"dead,omitempty"`
}

// Snapshot is a value copy of the world for viewers outside the mutation
// window.
type Snapshot struct {
	Session  string        `json:"session"`
	Time     int64         `json:"time"`
	State    string        `json:"state"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Entities []EntityView  `json:"entities"`
	Players  []PlayerStats `json:"players"`
}

type collector struct {
	views []EntityView
}

func (c *collector) Paint(e object.Drawable, _ int64) {
	x, y := e.DrawPosition()
	c.views = append(c.views, EntityView{
		ID:     e.ID(),
		X:      x,
		Y:      y,
		Radius: e.Radius(),
		Draw:   e.DrawID(),
		Force:  e.Force().String(),
		Dead:   e.IsDead(),
	})
}

// Snapshot copies the current world.
func (s *Session) Snapshot() Snapshot {
	var c collector
	f := s.Render(&c)
	return Snapshot{
		Session:  s.ID(),
		Time:     f.Time,
		State:    f.State.String(),
		Width:    f.Width,
		Height:   f.Height,
		Entities: c.views,
		Players:  f.Players,
	}
}
