package game

import "github.com/tomz197/skyfight/internal/log"

// Scenario is the game-specific hook pair a session runs. Tick is called at
// the end of every tick inside the mutation window; returning true stops
// the session. End is called once after a normal stop.
type Scenario interface {
	Tick(w *World, t int64) (stop bool)
	End(w *World, t int64)
}

// ScoreBoard receives the final result of every human slot.
type ScoreBoard interface {
	Submit(slot, score, hits int) (best bool, err error)
}

// LastStand ends the game once every human's primary subject has died and
// reports the final scores.
type LastStand struct {
	Logger log.Log
	Board  ScoreBoard // Optional
}

func (s *LastStand) Tick(w *World, _ int64) bool {
	for _, p := range w.Primaries() {
		if p != nil && !p.IsDead() {
			return false
		}
	}
	return true
}

func (s *LastStand) End(w *World, t int64) {
	for _, p := range w.Players() {
		s.Logger.Info("final score",
			log.Int("slot", p.Slot()),
			log.Int("score", p.Score()),
			log.Int("hits", p.Hits()),
			log.Int64("time", t),
		)
		if s.Board == nil {
			continue
		}
		best, err := s.Board.Submit(p.Slot(), p.Score(), p.Hits())
		if err != nil {
			s.Logger.Warn("failed to record score", log.Int("slot", p.Slot()), log.Err(err))
			continue
		}
		if best {
			s.Logger.Info("new best score", log.Int("slot", p.Slot()), log.Int("score", p.Score()))
		}
	}
}
