package client

import (
	"github.com/tomz197/skyfight/internal/loop/game"
	"github.com/tomz197/skyfight/internal/loop/tick"
)

// Phase is what the client's screen shows.
type Phase int

const (
	PhaseNone     Phase = iota // Nothing drawn yet
	PhaseTitle                 // Session started but never resumed
	PhasePlaying               // Running
	PhasePaused                // Paused mid-game
	PhaseGameOver              // Stopped
)

// phaseOf derives the screen phase from a rendered frame.
func phaseOf(f game.Frame) Phase {
	switch f.State {
	case tick.Stopped:
		return PhaseGameOver
	case tick.Paused:
		if f.Time == 0 {
			return PhaseTitle
		}
		return PhasePaused
	default:
		return PhasePlaying
	}
}

// viewState is the per-client screen bookkeeping between frames.
type viewState struct {
	phase Phase // Phase of the last drawn frame
}

func newViewState() viewState {
	return viewState{phase: PhaseNone}
}
