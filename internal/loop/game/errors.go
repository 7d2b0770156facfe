package game

import "errors"

// Session errors. Control methods also surface tick.ErrStopped once the
// session has stopped.
var (
	ErrNotStarted  = errors.New("session not started")
	ErrUnknownSlot = errors.New("unknown player slot")
	ErrInterrupted = errors.New("simulation interrupted")
	ErrNoPlayers   = errors.New("catalog defines no player subject types")
)
