// Package input turns raw terminal bytes into key press and release events.
package input

import (
	"bufio"
	"context"
	"io"
	"time"
)

// Key is a decoded key code. Printable keys use their lowercase rune;
// arrows use negative codes.
type Key rune

const (
	KeyNone    Key = 0
	KeyUp      Key = -1
	KeyDown    Key = -2
	KeyRight   Key = -3
	KeyLeft    Key = -4
	KeyEnter   Key = '\r'
	KeySpace   Key = ' '
	KeyEscape  Key = '\x1b'
	KeyQuit    Key = 'q'
	KeyPause   Key = 'p'
	KeyRestart Key = 'r'
)

// IsControl reports whether k drives the session rather than a player.
func (k Key) IsControl() bool {
	return k == KeyQuit || k == KeyPause || k == KeyRestart
}

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyRight:
		return "right"
	case KeyLeft:
		return "left"
	case KeyEnter:
		return "enter"
	case KeySpace:
		return "space"
	case KeyEscape:
		return "escape"
	case KeyNone:
		return "none"
	default:
		return string(rune(k))
	}
}

// Decode parses a chunk of terminal bytes into keys. CSI arrow sequences
// (ESC [ A..D) become arrow keys, letters are lowercased and both line
// endings map to KeyEnter.
func Decode(buf []byte) []Key {
	keys := make([]Key, 0, len(buf))
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			if k, ok := arrowKey(buf[i+2]); ok {
				keys = append(keys, k)
				i += 2
				continue
			}
		}

		switch {
		case b == '\n' || b == '\r':
			keys = append(keys, KeyEnter)
		case b >= 'A' && b <= 'Z':
			keys = append(keys, Key(b-'A'+'a'))
		default:
			keys = append(keys, Key(b))
		}
	}
	return keys
}

func arrowKey(b byte) (Key, bool) {
	switch b {
	case 'A':
		return KeyUp, true
	case 'B':
		return KeyDown, true
	case 'C':
		return KeyRight, true
	case 'D':
		return KeyLeft, true
	}
	return KeyNone, false
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch chan byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{ch: make(chan byte, 128)}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Drain returns all bytes available right now without blocking. ok is
// false once the underlying reader has ended.
func (s *Stream) Drain() (buf []byte, ok bool) {
	for {
		select {
		case b, open := <-s.ch:
			if !open {
				return buf, false
			}
			buf = append(buf, b)
		default:
			return buf, true
		}
	}
}

// Sink receives key transitions.
type Sink interface {
	PressKey(k Key) error
	ReleaseKey(k Key) error
}

// Tracker converts a terminal's repeated key bytes into press and release
// transitions. Terminals never report key-up, so a key counts as held
// until hold has passed without seeing it again.
type Tracker struct {
	hold     time.Duration
	lastSeen map[Key]time.Time
}

// NewTracker creates a tracker with the given hold window.
func NewTracker(hold time.Duration) *Tracker {
	return &Tracker{hold: hold, lastSeen: make(map[Key]time.Time)}
}

// Seen records keys observed at now and returns those that were not held.
func (t *Tracker) Seen(keys []Key, now time.Time) (pressed []Key) {
	for _, k := range keys {
		if _, held := t.lastSeen[k]; !held {
			pressed = append(pressed, k)
		}
		t.lastSeen[k] = now
	}
	return pressed
}

// Expire forgets keys not seen within the hold window and returns them.
func (t *Tracker) Expire(now time.Time) (released []Key) {
	for k, seen := range t.lastSeen {
		if now.Sub(seen) >= t.hold {
			released = append(released, k)
			delete(t.lastSeen, k)
		}
	}
	return released
}

// Held reports whether k is currently held.
func (t *Tracker) Held(k Key) bool {
	_, ok := t.lastSeen[k]
	return ok
}

// Pump polls the stream every interval, hands control keys to control
// and forwards every other key's transitions to sink. It returns
// io.EOF when the stream ends, the first sink or control error, or
// ctx.Err().
func Pump(ctx context.Context, s *Stream, t *Tracker, interval time.Duration, sink Sink, control func(Key) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			buf, ok := s.Drain()

			var game []Key
			for _, k := range Decode(buf) {
				if k.IsControl() {
					if err := control(k); err != nil {
						return err
					}
					continue
				}
				game = append(game, k)
			}

			for _, k := range t.Seen(game, now) {
				if err := sink.PressKey(k); err != nil {
					return err
				}
			}
			for _, k := range t.Expire(now) {
				if err := sink.ReleaseKey(k); err != nil {
					return err
				}
			}

			if !ok {
				return io.EOF
			}
		}
	}
}
