package draw

import (
	"unicode/utf8"

	"github.com/tomz197/skyfight/internal/object"
)

// Glyphs for bodies without a usable draw id and for wrecks.
const (
	GlyphUnknown = '?'
	GlyphWreck   = 'x'
	GlyphBurst   = '*'
)

// discRadius is the logical radius from which a body is painted as a
// filled disc instead of a single cell.
const discRadius = 3.0

// Painter paints simulation entities onto a Canvas. It satisfies the
// session's renderer contract.
type Painter struct {
	canvas *Canvas
}

func NewPainter(c *Canvas) *Painter {
	return &Painter{canvas: c}
}

// Paint draws e at its draw position. Dead players show a wreck, dead
// enemies and shots a burst while their death animation lasts.
func (p *Painter) Paint(e object.Drawable, _ int64) {
	x, y := e.DrawPosition()
	ch := Glyph(e.DrawID())
	color := ForceColor(e.Force())

	if e.IsDead() {
		color = ColorDim
		ch = GlyphBurst
		if e.Force() == object.ForcePlayer {
			ch = GlyphWreck
		}
		p.canvas.Set(x, y, ch, color)
		return
	}

	if e.Radius() >= discRadius {
		p.canvas.Disc(x, y, e.Radius()/2, ch, color)
		return
	}
	p.canvas.Set(x, y, ch, color)
}

// Glyph returns the first rune of a draw id.
func Glyph(drawID string) rune {
	r, _ := utf8.DecodeRuneInString(drawID)
	if r == utf8.RuneError {
		return GlyphUnknown
	}
	return r
}

// ForceColor returns the color entities of force f are painted in.
func ForceColor(f object.Force) string {
	switch f {
	case object.ForcePlayer:
		return ColorGreen
	case object.ForceEnemy:
		return ColorRed
	default:
		return ColorYellow
	}
}
