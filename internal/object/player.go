package object

// Player owns subjects and accumulates their kills. It is not a body.
type Player struct {
	slot  int
	force Force
	hits  int
	score int
}

// NewPlayer creates the player for the given slot.
func NewPlayer(slot int, force Force) *Player {
	return &Player{slot: slot, force: force}
}

func (p *Player) Slot() int { return p.slot }
func (p *Player) Force() Force { return p.force }
func (p *Player) Hits() int { return p.hits }
func (p *Player) Score() int { return p.score }

// RecordKill credits one kill worth score points.
func (p *Player) RecordKill(score int) {
	p.hits++
	p.score += score
}
