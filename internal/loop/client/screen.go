package client

import (
	"fmt"
	"strings"

	"github.com/tomz197/skyfight/internal/draw"
	"github.com/tomz197/skyfight/internal/loop/config"
	"github.com/tomz197/skyfight/internal/loop/game"
)

var titleArt = []string{
	` ___ _  ____   _____ ___ ___ _  _ _____ `,
	`/ __| |/ /\ \ / / __|_ _/ __| || |_   _|`,
	`\__ \ ' <  \ V /| _| | | (_ | __ | | |  `,
	`|___/_|\_\  |_| |_| |___\___|_||_| |_|  `,
}

var controlLines = []string{
	"P1  W A S D . . . . Move",
	"    SPACE . . . . . Fire",
	"P2  Arrows / IJKL . Move",
	"    ENTER . . . . . Fire",
	"P . . . . . . . .  Pause",
	"Q . . . . . . . . . Quit",
}

// drawFrame renders the world and the overlay of the current phase.
func (c *Client) drawFrame() error {
	c.updateScreen()

	c.canvas.Clear()
	frame := c.session.Render(c.painter)

	// Phase transitions clear the terminal so overlays don't persist.
	phase := phaseOf(frame)
	if phase != c.view.phase {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
		c.view.phase = phase
	}

	c.canvas.Render(c.chunkWriter)
	c.canvas.RenderBorder(c.chunkWriter)
	c.drawHUD(frame)

	centerX := c.canvas.TerminalWidth() / 2
	centerY := c.canvas.TerminalHeight() / 2
	switch phase {
	case PhaseTitle:
		c.drawTitleScreen(centerX, centerY)
	case PhasePaused:
		c.drawBanner(centerX, centerY, "PAUSED", "P to resume  Q to quit")
	case PhaseGameOver:
		c.drawGameOver(centerX, centerY, frame)
	}

	return c.chunkWriter.Flush()
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual cells
// outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution,
// reserves the HUD rows and computes the centering offset of the render
// area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight) - config.HUDRows
	renderWidth = max(renderWidth, 1)
	renderHeight = max(renderHeight, 1)
	offsetCol = max((termWidth-renderWidth)/2, 0)
	offsetRow = max((termHeight-renderHeight-config.HUDRows)/2, 0)
	return
}

// hudLine formats the status line: game time, run state and one block per
// human slot.
func hudLine(f game.Frame) string {
	var b strings.Builder
	fmt.Fprintf(&b, "T %7.2fs  %-7s", float64(f.Time)/1000, strings.ToUpper(f.State.String()))
	for _, p := range f.Players {
		status := fmt.Sprintf("HP %-4d", p.HP)
		if !p.Alive {
			status = "DOWN   "
		}
		fmt.Fprintf(&b, "  P%d %s Score %-6d Hits %-4d", p.Slot, status, p.Score, p.Hits)
	}
	return b.String()
}

// drawHUD writes the status line under the playfield, padded to the full
// width so shrinking values leave nothing behind.
func (c *Client) drawHUD(f game.Frame) {
	width := c.canvas.TerminalWidth()
	line := hudLine(f)
	if len(line) > width {
		line = line[:width]
	}
	c.chunkWriter.WriteColorAt(1, c.canvas.TerminalHeight()+1, draw.ColorBrightWhite, fmt.Sprintf("%-*s", width, line))
}

func (c *Client) drawTitleScreen(centerX, centerY int) {
	cw := c.chunkWriter
	titleWidth := len(titleArt[0])
	startY := centerY - (len(titleArt)+len(controlLines)+4)/2
	for i, line := range titleArt {
		cw.WriteColorAt(centerX-titleWidth/2, startY+i, draw.ColorBrightCyan, line)
	}

	controlsY := startY + len(titleArt) + 1
	for i, line := range controlLines {
		cw.WriteAt(centerX-len(line)/2, controlsY+i, line)
	}

	prompt := ">>  Press P to start  <<"
	cw.WriteAt(centerX-len(prompt)/2, controlsY+len(controlLines)+1, prompt)
}

func (c *Client) drawBanner(centerX, centerY int, title, hint string) {
	cw := c.chunkWriter
	cw.WriteColorAt(centerX-len(title)/2, centerY-1, draw.ColorYellow, title)
	cw.WriteAt(centerX-len(hint)/2, centerY+1, hint)
}

func (c *Client) drawGameOver(centerX, centerY int, f game.Frame) {
	c.drawBanner(centerX, centerY-len(f.Players), "GAME OVER", "R to play again  Q to quit")
	for i, p := range f.Players {
		line := fmt.Sprintf("P%d  score %d  hits %d", p.Slot, p.Score, p.Hits)
		c.chunkWriter.WriteAt(centerX-len(line)/2, centerY+2+i, line)
	}
}
