// Package draw renders the simulation onto an ANSI terminal.
package draw

import (
	"io"
	"math"
	"strconv"
	"strings"
)

// Cell is one terminal character and its color.
type Cell struct {
	Ch    rune
	Color string
}

// Canvas is a grid of terminal cells that scales logical world coordinates
// onto the terminal. Render only emits cells that changed since the
// previous frame.
type Canvas struct {
	cols  int
	rows  int
	cells []Cell // Flat slice: [row * cols + col]
	prev  []Cell // What the terminal currently shows

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // cols / logicalWidth
	scaleY        float64 // rows / logicalHeight

	// 0-based terminal offsets for centering the render area when the
	// terminal exceeds the max resolution.
	offsetCol int
	offsetRow int

	forceRedraw bool
	renderBuf   strings.Builder
	numBuf      [20]byte
}

// NewScaledCanvas creates a canvas that maps logicalWidth×logicalHeight
// world units onto cols×rows terminal cells.
func NewScaledCanvas(cols, rows int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(cols, rows)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size. A size change forces a full redraw.
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols != c.cols || rows != c.rows {
		c.cells = make([]Cell, cols*rows)
		c.prev = make([]Cell, cols*rows)
		c.cols = cols
		c.rows = rows
		c.forceRedraw = true
	}
	c.scaleX = float64(cols) / c.logicalWidth
	c.scaleY = float64(rows) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

func (c *Canvas) OffsetCol() int { return c.offsetCol }
func (c *Canvas) OffsetRow() int { return c.offsetRow }
func (c *Canvas) TerminalWidth() int { return c.cols }
func (c *Canvas) TerminalHeight() int { return c.rows }

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// Clear empties the frame being built. The terminal is untouched until
// Render.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// At returns the cell at a 0-based terminal position.
func (c *Canvas) At(col, row int) Cell {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return Cell{}
	}
	return c.cells[row*c.cols+col]
}

func (c *Canvas) setCell(col, row int, cell Cell) {
	if col >= 0 && col < c.cols && row >= 0 && row < c.rows {
		c.cells[row*c.cols+col] = cell
	}
}

// LogicalToCell converts logical coordinates to a 0-based cell.
func (c *Canvas) LogicalToCell(x, y float64) (col, row int) {
	return int(math.Floor(x * c.scaleX)), int(math.Floor(y * c.scaleY))
}

// Set paints one cell at logical coordinates. Positions outside the
// canvas are ignored.
func (c *Canvas) Set(x, y float64, ch rune, color string) {
	col, row := c.LogicalToCell(x, y)
	c.setCell(col, row, Cell{Ch: ch, Color: color})
}

// Disc fills every cell whose center lies within r logical units of
// (x, y). The center cell is always painted.
func (c *Canvas) Disc(x, y, r float64, ch rune, color string) {
	cell := Cell{Ch: ch, Color: color}
	minCol, minRow := c.LogicalToCell(x-r, y-r)
	maxCol, maxRow := c.LogicalToCell(x+r, y+r)
	for row := minRow; row <= maxRow; row++ {
		cy := (float64(row) + 0.5) / c.scaleY
		for col := minCol; col <= maxCol; col++ {
			cx := (float64(col) + 0.5) / c.scaleX
			if (cx-x)*(cx-x)+(cy-y)*(cy-y) <= r*r {
				c.setCell(col, row, cell)
			}
		}
	}
	c.Set(x, y, ch, color)
}

// Render writes the changed cells to w.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()

	for row := 0; row < c.rows; row++ {
		offset := row * c.cols
		for col := 0; col < c.cols; col++ {
			cell := c.cells[offset+col]
			if !c.forceRedraw && cell == c.prev[offset+col] {
				continue
			}
			if c.forceRedraw && cell.Ch == 0 {
				continue // Terminal is already blank after a clear
			}
			c.writeCell(col, row, cell)
			c.prev[offset+col] = cell
		}
	}
	c.forceRedraw = false

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

func (c *Canvas) writeCell(col, row int, cell Cell) {
	buf := &c.renderBuf
	buf.WriteString("\033[")
	buf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1+c.offsetRow), 10))
	buf.WriteByte(';')
	buf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+1+c.offsetCol), 10))
	buf.WriteByte('H')

	if cell.Ch == 0 {
		buf.WriteByte(' ')
		return
	}
	if cell.Color != "" {
		buf.WriteString(cell.Color)
	}
	buf.WriteRune(cell.Ch)
	if cell.Color != "" {
		buf.WriteString(ColorReset)
	}
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.cols + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.rows + 1
	line := strings.Repeat("─", c.cols)

	var buf strings.Builder
	moveTo := func(row, col int) {
		buf.WriteString("\033[")
		buf.WriteString(strconv.Itoa(row))
		buf.WriteByte(';')
		buf.WriteString(strconv.Itoa(col))
		buf.WriteByte('H')
	}

	if hasV {
		corners := [2][2]string{{"┌", "┐"}, {"└", "┘"}}
		for i, row := range []int{top, bottom} {
			if hasH {
				moveTo(row, left)
				buf.WriteString(corners[i][0] + line + corners[i][1])
			} else {
				moveTo(row, c.offsetCol+1)
				buf.WriteString(line)
			}
		}
	}

	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.rows; row++ {
			moveTo(row, left)
			buf.WriteString("│")
			moveTo(row, right)
			buf.WriteString("│")
		}
	}

	io.WriteString(w, buf.String())
}
