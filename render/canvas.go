package render

import (
	"math"

	"github.com/mattn/go-runewidth"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/vmath"
)

// Cell is one character cell of the canvas
type Cell struct {
	Rune rune
	Fg   core.RGB
	Bg   core.RGB
	// Cont marks the trailing half of a wide rune
	Cont bool

	quads uint8
}

// Canvas is an in-memory cell grid implementing Surface
// Scene units map to cells through a fixed cell size
type Canvas struct {
	cells   []Cell
	touched []bool
	cols    int
	rows    int

	cellW, cellH float64
	bg           core.RGB
	glyphs       Glyphs
}

// NewCanvas creates a cols×rows canvas where one cell spans cellW×cellH scene units
func NewCanvas(cols, rows int, cellW, cellH float64) *Canvas {
	if cellW <= 0 {
		cellW = 1
	}
	if cellH <= 0 {
		cellH = 1
	}
	c := &Canvas{cellW: cellW, cellH: cellH}
	c.Resize(cols, rows)
	return c
}

// SetGlyphs changes the stroke character set
func (c *Canvas) SetGlyphs(g Glyphs) {
	c.glyphs = g
}

// SetBackground changes the clear color, applied on the next Clear
func (c *Canvas) SetBackground(bg core.RGB) {
	c.bg = bg
}

// Resize adjusts dimensions, reallocating only when capacity is insufficient
func (c *Canvas) Resize(cols, rows int) {
	cols, rows = max(cols, 0), max(rows, 0)
	size := cols * rows
	if cap(c.cells) < size {
		c.cells = make([]Cell, size)
		c.touched = make([]bool, size)
	} else {
		c.cells = c.cells[:size]
		c.touched = c.touched[:size]
	}
	c.cols, c.rows = cols, rows
	c.Clear()
}

// Clear resets all cells using exponential copy
func (c *Canvas) Clear() {
	if len(c.cells) == 0 {
		return
	}
	c.cells[0] = Cell{Fg: c.bg, Bg: c.bg}
	c.touched[0] = false
	for filled := 1; filled < len(c.cells); filled *= 2 {
		copy(c.cells[filled:], c.cells[:filled])
	}
	for filled := 1; filled < len(c.touched); filled *= 2 {
		copy(c.touched[filled:], c.touched[:filled])
	}
}

// Grid returns the canvas size in cells
func (c *Canvas) Grid() (int, int) {
	return c.cols, c.rows
}

// CellSize returns the scene units spanned by one cell
func (c *Canvas) CellSize() (float64, float64) {
	return c.cellW, c.cellH
}

// Size returns the canvas extent in scene units
func (c *Canvas) Size() (float64, float64) {
	return float64(c.cols) * c.cellW, float64(c.rows) * c.cellH
}

// Cell returns the cell at (col, row)
func (c *Canvas) Cell(col, row int) (Cell, bool) {
	if !c.inBounds(col, row) {
		return Cell{}, false
	}
	return c.cells[row*c.cols+col], true
}

// Touched reports whether anything was drawn at (col, row) since the last Clear
func (c *Canvas) Touched(col, row int) bool {
	return c.inBounds(col, row) && c.touched[row*c.cols+col]
}

// Range calls fn for every cell in row-major order
func (c *Canvas) Range(fn func(col, row int, cell Cell)) {
	for i := range c.cells {
		fn(i%c.cols, i/c.cols, c.cells[i])
	}
}

func (c *Canvas) inBounds(col, row int) bool {
	return col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

func (c *Canvas) at(col, row int) *Cell {
	i := row*c.cols + col
	c.touched[i] = true
	return &c.cells[i]
}

// Line strokes a segment, brightening the foreground with a max blend
func (c *Canvas) Line(a, b r2.Vec, color core.RGB, alpha float64) {
	if alpha <= 0 || !vmath.IsFinite(a.X+a.Y+b.X+b.Y) {
		return
	}
	ink := c.bg.Blend(color, alpha)

	if c.glyphs == GlyphASCII {
		c.lineASCII(a, b, ink)
		return
	}

	// Trace at 2x resolution and accumulate quadrant bits per cell
	tr := vmath.NewCellTraverser(a.X/c.cellW*2, a.Y/c.cellH*2, b.X/c.cellW*2, b.Y/c.cellH*2)
	for tr.Next() {
		sx, sy := tr.Pos()
		if sx < 0 || sy < 0 {
			continue
		}
		col, row := sx>>1, sy>>1
		if !c.inBounds(col, row) {
			continue
		}
		cell := c.at(col, row)
		if cell.Rune != 0 && cell.quads == 0 {
			// Vertex or text already owns the cell
			cell.Fg = cell.Fg.Max(ink)
			continue
		}
		cell.quads |= 1 << ((sy&1)*2 + sx&1)
		cell.Rune = quadrantChars[cell.quads]
		cell.Fg = cell.Fg.Max(ink)
	}
}

func (c *Canvas) lineASCII(a, b r2.Vec, ink core.RGB) {
	ax, ay := a.X/c.cellW, a.Y/c.cellH
	bx, by := b.X/c.cellW, b.Y/c.cellH
	dx, dy := bx-ax, by-ay

	var glyph rune
	switch {
	case math.Abs(dy) < 0.5*math.Abs(dx):
		glyph = '-'
	case math.Abs(dx) < 0.5*math.Abs(dy):
		glyph = '|'
	case dx*dy > 0:
		glyph = '\\'
	default:
		glyph = '/'
	}

	tr := vmath.NewCellTraverser(ax, ay, bx, by)
	for tr.Next() {
		col, row := tr.Pos()
		if !c.inBounds(col, row) {
			continue
		}
		cell := c.at(col, row)
		if cell.Rune == 0 {
			cell.Rune = glyph
		}
		cell.Fg = cell.Fg.Max(ink)
	}
}

// Dot draws a vertex glyph in the center cell and tints the background of cells within radius
func (c *Canvas) Dot(center r2.Vec, radius float64, color core.RGB, alpha float64) {
	if alpha <= 0 || !vmath.IsFinite(center.X+center.Y) {
		return
	}
	col := int(math.Floor(center.X / c.cellW))
	row := int(math.Floor(center.Y / c.cellH))

	if radius > c.cellW || radius > c.cellH {
		c.glow(center, radius, color, alpha)
	}

	if !c.inBounds(col, row) {
		return
	}
	cell := c.at(col, row)
	cell.quads = 0
	cell.Cont = false
	if c.glyphs == GlyphASCII {
		cell.Rune = 'o'
	} else {
		cell.Rune = '●'
	}
	cell.Fg = c.bg.Blend(color, alpha)
}

func (c *Canvas) glow(center r2.Vec, radius float64, color core.RGB, alpha float64) {
	c0 := int(math.Floor((center.X - radius) / c.cellW))
	c1 := int(math.Floor((center.X + radius) / c.cellW))
	r0 := int(math.Floor((center.Y - radius) / c.cellH))
	r1 := int(math.Floor((center.Y + radius) / c.cellH))

	for row := max(r0, 0); row <= min(r1, c.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, c.cols-1); col++ {
			mid := r2.Vec{X: (float64(col) + 0.5) * c.cellW, Y: (float64(row) + 0.5) * c.cellH}
			d := vmath.Distance(mid, center)
			if d >= radius {
				continue
			}
			cell := c.at(col, row)
			cell.Bg = cell.Bg.Max(c.bg.Blend(color, alpha*0.5*(1-d/radius)))
		}
	}
}

// Text writes s starting at (col, row); wide runes take two cells
func (c *Canvas) Text(col, row int, s string, color core.RGB) {
	if row < 0 || row >= c.rows {
		return
	}
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > c.cols {
			return
		}
		if col >= 0 {
			cell := c.at(col, row)
			*cell = Cell{Rune: r, Fg: color, Bg: cell.Bg}
			if w == 2 {
				next := c.at(col+1, row)
				*next = Cell{Fg: color, Bg: next.Bg, Cont: true}
			}
		}
		col += w
	}
}
