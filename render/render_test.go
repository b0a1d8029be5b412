package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/graph"
	"github.com/lixenwraith/synapse/lightning"
	"github.com/lixenwraith/synapse/scene"
	"github.com/lixenwraith/synapse/status"
)

func cellAt(t *testing.T, c *Canvas, col, row int) Cell {
	t.Helper()
	cell, ok := c.Cell(col, row)
	require.True(t, ok, "cell (%d,%d) out of bounds", col, row)
	return cell
}

func TestQuadrantHorizontalLine(t *testing.T) {
	c := NewCanvas(20, 5, 8, 16)
	c.Line(r2.Vec{X: 0, Y: 4}, r2.Vec{X: 80, Y: 4}, core.RGBWhite, 1)

	for col := 0; col < 10; col++ {
		cell := cellAt(t, c, col, 0)
		assert.Equal(t, '▀', cell.Rune, "col %d", col)
		assert.Equal(t, core.RGBWhite, cell.Fg)
	}
	assert.Equal(t, '▘', cellAt(t, c, 10, 0).Rune)
	assert.False(t, c.Touched(11, 0))
	assert.False(t, c.Touched(0, 1))
}

func TestQuadrantVerticalLine(t *testing.T) {
	c := NewCanvas(5, 5, 8, 16)
	c.Line(r2.Vec{X: 12, Y: 0}, r2.Vec{X: 12, Y: 79}, core.RGBWhite, 1)
	for row := 0; row < 5; row++ {
		assert.Equal(t, '▐', cellAt(t, c, 1, row).Rune, "row %d", row)
	}
}

func TestLineAlphaBlendsOverBackground(t *testing.T) {
	c := NewCanvas(4, 4, 8, 16)
	c.SetBackground(core.RGBBlack)
	c.Clear()
	c.Line(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 31, Y: 0}, core.RGB{R: 200, G: 100, B: 0}, 0.5)
	assert.Equal(t, core.RGB{R: 100, G: 50, B: 0}, cellAt(t, c, 0, 0).Fg)

	c.Clear()
	c.Line(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 31, Y: 0}, core.RGBWhite, 0)
	assert.False(t, c.Touched(0, 0))
}

func TestLineClipsOutsideCanvas(t *testing.T) {
	c := NewCanvas(4, 4, 8, 16)
	assert.NotPanics(t, func() {
		c.Line(r2.Vec{X: -50, Y: -50}, r2.Vec{X: 100, Y: 200}, core.RGBWhite, 1)
	})
}

func TestASCIISlopes(t *testing.T) {
	tests := []struct {
		name string
		a, b r2.Vec
		want rune
	}{
		{"horizontal", r2.Vec{X: 0, Y: 8}, r2.Vec{X: 60, Y: 8}, '-'},
		{"vertical", r2.Vec{X: 4, Y: 0}, r2.Vec{X: 4, Y: 70}, '|'},
		{"falling", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 32, Y: 64}, '\\'},
		{"rising", r2.Vec{X: 0, Y: 64}, r2.Vec{X: 32, Y: 0}, '/'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(10, 10, 8, 16)
			c.SetGlyphs(GlyphASCII)
			c.Line(tt.a, tt.b, core.RGBWhite, 1)
			col, row := int(tt.a.X/8), int(tt.a.Y/16)
			assert.Equal(t, tt.want, cellAt(t, c, col, row).Rune)
		})
	}
}

func TestDotAndGlow(t *testing.T) {
	c := NewCanvas(10, 10, 8, 16)
	c.Dot(r2.Vec{X: 44, Y: 88}, 40, core.RGB{R: 200, G: 200, B: 200}, 1)

	center := cellAt(t, c, 5, 5)
	assert.Equal(t, '●', center.Rune)
	assert.Equal(t, core.RGB{R: 200, G: 200, B: 200}, center.Fg)

	neighbor := cellAt(t, c, 4, 5)
	assert.Equal(t, rune(0), neighbor.Rune)
	assert.Greater(t, neighbor.Bg.R, uint8(0))
	assert.False(t, c.Touched(0, 0))
}

func TestLineKeepsVertexGlyph(t *testing.T) {
	c := NewCanvas(10, 2, 8, 16)
	c.Dot(r2.Vec{X: 20, Y: 4}, 1, core.RGBWhite, 1)
	c.Line(r2.Vec{X: 0, Y: 4}, r2.Vec{X: 79, Y: 4}, core.RGBWhite, 1)
	assert.Equal(t, '●', cellAt(t, c, 2, 0).Rune)
}

func TestTextWideRunes(t *testing.T) {
	c := NewCanvas(10, 1, 8, 16)
	c.Text(0, 0, "a世b", core.RGBWhite)

	assert.Equal(t, 'a', cellAt(t, c, 0, 0).Rune)
	assert.Equal(t, '世', cellAt(t, c, 1, 0).Rune)
	assert.True(t, cellAt(t, c, 2, 0).Cont)
	assert.Equal(t, 'b', cellAt(t, c, 3, 0).Rune)
}

func TestTextTruncatesAtEdge(t *testing.T) {
	c := NewCanvas(3, 1, 8, 16)
	c.Text(0, 0, "abcdef", core.RGBWhite)
	assert.Equal(t, 'c', cellAt(t, c, 2, 0).Rune)
	c.Text(0, 5, "x", core.RGBWhite)
}

func TestResizeAndClear(t *testing.T) {
	c := NewCanvas(10, 10, 8, 16)
	c.Text(0, 0, "hi", core.RGBWhite)
	c.Resize(4, 3)

	cols, rows := c.Grid()
	assert.Equal(t, 4, cols)
	assert.Equal(t, 3, rows)
	w, h := c.Size()
	assert.Equal(t, 32.0, w)
	assert.Equal(t, 48.0, h)
	assert.False(t, c.Touched(0, 0))

	_, ok := c.Cell(4, 0)
	assert.False(t, ok)
}

func TestParseGlyphs(t *testing.T) {
	g, err := ParseGlyphs("ascii")
	require.NoError(t, err)
	assert.Equal(t, GlyphASCII, g)

	g, err = ParseGlyphs("")
	require.NoError(t, err)
	assert.Equal(t, GlyphQuadrant, g)

	_, err = ParseGlyphs("braille")
	assert.Error(t, err)
}

func testSnapshot() scene.Snapshot {
	return scene.Snapshot{
		Width:  160,
		Height: 160,
		Particles: []scene.ParticleView{
			{Pos: r2.Vec{X: 12, Y: 24}},
			{Pos: r2.Vec{X: 140, Y: 24}, Pulse: 1},
			{Pos: r2.Vec{X: 140, Y: 140}},
		},
		Edges: []graph.Edge{{I: 0, J: 1, Activity: 0.5}},
		Lightning: []lightning.Segment{
			{Nodes: []int{1, 2}, Color: core.RGBWhite, Alpha: 1},
		},
	}
}

func TestDrawSnapshot(t *testing.T) {
	c := NewCanvas(20, 10, 8, 16)
	st := DefaultStyle()
	Draw(c, testSnapshot(), st)

	assert.Equal(t, '●', cellAt(t, c, 1, 1).Rune)
	assert.Equal(t, '●', cellAt(t, c, 17, 1).Rune)
	assert.Equal(t, '●', cellAt(t, c, 17, 8).Rune)

	// Edge between the first two vertices
	assert.True(t, c.Touched(8, 1))
	// Lightning column
	assert.Equal(t, core.RGBWhite, cellAt(t, c, 17, 4).Fg)

	// Pulsed vertex takes the pulse color
	assert.Equal(t, st.Pulse, cellAt(t, c, 17, 1).Fg)
}

func TestDrawSkipsStaleIndices(t *testing.T) {
	snap := testSnapshot()
	snap.Edges = append(snap.Edges, graph.Edge{I: 1, J: 9})
	snap.Lightning = append(snap.Lightning, lightning.Segment{Nodes: []int{0, 7}, Alpha: 1})
	assert.NotPanics(t, func() { Draw(NewCanvas(20, 10, 8, 16), snap, DefaultStyle()) })
}

func TestDrawStatus(t *testing.T) {
	reg := status.NewRegistry()
	reg.Counters.Get("a").Store(3)
	c := NewCanvas(20, 2, 8, 16)
	DrawStatus(c, reg, 1, DefaultStyle())
	assert.Equal(t, 'a', cellAt(t, c, 0, 1).Rune)
	assert.Equal(t, '3', cellAt(t, c, 2, 1).Rune)
}

func TestTerminalSurfaceFlush(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(20, 10)

	ts := NewTerminalSurface(screen, 8, 16, true)
	cols, rows := ts.Grid()
	require.Equal(t, 20, cols)
	require.Equal(t, 10, rows)

	ts.Dot(r2.Vec{X: 12, Y: 24}, 1, core.RGB{R: 255, G: 0, B: 0}, 1)
	ts.Flush()

	r, _, style, _ := screen.GetContent(1, 1)
	assert.Equal(t, '●', r)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)

	r, _, _, _ = screen.GetContent(0, 0)
	assert.Equal(t, ' ', r)

	assert.False(t, ts.Sync())
	screen.SetSize(30, 12)
	assert.True(t, ts.Sync())
	cols, _ = ts.Grid()
	assert.Equal(t, 30, cols)
}

func TestTerminalSurfacePalette(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(4, 4)

	ts := NewTerminalSurface(screen, 8, 16, false)
	assert.Len(t, ts.palette, 256)
	c := ts.color(core.RGB{R: 255, G: 0, B: 0})
	assert.False(t, c.IsRGB())
}
