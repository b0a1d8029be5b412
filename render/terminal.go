package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/synapse/core"
)

// TerminalSurface draws into a canvas and flushes it to a tcell screen
type TerminalSurface struct {
	*Canvas
	screen    tcell.Screen
	truecolor bool
	palette   []tcell.Color
}

// NewTerminalSurface sizes a canvas to the screen; one cell spans cellW×cellH scene units
// Without truecolor, colors snap to the 256-color palette
func NewTerminalSurface(screen tcell.Screen, cellW, cellH float64, truecolor bool) *TerminalSurface {
	cols, rows := screen.Size()
	t := &TerminalSurface{
		Canvas:    NewCanvas(cols, rows, cellW, cellH),
		screen:    screen,
		truecolor: truecolor,
	}
	if !truecolor {
		t.palette = make([]tcell.Color, 256)
		for i := range t.palette {
			t.palette[i] = tcell.PaletteColor(i)
		}
	}
	return t
}

// Sync picks up a screen size change, returns true when the canvas was resized
func (t *TerminalSurface) Sync() bool {
	cols, rows := t.screen.Size()
	if c, r := t.Grid(); c == cols && r == rows {
		return false
	}
	t.Resize(cols, rows)
	return true
}

func (t *TerminalSurface) color(c core.RGB) tcell.Color {
	rgb := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	if t.truecolor {
		return rgb
	}
	return tcell.FindColor(rgb, t.palette)
}

// Flush copies every cell to the screen and shows it
func (t *TerminalSurface) Flush() {
	t.Range(func(col, row int, cell Cell) {
		if cell.Cont {
			return
		}
		r := cell.Rune
		if r == 0 {
			r = ' '
		}
		style := tcell.StyleDefault.Foreground(t.color(cell.Fg)).Background(t.color(cell.Bg))
		t.screen.SetContent(col, row, r, nil, style)
	})
	t.screen.Show()
}
