// Package render draws scene snapshots onto cell-grid surfaces.
//
// Surfaces take scene coordinates; the canvas maps them onto terminal cells with
// 2x2 quadrant sub-cell resolution for strokes.
package render

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/synapse/core"
)

// Surface is the drawing target of the scene renderer
type Surface interface {
	// Size returns the drawable area in scene units
	Size() (float64, float64)
	// Clear resets every cell to the background
	Clear()
	// Line strokes a segment between two scene points
	Line(a, b r2.Vec, c core.RGB, alpha float64)
	// Dot draws a vertex with a glow of the given radius in scene units
	Dot(center r2.Vec, radius float64, c core.RGB, alpha float64)
	// Text writes an overlay string at a cell position
	Text(col, row int, s string, c core.RGB)
}

// Glyphs selects the character set used for strokes and vertices
type Glyphs uint8

const (
	// GlyphQuadrant uses Unicode quadrant blocks for 2x2 sub-cell strokes
	GlyphQuadrant Glyphs = iota
	// GlyphASCII uses slope characters, one per cell
	GlyphASCII
)

// ParseGlyphs maps a config name to a glyph set
func ParseGlyphs(name string) (Glyphs, error) {
	switch name {
	case "", "quadrant":
		return GlyphQuadrant, nil
	case "ascii":
		return GlyphASCII, nil
	default:
		return GlyphQuadrant, fmt.Errorf("unknown glyph set %q", name)
	}
}

// quadrantChars maps a 2x2 bitmap to its block character
// bit0=UL, bit1=UR, bit2=LL, bit3=LR
var quadrantChars = [16]rune{
	' ', '▘', '▝', '▀',
	'▖', '▌', '▞', '▛',
	'▗', '▚', '▐', '▜',
	'▄', '▙', '▟', '█',
}
