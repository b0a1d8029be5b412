package lightning

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/synapse/core"
)

// Palette is one color variation: start while revealing, peak at the reveal/fade boundary, end when gone
type Palette struct {
	Start colorful.Color
	Peak  colorful.Color
	End   colorful.Color
}

// ParsePalette builds a palette from #rrggbb strings
func ParsePalette(start, peak, end string) (Palette, error) {
	var p Palette
	var err error
	if p.Start, err = colorful.Hex(start); err != nil {
		return Palette{}, fmt.Errorf("start color %q: %w", start, err)
	}
	if p.Peak, err = colorful.Hex(peak); err != nil {
		return Palette{}, fmt.Errorf("peak color %q: %w", peak, err)
	}
	if p.End, err = colorful.Hex(end); err != nil {
		return Palette{}, fmt.Errorf("end color %q: %w", end, err)
	}
	return p, nil
}

// DefaultPaletteHex lists the stock variations as start, peak, end
var DefaultPaletteHex = [][3]string{
	{"#7c3aed", "#f5f3ff", "#d97706"},
	{"#6d28d9", "#ede9fe", "#b45309"},
	{"#8b5cf6", "#ffffff", "#f59e0b"},
}

// DefaultPalettes are purple-to-white-to-amber variations
func DefaultPalettes() []Palette {
	out := make([]Palette, len(DefaultPaletteHex))
	for i, h := range DefaultPaletteHex {
		out[i] = mustPalette(h[0], h[1], h[2])
	}
	return out
}

func mustPalette(start, peak, end string) Palette {
	p, err := ParsePalette(start, peak, end)
	if err != nil {
		panic(err)
	}
	return p
}

// toRGB rounds a color to 8-bit channels
func toRGB(c colorful.Color) core.RGB {
	r, g, b := c.Clamped().RGB255()
	return core.RGB{R: r, G: g, B: b}
}

// ColorAt returns the pure palette color at strike progress in [0, 1]
// The propagation share of the timeline blends start→peak, the fade share peak→end
func (c *Controller) ColorAt(progress, variation float64) core.RGB {
	pal := c.palette(variation)
	total := c.cfg.PropagationDuration + c.cfg.FadeDuration
	if total <= 0 {
		return toRGB(pal.End)
	}

	elapsed := math.Max(0, math.Min(1, progress)) * total
	if elapsed < c.cfg.PropagationDuration {
		return toRGB(pal.Start.BlendRgb(pal.Peak, elapsed/c.cfg.PropagationDuration))
	}
	if c.cfg.FadeDuration <= 0 {
		return toRGB(pal.Peak)
	}
	return toRGB(pal.Peak.BlendRgb(pal.End, (elapsed-c.cfg.PropagationDuration)/c.cfg.FadeDuration))
}

// SegmentColor is ColorAt with brightness scaled by 0.3 + 0.7·energy
func (c *Controller) SegmentColor(progress, variation, energy float64) core.RGB {
	return c.ColorAt(progress, variation).Scale(0.3 + 0.7*math.Max(0, math.Min(1, energy)))
}

func (c *Controller) palette(variation float64) Palette {
	if len(c.cfg.Palettes) == 0 {
		return Palette{Start: colorful.Color{R: 1, G: 1, B: 1}, Peak: colorful.Color{R: 1, G: 1, B: 1}, End: colorful.Color{R: 1, G: 1, B: 1}}
	}
	idx := int(math.Floor(variation * float64(len(c.cfg.Palettes))))
	idx = max(0, min(idx, len(c.cfg.Palettes)-1))
	return c.cfg.Palettes[idx]
}
