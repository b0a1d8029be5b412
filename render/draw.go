package render

import (
	"github.com/lixenwraith/synapse/core"
	"github.com/lixenwraith/synapse/scene"
	"github.com/lixenwraith/synapse/status"
)

// Style holds the scene colors and vertex sizes in scene units
type Style struct {
	Background core.RGB
	Particle   core.RGB
	Pulse      core.RGB
	Edge       core.RGB
	EdgeActive core.RGB
	Overlay    core.RGB

	EdgeAlpha float64
	MinRadius float64
	MaxRadius float64
}

// DefaultStyle returns a dark violet theme
func DefaultStyle() Style {
	return Style{
		Background: core.RGB{R: 10, G: 8, B: 20},
		Particle:   core.RGB{R: 139, G: 92, B: 246},
		Pulse:      core.RGB{R: 245, G: 243, B: 255},
		Edge:       core.RGB{R: 76, G: 29, B: 149},
		EdgeActive: core.RGB{R: 196, G: 181, B: 253},
		Overlay:    core.RGB{R: 160, G: 160, B: 180},
		EdgeAlpha:  0.6,
		MinRadius:  4,
		MaxRadius:  24,
	}
}

// Draw paints one snapshot: edges, then lightning, then vertices on top
func Draw(s Surface, snap scene.Snapshot, st Style) {
	s.Clear()
	ps := snap.Particles

	for _, e := range snap.Edges {
		if e.I >= len(ps) || e.J >= len(ps) {
			continue
		}
		color := st.Edge.Blend(st.EdgeActive, e.Activity)
		s.Line(ps[e.I].Pos, ps[e.J].Pos, color, st.EdgeAlpha*(0.4+0.6*e.Activity))
	}

	for _, seg := range snap.Lightning {
		for k := 1; k < len(seg.Nodes); k++ {
			a, b := seg.Nodes[k-1], seg.Nodes[k]
			if a >= len(ps) || b >= len(ps) {
				continue
			}
			s.Line(ps[a].Pos, ps[b].Pos, seg.Color, seg.Alpha)
		}
	}

	for _, p := range ps {
		radius := st.MinRadius + (st.MaxRadius-st.MinRadius)*p.Pulse
		s.Dot(p.Pos, radius, st.Particle.Blend(st.Pulse, p.Pulse), 0.6+0.4*p.Pulse)
	}
}

// DrawStatus writes the registry as a single overlay line at row
func DrawStatus(s Surface, reg *status.Registry, row int, st Style) {
	s.Text(0, row, reg.String(), st.Overlay)
}
